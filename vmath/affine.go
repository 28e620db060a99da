package vmath

import "math"

// Affine is a 2D affine transform
// Maps (x, y) to (A*x + B*y + Tx, C*x + D*y + Ty)
type Affine struct {
	A, B, C, D float64
	Tx, Ty     float64
}

// Identity returns the identity transform
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Similarity builds scale, then rotation, then translation
func Similarity(translation Vec2, angle, scale float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		A: cos * scale, B: -sin * scale,
		C: sin * scale, D: cos * scale,
		Tx: translation.X, Ty: translation.Y,
	}
}

// Apply transforms point p
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.Tx,
		Y: m.C*p.X + m.D*p.Y + m.Ty,
	}
}

// Then returns the transform applying m first and n second
func (m Affine) Then(n Affine) Affine {
	return Affine{
		A:  n.A*m.A + n.B*m.C,
		B:  n.A*m.B + n.B*m.D,
		C:  n.C*m.A + n.D*m.C,
		D:  n.C*m.B + n.D*m.D,
		Tx: n.A*m.Tx + n.B*m.Ty + n.Tx,
		Ty: n.C*m.Tx + n.D*m.Ty + n.Ty,
	}
}
