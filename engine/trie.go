package engine

import "math/bits"

const (
	trieBits  = 5
	trieWidth = 1 << trieBits
	trieMask  = trieWidth - 1
)

// owner marks nodes allocated by one transaction; only that transaction writes them in place
// Non-zero size so distinct owners never share an address
type owner struct{ _ byte }

// trieNode is a 32-way node; internal nodes use kids, leaves (shift 0) use bitmap and vals
type trieNode[V any] struct {
	owner  *owner
	bitmap uint32
	kids   [trieWidth]*trieNode[V]
	vals   [trieWidth]V
}

// writable returns n itself when o owns it, otherwise a private copy owned by o
func (n *trieNode[V]) writable(o *owner) *trieNode[V] {
	if o != nil && n.owner == o {
		return n
	}
	c := *n
	c.owner = o
	return &c
}

// trie is a persistent map from uint64 keys to V with path copying
// The value is a small handle; copying it shares all structure
type trie[V any] struct {
	root  *trieNode[V]
	shift uint
	count int
}

func (t trie[V]) fits(k uint64) bool {
	top := t.shift + trieBits
	return top >= 64 || k>>top == 0
}

func (t trie[V]) get(k uint64) (V, bool) {
	var zero V
	if t.root == nil || !t.fits(k) {
		return zero, false
	}
	n := t.root
	for s := t.shift; s > 0; s -= trieBits {
		n = n.kids[(k>>s)&trieMask]
		if n == nil {
			return zero, false
		}
	}
	i := k & trieMask
	if n.bitmap&(1<<i) == 0 {
		return zero, false
	}
	return n.vals[i], true
}

// set returns a trie with k bound to v; nodes not owned by o are copied, never modified
func (t trie[V]) set(k uint64, v V, o *owner) trie[V] {
	if t.root == nil {
		t.root = &trieNode[V]{owner: o}
		t.shift = 0
	}
	for !t.fits(k) {
		r := &trieNode[V]{owner: o}
		r.kids[0] = t.root
		t.root = r
		t.shift += trieBits
	}

	t.root = t.root.writable(o)
	n := t.root
	for s := t.shift; s > 0; s -= trieBits {
		i := (k >> s) & trieMask
		c := n.kids[i]
		if c == nil {
			c = &trieNode[V]{owner: o}
		} else {
			c = c.writable(o)
		}
		n.kids[i] = c
		n = c
	}

	i := k & trieMask
	if n.bitmap&(1<<i) == 0 {
		n.bitmap |= 1 << i
		t.count++
	}
	n.vals[i] = v
	return t
}

// remove returns a trie without k; empty nodes are kept
func (t trie[V]) remove(k uint64, o *owner) trie[V] {
	if _, ok := t.get(k); !ok {
		return t
	}

	t.root = t.root.writable(o)
	n := t.root
	for s := t.shift; s > 0; s -= trieBits {
		i := (k >> s) & trieMask
		c := n.kids[i].writable(o)
		n.kids[i] = c
		n = c
	}

	i := k & trieMask
	var zero V
	n.bitmap &^= 1 << i
	n.vals[i] = zero
	t.count--
	return t
}

// each visits entries in ascending key order until fn returns false
func (t trie[V]) each(fn func(k uint64, v V) bool) {
	if t.root != nil {
		t.root.each(0, t.shift, fn)
	}
}

func (n *trieNode[V]) each(prefix uint64, shift uint, fn func(uint64, V) bool) bool {
	if shift == 0 {
		for b := n.bitmap; b != 0; b &= b - 1 {
			i := uint64(bits.TrailingZeros32(b))
			if !fn(prefix|i, n.vals[i]) {
				return false
			}
		}
		return true
	}
	for i, c := range n.kids {
		if c == nil {
			continue
		}
		if !c.each(prefix|uint64(i)<<shift, shift-trieBits, fn) {
			return false
		}
	}
	return true
}
