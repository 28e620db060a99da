package engine

const arenaChunkSize = 256

// arena is an append-only value table shared by successive generations of one column
// Chunks never move once allocated, so a view captured earlier stays valid while
// later writes append past its end
type arena[T any] struct {
	chunks []*[arenaChunkSize]T
	size   int32
}

// arenaView is a frozen prefix of an arena
type arenaView[T any] struct {
	chunks []*[arenaChunkSize]T
	size   int32
}

func (a *arena[T]) push(v T) int32 {
	i := a.size
	c := int(i) / arenaChunkSize
	if c == len(a.chunks) {
		a.chunks = append(a.chunks, new([arenaChunkSize]T))
	}
	a.chunks[c][int(i)%arenaChunkSize] = v
	a.size++
	return i
}

// overwrite replaces slot i; callers only overwrite slots no published view covers
func (a *arena[T]) overwrite(i int32, v T) {
	a.chunks[int(i)/arenaChunkSize][int(i)%arenaChunkSize] = v
}

func (a *arena[T]) at(i int32) T {
	return a.chunks[int(i)/arenaChunkSize][int(i)%arenaChunkSize]
}

func (a *arena[T]) view() arenaView[T] {
	return arenaView[T]{chunks: a.chunks, size: a.size}
}

// truncate discards slots at and after mark, releasing their values
func (a *arena[T]) truncate(mark int32) {
	var zero T
	for i := mark; i < a.size; i++ {
		a.overwrite(i, zero)
	}
	a.size = mark
	a.chunks = a.chunks[:(int(mark)+arenaChunkSize-1)/arenaChunkSize]
}

func (v arenaView[T]) at(i int32) T {
	return v.chunks[int(i)/arenaChunkSize][int(i)%arenaChunkSize]
}
