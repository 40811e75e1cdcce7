package main

import "math/rand"

// allKinds in table order.
var allKinds = [pieceKindCount]PieceKind{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

// newBag returns one shuffled 7-bag: every kind exactly once, order
// uniformly random.
func newBag(rng *rand.Rand) []PieceKind {
	bag := make([]PieceKind, pieceKindCount)
	copy(bag, allKinds[:])
	rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
	return bag
}

// pieceQueue feeds upcoming piece kinds. It starts with two bags so
// previews have depth and tops itself up whenever fewer than a full
// bag remains, so it can never run dry.
type pieceQueue struct {
	rng   *rand.Rand
	kinds []PieceKind
}

func newPieceQueue(rng *rand.Rand) *pieceQueue {
	q := &pieceQueue{rng: rng}
	q.kinds = append(q.kinds, newBag(rng)...)
	q.kinds = append(q.kinds, newBag(rng)...)
	return q
}

func (q *pieceQueue) Pop() PieceKind {
	kind := q.kinds[0]
	q.kinds = q.kinds[1:]
	q.refill()
	return kind
}

func (q *pieceQueue) refill() {
	for len(q.kinds) < pieceKindCount {
		q.kinds = append(q.kinds, newBag(q.rng)...)
	}
}

// Preview returns a copy of the first n queued kinds.
func (q *pieceQueue) Preview(n int) []PieceKind {
	if n > len(q.kinds) {
		n = len(q.kinds)
	}
	out := make([]PieceKind, n)
	copy(out, q.kinds[:n])
	return out
}

func (q *pieceQueue) Len() int {
	return len(q.kinds)
}
