package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagIsAlwaysAPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		bag := newBag(rng)
		require.Len(t, bag, pieceKindCount)
		var seen [pieceKindCount]int
		for _, kind := range bag {
			seen[kind]++
		}
		for kind, count := range seen {
			require.Equal(t, 1, count, "bag %d kind %s", i, PieceKind(kind))
		}
	}
}

func TestQueueStartsWithTwoBags(t *testing.T) {
	q := newPieceQueue(rand.New(rand.NewSource(2)))
	require.Equal(t, 2*pieceKindCount, q.Len())
	for _, half := range [][]PieceKind{q.kinds[:7], q.kinds[7:]} {
		var seen [pieceKindCount]int
		for _, kind := range half {
			seen[kind]++
		}
		for kind, count := range seen {
			assert.Equal(t, 1, count, "kind %s", PieceKind(kind))
		}
	}
}

func TestQueueNeverRunsDry(t *testing.T) {
	q := newPieceQueue(rand.New(rand.NewSource(3)))
	for i := 0; i < 200; i++ {
		q.Pop()
		require.GreaterOrEqual(t, q.Len(), pieceKindCount, "after pop %d", i)
	}
}

func TestQueueNoRepeatWithinSevenOfRefill(t *testing.T) {
	// Popping a full bag's worth from a fresh queue yields each kind
	// exactly once before any kind appears twice.
	q := newPieceQueue(rand.New(rand.NewSource(4)))
	var seen [pieceKindCount]int
	for i := 0; i < pieceKindCount; i++ {
		seen[q.Pop()]++
	}
	for kind, count := range seen {
		assert.Equal(t, 1, count, "kind %s", PieceKind(kind))
	}
}

func TestPreviewReturnsCopy(t *testing.T) {
	q := newPieceQueue(rand.New(rand.NewSource(5)))
	preview := q.Preview(3)
	require.Len(t, preview, 3)
	original := q.kinds[0]
	preview[0] = (preview[0] + 1) % pieceKindCount
	assert.Equal(t, original, q.kinds[0])
}

func TestPreviewClampedToQueueLength(t *testing.T) {
	q := newPieceQueue(rand.New(rand.NewSource(6)))
	assert.Len(t, q.Preview(100), q.Len())
}
