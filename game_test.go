package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGame returns a started game with a deterministic rng and a
// clock the test controls through the returned pointer.
func newTestGame(t *testing.T, seed int64) (*Game, *time.Time) {
	t.Helper()
	g := newGame(rand.New(rand.NewSource(seed)))
	now := time.Unix(1000, 0)
	g.clock = func() time.Time { return now }
	g.Start()
	require.Equal(t, StatusPlaying, g.Status())
	require.NotNil(t, g.active)
	return g, &now
}

// setActive replaces the falling piece with a known one.
func setActive(g *Game, kind PieceKind, rot, x, y int) {
	g.active = &ActivePiece{Kind: kind, Rotation: rot, X: x, Y: y}
	g.pieceSeq++
	g.cancelLockDelay()
}

func TestActionsRejectedBeforeStart(t *testing.T) {
	g := newGame(rand.New(rand.NewSource(1)))
	assert.Equal(t, StatusReady, g.Status())
	assert.False(t, g.Move(1))
	assert.False(t, g.Rotate(1))
	assert.False(t, g.SoftDrop())
	assert.False(t, g.Hold())
	assert.False(t, g.HardDrop().Locked)
}

func TestMoveBlockedAtWall(t *testing.T) {
	g, _ := newTestGame(t, 1)
	setActive(g, PieceO, 0, -1, 0) // O cells sit at columns 0 and 1
	assert.False(t, g.Move(-1))
	assert.Equal(t, -1, g.active.X)
	assert.True(t, g.Move(1))
	assert.Equal(t, 0, g.active.X)
}

func TestClearScoreTable(t *testing.T) {
	tests := []struct {
		lines int
		want  int
	}{
		{lines: 1, want: 100},
		{lines: 2, want: 300},
		{lines: 3, want: 500},
		{lines: 4, want: 800},
	}
	for _, test := range tests {
		g, _ := newTestGame(t, 7)
		for y := boardHeight - test.lines; y < boardHeight; y++ {
			fillRow(g.board, y, 0)
		}
		// Vertical I down column 0, already resting on the floor.
		setActive(g, PieceI, 1, -2, boardHeight-4)
		result := g.HardDrop()
		require.True(t, result.Locked, "lines=%d", test.lines)
		require.Equal(t, test.lines, result.Cleared)
		assert.Equal(t, test.want, result.ScoreDelta, "lines=%d", test.lines)
		assert.Equal(t, test.want, g.Stats().Score, "lines=%d", test.lines)
		assert.Equal(t, test.lines, g.Stats().Lines)
	}
}

func TestComboBonusOnConsecutiveClears(t *testing.T) {
	g, _ := newTestGame(t, 8)

	fillRow(g.board, boardHeight-1, 8, 9)
	setActive(g, PieceO, 0, 7, boardHeight-2)
	first := g.HardDrop()
	require.Equal(t, 1, first.Cleared)
	assert.Equal(t, 100, first.ScoreDelta)
	assert.Equal(t, 1, first.Combo)

	fillRow(g.board, boardHeight-1, 8, 9)
	setActive(g, PieceO, 0, 7, boardHeight-2)
	second := g.HardDrop()
	require.Equal(t, 1, second.Cleared)
	assert.Equal(t, 150, second.ScoreDelta) // 100 + (2-1)*50 at level 0
	assert.Equal(t, 2, second.Combo)
	assert.Equal(t, 2, g.Stats().MaxCombo)
}

func TestComboResetsOnBlankLock(t *testing.T) {
	g, _ := newTestGame(t, 9)

	fillRow(g.board, boardHeight-1, 8, 9)
	setActive(g, PieceO, 0, 7, boardHeight-2)
	require.Equal(t, 1, g.HardDrop().Cleared)
	require.Equal(t, 1, g.Stats().Combo)

	setActive(g, PieceO, 0, 0, boardHeight-2)
	result := g.HardDrop()
	require.Zero(t, result.Cleared)
	assert.Zero(t, result.Combo)
	assert.Zero(t, g.Stats().Combo)
	assert.Equal(t, 1, g.Stats().MaxCombo)
}

func TestTetrisCounter(t *testing.T) {
	g, _ := newTestGame(t, 10)
	for y := boardHeight - 4; y < boardHeight; y++ {
		fillRow(g.board, y, 0)
	}
	setActive(g, PieceI, 1, -2, boardHeight-4)
	result := g.HardDrop()
	require.Equal(t, 4, result.Cleared)
	stats := g.Stats()
	assert.Equal(t, 1, stats.Tetrises)
	assert.Zero(t, stats.Singles)
	assert.Equal(t, 4, stats.Lines)
}

func TestHardDropPointsAndCounters(t *testing.T) {
	g, _ := newTestGame(t, 11)
	setActive(g, PieceO, 0, 3, 0)
	piecesBefore := g.Stats().Pieces
	result := g.HardDrop()
	require.True(t, result.Locked)
	// O falls from row 0 to rest on the floor: 18 rows at 2*3 points.
	assert.Equal(t, 18*2*3, g.Stats().Score)
	assert.Equal(t, 1, g.Stats().HardDrops)
	assert.Equal(t, piecesBefore+1, g.Stats().Pieces)
	require.NotNil(t, g.active)
}

func TestSoftDropAwardsPoints(t *testing.T) {
	g, _ := newTestGame(t, 12)
	setActive(g, PieceO, 0, 3, 0)
	require.True(t, g.SoftDrop())
	assert.Equal(t, 1, g.active.Y)
	assert.Equal(t, 2, g.Stats().Score)
}

func TestBlockedSoftDropArmsLockDelayInsteadOfLocking(t *testing.T) {
	g, _ := newTestGame(t, 13)
	setActive(g, PieceO, 0, 3, boardHeight-2)
	piecesBefore := g.Stats().Pieces
	assert.False(t, g.SoftDrop())
	assert.Equal(t, piecesBefore, g.Stats().Pieces)
	assert.False(t, g.lockDeadline.IsZero())
}

func TestHoldSwapAndOncePerPiece(t *testing.T) {
	g, _ := newTestGame(t, 14)
	setActive(g, PieceT, 0, 3, 0)
	g.canHold = true

	require.True(t, g.Hold())
	assert.True(t, g.hasHold)
	assert.Equal(t, PieceT, g.holdKind)
	require.NotNil(t, g.active)

	// Second hold before a lock is a no-op.
	stashed := g.active.Kind
	assert.False(t, g.Hold())
	assert.Equal(t, stashed, g.active.Kind)
	assert.Equal(t, PieceT, g.holdKind)

	// Locking re-enables hold, and holding swaps the stored kind back.
	g.HardDrop()
	require.True(t, g.canHold)
	current := g.active.Kind
	require.True(t, g.Hold())
	assert.Equal(t, PieceT, g.active.Kind)
	assert.Equal(t, current, g.holdKind)
}

func TestRotationKickAgainstWall(t *testing.T) {
	g, _ := newTestGame(t, 15)
	// Vertical I hugging the right wall: in-place rotation to the
	// horizontal state runs off the board, the first feasible kick
	// shifts it one column left.
	setActive(g, PieceI, 1, 7, 5)
	require.True(t, g.Rotate(1))
	assert.Equal(t, 2, g.active.Rotation)
	assert.Equal(t, 6, g.active.X)
	assert.Equal(t, 5, g.active.Y)
}

func TestRotationRejectedWhenAllKicksBlocked(t *testing.T) {
	g, _ := newTestGame(t, 16)
	// Bury a T in a fully occupied board with only its own cells free.
	for y := 0; y < boardHeight; y++ {
		fillRow(g.board, y)
	}
	setActive(g, PieceT, 0, 3, 5)
	for _, p := range cellsFor(PieceT, 0) {
		g.board[5+p.Y][3+p.X] = 0
	}
	require.False(t, g.Rotate(1))
	assert.Equal(t, 0, g.active.Rotation)
	assert.Equal(t, 3, g.active.X)
	assert.Equal(t, 5, g.active.Y)
}

func TestRotationSucceedsViaFirstFeasibleKick(t *testing.T) {
	g, _ := newTestGame(t, 17)
	// T just above the floor. Rotating to its east-facing state needs
	// a cell in row 19 at the in-place position and at both horizontal
	// kicks; occupying those three floor cells leaves the upward kick
	// as the first feasible one.
	setActive(g, PieceT, 0, 3, 17)
	g.board[19][3] = int(PieceL) + 1
	g.board[19][4] = int(PieceL) + 1
	g.board[19][5] = int(PieceL) + 1
	require.True(t, g.Rotate(1))
	assert.Equal(t, 1, g.active.Rotation)
	assert.Equal(t, 3, g.active.X)
	assert.Equal(t, 16, g.active.Y) // moved up by the {0,-1} kick
}

func TestTopOutEndsGameAndPreservesBoard(t *testing.T) {
	g, _ := newTestGame(t, 18)
	fillRow(g.board, 3, 0)
	before := copyBoard(g.board)
	// Vertical I resting with its top cell above the board.
	setActive(g, PieceI, 1, -2, -1)
	g.board[3][0] = int(PieceL) + 1 // block descent below row 2
	before[3][0] = int(PieceL) + 1
	result := g.HardDrop()
	require.True(t, result.TopOut)
	assert.Equal(t, StatusGameOver, g.Status())
	assert.Equal(t, before, g.board)
	assert.Nil(t, g.active)
	assert.Zero(t, g.Stats().Combo)

	// A finished session ignores further commands.
	assert.False(t, g.Move(1))
	assert.False(t, g.HardDrop().Locked)
}

func TestGravityDescendsAfterInterval(t *testing.T) {
	g, now := newTestGame(t, 19)
	setActive(g, PieceO, 0, 3, 0)
	start := *now

	g.Advance(start.Add(899 * time.Millisecond))
	assert.Equal(t, 0, g.active.Y)

	g.Advance(start.Add(901 * time.Millisecond))
	assert.Equal(t, 1, g.active.Y)

	// Exactly one descent per due tick.
	g.Advance(start.Add(902 * time.Millisecond))
	assert.Equal(t, 1, g.active.Y)
}

func TestSoftDropHeldUsesFastInterval(t *testing.T) {
	g, now := newTestGame(t, 20)
	setActive(g, PieceO, 0, 3, 0)
	start := *now
	g.SetSoftDrop(true)
	g.Advance(start.Add(60 * time.Millisecond))
	assert.Equal(t, 1, g.active.Y)
	g.SetSoftDrop(false)
	g.Advance(start.Add(120 * time.Millisecond))
	assert.Equal(t, 1, g.active.Y)
}

func TestLockDelayExpiryLocksGroundedPiece(t *testing.T) {
	g, now := newTestGame(t, 21)
	setActive(g, PieceO, 0, 3, boardHeight-2)
	start := *now
	piecesBefore := g.Stats().Pieces

	// Due gravity tick finds the piece grounded and arms the delay.
	g.Advance(start.Add(901 * time.Millisecond))
	require.Equal(t, piecesBefore, g.Stats().Pieces)
	require.False(t, g.lockDeadline.IsZero())

	g.Advance(start.Add(1300 * time.Millisecond))
	require.Equal(t, piecesBefore, g.Stats().Pieces)

	g.Advance(start.Add(1302 * time.Millisecond))
	assert.Equal(t, piecesBefore+1, g.Stats().Pieces)
	assert.Equal(t, int(PieceO)+1, g.board[boardHeight-1][4])
}

func TestMoveCancelsLockDelay(t *testing.T) {
	g, now := newTestGame(t, 22)
	setActive(g, PieceO, 0, 3, boardHeight-2)
	start := *now

	g.Advance(start.Add(901 * time.Millisecond))
	require.False(t, g.lockDeadline.IsZero())

	require.True(t, g.Move(1))
	assert.True(t, g.lockDeadline.IsZero())

	piecesBefore := g.Stats().Pieces
	g.Advance(start.Add(1302 * time.Millisecond))
	assert.Equal(t, piecesBefore, g.Stats().Pieces)
	assert.Equal(t, boardHeight-2, g.active.Y)
}

func TestRotateCancelsLockDelay(t *testing.T) {
	g, now := newTestGame(t, 23)
	setActive(g, PieceT, 0, 3, boardHeight-2)
	start := *now
	g.Advance(start.Add(901 * time.Millisecond))
	require.False(t, g.lockDeadline.IsZero())
	require.True(t, g.Rotate(1))
	assert.True(t, g.lockDeadline.IsZero())
}

func TestPauseDoesNotCountAsFallTime(t *testing.T) {
	g, now := newTestGame(t, 24)
	setActive(g, PieceO, 0, 3, 0)
	start := *now

	*now = start.Add(500 * time.Millisecond)
	g.Pause()
	require.Equal(t, StatusPaused, g.Status())
	assert.False(t, g.Move(1))

	*now = start.Add(10*time.Second + 500*time.Millisecond)
	g.Resume()
	require.Equal(t, StatusPlaying, g.Status())

	// Only 500ms of play time have effectively elapsed.
	g.Advance(now.Add(399 * time.Millisecond))
	assert.Equal(t, 0, g.active.Y)
	g.Advance(now.Add(401 * time.Millisecond))
	assert.Equal(t, 1, g.active.Y)
}

func TestPlayClockOnlyTicksWhilePlaying(t *testing.T) {
	g, _ := newTestGame(t, 25)
	g.TickSecond()
	g.Pause()
	g.TickSecond()
	g.Resume()
	g.TickSecond()
	assert.Equal(t, 2, g.Stats().PlaySeconds)
}

func TestLevelRaisesSpeedWithFloor(t *testing.T) {
	g, _ := newTestGame(t, 26)
	assert.Equal(t, 900*time.Millisecond, g.fallInterval())
	g.stats.Level = 5
	assert.Equal(t, 550*time.Millisecond, g.fallInterval())
	g.stats.Level = 40
	assert.Equal(t, 90*time.Millisecond, g.fallInterval())
}

func TestDeterministicOPieceSession(t *testing.T) {
	g, _ := newTestGame(t, 27)
	// Synthetic queue of O pieces: every drop stacks on columns 4-5.
	kinds := make([]PieceKind, 24)
	for i := range kinds {
		kinds[i] = PieceO
	}
	g.queue.kinds = kinds
	setActive(g, PieceO, 0, 3, 0)

	for i := 0; i < 10; i++ {
		result := g.HardDrop()
		require.True(t, result.Locked, "drop %d", i)
		require.False(t, result.TopOut, "drop %d", i)
		require.Zero(t, result.Cleared, "drop %d", i)
	}

	// Drop distances 18, 16, ..., 0 at 6 points per row.
	assert.Equal(t, 540, g.Stats().Score)
	assert.Equal(t, 10, g.Stats().HardDrops)
	assert.Equal(t, StatusPlaying, g.Status())
	for y := 0; y < boardHeight; y++ {
		for x := 0; x < boardWidth; x++ {
			if x == 4 || x == 5 {
				assert.Equal(t, int(PieceO)+1, g.board[y][x], "row %d col %d", y, x)
			} else {
				assert.Zero(t, g.board[y][x], "row %d col %d", y, x)
			}
		}
	}
}

func TestStartResetsSession(t *testing.T) {
	g, _ := newTestGame(t, 28)
	fillRow(g.board, 3, 0)
	setActive(g, PieceI, 1, -2, -1)
	g.board[3][0] = int(PieceL) + 1
	require.True(t, g.HardDrop().TopOut)
	require.Equal(t, StatusGameOver, g.Status())

	g.Start()
	assert.Equal(t, StatusPlaying, g.Status())
	assert.Equal(t, Stats{Pieces: 1}, g.Stats())
	require.NotNil(t, g.active)
	for y := 0; y < boardHeight; y++ {
		for x := 0; x < boardWidth; x++ {
			assert.Zero(t, g.board[y][x])
		}
	}
}
