package main

import (
	"math/rand"
	"time"
)

// Status is the session state machine: ready -> playing <-> paused,
// playing -> gameover, and gameover/ready -> playing via Start.
type Status int

const (
	StatusReady Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "gameover"
	}
	return "unknown"
}

const (
	lockDelay        = 400 * time.Millisecond
	baseFallInterval = 900 * time.Millisecond
	fallIntervalStep = 70 * time.Millisecond
	minFallInterval  = 90 * time.Millisecond
	softDropInterval = 50 * time.Millisecond

	softDropPoints     = 2
	hardDropMultiplier = 3
)

// clearScores maps lines-cleared to base points. Five or more lines in
// one lock is unreachable with the standard shapes; scoring falls back
// to lines*200 there.
var clearScores = [5]int{0, 100, 300, 500, 800}

// kickOffsets is the rotation kick sequence, tried in order. The first
// offset where the rotated piece fits wins.
var kickOffsets = [5]Point{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// ActivePiece is the currently falling piece. At most one exists, and
// only while the session is playing. Y may be negative right after
// spawning or after an upward kick.
type ActivePiece struct {
	Kind     PieceKind
	Rotation int
	X        int
	Y        int
}

// Stats is the per-session scoreboard. It is reset by Start and
// mutated only by drop actions and the lock pipeline.
type Stats struct {
	Score       int
	Level       int
	Lines       int
	Combo       int
	MaxCombo    int
	Singles     int
	Doubles     int
	Triples     int
	Tetrises    int
	HardDrops   int
	Pieces      int
	PlaySeconds int
}

// LockResult reports what a lock did, for scoring popups, sounds and
// flash effects. ScoreDelta covers the line-clear award only, not
// drop points.
type LockResult struct {
	Locked      bool
	Cleared     int
	ClearedRows []int
	ScoreDelta  int
	Combo       int
	TopOut      bool
}

// Game is the engine state. All mutation happens through its methods,
// driven serially by input commands and the UI tick, so it needs no
// internal locking.
type Game struct {
	board  Board
	status Status
	active *ActivePiece
	queue  *pieceQueue
	rng    *rand.Rand

	holdKind PieceKind
	hasHold  bool
	canHold  bool

	stats Stats

	// clock is swappable so tests can drive gravity deterministically.
	clock        func() time.Time
	lastFall     time.Time
	lockDeadline time.Time
	lockPiece    uint64
	pieceSeq     uint64
	softDrop     bool
	pausedAt     time.Time
}

func NewGame() *Game {
	return newGame(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newGame(rng *rand.Rand) *Game {
	return &Game{
		board:   newBoard(),
		status:  StatusReady,
		queue:   newPieceQueue(rng),
		rng:     rng,
		canHold: true,
		clock:   time.Now,
	}
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Stats() Stats {
	return g.stats
}

// Start begins a fresh session from ready or gameover. A ready game is
// already pristine; only a finished one needs its state rebuilt.
func (g *Game) Start() {
	if g.status == StatusPlaying || g.status == StatusPaused {
		return
	}
	if g.status == StatusGameOver {
		g.board = newBoard()
		g.stats = Stats{}
		g.queue = newPieceQueue(g.rng)
		g.hasHold = false
	}
	g.canHold = true
	g.active = nil
	g.lockDeadline = time.Time{}
	g.softDrop = false
	g.status = StatusPlaying
	g.spawnNext()
}

// Move shifts the active piece one column. A successful move cancels a
// pending lock-delay, so a grounded piece can be walked along the
// stack indefinitely.
func (g *Game) Move(dx int) bool {
	if g.status != StatusPlaying || g.active == nil {
		return false
	}
	a := g.active
	if !g.board.CanPlace(a.Kind, a.Rotation, a.X+dx, a.Y) {
		return false
	}
	a.X += dx
	g.cancelLockDelay()
	return true
}

// Rotate turns the active piece, trying each kick offset in order.
// If no kick fits, the piece is left unchanged.
func (g *Game) Rotate(dir int) bool {
	if g.status != StatusPlaying || g.active == nil {
		return false
	}
	a := g.active
	n := rotationStates(a.Kind)
	rot := (a.Rotation + dir + n) % n
	for _, k := range kickOffsets {
		if g.board.CanPlace(a.Kind, rot, a.X+k.X, a.Y+k.Y) {
			a.Rotation = rot
			a.X += k.X
			a.Y += k.Y
			g.cancelLockDelay()
			return true
		}
	}
	return false
}

// SoftDrop descends one row for points. A blocked soft drop arms the
// lock-delay instead of locking immediately.
func (g *Game) SoftDrop() bool {
	if g.status != StatusPlaying || g.active == nil {
		return false
	}
	a := g.active
	if g.board.CanPlace(a.Kind, a.Rotation, a.X, a.Y+1) {
		a.Y++
		g.stats.Score += softDropPoints
		g.lastFall = g.clock()
		g.cancelLockDelay()
		return true
	}
	g.armLockDelayAt(g.clock())
	return false
}

// SetSoftDrop switches gravity to the fast fixed interval while the
// soft-drop input is held.
func (g *Game) SetSoftDrop(held bool) {
	g.softDrop = held
}

// HardDrop slams the piece to its resting row and locks it at once,
// bypassing lock-delay.
func (g *Game) HardDrop() LockResult {
	if g.status != StatusPlaying || g.active == nil {
		return LockResult{}
	}
	a := g.active
	dist := 0
	for g.board.CanPlace(a.Kind, a.Rotation, a.X, a.Y+1) {
		a.Y++
		dist++
	}
	g.stats.Score += dist * softDropPoints * hardDropMultiplier
	g.stats.HardDrops++
	return g.lockActive()
}

// Hold stashes the active piece's kind, at most once per spawned
// piece. The stored kind, if any, comes back as the next active piece;
// otherwise the queue supplies it.
func (g *Game) Hold() bool {
	if g.status != StatusPlaying || g.active == nil || !g.canHold {
		return false
	}
	prev := g.active.Kind
	g.active = nil
	if g.hasHold {
		g.spawnKind(g.holdKind)
	} else {
		g.hasHold = true
		g.spawnNext()
	}
	g.holdKind = prev
	g.canHold = false
	return true
}

// Advance is the gravity step, called from the UI's ~16ms tick with
// the current time. It fires an expired lock-delay first, then
// performs at most one automatic descent.
func (g *Game) Advance(now time.Time) LockResult {
	if g.status != StatusPlaying || g.active == nil {
		return LockResult{}
	}
	if !g.lockDeadline.IsZero() && g.lockPiece == g.pieceSeq && !now.Before(g.lockDeadline) {
		a := g.active
		if !g.board.CanPlace(a.Kind, a.Rotation, a.X, a.Y+1) {
			return g.lockActive()
		}
		g.lockDeadline = time.Time{}
	}
	if now.Sub(g.lastFall) < g.fallInterval() {
		return LockResult{}
	}
	a := g.active
	if g.board.CanPlace(a.Kind, a.Rotation, a.X, a.Y+1) {
		a.Y++
		g.lastFall = now
		g.cancelLockDelay()
		return LockResult{}
	}
	g.lastFall = now
	g.armLockDelayAt(now)
	return LockResult{}
}

// TickSecond advances the play clock. No-op outside of playing.
func (g *Game) TickSecond() {
	if g.status == StatusPlaying {
		g.stats.PlaySeconds++
	}
}

// Pause freezes the session. The active piece, its lock-delay
// eligibility and all fall timing survive untouched.
func (g *Game) Pause() {
	if g.status != StatusPlaying {
		return
	}
	g.status = StatusPaused
	g.pausedAt = g.clock()
}

// Resume rebases the gravity and lock-delay reference times so the
// pause duration never counts as fall time.
func (g *Game) Resume() {
	if g.status != StatusPaused {
		return
	}
	d := g.clock().Sub(g.pausedAt)
	g.lastFall = g.lastFall.Add(d)
	if !g.lockDeadline.IsZero() {
		g.lockDeadline = g.lockDeadline.Add(d)
	}
	g.status = StatusPlaying
}

func (g *Game) TogglePause() {
	switch g.status {
	case StatusPlaying:
		g.Pause()
	case StatusPaused:
		g.Resume()
	}
}

// GhostY projects the active piece straight down to its resting row
// without touching any state.
func (g *Game) GhostY() int {
	a := g.active
	if a == nil {
		return 0
	}
	y := a.Y
	for g.board.CanPlace(a.Kind, a.Rotation, a.X, y+1) {
		y++
	}
	return y
}

func (g *Game) fallInterval() time.Duration {
	if g.softDrop {
		return softDropInterval
	}
	d := baseFallInterval - time.Duration(g.stats.Level)*fallIntervalStep
	if d < minFallInterval {
		return minFallInterval
	}
	return d
}

// lockActive merges the active piece into the board, scores any
// cleared lines and immediately spawns the next piece. On top-out the
// board stays unchanged and the session ends.
func (g *Game) lockActive() LockResult {
	a := g.active
	clearedRows, topOut := g.board.Lock(a.Kind, a.Rotation, a.X, a.Y)
	g.active = nil
	g.cancelLockDelay()
	if topOut {
		g.status = StatusGameOver
		g.stats.Combo = 0
		return LockResult{Locked: true, TopOut: true}
	}
	cleared := len(clearedRows)
	res := LockResult{Locked: true, Cleared: cleared, ClearedRows: clearedRows}
	if cleared > 0 {
		base := cleared * 200
		if cleared < len(clearScores) {
			base = clearScores[cleared]
		}
		award := base * (g.stats.Level + 1)
		g.stats.Combo++
		if g.stats.Combo > 1 {
			award += (g.stats.Combo - 1) * 50 * (g.stats.Level + 1)
		}
		if g.stats.Combo > g.stats.MaxCombo {
			g.stats.MaxCombo = g.stats.Combo
		}
		g.stats.Score += award
		g.stats.Lines += cleared
		g.stats.Level = g.stats.Lines / 10
		switch cleared {
		case 1:
			g.stats.Singles++
		case 2:
			g.stats.Doubles++
		case 3:
			g.stats.Triples++
		case 4:
			g.stats.Tetrises++
		}
		res.ScoreDelta = award
	} else {
		g.stats.Combo = 0
	}
	res.Combo = g.stats.Combo
	g.canHold = true
	g.spawnNext()
	return res
}

func (g *Game) spawnNext() {
	g.spawnKind(g.queue.Pop())
}

// spawnKind places a fresh piece at its spawn anchor. Spawning never
// fails; an overlapping spawn is resolved by the next lock.
func (g *Game) spawnKind(kind PieceKind) {
	x, y := spawnPosition(kind)
	g.active = &ActivePiece{Kind: kind, X: x, Y: y}
	g.pieceSeq++
	g.stats.Pieces++
	g.cancelLockDelay()
	g.lastFall = g.clock()
}

// armLockDelayAt arms the single-shot lock deadline for the current
// piece. Re-arming for the same piece is a no-op so repeated blocked
// descents cannot push the deadline out.
func (g *Game) armLockDelayAt(now time.Time) {
	if !g.lockDeadline.IsZero() && g.lockPiece == g.pieceSeq {
		return
	}
	g.lockDeadline = now.Add(lockDelay)
	g.lockPiece = g.pieceSeq
}

func (g *Game) cancelLockDelay() {
	g.lockDeadline = time.Time{}
}
