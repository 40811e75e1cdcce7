package main

// Snapshot is the read-only projection the renderer consumes. It is
// recomputed after every mutation; nothing in it aliases engine state.
type Snapshot struct {
	Status      Status
	Cells       [boardHeight][boardWidth]int
	Ghost       []Point
	ActiveCells []Point
	Queue       []PieceKind
	HasHold     bool
	Hold        PieceKind
	Stats       Stats
}

// Queue preview lookahead is clamped rather than trusted.
const (
	minLookahead = 1
	maxLookahead = 6
)

func clampLookahead(n int) int {
	if n < minLookahead {
		return minLookahead
	}
	if n > maxLookahead {
		return maxLookahead
	}
	return n
}

// Snapshot composites locked cells, the active piece and, optionally,
// its ghost projection. The ghost is computed fresh every call and is
// never written into the board.
func (g *Game) Snapshot(lookahead int, withGhost bool) Snapshot {
	s := Snapshot{
		Status:  g.status,
		Stats:   g.stats,
		HasHold: g.hasHold,
		Hold:    g.holdKind,
	}
	for y := 0; y < boardHeight; y++ {
		for x := 0; x < boardWidth; x++ {
			s.Cells[y][x] = g.board[y][x]
		}
	}
	if a := g.active; a != nil {
		if withGhost {
			ghostY := g.GhostY()
			if ghostY != a.Y {
				for _, p := range cellsFor(a.Kind, a.Rotation) {
					bx := a.X + p.X
					by := ghostY + p.Y
					if by >= 0 && by < boardHeight {
						s.Ghost = append(s.Ghost, Point{X: bx, Y: by})
					}
				}
			}
		}
		for _, p := range cellsFor(a.Kind, a.Rotation) {
			bx := a.X + p.X
			by := a.Y + p.Y
			if by >= 0 && by < boardHeight {
				s.Cells[by][bx] = int(a.Kind) + 1
				s.ActiveCells = append(s.ActiveCells, Point{X: bx, Y: by})
			}
		}
	}
	s.Queue = g.queue.Preview(clampLookahead(lookahead))
	return s
}
