package main

const (
	boardWidth  = 10
	boardHeight = 20
)

// Board is the grid of locked cells, rows top to bottom. Zero means
// empty; otherwise the value is the locking piece's kind plus one.
type Board [][]int

func newBoard() Board {
	board := make(Board, boardHeight)
	for i := range board {
		board[i] = make([]int, boardWidth)
	}
	return board
}

// CanPlace reports whether the shape fits at the candidate anchor.
// Rows above the visible board are always free, which lets pieces
// spawn and rotate partially off-screen.
func (b Board) CanPlace(kind PieceKind, rot, x, y int) bool {
	for _, p := range cellsFor(kind, rot) {
		bx := x + p.X
		by := y + p.Y
		if bx < 0 || bx >= boardWidth || by >= boardHeight {
			return false
		}
		if by >= 0 && b[by][bx] != 0 {
			return false
		}
	}
	return true
}

// Lock writes the shape into the board and compacts completed rows.
// Any cell above row zero is a top-out: the board is left untouched
// and topOut is true. Cleared row indices are reported as they were
// before compaction, in top-to-bottom order.
func (b Board) Lock(kind PieceKind, rot, x, y int) (cleared []int, topOut bool) {
	cells := cellsFor(kind, rot)
	for _, p := range cells {
		if y+p.Y < 0 {
			return nil, true
		}
	}
	for _, p := range cells {
		b[y+p.Y][x+p.X] = int(kind) + 1
	}
	return b.clearFullRows(), false
}

func (b Board) rowFull(y int) bool {
	for x := 0; x < boardWidth; x++ {
		if b[y][x] == 0 {
			return false
		}
	}
	return true
}

// clearFullRows removes every completed row and prepends that many
// empty rows at the top, preserving the relative order of survivors.
func (b Board) clearFullRows() []int {
	var full []int
	for y := 0; y < boardHeight; y++ {
		if b.rowFull(y) {
			full = append(full, y)
		}
	}
	if len(full) == 0 {
		return nil
	}
	var isFull [boardHeight]bool
	for _, y := range full {
		isFull[y] = true
	}
	dst := boardHeight - 1
	for src := boardHeight - 1; src >= 0; src-- {
		if isFull[src] {
			continue
		}
		if dst != src {
			copy(b[dst], b[src])
		}
		dst--
	}
	for ; dst >= 0; dst-- {
		for x := 0; x < boardWidth; x++ {
			b[dst][x] = 0
		}
	}
	return full
}
