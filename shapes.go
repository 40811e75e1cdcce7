package main

// PieceKind identifies one of the seven tetromino types.
type PieceKind int

// Kind order also fixes board cell tags (kind+1) and theme color order.
const (
	PieceI PieceKind = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

const pieceKindCount = 7

func (k PieceKind) String() string {
	switch k {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	}
	return "?"
}

// Point is a cell coordinate. X grows right, Y grows down.
type Point struct {
	X int
	Y int
}

// shapeSpecs holds the fixed rotation-state matrices for every kind,
// row strings top to bottom, '1' marking an occupied cell. The matrices
// are data, not computed rotations. O has a single state; every other
// kind has four.
var shapeSpecs = [pieceKindCount][][]string{
	PieceI: {
		{"0000", "1111", "0000", "0000"},
		{"0010", "0010", "0010", "0010"},
		{"0000", "0000", "1111", "0000"},
		{"0100", "0100", "0100", "0100"},
	},
	PieceO: {
		{"0110", "0110", "0000", "0000"},
	},
	PieceT: {
		{"010", "111", "000"},
		{"010", "011", "010"},
		{"000", "111", "010"},
		{"010", "110", "010"},
	},
	PieceS: {
		{"011", "110", "000"},
		{"010", "011", "001"},
		{"000", "011", "110"},
		{"100", "110", "010"},
	},
	PieceZ: {
		{"110", "011", "000"},
		{"001", "011", "010"},
		{"000", "110", "011"},
		{"010", "110", "100"},
	},
	PieceJ: {
		{"100", "111", "000"},
		{"011", "010", "010"},
		{"000", "111", "001"},
		{"010", "010", "110"},
	},
	PieceL: {
		{"001", "111", "000"},
		{"010", "010", "011"},
		{"000", "111", "100"},
		{"110", "010", "010"},
	},
}

// shapeCells caches the occupied cells of every rotation state as
// offset lists, which is what movement and collision code iterates.
var shapeCells [pieceKindCount][][]Point

func init() {
	for kind := range shapeSpecs {
		states := make([][]Point, len(shapeSpecs[kind]))
		for rot, rows := range shapeSpecs[kind] {
			cells := make([]Point, 0, 4)
			for y, row := range rows {
				for x := 0; x < len(row); x++ {
					if row[x] == '1' {
						cells = append(cells, Point{X: x, Y: y})
					}
				}
			}
			states[rot] = cells
		}
		shapeCells[kind] = states
	}
}

func rotationStates(kind PieceKind) int {
	return len(shapeSpecs[kind])
}

func cellsFor(kind PieceKind, rot int) []Point {
	return shapeCells[kind][rot]
}

// spawnPosition returns the anchor of a freshly spawned piece. Every
// kind starts horizontally centered; the I piece starts one row above
// the visible board so its occupied row enters at row zero.
func spawnPosition(kind PieceKind) (x, y int) {
	if kind == PieceI {
		return 3, -1
	}
	return 3, 0
}
