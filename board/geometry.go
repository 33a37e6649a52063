package board

// Size is the number of cells along each edge of the board. Only the
// perimeter cells are tiles.
const Size = 11

// TileCount is the number of tiles around the perimeter, 10 per side.
const TileCount = 40

const tilesPerSide = Size - 1

// TileIndex identifies one of the perimeter tiles, counting from the bottom
// right corner (GO) towards the bottom left.
type TileIndex int

// NoTile is what GridToTile returns for cells that are not on the perimeter.
const NoTile TileIndex = -1

func (t TileIndex) Valid() bool {
	return t >= 0 && t < TileCount
}

// Next is the tile one step further around the board; 39 wraps to 0.
func (t TileIndex) Next() TileIndex {
	return (t + 1) % TileCount
}

// Distance is the number of forward steps needed to walk from 'from' to 'to'.
func Distance(from, to TileIndex) int {
	return int(((to-from)%TileCount + TileCount) % TileCount)
}

// GridPosition is a (row, column) cell of the Size x Size board grid. Row 0
// is the top edge and column 0 is the left edge.
type GridPosition struct {
	Row, Col int
}

type Side int

const (
	SideBottom Side = iota
	SideLeft
	SideTop
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	}
	return "unknown"
}

// TileToGrid is total on [0, TileCount). Callers are expected to have
// checked Valid().
func TileToGrid(t TileIndex) GridPosition {
	i := int(t)
	switch {
	case i < 10:
		return GridPosition{Row: tilesPerSide, Col: tilesPerSide - i}
	case i < 20:
		return GridPosition{Row: 20 - i, Col: 0}
	case i < 30:
		return GridPosition{Row: 0, Col: i - 20}
	default:
		return GridPosition{Row: i - 30, Col: tilesPerSide}
	}
}

// GridToTile is the inverse of TileToGrid. Interior and out of range cells
// give NoTile.
func GridToTile(row, col int) TileIndex {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return NoTile
	}
	switch {
	case row == 0:
		return TileIndex(20 + col)
	case row == tilesPerSide:
		return TileIndex(tilesPerSide - col)
	case col == 0:
		return TileIndex(20 - row)
	case col == tilesPerSide:
		return TileIndex(30 + row)
	}
	return NoTile
}

func SideOf(t TileIndex) Side {
	switch {
	case t < 10:
		return SideBottom
	case t < 20:
		return SideLeft
	case t < 30:
		return SideTop
	default:
		return SideRight
	}
}
