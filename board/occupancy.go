package board

import "fmt"

// MaxPlayers is the number of player slots tracked per tile. A slot is a
// player's identity for the whole session.
const MaxPlayers = 4

type EntityKind int

const (
	KindPlayer EntityKind = iota
	// Houses and hotels laid out in a row beside a property tile.
	KindPropertyMarker
	// The ownership marker placed when a property is bought.
	KindDeed
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindPropertyMarker:
		return "property-marker"
	case KindDeed:
		return "deed"
	}
	return fmt.Sprintf("EntityKind(%d)", int(k))
}

func (k EntityKind) Valid() bool {
	return k >= KindPlayer && k <= KindDeed
}

// Property is the ownership record of a tile.
type Property struct {
	Owner  int
	Houses int
	Hotel  bool
}

// Markers is the number of house/hotel markers standing beside the tile.
func (p *Property) Markers() int {
	if p == nil {
		return 0
	}
	if p.Hotel {
		return 1
	}
	return p.Houses
}

type Cell struct {
	Players  [MaxPlayers]bool
	Property *Property
}

// OccupancyGrid records who stands on which tile and who owns it. It is
// addressed by TileIndex only; the row/column layout is an internal detail.
//
// The grid does not enforce that a player is on a single tile. Callers move
// a player by clearing its presence on the old tile before setting it on
// the new one.
type OccupancyGrid struct {
	cells [Size][Size]Cell
}

func NewOccupancyGrid() *OccupancyGrid {
	return &OccupancyGrid{}
}

func (g *OccupancyGrid) cell(t TileIndex) (*Cell, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("tile %d: %w", t, ErrInvalidTile)
	}
	pos := TileToGrid(t)
	return &g.cells[pos.Row][pos.Col], nil
}

// Cell returns a copy of the record for t.
func (g *OccupancyGrid) Cell(t TileIndex) (Cell, error) {
	c, err := g.cell(t)
	if err != nil {
		return Cell{}, err
	}
	ret := *c
	if c.Property != nil {
		prop := *c.Property
		ret.Property = &prop
	}
	return ret, nil
}

func (g *OccupancyGrid) SetPlayerPresence(t TileIndex, slot int, present bool) error {
	c, err := g.cell(t)
	if err != nil {
		return err
	}
	if slot < 0 || slot >= MaxPlayers {
		return fmt.Errorf("slot %d: %w", slot, ErrInvalidSlot)
	}
	c.Players[slot] = present
	return nil
}

// SetPropertyOwner replaces the property record of t; nil clears it.
func (g *OccupancyGrid) SetPropertyOwner(t TileIndex, prop *Property) error {
	c, err := g.cell(t)
	if err != nil {
		return err
	}
	if prop == nil {
		c.Property = nil
		return nil
	}
	if prop.Owner < 0 || prop.Owner >= MaxPlayers {
		return fmt.Errorf("owner %d: %w", prop.Owner, ErrInvalidSlot)
	}
	cp := *prop
	c.Property = &cp
	return nil
}

func (g *OccupancyGrid) Property(t TileIndex) (*Property, error) {
	c, err := g.Cell(t)
	if err != nil {
		return nil, err
	}
	return c.Property, nil
}

// OccupantCountAt counts active player slots for KindPlayer. For the
// property kinds it is 1 when the tile has an owner and 0 otherwise.
func (g *OccupancyGrid) OccupantCountAt(t TileIndex, kind EntityKind) (int, error) {
	c, err := g.cell(t)
	if err != nil {
		return 0, err
	}
	switch kind {
	case KindPlayer:
		n := 0
		for _, on := range c.Players {
			if on {
				n++
			}
		}
		return n, nil
	case KindPropertyMarker, KindDeed:
		if c.Property != nil {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("kind %v: %w", kind, ErrInvalidKind)
}

// PlayersAt lists the present slots on t in ascending order.
func (g *OccupancyGrid) PlayersAt(t TileIndex) ([]int, error) {
	c, err := g.cell(t)
	if err != nil {
		return nil, err
	}
	var slots []int
	for slot, on := range c.Players {
		if on {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// SlotRank is the index of slot among the players present on t, or -1 if
// the slot is not on t.
func (g *OccupancyGrid) SlotRank(t TileIndex, slot int) (int, error) {
	slots, err := g.PlayersAt(t)
	if err != nil {
		return -1, err
	}
	for i, s := range slots {
		if s == slot {
			return i, nil
		}
	}
	return -1, nil
}
