package scene

import (
	"fmt"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/placement"
	"github.com/MobRulesGames/mathgl"
)

const maxHouses = 4

// estate holds the handles standing beside one owned tile.
type estate struct {
	deed    Handle
	markers []Handle

	// Bumped whenever the marker row is torn down.
	generation int
}

// current reports whether est still owns t's marker row as it is now.
func (est *estate) current(c *Coordinator, t board.TileIndex) func() bool {
	gen := est.generation
	return func() bool {
		return c.estates[t] == est && est.generation == gen
	}
}

func (c *Coordinator) estateAt(t board.TileIndex) *estate {
	est := c.estates[t]
	if est == nil {
		est = &estate{}
		c.estates[t] = est
	}
	return est
}

func (c *Coordinator) clearMarkers(est *estate) {
	for _, h := range est.markers {
		c.detach(h)
	}
	est.markers = nil
	est.generation++
}

// load fetches a model for t and attaches it where req says at that moment,
// unless current reports that the request went stale while loading. drop,
// if set, undoes the bookkeeping of a request that failed but is still
// current.
func (c *Coordinator) load(t board.TileIndex, name string, req func() placement.Request, current func() bool, keep func(Handle), drop func(), done func(error)) {
	c.models.Load(name, func(h Handle, err error) {
		if err == nil && !current() {
			err = fmt.Errorf("tile %d changed while loading %s: %w", t, name, ErrStale)
		}
		var pos mathgl.Vec3
		if err == nil {
			pos, err = c.resolver.Resolve(req())
		}
		if err == nil {
			c.attach(h, pos)
			keep(h)
		} else {
			logging.Error("property model failed", "tile", t, "model", name, "err", err)
			if drop != nil && current() {
				drop()
			}
		}
		if done != nil {
			done(err)
		}
	})
}

// dropHouse takes back a house whose model never arrived, so the count
// matches the marker row again.
func (c *Coordinator) dropHouse(t board.TileIndex) {
	prop, err := c.grid.Property(t)
	if err != nil || prop == nil || prop.Houses == 0 {
		return
	}
	rolled := *prop
	rolled.Houses--
	if err := c.grid.SetPropertyOwner(t, &rolled); err != nil {
		logging.Error("cannot take back house", "tile", t, "err", err)
		return
	}
	logging.Debug("house taken back", "tile", t, "houses", rolled.Houses)
}

// BuyProperty records owner as the owner of t and puts a deed beside it.
// Any earlier ownership of t, with its buildings, is replaced.
func (c *Coordinator) BuyProperty(owner int, t board.TileIndex, done func(error)) error {
	if err := c.grid.SetPropertyOwner(t, &board.Property{Owner: owner}); err != nil {
		return err
	}
	if old := c.estates[t]; old != nil {
		if old.deed != nil {
			c.detach(old.deed)
		}
		c.clearMarkers(old)
		delete(c.estates, t)
	}
	est := c.estateAt(t)
	c.cues.Built(StructureDeed, t)
	logging.Debug("property bought", "tile", t, "owner", owner)

	req := func() placement.Request {
		return placement.Request{Tile: t, Kind: board.KindDeed, Total: 1}
	}
	current := func() bool { return c.estates[t] == est }
	c.load(t, "deed", req, current, func(h Handle) { est.deed = h }, nil, done)
	return nil
}

func (c *Coordinator) ownedProperty(t board.TileIndex) (*board.Property, error) {
	prop, err := c.grid.Property(t)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, fmt.Errorf("tile %d: %w", t, ErrNotOwned)
	}
	return prop, nil
}

// BuildHouse adds one house marker to the row beside t.
func (c *Coordinator) BuildHouse(t board.TileIndex, done func(error)) error {
	prop, err := c.ownedProperty(t)
	if err != nil {
		return err
	}
	if prop.Hotel {
		return fmt.Errorf("tile %d: %w", t, ErrHasHotel)
	}
	if prop.Houses >= maxHouses {
		return fmt.Errorf("tile %d has %d: %w", t, prop.Houses, ErrTooManyHouses)
	}
	prop.Houses++
	if err := c.grid.SetPropertyOwner(t, prop); err != nil {
		return err
	}
	c.cues.Built(StructureHouse, t)
	logging.Debug("house built", "tile", t, "houses", prop.Houses)

	est := c.estateAt(t)
	// Houses take the next free place in the row when their model arrives,
	// so a failed load leaves no gap.
	req := func() placement.Request {
		n := len(est.markers)
		return placement.Request{Tile: t, Kind: board.KindPropertyMarker, Total: n + 1, Slot: n}
	}
	keep := func(h Handle) { est.markers = append(est.markers, h) }
	c.load(t, "house", req, est.current(c, t), keep, func() { c.dropHouse(t) }, done)
	return nil
}

// BuildHotel swaps whatever houses stand beside t for a single hotel.
func (c *Coordinator) BuildHotel(t board.TileIndex, done func(error)) error {
	prop, err := c.ownedProperty(t)
	if err != nil {
		return err
	}
	if prop.Hotel {
		return fmt.Errorf("tile %d: %w", t, ErrHasHotel)
	}
	prop.Houses = 0
	prop.Hotel = true
	if err := c.grid.SetPropertyOwner(t, prop); err != nil {
		return err
	}
	est := c.estateAt(t)
	c.clearMarkers(est)
	c.cues.Built(StructureHotel, t)
	logging.Debug("hotel built", "tile", t)

	req := func() placement.Request {
		return placement.Request{Tile: t, Kind: board.KindPropertyMarker, Total: 1}
	}
	c.load(t, "hotel", req, est.current(c, t), func(h Handle) { est.markers = append(est.markers, h) }, nil, done)
	return nil
}
