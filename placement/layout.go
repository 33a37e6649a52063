package placement

import (
	"errors"
	"fmt"
)

// Layout holds the spacing used to lay entities out on a tile. Every value
// except TileSize is in grid units, where one tile is 1x1.
type Layout struct {
	// World units per grid unit.
	TileSize float32 `json:"tileSize" mapstructure:"tileSize"`

	// Lateral spread between players sharing a tile, and the extra
	// perpendicular spread once there are more than two of them.
	PlayerOffset float32 `json:"playerOffset" mapstructure:"playerOffset"`
	// Push towards the outer edge applied whenever a tile is shared.
	PlayerMargin float32 `json:"playerMargin" mapstructure:"playerMargin"`

	// Inward push of deeds, houses and hotels from the tile centre.
	PropertyTopMargin float32 `json:"propertyTopMargin" mapstructure:"propertyTopMargin"`
	// Lateral position of the deed, against the direction of play.
	PropertyLeftMargin float32 `json:"propertyLeftMargin" mapstructure:"propertyLeftMargin"`
	// Distance between neighbouring markers in the row.
	PropertySpacing float32 `json:"propertySpacing" mapstructure:"propertySpacing"`
	// Gap between the deed and the first marker.
	PropertyLeftOffset float32 `json:"propertyLeftOffset" mapstructure:"propertyLeftOffset"`
}

func DefaultLayout() Layout {
	return Layout{
		TileSize:           7.273,
		PlayerOffset:       0.2,
		PlayerMargin:       0.1,
		PropertyTopMargin:  0.39,
		PropertyLeftMargin: 0.37,
		PropertySpacing:    0.24,
		PropertyLeftOffset: 0.05,
	}
}

var ErrInvalidLayout = errors.New("invalid layout")

func (l Layout) Validate() error {
	if l.TileSize <= 0 {
		return fmt.Errorf("tileSize must be positive, got %v: %w", l.TileSize, ErrInvalidLayout)
	}
	for name, v := range map[string]float32{
		"playerOffset":       l.PlayerOffset,
		"playerMargin":       l.PlayerMargin,
		"propertyTopMargin":  l.PropertyTopMargin,
		"propertyLeftMargin": l.PropertyLeftMargin,
		"propertySpacing":    l.PropertySpacing,
		"propertyLeftOffset": l.PropertyLeftOffset,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %v: %w", name, v, ErrInvalidLayout)
		}
	}
	return nil
}
