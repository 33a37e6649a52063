package camera

import (
	"errors"
	"fmt"
	"math"
)

type Options struct {
	Enabled bool

	UserRotate  bool
	RotateSpeed float64

	UserZoom  bool
	ZoomSpeed float64

	UserPan  bool
	PanSpeed float64

	// At speed 2 a full turn takes 30 seconds when rendering at 60fps.
	AutoRotate      bool
	AutoRotateSpeed float64

	// Radians from the +Y axis.
	MinPolarAngle float64
	MaxPolarAngle float64

	MinDistance float64
	MaxDistance float64
}

func DefaultOptions() Options {
	return Options{
		Enabled:         true,
		UserRotate:      true,
		RotateSpeed:     1,
		UserZoom:        true,
		ZoomSpeed:       1,
		UserPan:         true,
		PanSpeed:        2,
		AutoRotate:      false,
		AutoRotateSpeed: 2,
		MinPolarAngle:   0,
		MaxPolarAngle:   math.Pi,
		MinDistance:     0,
		MaxDistance:     math.Inf(1),
	}
}

var ErrInvalidOptions = errors.New("invalid camera options")

func (o Options) Validate() error {
	if o.MinPolarAngle > o.MaxPolarAngle {
		return fmt.Errorf("polar range [%v, %v]: %w", o.MinPolarAngle, o.MaxPolarAngle, ErrInvalidOptions)
	}
	if o.MinDistance < 0 || o.MinDistance > o.MaxDistance {
		return fmt.Errorf("distance range [%v, %v]: %w", o.MinDistance, o.MaxDistance, ErrInvalidOptions)
	}
	if o.ZoomSpeed < 0 || o.RotateSpeed < 0 || o.PanSpeed < 0 {
		return fmt.Errorf("negative speed: %w", ErrInvalidOptions)
	}
	return nil
}
