package board

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the root of every caller-bug error in this module;
// test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrInvalidTile = fmt.Errorf("invalid tile: %w", ErrInvalidArgument)
	ErrInvalidSlot = fmt.Errorf("invalid slot: %w", ErrInvalidArgument)
	ErrInvalidKind = fmt.Errorf("invalid entity kind: %w", ErrInvalidArgument)
)
