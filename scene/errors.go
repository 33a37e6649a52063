package scene

import (
	"errors"
	"fmt"

	"github.com/MobRulesGames/boardscene/board"
)

var (
	ErrMoveReplaced = errors.New("move replaced by a newer move")
	ErrMoveCanceled = errors.New("move canceled")

	ErrNotOwned      = errors.New("property is not owned")
	ErrTooManyHouses = errors.New("too many houses")
	ErrHasHotel      = errors.New("property already has a hotel")
	ErrStale         = errors.New("model arrived after the scene changed")

	ErrUnknownPlayer  = fmt.Errorf("unknown player: %w", board.ErrInvalidArgument)
	ErrAlreadySpawned = errors.New("players already spawned")
	ErrMissingScene   = errors.New("no scene given")
	ErrMissingModels  = errors.New("no model source given")
)
