package scene

import "github.com/MobRulesGames/boardscene/board"

// Move tracks one player's walk around the board. It completes when the
// player reaches its destination, or early with ErrMoveReplaced or
// ErrMoveCanceled.
type Move struct {
	slot     int
	from, to board.TileIndex

	done chan struct{}
	err  error
}

func newMove(slot int, from, to board.TileIndex) *Move {
	return &Move{slot: slot, from: from, to: to, done: make(chan struct{})}
}

func (m *Move) Slot() int {
	return m.slot
}

func (m *Move) From() board.TileIndex {
	return m.from
}

func (m *Move) To() board.TileIndex {
	return m.to
}

// Done is closed once the move has completed.
func (m *Move) Done() <-chan struct{} {
	return m.done
}

// Err is nil until Done is closed, and nil afterwards if the player arrived.
func (m *Move) Err() error {
	select {
	case <-m.done:
		return m.err
	default:
		return nil
	}
}

func (m *Move) finish(err error) {
	m.err = err
	close(m.done)
}
