package scene

import (
	"time"

	"github.com/MobRulesGames/GoLLRB/llrb"
)

type step struct {
	due  time.Time
	slot int
}

// stepQueue orders pending player steps by due time, then slot, so that
// steps falling due together always run in the same order.
type stepQueue struct {
	tree *llrb.Tree
}

func newStepQueue() *stepQueue {
	less := func(_a, _b interface{}) bool {
		a := _a.(step)
		b := _b.(step)
		if !a.due.Equal(b.due) {
			return a.due.Before(b.due)
		}
		return a.slot < b.slot
	}
	return &stepQueue{tree: llrb.New(less)}
}

func (q *stepQueue) push(s step) {
	q.tree.ReplaceOrInsert(s)
}

func (q *stepQueue) remove(s step) {
	q.tree.Delete(s)
}

func (q *stepQueue) Len() int {
	return q.tree.Len()
}

// popDue removes and returns the earliest step if it is due at 'now'.
func (q *stepQueue) popDue(now time.Time) (step, bool) {
	if q.tree.Len() == 0 {
		return step{}, false
	}
	s := q.tree.Min().(step)
	if s.due.After(now) {
		return step{}, false
	}
	q.tree.Delete(s)
	return s, true
}
