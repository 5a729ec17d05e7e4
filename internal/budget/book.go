package budget

import (
	"sync"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/projection"
)

// Book owns one ledger and the month it is being viewed at. Apply, Replace
// and Rollover are the only write paths. Ledger values are replaced, never
// modified in place, so a State result stays valid after later writes.
type Book struct {
	mu    sync.RWMutex
	state model.BudgetState
	view  month.Month
	rev   uint64
}

// NewBook wraps s, viewed at its live month.
func NewBook(s model.BudgetState) *Book {
	return &Book{state: s, view: s.CurrentMonth}
}

// Mutation is a routed edit as exposed by this package.
type Mutation func(s model.BudgetState, view month.Month) (model.BudgetState, error)

// Apply runs m against the viewed month. On error the ledger is unchanged.
func (b *Book) Apply(m Mutation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := m(b.state, b.view)
	if err != nil {
		return err
	}
	b.state = next
	b.rev++
	return nil
}

// Replace swaps the whole ledger, as after an import or a rollover.
// The view snaps back to the live month.
func (b *Book) Replace(s model.BudgetState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
	b.view = s.CurrentMonth
	b.rev++
}

// Rollover advances the ledger to wall if it lags, reporting whether it did.
func (b *Book) Rollover(wall month.Month) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, rolled := CheckAndRollover(b.state, wall)
	if !rolled {
		return false
	}
	if b.view.Before(next.CurrentMonth) && b.view == b.state.CurrentMonth {
		b.view = next.CurrentMonth
	}
	b.state = next
	b.rev++
	return true
}

// State returns the ledger.
func (b *Book) State() model.BudgetState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Revision increases on every change.
func (b *Book) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rev
}

// ViewMonth returns the month edits are routed to.
func (b *Book) ViewMonth() month.Month {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// SetView changes the viewed month.
func (b *Book) SetView(m month.Month) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = m
}

// Shift moves the viewed month by n.
func (b *Book) Shift(n int) month.Month {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = b.view.Add(n)
	return b.view
}

// View projects the viewed month.
func (b *Book) View() projection.View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Project(b.state, b.view)
}
