package attribute

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	entity "pim.GO/model/entity"
)

// EditorState is the interaction state of one editable attribute row.
type EditorState int

const (
	StateIdle EditorState = iota
	StateEditing
	StateSaving
	StateSaved
	StateError
)

func (s EditorState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// RowEditor drives one attribute row's optimistic-save lifecycle:
//
//	idle → editing → (saving → saved → idle) | (saving → error → editing)
//
// Each input coerces the raw value, updates local state synchronously and
// re-arms the debounce; only the last input of a burst commits. Enter commits
// immediately, Escape reverts to the last committed value. Rows are
// independent: each editor owns its own state and debouncer, and nothing here
// blocks another row.
type RowEditor struct {
	mu        sync.Mutex
	store     *ValueStore
	def       entity.AttributeDefinition
	productID uint

	state     EditorState
	committed *entity.AttributeValue // nil until the first successful commit
	local     interface{}
	scope     entity.Scope
	lastErr   error

	debouncer *Debouncer
	onState   func(EditorState)
}

// NewRowEditor builds an editor for one attribute row. committed is the
// current stored value, or nil for a row the user has not filled in yet.
func NewRowEditor(store *ValueStore, def entity.AttributeDefinition, productID uint, committed *entity.AttributeValue, delay time.Duration) *RowEditor {
	e := &RowEditor{
		store:     store,
		def:       def,
		productID: productID,
		committed: committed,
		debouncer: NewDebouncer(delay),
	}
	e.local = e.committedValue()
	if committed != nil {
		e.scope = entity.Scope{Locale: committed.Locale, Channel: committed.Channel}
	}
	return e
}

// OnStateChange registers a hook invoked (outside the editor lock) on every
// state transition; UI surfaces use it to render saving/saved affordances.
func (e *RowEditor) OnStateChange(fn func(EditorState)) {
	e.mu.Lock()
	e.onState = fn
	e.mu.Unlock()
}

func (e *RowEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Value returns the current local (possibly uncommitted) value.
func (e *RowEditor) Value() interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.local
}

// Committed returns the last committed row, or nil for a brand-new one.
func (e *RowEditor) Committed() *entity.AttributeValue {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

// Err returns the error of the most recent failed commit.
func (e *RowEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *RowEditor) committedValue() interface{} {
	if e.committed != nil {
		return e.committed.Value
	}
	return ZeroValueFor(e.def.DataType)
}

// Begin enters editing, seeding the local value from the committed row (or
// the data type's zero value for a new row).
func (e *RowEditor) Begin() {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return
	}
	e.local = e.committedValue()
	fire := e.setStateLocked(StateEditing)
	e.mu.Unlock()
	fire()
}

// Input records a keystroke: the raw input is coerced, the local value
// updates synchronously, and the debounce window restarts. During continuous
// typing no commit fires; one commit fires per quiet period.
func (e *RowEditor) Input(raw interface{}) {
	e.mu.Lock()
	if e.state == StateIdle || e.state == StateSaved {
		e.state = StateEditing
	}
	e.local = CoerceForStorage(raw, e.def.DataType)
	fire := e.notifyLocked(StateEditing)
	e.mu.Unlock()
	fire()
	e.debouncer.Schedule(func() { e.commit() })
}

// SetScope changes the row's locale/channel selectors. The new scope rides
// along with the next commit; changing it does not itself trigger one.
func (e *RowEditor) SetScope(locale, channel string) {
	e.mu.Lock()
	e.scope = entity.Scope{Locale: locale, Channel: channel}
	e.mu.Unlock()
}

// Enter bypasses the debounce and commits the current local value now.
func (e *RowEditor) Enter() {
	e.debouncer.Cancel()
	e.commit()
}

// Escape cancels any pending commit and reverts to the last committed value.
func (e *RowEditor) Escape() {
	e.debouncer.Cancel()
	e.mu.Lock()
	e.local = e.committedValue()
	e.lastErr = nil
	fire := e.setStateLocked(StateIdle)
	e.mu.Unlock()
	fire()
}

// commit sends the local value to the store. Commits already in flight are
// not serialized with new ones: if the user edits again while saving, the two
// requests may settle out of order and the last response to land wins.
func (e *RowEditor) commit() {
	e.mu.Lock()
	value := e.local
	scope := e.scope
	row := e.committed
	// A row only comes into existence on the first non-empty commit; an
	// untouched or cleared new row goes back to idle without a write.
	if row == nil && isEmptyValue(value) {
		fire := e.setStateLocked(StateIdle)
		e.mu.Unlock()
		fire()
		return
	}
	fire := e.setStateLocked(StateSaving)
	e.mu.Unlock()
	fire()

	ctx := context.Background()
	defs := []entity.AttributeDefinition{e.def}

	var (
		saved   entity.AttributeValue
		outcome CommitOutcome
		err     error
	)
	if row == nil {
		saved, outcome, err = e.store.CreateValue(ctx, e.def.ID, value, e.productID, scope.Locale, scope.Channel, defs)
	} else {
		saved, err = e.store.UpdateValue(ctx, row.ID, value, e.productID, scope.Locale, scope.Channel, defs)
		outcome = OutcomeUpdated
	}

	if err != nil {
		zlog.Warn().Err(err).Str("attribute", e.def.Code).Msg("commit failed")
		e.mu.Lock()
		e.lastErr = err
		fireErr := e.setStateLocked(StateError)
		fireEdit := e.setStateLocked(StateEditing)
		e.mu.Unlock()
		fireErr()
		fireEdit()
		return
	}

	e.mu.Lock()
	e.lastErr = nil
	e.committed = &saved
	zlog.Debug().Str("attribute", e.def.Code).Str("outcome", outcome.String()).Msg("commit settled")
	fireSaved := e.setStateLocked(StateSaved)
	fireIdle := e.setStateLocked(StateIdle)
	e.mu.Unlock()
	fireSaved()
	fireIdle()
}

// setStateLocked transitions state and returns the deferred notification so
// the hook runs outside the lock. Caller must hold e.mu.
func (e *RowEditor) setStateLocked(s EditorState) func() {
	e.state = s
	return e.notifyLocked(s)
}

func (e *RowEditor) notifyLocked(s EditorState) func() {
	fn := e.onState
	if fn == nil {
		return func() {}
	}
	return func() { fn(s) }
}
