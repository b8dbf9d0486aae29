package orchestrator

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"electronic_product/internal/common"
)

// State là trạng thái của một bảng trong một lần chạy
type State string

const (
	StateIdle      State = "idle"
	StateReading   State = "reading"
	StateResolving State = "resolving"
	StateEnriching State = "enriching"
	StateLoading   State = "loading"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// transitions liệt kê các bước hợp lệ. Bảng mirror đi thẳng Reading -> Loading,
// nguồn rỗng đi Reading -> Done, job không cần tra cứu đi Reading -> Enriching.
var transitions = map[State][]State{
	StateIdle:      {StateReading},
	StateReading:   {StateResolving, StateEnriching, StateLoading, StateDone},
	StateResolving: {StateEnriching},
	StateEnriching: {StateLoading},
	StateLoading:   {StateDone},
}

// Terminal cho biết trạng thái kết thúc
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Tracker theo dõi trạng thái một bảng
type Tracker struct {
	table string
	log   logrus.FieldLogger

	mu      sync.Mutex
	state   State
	history []State
}

// NewTracker tạo tracker ở trạng thái Idle
func NewTracker(table string, log logrus.FieldLogger) *Tracker {
	return &Tracker{
		table:   table,
		log:     log.WithField("table", table),
		state:   StateIdle,
		history: []State{StateIdle},
	}
}

// To chuyển sang trạng thái next, lỗi common.ErrInvalidTransition nếu không hợp lệ.
// Mọi trạng thái chưa kết thúc đều chuyển được sang Failed.
func (t *Tracker) To(next State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.allowed(next) {
		return common.ErrInvalidTransition.WithDetails(fmt.Errorf("%s: %s -> %s", t.table, t.state, next))
	}
	t.log.WithFields(logrus.Fields{"from": t.state, "to": next}).Debug("State changed")
	t.state = next
	t.history = append(t.history, next)
	return nil
}

func (t *Tracker) allowed(next State) bool {
	if t.state.Terminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	for _, s := range transitions[t.state] {
		if s == next {
			return true
		}
	}
	return false
}

// Fail chuyển sang Failed và trả lại err để caller return luôn
func (t *Tracker) Fail(err error) error {
	if terr := t.To(StateFailed); terr != nil {
		t.log.WithError(terr).Warn("Cannot mark table as failed")
	}
	return err
}

// State trạng thái hiện tại
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// History các trạng thái đã đi qua, gồm cả Idle
func (t *Tracker) History() []State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]State(nil), t.history...)
}
