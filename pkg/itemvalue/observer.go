package itemvalue

import (
	"sync"
	"time"
)

// PassKind names which flag a pass recomputed.
type PassKind string

const (
	VisibilityPass PassKind = "visibility"
	EnablementPass PassKind = "enablement"
)

// PassStats summarizes one evaluator pass.
type PassStats struct {
	Kind     PassKind
	Items    int
	Changed  int
	Filtered int
	Faults   int
	Duration time.Duration
}

// PassObserver receives evaluator results. Implementations must not start
// another pass on the same context from inside a callback.
type PassObserver interface {
	PassCompleted(stats PassStats)
	RunnerFault(item *Item, expression string, err error)
}

type nopObserver struct{}

func (nopObserver) PassCompleted(PassStats)          {}
func (nopObserver) RunnerFault(*Item, string, error) {}

// MultiObserver fans out to several observers.
type MultiObserver []PassObserver

func (m MultiObserver) PassCompleted(stats PassStats) {
	for _, o := range m {
		o.PassCompleted(stats)
	}
}

func (m MultiObserver) RunnerFault(item *Item, expression string, err error) {
	for _, o := range m {
		o.RunnerFault(item, expression, err)
	}
}

var (
	observerMu sync.RWMutex
	observer   PassObserver = nopObserver{}
)

// SetObserver installs o for all subsequent passes and returns the previous
// observer. nil disables reporting.
func SetObserver(o PassObserver) PassObserver {
	observerMu.Lock()
	defer observerMu.Unlock()
	prev := observer
	if o == nil {
		o = nopObserver{}
	}
	observer = o
	return prev
}

func currentObserver() PassObserver {
	observerMu.RLock()
	defer observerMu.RUnlock()
	return observer
}
