// Package occlusion wraps a GPU query object in an asynchronous state machine that is polled, never awaited.
package occlusion

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/pkg/errors"
)

var (
	// ErrQueryInUse is returned by Start while a previous cycle has not been consumed by Result.
	ErrQueryInUse = errors.New("query is already in use")

	// ErrQueryNotStarted is returned by End when Start has not been called in the current cycle.
	ErrQueryNotStarted = errors.New("query has not been started")

	// ErrQueryNotEnded is returned by Result while the current cycle is still counting.
	ErrQueryNotEnded = errors.New("query has not been ended")

	// ErrQueryNotInUse is returned by Result when there is no pending cycle to consume.
	ErrQueryNotInUse = errors.New("query is not in use")
)

// Device is the subset of the GPU surface a Query drives.
type Device interface {
	CreateQuery() (renderer.QueryHandle, error)
	BeginQuery(kind renderer.QueryKind, q renderer.QueryHandle)
	EndQuery(kind renderer.QueryKind)
	QueryResultAvailable(q renderer.QueryHandle) bool
	QueryResult(q renderer.QueryHandle) uint64
	DeleteQuery(q renderer.QueryHandle)
}

type queryPhase int

const (
	phaseIdle queryPhase = iota
	phaseStarted
	phaseEnded
)

// query is the implementation of the Query interface.
type query struct {
	device Device
	handle renderer.QueryHandle
	kind   renderer.QueryKind
	phase  queryPhase
}

// Query defines a single hardware counter cycling through idle, started, ended and consumed.
//
// A cycle begins with Start and ends when Result is read; until then InUse reports true and a
// new Start is rejected. Results become readable some frames after End, which is observed by
// polling ResultReady. Calling Result before ResultReady reports true is allowed but may stall
// the caller until the device catches up.
type Query interface {
	// Start begins counting for a new cycle.
	//
	// Returns:
	//   - error: ErrQueryInUse if the previous cycle has not been consumed
	Start() error

	// End stops counting for the current cycle.
	//
	// Returns:
	//   - error: ErrQueryNotStarted unless Start was called in this cycle
	End() error

	// ResultReady polls the device without blocking.
	//
	// Returns:
	//   - bool: true if the cycle has ended and its result is available
	ResultReady() bool

	// InUse reports whether a cycle is pending (from Start until Result).
	//
	// Returns:
	//   - bool: true while the query must not be restarted
	InUse() bool

	// Result reads the counted value and closes the cycle.
	//
	// Returns:
	//   - uint64: the number of samples (or 0/1 for an any-samples query)
	//   - error: ErrQueryNotInUse if no cycle is pending, ErrQueryNotEnded if End was not called
	Result() (uint64, error)

	// Release deletes the underlying device object. The Query must not be used afterwards.
	Release()
}

var _ Query = &query{}

// NewQuery allocates a device query object of the given kind.
//
// Parameters:
//   - device: the device owning the query object
//   - kind: what the query counts
//
// Returns:
//   - Query: the idle query
//   - error: error if the device cannot allocate a query object
func NewQuery(device Device, kind renderer.QueryKind) (Query, error) {
	if device == nil {
		panic("occlusion: device must not be nil")
	}
	h, err := device.CreateQuery()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create occlusion query")
	}
	return &query{
		device: device,
		handle: h,
		kind:   kind,
	}, nil
}

func (q *query) Start() error {
	if q.phase != phaseIdle {
		return ErrQueryInUse
	}
	q.device.BeginQuery(q.kind, q.handle)
	q.phase = phaseStarted
	return nil
}

func (q *query) End() error {
	if q.phase != phaseStarted {
		return ErrQueryNotStarted
	}
	q.device.EndQuery(q.kind)
	q.phase = phaseEnded
	return nil
}

func (q *query) ResultReady() bool {
	if q.phase != phaseEnded {
		return false
	}
	return q.device.QueryResultAvailable(q.handle)
}

func (q *query) InUse() bool {
	return q.phase != phaseIdle
}

func (q *query) Result() (uint64, error) {
	if q.phase == phaseIdle {
		return 0, ErrQueryNotInUse
	}
	if q.phase == phaseStarted {
		return 0, ErrQueryNotEnded
	}
	v := q.device.QueryResult(q.handle)
	q.phase = phaseIdle
	return v, nil
}

func (q *query) Release() {
	q.device.DeleteQuery(q.handle)
	q.phase = phaseIdle
}
