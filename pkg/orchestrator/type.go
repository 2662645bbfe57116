package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

// ErrInFlight reports that a Save or Delete was dropped because one is
// already running. Rapid repeated submissions are expected; callers should
// treat this as a no-op, not a failure.
var ErrInFlight = errors.New("operation already in flight")

// LocalStore is the durable local-first store, one whole record per day plus
// a sorted index of known days.
type LocalStore interface {
	LoadDay(dateKey string) (*types.DayRecord, bool, error)
	SaveDay(rec *types.DayRecord) error
	DeleteDay(dateKey string) error
	ListDays() ([]string, error)
	ListMonth(yearMonth string) ([]string, error)
}

// RemoteStore is the relational store keyed by user and date. Only raw
// readings cross this boundary; derived figures are recomputed locally.
type RemoteStore interface {
	EnsureDay(ctx context.Context, userID, dateKey string) (string, error)
	FetchDay(ctx context.Context, userID, dateKey string) (*types.DayRecord, string, error)
	UpsertFeeder(ctx context.Context, dayID, code string, rec types.FeederRecord) error
	UpsertTurbine(ctx context.Context, dayID, code string, rec types.TurbineRecord) error
	FetchMonth(ctx context.Context, userID, yearMonth string) ([]*types.DayRecord, error)
	DeleteDay(ctx context.Context, dayID string) error
}

// LoadResult carries the record to display plus how it was obtained.
type LoadResult struct {
	Record *types.DayRecord `json:"record"`
	// DayID is the remote day-row id when the remote path was taken and the
	// day exists remotely; empty otherwise.
	DayID string `json:"day_id,omitempty"`
	// Linked reports whether carry-over filled in any opening readings.
	Linked bool `json:"linked"`
	// RemoteErr is set when the remote fetch failed and the result fell back
	// to local-only. The editing session is degraded, not aborted.
	RemoteErr error `json:"-"`
}

type UnitKind string

const (
	UnitFeeder  UnitKind = "feeder"
	UnitTurbine UnitKind = "turbine"
)

// UnitResult is the outcome of one per-unit remote upsert. The remote write
// is not transactional across units; callers see exactly which rows failed.
type UnitResult struct {
	Kind UnitKind `json:"kind"`
	Code string   `json:"code"`
	Err  error    `json:"-"`
}

// SaveResult reports the remote side of a save. The local write either
// succeeded (Save returned nil) or nothing else was attempted.
type SaveResult struct {
	DayID string `json:"day_id,omitempty"`
	// RemoteErr is set when the day row itself could not be ensured; no unit
	// upserts were attempted in that case.
	RemoteErr error `json:"-"`
	// Units holds one entry per feeder and turbine attempted remotely.
	Units []UnitResult `json:"units,omitempty"`
}

// FailedUnits returns the units whose upsert failed.
func (r *SaveResult) FailedUnits() []UnitResult {
	var out []UnitResult
	for _, u := range r.Units {
		if u.Err != nil {
			out = append(out, u)
		}
	}
	return out
}

// gate is an advisory in-flight marker scoped to one operation kind. A held
// gate drops later requests instead of queueing them.
type gate struct {
	mu   sync.Mutex
	busy bool
}

func (g *gate) tryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

func (g *gate) release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
