// Package orchestrator coordinates the parser, metrics and carry-over logic
// against the local and remote stores. It is the only component touching
// both stores and owns all reconciliation policy: local-first reads, carry
// over on load, best-effort per-unit remote writes, cascading deletes, and
// summaries recomputed from raw readings on whichever store answers.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/carryover"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/metrics"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

type Orchestrator struct {
	local  LocalStore
	remote RemoteStore
	userID string

	saveGate   gate
	deleteGate gate
	// mutMu serializes the store-mutation sections of Save and Delete so an
	// overlapping save and delete on the same record cannot interleave.
	mutMu sync.Mutex
}

// New builds an orchestrator. remote may be nil when the instance never
// operates authenticated.
func New(local LocalStore, remote RemoteStore, userID string) *Orchestrator {
	return &Orchestrator{local: local, remote: remote, userID: userID}
}

// Load reads the record for dateKey, carrying forward the previous day's
// closing readings into empty opening fields. Carry-over that changes the
// record persists it immediately, so a load can cause a write. When
// authenticated, the remote record supersedes the local one; a remote
// failure degrades to the local result and is reported in LoadResult,
// never as an error.
func (o *Orchestrator) Load(ctx context.Context, dateKey string, authenticated bool) (*LoadResult, error) {
	if _, err := types.ParseDateKey(dateKey); err != nil {
		return nil, err
	}
	prevKey, err := types.PrevDateKey(dateKey)
	if err != nil {
		return nil, err
	}

	rec, found, err := o.local.LoadDay(dateKey)
	if err != nil {
		log.Printf("Local load failed for %s, starting from defaults: %v", dateKey, err)
		found = false
	}
	if !found {
		rec = types.NewDayRecord(dateKey)
	}

	prev, _, err := o.local.LoadDay(prevKey)
	if err != nil {
		log.Printf("Local load failed for predecessor %s: %v", prevKey, err)
		prev = nil
	}

	rec, linked := carryover.Link(rec, prev)
	if linked {
		// A load that links causes a write; failing to persist degrades the
		// session (the link recomputes next load) but never aborts it.
		if err := o.local.SaveDay(rec); err != nil {
			log.Printf("Persist carry-over failed for %s: %v", dateKey, err)
		}
	}

	if !authenticated || o.remote == nil {
		return &LoadResult{Record: rec, Linked: linked}, nil
	}

	remoteRec, remoteLinked, dayID, err := o.loadRemote(ctx, dateKey, prevKey)
	if err != nil {
		log.Printf("Remote load failed for %s, falling back to local: %v", dateKey, err)
		return &LoadResult{Record: rec, Linked: linked, RemoteErr: err}, nil
	}

	// The remote result supersedes local; write it back locally so the
	// caches stay aligned.
	if err := o.local.SaveDay(remoteRec); err != nil {
		log.Printf("Local cache update failed for %s: %v", dateKey, err)
	}
	return &LoadResult{Record: remoteRec, DayID: dayID, Linked: remoteLinked}, nil
}

func (o *Orchestrator) loadRemote(ctx context.Context, dateKey, prevKey string) (*types.DayRecord, bool, string, error) {
	rec, dayID, err := o.remote.FetchDay(ctx, o.userID, dateKey)
	if err != nil {
		return nil, false, "", err
	}
	if rec == nil {
		rec = types.NewDayRecord(dateKey)
	}

	prev, _, err := o.remote.FetchDay(ctx, o.userID, prevKey)
	if err != nil {
		return nil, false, "", err
	}

	rec, linked := carryover.Link(rec, prev)
	if linked {
		dayID, err = o.saveRemoteRecord(ctx, rec, dayID)
		if err != nil {
			return nil, false, "", err
		}
	}
	return rec, linked, dayID, nil
}

// saveRemoteRecord upserts every unit of rec, ensuring the day row first.
// Unit failures only log here; Save reports them per unit instead.
func (o *Orchestrator) saveRemoteRecord(ctx context.Context, rec *types.DayRecord, dayID string) (string, error) {
	if dayID == "" {
		var err error
		dayID, err = o.remote.EnsureDay(ctx, o.userID, rec.DateKey)
		if err != nil {
			return "", err
		}
	}
	for _, u := range o.upsertUnits(ctx, rec, dayID) {
		if u.Err != nil {
			log.Printf("Remote %s %s upsert failed for %s: %v", u.Kind, u.Code, rec.DateKey, u.Err)
		}
	}
	return dayID, nil
}

// upsertUnits writes all feeder and turbine rows for dayID. The two groups
// run concurrently; each unit is attempted independently, so one failed row
// never aborts the rest.
func (o *Orchestrator) upsertUnits(ctx context.Context, rec *types.DayRecord, dayID string) []UnitResult {
	feederResults := make([]UnitResult, len(types.FeederCodes))
	turbineResults := make([]UnitResult, len(types.TurbineCodes))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i, code := range types.FeederCodes {
			feederResults[i] = UnitResult{
				Kind: UnitFeeder,
				Code: code,
				Err:  o.remote.UpsertFeeder(ctx, dayID, code, rec.Feeders[code]),
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i, code := range types.TurbineCodes {
			turbineResults[i] = UnitResult{
				Kind: UnitTurbine,
				Code: code,
				Err:  o.remote.UpsertTurbine(ctx, dayID, code, rec.Turbines[code]),
			}
		}
	}()
	wg.Wait()

	return append(feederResults, turbineResults...)
}

// Save persists the whole record locally, then best-effort to the remote
// store when authenticated. A save issued while another is in flight is
// dropped with ErrInFlight.
func (o *Orchestrator) Save(ctx context.Context, rec *types.DayRecord, authenticated bool) (*SaveResult, error) {
	if !o.saveGate.tryAcquire() {
		return nil, ErrInFlight
	}
	defer o.saveGate.release()
	o.mutMu.Lock()
	defer o.mutMu.Unlock()

	rec.Normalize()
	if err := o.local.SaveDay(rec); err != nil {
		return nil, fmt.Errorf("local save for %s: %w", rec.DateKey, err)
	}

	result := &SaveResult{}
	if !authenticated || o.remote == nil {
		return result, nil
	}

	dayID, err := o.remote.EnsureDay(ctx, o.userID, rec.DateKey)
	if err != nil {
		log.Printf("Remote day row for %s unavailable: %v", rec.DateKey, err)
		result.RemoteErr = err
		return result, nil
	}
	result.DayID = dayID

	result.Units = o.upsertUnits(ctx, rec, dayID)
	for _, u := range result.Units {
		if u.Err != nil {
			log.Printf("Remote %s %s upsert failed for %s: %v", u.Kind, u.Code, rec.DateKey, u.Err)
		}
	}
	return result, nil
}

// Delete removes a day everywhere. The remote cascade runs first (feeders,
// turbines, day row); any remote failure aborts before local state is
// touched. dayID may be empty when the day never reached the remote store.
func (o *Orchestrator) Delete(ctx context.Context, dayID, dateKey string) error {
	if !o.deleteGate.tryAcquire() {
		return ErrInFlight
	}
	defer o.deleteGate.release()
	o.mutMu.Lock()
	defer o.mutMu.Unlock()

	if dayID != "" && o.remote != nil {
		if err := o.remote.DeleteDay(ctx, dayID); err != nil {
			return fmt.Errorf("remote delete for %s: %w", dateKey, err)
		}
	}
	if err := o.local.DeleteDay(dateKey); err != nil {
		return fmt.Errorf("local delete for %s: %w", dateKey, err)
	}
	return nil
}

// SummarizeDay recomputes the day figures from raw readings, remote-side
// when authenticated, local otherwise. Both paths share the metrics package.
func (o *Orchestrator) SummarizeDay(ctx context.Context, dateKey string, authenticated bool) (*metrics.DaySummary, error) {
	var rec *types.DayRecord
	if authenticated && o.remote != nil {
		remoteRec, _, err := o.remote.FetchDay(ctx, o.userID, dateKey)
		if err != nil {
			return nil, fmt.Errorf("remote day summary for %s: %w", dateKey, err)
		}
		rec = remoteRec
	} else {
		localRec, _, err := o.local.LoadDay(dateKey)
		if err != nil {
			return nil, fmt.Errorf("local day summary for %s: %w", dateKey, err)
		}
		rec = localRec
	}
	if rec == nil {
		rec = types.NewDayRecord(dateKey)
	}
	summary := metrics.SummarizeDay(rec)
	return &summary, nil
}

// SummarizeMonth aggregates every known day in the year-month, recomputing
// from raw readings on whichever store answers.
func (o *Orchestrator) SummarizeMonth(ctx context.Context, yearMonth string, authenticated bool) (*metrics.MonthSummary, error) {
	var recs []*types.DayRecord
	if authenticated && o.remote != nil {
		remoteRecs, err := o.remote.FetchMonth(ctx, o.userID, yearMonth)
		if err != nil {
			return nil, fmt.Errorf("remote month summary for %s: %w", yearMonth, err)
		}
		recs = remoteRecs
	} else {
		days, err := o.local.ListMonth(yearMonth)
		if err != nil {
			return nil, fmt.Errorf("local month summary for %s: %w", yearMonth, err)
		}
		for _, day := range days {
			rec, found, err := o.local.LoadDay(day)
			if err != nil {
				return nil, fmt.Errorf("local month summary for %s: %w", yearMonth, err)
			}
			if found {
				recs = append(recs, rec)
			}
		}
	}
	summary := metrics.SummarizeMonth(yearMonth, recs)
	return &summary, nil
}

// ListDays exposes the local day index for calendar navigation.
func (o *Orchestrator) ListDays() ([]string, error) {
	return o.local.ListDays()
}
