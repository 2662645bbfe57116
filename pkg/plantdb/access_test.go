package plantdb

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

// newTestStore opens an in-memory database and applies the embedded schema
// statement by statement.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	// The pool must not open a second connection: every in-memory
	// connection is its own database.
	store.db.SetMaxOpenConns(1)
	t.Cleanup(func() { store.Close() })

	schema, err := migrationFS.ReadFile("migrations/0001_plant_ledger.sql")
	require.NoError(t, err)
	for _, stmt := range strings.Split(string(schema), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		_, err := store.db.Exec(stmt)
		require.NoError(t, err)
	}
	return store
}

func TestReadingNullConversion(t *testing.T) {
	assert.False(t, readingToNull("").Valid)
	assert.False(t, readingToNull("  ").Valid)
	assert.False(t, readingToNull("junk").Valid)

	n := readingToNull("00850")
	require.True(t, n.Valid)
	assert.Equal(t, 850.0, n.Float64)
	assert.Equal(t, "850", nullToReading(n))

	assert.Equal(t, "", nullToReading(readingToNull("")))
	assert.Equal(t, "12.5", nullToReading(readingToNull("12.5")))
}

func TestEnsureDayReusesRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id1, err := store.EnsureDay(ctx, "operator", "2025-06-01")
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := store.EnsureDay(ctx, "operator", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	// The id is generated, not the date string.
	assert.NotEqual(t, "2025-06-01", id1)

	// A different user gets a different row for the same date.
	other, err := store.EnsureDay(ctx, "other", "2025-06-01")
	require.NoError(t, err)
	assert.NotEqual(t, id1, other)
}

func TestUpsertAndFetchDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dayID, err := store.EnsureDay(ctx, "operator", "2025-06-01")
	require.NoError(t, err)

	require.NoError(t, store.UpsertFeeder(ctx, dayID, "F2", types.FeederRecord{Start: "1000", End: "1300"}))
	require.NoError(t, store.UpsertFeeder(ctx, dayID, "F3", types.FeederRecord{Start: "", End: "200"}))
	require.NoError(t, store.UpsertTurbine(ctx, dayID, "A", types.TurbineRecord{Previous: "100", Present: "150", Hours: "24"}))
	require.NoError(t, store.UpsertTurbine(ctx, dayID, "S", types.TurbineRecord{}))

	rec, gotID, err := store.FetchDay(ctx, "operator", "2025-06-01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, dayID, gotID)
	assert.Equal(t, types.FeederRecord{Start: "1000", End: "1300"}, rec.Feeders["F2"])
	assert.Equal(t, types.FeederRecord{Start: "", End: "200"}, rec.Feeders["F3"]) // NULL reads back as empty
	assert.Equal(t, types.TurbineRecord{Previous: "100", Present: "150", Hours: "24"}, rec.Turbines["A"])
	assert.Equal(t, types.TurbineRecord{}, rec.Turbines["S"])
	// Roster entries missing remotely are filled with defaults.
	assert.Contains(t, rec.Feeders, "F4")

	// Second upsert on the same (day, code) replaces, never duplicates.
	require.NoError(t, store.UpsertFeeder(ctx, dayID, "F2", types.FeederRecord{Start: "1300", End: "1500"}))
	rec, _, err = store.FetchDay(ctx, "operator", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, types.FeederRecord{Start: "1300", End: "1500"}, rec.Feeders["F2"])

	var count int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM feeders WHERE daily_data_id = ? AND feeder_name = 'F2'", dayID,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestFetchDayAbsent(t *testing.T) {
	store := newTestStore(t)
	rec, id, err := store.FetchDay(context.Background(), "operator", "2025-06-01")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, id)
}

func TestDeleteDayCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dayID, err := store.EnsureDay(ctx, "operator", "2025-06-01")
	require.NoError(t, err)
	require.NoError(t, store.UpsertFeeder(ctx, dayID, "F2", types.FeederRecord{Start: "1", End: "2"}))
	require.NoError(t, store.UpsertTurbine(ctx, dayID, "A", types.TurbineRecord{Present: "5"}))

	require.NoError(t, store.DeleteDay(ctx, dayID))

	for _, table := range []string{"feeders", "turbines"} {
		var count int
		require.NoError(t, store.db.QueryRow(
			"SELECT COUNT(*) FROM "+table+" WHERE daily_data_id = ?", dayID,
		).Scan(&count))
		assert.Zero(t, count, table)
	}
	rec, _, err := store.FetchDay(ctx, "operator", "2025-06-01")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, day := range []string{"2025-06-30", "2025-06-01", "2025-05-31", "2025-07-01"} {
		id, err := store.EnsureDay(ctx, "operator", day)
		require.NoError(t, err)
		require.NoError(t, store.UpsertTurbine(ctx, id, "A", types.TurbineRecord{Previous: "0", Present: "10"}))
	}
	// Another user's June must not leak in.
	_, err := store.EnsureDay(ctx, "other", "2025-06-15")
	require.NoError(t, err)

	recs, err := store.FetchMonth(ctx, "operator", "2025-06")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-06-01", recs[0].DateKey)
	assert.Equal(t, "2025-06-30", recs[1].DateKey)
	assert.Equal(t, "10", recs[0].Turbines["A"].Present)
}
