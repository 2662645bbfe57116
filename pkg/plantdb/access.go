package plantdb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/readings"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

// Empty readings are stored as explicit NULL, never as empty string or zero.
func readingToNull(raw string) sql.NullFloat64 {
	v := readings.Parse(raw)
	if v.Missing {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v.Num, Valid: true}
}

func nullToReading(n sql.NullFloat64) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

// EnsureDay returns the day-row id for (user, dateKey), creating the row
// with a fresh uuid when absent.
func (s *Store) EnsureDay(ctx context.Context, userID, dateKey string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM daily_data WHERE user_id = ? AND date_key = ?",
		userID, dateKey,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("look up day row %s: %w", dateKey, err)
	}

	id = uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO daily_data (id, user_id, date_key) VALUES (?, ?, ?)",
		id, userID, dateKey,
	)
	if err != nil {
		return "", fmt.Errorf("insert day row %s: %w", dateKey, err)
	}
	return id, nil
}

// UpsertFeeder writes one feeder's readings, keyed by (day-row id, code).
func (s *Store) UpsertFeeder(ctx context.Context, dayID, code string, rec types.FeederRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO feeders (daily_data_id, feeder_name, start_reading, end_reading) "+
			"VALUES (?, ?, ?, ?) "+
			"ON CONFLICT (daily_data_id, feeder_name) DO UPDATE SET "+
			"start_reading = excluded.start_reading, end_reading = excluded.end_reading",
		dayID, code, readingToNull(rec.Start), readingToNull(rec.End),
	)
	if err != nil {
		return fmt.Errorf("upsert feeder %s: %w", code, err)
	}
	return nil
}

// UpsertTurbine writes one turbine's readings, keyed by (day-row id, code).
func (s *Store) UpsertTurbine(ctx context.Context, dayID, code string, rec types.TurbineRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO turbines (daily_data_id, turbine_name, previous_reading, present_reading, hours) "+
			"VALUES (?, ?, ?, ?, ?) "+
			"ON CONFLICT (daily_data_id, turbine_name) DO UPDATE SET "+
			"previous_reading = excluded.previous_reading, "+
			"present_reading = excluded.present_reading, hours = excluded.hours",
		dayID, code, readingToNull(rec.Previous), readingToNull(rec.Present), readingToNull(rec.Hours),
	)
	if err != nil {
		return fmt.Errorf("upsert turbine %s: %w", code, err)
	}
	return nil
}

// FetchDay reassembles the stored rows for (user, dateKey) into a DayRecord.
// Returns (nil, "", nil) when no day row exists.
func (s *Store) FetchDay(ctx context.Context, userID, dateKey string) (*types.DayRecord, string, error) {
	var dayID string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM daily_data WHERE user_id = ? AND date_key = ?",
		userID, dateKey,
	).Scan(&dayID)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("look up day row %s: %w", dateKey, err)
	}

	rec, err := s.fetchDayUnits(ctx, dayID, dateKey)
	if err != nil {
		return nil, "", err
	}
	return rec, dayID, nil
}

func (s *Store) fetchDayUnits(ctx context.Context, dayID, dateKey string) (*types.DayRecord, error) {
	rec := types.NewDayRecord(dateKey)

	rows, err := s.db.QueryContext(ctx,
		"SELECT feeder_name, start_reading, end_reading FROM feeders WHERE daily_data_id = ?",
		dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch feeders for %s: %w", dateKey, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var start, end sql.NullFloat64
		if err := rows.Scan(&name, &start, &end); err != nil {
			return nil, fmt.Errorf("scan feeder row: %w", err)
		}
		rec.Feeders[name] = types.FeederRecord{
			Start: nullToReading(start),
			End:   nullToReading(end),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feeder rows: %w", err)
	}

	tRows, err := s.db.QueryContext(ctx,
		"SELECT turbine_name, previous_reading, present_reading, hours FROM turbines WHERE daily_data_id = ?",
		dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch turbines for %s: %w", dateKey, err)
	}
	defer tRows.Close()
	for tRows.Next() {
		var name string
		var previous, present, hours sql.NullFloat64
		if err := tRows.Scan(&name, &previous, &present, &hours); err != nil {
			return nil, fmt.Errorf("scan turbine row: %w", err)
		}
		rec.Turbines[name] = types.TurbineRecord{
			Previous: nullToReading(previous),
			Present:  nullToReading(present),
			Hours:    nullToReading(hours),
		}
	}
	if err := tRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turbine rows: %w", err)
	}

	rec.Normalize()
	return rec, nil
}

// FetchMonth returns the reassembled records for every stored day in the
// year-month, ascending by date key. Date keys are zero-padded so the month
// window is a string range.
func (s *Store) FetchMonth(ctx context.Context, userID, yearMonth string) ([]*types.DayRecord, error) {
	prefix := types.MonthPrefix(yearMonth)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date_key FROM daily_data "+
			"WHERE user_id = ? AND date_key >= ? AND date_key < ? ORDER BY date_key",
		userID, prefix, prefix+"~",
	)
	if err != nil {
		return nil, fmt.Errorf("fetch month %s: %w", yearMonth, err)
	}
	defer rows.Close()

	var days []DailyDataRow
	for rows.Next() {
		var day DailyDataRow
		if err := rows.Scan(&day.ID, &day.DateKey); err != nil {
			return nil, fmt.Errorf("scan day row: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day rows: %w", err)
	}

	recs := make([]*types.DayRecord, 0, len(days))
	for _, day := range days {
		rec, err := s.fetchDayUnits(ctx, day.ID, day.DateKey)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// DeleteDay removes a day and everything referencing it: feeder rows first,
// then turbine rows, then the day row. Any failure aborts the remainder.
func (s *Store) DeleteDay(ctx context.Context, dayID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM feeders WHERE daily_data_id = ?", dayID); err != nil {
		return fmt.Errorf("delete feeder rows: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM turbines WHERE daily_data_id = ?", dayID); err != nil {
		return fmt.Errorf("delete turbine rows: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM daily_data WHERE id = ?", dayID); err != nil {
		return fmt.Errorf("delete day row: %w", err)
	}
	return nil
}
