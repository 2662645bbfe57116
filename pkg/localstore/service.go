// Package localstore is the local-first record store: one JSON file per day
// plus a sorted index of known day keys, under the application data dir.
// Saves are whole-record replaces; a day record is never partially written.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

const indexFile = "days-index.json"

type Store struct {
	dir string
}

// NewStore creates the data dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) dayPath(dateKey string) string {
	return filepath.Join(s.dir, fmt.Sprintf("day-%s.json", dateKey))
}

// LoadDay reads the stored record for dateKey. found is false when no record
// was ever saved for that day.
func (s *Store) LoadDay(dateKey string) (*types.DayRecord, bool, error) {
	data, err := os.ReadFile(s.dayPath(dateKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read day record %s: %w", dateKey, err)
	}

	var rec types.DayRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("unmarshal day record %s: %w", dateKey, err)
	}
	rec.DateKey = dateKey
	rec.Normalize()
	return &rec, true, nil
}

// SaveDay replaces the whole record and inserts its key into the sorted day
// index when absent.
func (s *Store) SaveDay(rec *types.DayRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal day record %s: %w", rec.DateKey, err)
	}
	if err := os.WriteFile(s.dayPath(rec.DateKey), data, 0644); err != nil {
		return fmt.Errorf("write day record %s: %w", rec.DateKey, err)
	}

	days, err := s.ListDays()
	if err != nil {
		return err
	}
	pos := sort.SearchStrings(days, rec.DateKey)
	if pos < len(days) && days[pos] == rec.DateKey {
		return nil
	}
	days = append(days, "")
	copy(days[pos+1:], days[pos:])
	days[pos] = rec.DateKey
	return s.writeIndex(days)
}

// DeleteDay removes the stored record and its index entry. Deleting a day
// that was never saved is not an error.
func (s *Store) DeleteDay(dateKey string) error {
	if err := os.Remove(s.dayPath(dateKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete day record %s: %w", dateKey, err)
	}

	days, err := s.ListDays()
	if err != nil {
		return err
	}
	pos := sort.SearchStrings(days, dateKey)
	if pos >= len(days) || days[pos] != dateKey {
		return nil
	}
	days = append(days[:pos], days[pos+1:]...)
	return s.writeIndex(days)
}

// ListDays returns all known day keys in ascending order.
func (s *Store) ListDays() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read day index: %w", err)
	}

	var days []string
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("unmarshal day index: %w", err)
	}
	sort.Strings(days)
	return days, nil
}

// ListMonth returns the known day keys in a year-month, using the
// lexicographic prefix property of date keys.
func (s *Store) ListMonth(yearMonth string) ([]string, error) {
	days, err := s.ListDays()
	if err != nil {
		return nil, err
	}
	prefix := types.MonthPrefix(yearMonth)
	var out []string
	for _, day := range days {
		if len(day) >= len(prefix) && day[:len(prefix)] == prefix {
			out = append(out, day)
		}
	}
	return out, nil
}

func (s *Store) writeIndex(days []string) error {
	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal day index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), data, 0644); err != nil {
		return fmt.Errorf("write day index: %w", err)
	}
	return nil
}
