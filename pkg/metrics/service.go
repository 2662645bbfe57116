// Package metrics derives per-unit and per-day figures from raw readings.
// All functions are pure; the local and remote summary paths both go through
// here so the two can never drift apart.
package metrics

import (
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/readings"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

// Feeder diff convention: diff = end - start. Feeder meters count up, so a
// day's export is the closing reading minus the opening one. Positive diff
// means energy left the plant.
func BuildFeederRow(code string, rec types.FeederRecord) FeederRow {
	start := readings.Parse(rec.Start)
	end := readings.Parse(rec.End)
	if start.Missing || end.Missing {
		return FeederRow{Code: code, Stopped: true}
	}
	return FeederRow{Code: code, Diff: end.Num - start.Num}
}

// BuildTurbineRow derives production for one turbine. A missing present
// reading means the turbine is stopped. A present reading below the previous
// one is a recording error: flagged, and production clamps to zero rather
// than going negative.
func BuildTurbineRow(code string, rec types.TurbineRecord) TurbineRow {
	hours := readings.ParseHours(rec.Hours)
	present := readings.Parse(rec.Present)
	if present.Missing {
		return TurbineRow{Code: code, Hours: hours, Stopped: true}
	}

	rawDiff := present.Num - readings.Parse(rec.Previous).Or(0)
	row := TurbineRow{Code: code, Hours: hours}
	if rawDiff < 0 {
		row.HasError = true
	} else {
		row.Diff = rawDiff
	}
	row.MWPerHr = row.Diff / hours
	row.GasM3 = GasForTurbine(row.Diff, row.MWPerHr)
	return row
}

// GasForTurbine estimates gas volume (m3) burned for a day's production via
// the tiered multiplier. Lower boundaries are inclusive: a rate of exactly
// 5 MW/hr uses the 700 multiplier.
func GasForTurbine(diff, mwPerHr float64) float64 {
	switch {
	case mwPerHr <= 3:
		return diff * 1000
	case mwPerHr <= 5:
		return diff * 700
	case mwPerHr <= 8:
		return diff * 500
	default:
		return diff * 420
	}
}

// SummarizeDay derives the full day view from a record.
func SummarizeDay(rec *types.DayRecord) DaySummary {
	summary := DaySummary{
		DateKey:  rec.DateKey,
		Feeders:  make([]FeederRow, 0, len(types.FeederCodes)),
		Turbines: make([]TurbineRow, 0, len(types.TurbineCodes)),
	}
	for _, code := range types.FeederCodes {
		row := BuildFeederRow(code, rec.Feeders[code])
		summary.Export += row.Diff
		summary.Feeders = append(summary.Feeders, row)
	}
	for _, code := range types.TurbineCodes {
		row := BuildTurbineRow(code, rec.Turbines[code])
		summary.Production += row.Diff
		summary.GasConsumed += row.GasM3
		summary.Turbines = append(summary.Turbines, row)
	}
	summary.Consumption = summary.Production - summary.Export
	summary.IsExport = summary.Export >= 0
	return summary
}

// SummarizeMonth aggregates the given records; callers are expected to have
// filtered them to the year-month already (date-key prefix match).
func SummarizeMonth(yearMonth string, recs []*types.DayRecord) MonthSummary {
	out := MonthSummary{YearMonth: yearMonth}
	for _, rec := range recs {
		day := SummarizeDay(rec)
		out.Days++
		out.Production += day.Production
		out.TotalExport += day.Export
		out.Consumption += day.Consumption
	}
	return out
}
