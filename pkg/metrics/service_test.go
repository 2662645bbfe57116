package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

func TestBuildFeederRow(t *testing.T) {
	t.Run("diff is end minus start everywhere", func(t *testing.T) {
		// Regression guard for the sign convention: feeder meters count up,
		// so start=1000 end=1300 is 300 exported, never -300.
		row := BuildFeederRow("F2", types.FeederRecord{Start: "1000", End: "1300"})
		assert.Equal(t, 300.0, row.Diff)
		assert.False(t, row.Stopped)
	})

	t.Run("missing start stops the row", func(t *testing.T) {
		row := BuildFeederRow("F2", types.FeederRecord{Start: "", End: "1300"})
		assert.True(t, row.Stopped)
		assert.Equal(t, 0.0, row.Diff)
	})

	t.Run("missing end stops the row", func(t *testing.T) {
		row := BuildFeederRow("F2", types.FeederRecord{Start: "1000", End: " "})
		assert.True(t, row.Stopped)
		assert.Equal(t, 0.0, row.Diff)
	})
}

func TestBuildTurbineRow(t *testing.T) {
	t.Run("normal production", func(t *testing.T) {
		// Scenario: previous=100, present=150 over 24 hours.
		row := BuildTurbineRow("A", types.TurbineRecord{Previous: "100", Present: "150", Hours: "24"})
		assert.Equal(t, 50.0, row.Diff)
		assert.InDelta(t, 2.083, row.MWPerHr, 0.001)
		assert.Equal(t, 50000.0, row.GasM3) // rate <= 3 uses the 1000 multiplier
		assert.False(t, row.Stopped)
		assert.False(t, row.HasError)
	})

	t.Run("present below previous flags error and clamps to zero", func(t *testing.T) {
		row := BuildTurbineRow("B", types.TurbineRecord{Previous: "200", Present: "150", Hours: "24"})
		assert.True(t, row.HasError)
		assert.Equal(t, 0.0, row.Diff)
		assert.Equal(t, 0.0, row.GasM3)
		assert.False(t, row.Stopped)
	})

	t.Run("missing present is stopped", func(t *testing.T) {
		row := BuildTurbineRow("C", types.TurbineRecord{Previous: "200", Present: ""})
		assert.True(t, row.Stopped)
		assert.Equal(t, 0.0, row.Diff)
		assert.Equal(t, 0.0, row.MWPerHr)
	})

	t.Run("missing previous treated as zero", func(t *testing.T) {
		row := BuildTurbineRow("A", types.TurbineRecord{Previous: "", Present: "50", Hours: "10"})
		assert.Equal(t, 50.0, row.Diff)
		assert.False(t, row.HasError)
	})

	t.Run("empty hours defaults to 24", func(t *testing.T) {
		row := BuildTurbineRow("A", types.TurbineRecord{Previous: "0", Present: "48"})
		assert.Equal(t, 24.0, row.Hours)
		assert.Equal(t, 2.0, row.MWPerHr)
	})
}

func TestGasForTurbineTierBoundaries(t *testing.T) {
	const diff = 10.0
	tests := []struct {
		mwPerHr float64
		want    float64
	}{
		{3, diff * 1000}, // lower boundaries are inclusive
		{3.0001, diff * 700},
		{5, diff * 700},
		{5.0001, diff * 500},
		{8, diff * 500},
		{8.0001, diff * 420},
		{0.5, diff * 1000},
		{20, diff * 420},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GasForTurbine(diff, tt.mwPerHr), "rate %v", tt.mwPerHr)
	}
}

func TestSummarizeDay(t *testing.T) {
	rec := types.NewDayRecord("2025-06-01")
	rec.Feeders["F2"] = types.FeederRecord{Start: "1000", End: "1300"}
	rec.Feeders["F3"] = types.FeederRecord{Start: "500", End: "450"}
	rec.Turbines["A"] = types.TurbineRecord{Previous: "100", Present: "150", Hours: "24"}
	rec.Turbines["B"] = types.TurbineRecord{Previous: "200", Present: "150", Hours: "24"}

	sum := SummarizeDay(rec)
	require.Len(t, sum.Feeders, len(types.FeederCodes))
	require.Len(t, sum.Turbines, len(types.TurbineCodes))

	assert.Equal(t, 50.0, sum.Production)    // A only; B errored, C/S stopped
	assert.Equal(t, 250.0, sum.Export)       // 300 + (-50), F4/F5 stopped
	assert.Equal(t, -200.0, sum.Consumption) // production - export
	assert.Equal(t, 50000.0, sum.GasConsumed)
	assert.True(t, sum.IsExport)
}

func TestSummarizeDayEmptyRecord(t *testing.T) {
	sum := SummarizeDay(types.NewDayRecord("2025-06-01"))
	assert.Equal(t, 0.0, sum.Production)
	assert.Equal(t, 0.0, sum.Export)
	assert.Equal(t, 0.0, sum.Consumption)
	assert.True(t, sum.IsExport) // zero export still counts as exporting
	for _, f := range sum.Feeders {
		assert.True(t, f.Stopped)
	}
	for _, tb := range sum.Turbines {
		assert.True(t, tb.Stopped)
	}
}

func TestSummarizeMonth(t *testing.T) {
	day1 := types.NewDayRecord("2025-06-01")
	day1.Turbines["A"] = types.TurbineRecord{Previous: "0", Present: "100", Hours: "24"}
	day1.Feeders["F2"] = types.FeederRecord{Start: "0", End: "60"}

	day2 := types.NewDayRecord("2025-06-02")
	day2.Turbines["A"] = types.TurbineRecord{Previous: "100", Present: "180", Hours: "24"}
	day2.Feeders["F2"] = types.FeederRecord{Start: "60", End: "100"}

	sum := SummarizeMonth("2025-06", []*types.DayRecord{day1, day2})
	assert.Equal(t, 2, sum.Days)
	assert.Equal(t, 180.0, sum.Production)
	assert.Equal(t, 100.0, sum.TotalExport)
	assert.Equal(t, 80.0, sum.Consumption)
}
