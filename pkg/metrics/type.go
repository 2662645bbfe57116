package metrics

// FeederRow is the derived view of one feeder for one day.
type FeederRow struct {
	Code    string  `json:"code"`
	Diff    float64 `json:"diff"`
	Stopped bool    `json:"stopped"`
}

// TurbineRow is the derived view of one turbine for one day.
type TurbineRow struct {
	Code     string  `json:"code"`
	Diff     float64 `json:"diff"`
	Hours    float64 `json:"hours"`
	MWPerHr  float64 `json:"mw_per_hr"`
	GasM3    float64 `json:"gas_m3"`
	Stopped  bool    `json:"stopped"`
	HasError bool    `json:"has_error"`
}

// DaySummary is derived, never stored.
type DaySummary struct {
	DateKey     string       `json:"date_key"`
	Production  float64      `json:"production"`
	Export      float64      `json:"export"`
	Consumption float64      `json:"consumption"`
	GasConsumed float64      `json:"gas_consumed"`
	IsExport    bool         `json:"is_export"`
	Feeders     []FeederRow  `json:"feeders"`
	Turbines    []TurbineRow `json:"turbines"`
}

// MonthSummary aggregates every day whose date key falls in one year-month.
type MonthSummary struct {
	YearMonth   string  `json:"year_month"`
	Days        int     `json:"days"`
	Production  float64 `json:"production"`
	TotalExport float64 `json:"total_export"`
	Consumption float64 `json:"consumption"`
}
