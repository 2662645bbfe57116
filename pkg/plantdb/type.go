package plantdb

import "database/sql"

type DailyDataRow struct {
	ID      string `db:"id"`
	UserID  string `db:"user_id"`
	DateKey string `db:"date_key"`
}

type FeederRow struct {
	DailyDataID  string          `db:"daily_data_id"`
	FeederName   string          `db:"feeder_name"`
	StartReading sql.NullFloat64 `db:"start_reading"`
	EndReading   sql.NullFloat64 `db:"end_reading"`
}

type TurbineRow struct {
	DailyDataID     string          `db:"daily_data_id"`
	TurbineName     string          `db:"turbine_name"`
	PreviousReading sql.NullFloat64 `db:"previous_reading"`
	PresentReading  sql.NullFloat64 `db:"present_reading"`
	Hours           sql.NullFloat64 `db:"hours"`
}
