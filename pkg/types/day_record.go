package types

// FeederCodes is the fixed feeder roster. Every DayRecord carries an entry
// for each code whether or not it was ever edited.
var FeederCodes = []string{"F2", "F3", "F4", "F5"}

// TurbineCodes is the fixed turbine roster.
var TurbineCodes = []string{"A", "B", "C", "S"}

// Readings are kept as the operator's exact text (leading zeros included)
// and only parsed on use. Empty string means "no reading taken".
type FeederRecord struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type TurbineRecord struct {
	Previous string `json:"previous"`
	Present  string `json:"present"`
	Hours    string `json:"hours"`
}

// DayRecord holds all feeder and turbine readings for one calendar date.
// DateKey is the canonical identity, formatted YYYY-MM-DD.
type DayRecord struct {
	DateKey  string                   `json:"date_key"`
	Feeders  map[string]FeederRecord  `json:"feeders"`
	Turbines map[string]TurbineRecord `json:"turbines"`
}

// NewDayRecord returns a record with empty readings for the full roster.
func NewDayRecord(dateKey string) *DayRecord {
	rec := &DayRecord{
		DateKey:  dateKey,
		Feeders:  make(map[string]FeederRecord, len(FeederCodes)),
		Turbines: make(map[string]TurbineRecord, len(TurbineCodes)),
	}
	for _, code := range FeederCodes {
		rec.Feeders[code] = FeederRecord{}
	}
	for _, code := range TurbineCodes {
		rec.Turbines[code] = TurbineRecord{}
	}
	return rec
}

// Normalize fills in roster entries missing from a deserialized record.
func (r *DayRecord) Normalize() {
	if r.Feeders == nil {
		r.Feeders = make(map[string]FeederRecord, len(FeederCodes))
	}
	if r.Turbines == nil {
		r.Turbines = make(map[string]TurbineRecord, len(TurbineCodes))
	}
	for _, code := range FeederCodes {
		if _, ok := r.Feeders[code]; !ok {
			r.Feeders[code] = FeederRecord{}
		}
	}
	for _, code := range TurbineCodes {
		if _, ok := r.Turbines[code]; !ok {
			r.Turbines[code] = TurbineRecord{}
		}
	}
}

// Clone returns a deep copy.
func (r *DayRecord) Clone() *DayRecord {
	out := &DayRecord{
		DateKey:  r.DateKey,
		Feeders:  make(map[string]FeederRecord, len(r.Feeders)),
		Turbines: make(map[string]TurbineRecord, len(r.Turbines)),
	}
	for code, f := range r.Feeders {
		out.Feeders[code] = f
	}
	for code, t := range r.Turbines {
		out.Turbines[code] = t
	}
	return out
}
