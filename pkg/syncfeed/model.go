package syncfeed

import (
	"encoding/json"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/metrics"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

// DayEvent is broadcast by the ledger API after every successful save: the
// raw record plus its recomputed day summary. Mirrors persist the record;
// dashboards display the summary.
type DayEvent struct {
	Record  *types.DayRecord   `json:"record"`
	Summary metrics.DaySummary `json:"summary"`
}

func (e *DayEvent) ToJsonBytes() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// DayEventFromJsonBytes returns nil for malformed or incomplete payloads.
func DayEventFromJsonBytes(data []byte) *DayEvent {
	var event DayEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	if event.Record == nil || event.Record.DateKey == "" {
		return nil
	}
	event.Record.Normalize()
	return &event
}
