// Package carryover fills a day's opening readings from the previous day's
// closing readings. Linking looks exactly one day back; visiting consecutive
// days chains the effect over time.
package carryover

import (
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

// Link copies previous-day closing readings into empty opening fields of
// current. The input record is not mutated; when changed is true the caller
// must persist the returned record so the link is not recomputed on the next
// load. Link is idempotent: relinking an already-linked record reports
// changed=false.
func Link(current, previous *types.DayRecord) (record *types.DayRecord, changed bool) {
	record = current.Clone()
	if previous == nil {
		return record, false
	}

	for _, code := range types.FeederCodes {
		prev := previous.Feeders[code]
		cur := record.Feeders[code]
		if prev.End != "" && cur.Start == "" {
			cur.Start = prev.End
			record.Feeders[code] = cur
			changed = true
		}
	}
	for _, code := range types.TurbineCodes {
		prev := previous.Turbines[code]
		cur := record.Turbines[code]
		if prev.Present != "" && cur.Previous == "" {
			cur.Previous = prev.Present
			record.Turbines[code] = cur
			changed = true
		}
	}
	return record, changed
}
