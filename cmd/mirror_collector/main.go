// Mirror collector keeps a second device's local cache warm: it subscribes
// to the ledger API's day-event feed and persists every saved record into
// its own local store. Depends on the ledger API being online.
package main

import (
	"log"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/config"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/localstore"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/pathing"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/syncfeed"
)

var store *localstore.Store

func main() {
	// Load config
	if err := config.LoadMirrorCollectorConfig(); err != nil {
		log.Fatalf("Failed to load mirror collector config: %v", err)
	}

	var err error
	store, err = localstore.NewStore(pathing.GetDayStoreDir())
	if err != nil {
		log.Fatalf("Failed to open local day store: %v", err)
	}

	// Subscribe to websocket with revive
	syncfeed.StartListener(config.ActiveMirrorCollectorConfig.LedgerAPIHost, handleDayEvent)
}

// Persist each broadcast day record into the local mirror.
func handleDayEvent(event *syncfeed.DayEvent) {
	if err := store.SaveDay(event.Record); err != nil {
		log.Printf("Failed to mirror day %s: %v", event.Record.DateKey, err)
		return
	}
	log.Printf("Mirrored day %s (production %.2f MWh)", event.Record.DateKey, event.Summary.Production)
}
