// Ledger API exposes the day ledger operations over HTTP and broadcasts
// saved day records to websocket subscribers (dashboards, mirror devices).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/config"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/localstore"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/metrics"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/orchestrator"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/pathing"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/plantdb"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/syncfeed"
	"github.com/Alitek97/E-nergyFlow-sub000/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// ws clients for broadcasting saved day events
var (
	wsClients                   = make(map[*websocket.Conn]bool)
	wsClientsMutex sync.RWMutex = sync.RWMutex{}
)

var (
	orch          *orchestrator.Orchestrator
	authenticated bool
)

type unitStatus struct {
	Kind  string `json:"kind"`
	Code  string `json:"code"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type saveResponse struct {
	DayID    string             `json:"day_id,omitempty"`
	Dropped  bool               `json:"dropped,omitempty"`
	Degraded bool               `json:"degraded,omitempty"`
	Units    []unitStatus       `json:"units,omitempty"`
	Summary  metrics.DaySummary `json:"summary"`
}

type loadResponse struct {
	Record   *types.DayRecord   `json:"record"`
	DayID    string             `json:"day_id,omitempty"`
	Linked   bool               `json:"linked"`
	Degraded bool               `json:"degraded,omitempty"`
	Summary  metrics.DaySummary `json:"summary"`
}

func main() {
	// Load config
	if err := config.LoadLedgerAPIConfig(); err != nil {
		log.Fatalf("Failed to load ledger API config: %v", err)
	}
	cfg := config.ActiveLedgerAPIConfig

	local, err := localstore.NewStore(pathing.GetDayStoreDir())
	if err != nil {
		log.Fatalf("Failed to open local day store: %v", err)
	}

	var remote orchestrator.RemoteStore
	authenticated = cfg.RemoteEnabled
	if cfg.RemoteEnabled {
		db, err := plantdb.Open(pathing.GetPlantDbPath())
		if err != nil {
			log.Fatalf("Failed to open plant db: %v", err)
		}
		db.Migrate()
		remote = db
	}

	orch = orchestrator.New(local, remote, cfg.UserID)

	r := mux.NewRouter()
	r.HandleFunc("/", handleStatus).Methods("GET")
	r.HandleFunc("/api/v1/days", handleListDays).Methods("GET")
	r.HandleFunc("/api/v1/days/{dateKey}", handleLoadDay).Methods("GET")
	r.HandleFunc("/api/v1/days/{dateKey}", handleSaveDay).Methods("PUT")
	r.HandleFunc("/api/v1/days/{dateKey}", handleDeleteDay).Methods("DELETE")
	r.HandleFunc("/api/v1/days/{dateKey}/summary", handleDaySummary).Methods("GET")
	r.HandleFunc("/api/v1/months/{yearMonth}/summary", handleMonthSummary).Methods("GET")
	r.HandleFunc("/ws", handleWebSocket)

	listener := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	log.Printf("Starting Plant Day Ledger API on %s", listener)
	log.Fatal(http.ListenAndServe(listener, r))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Plant Day Ledger API",
		"status":  "running",
	})
}

func handleListDays(w http.ResponseWriter, r *http.Request) {
	days, err := orch.ListDays()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if days == nil {
		days = []string{}
	}
	writeJSON(w, http.StatusOK, days)
}

func handleLoadDay(w http.ResponseWriter, r *http.Request) {
	dateKey := mux.Vars(r)["dateKey"]
	result, err := orch.Load(r.Context(), dateKey, authenticated)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, loadResponse{
		Record:   result.Record,
		DayID:    result.DayID,
		Linked:   result.Linked,
		Degraded: result.RemoteErr != nil,
		Summary:  metrics.SummarizeDay(result.Record),
	})
}

func handleSaveDay(w http.ResponseWriter, r *http.Request) {
	dateKey := mux.Vars(r)["dateKey"]
	if _, err := types.ParseDateKey(dateKey); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var rec types.DayRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode day record: %w", err))
		return
	}
	rec.DateKey = dateKey

	result, err := orch.Save(r.Context(), &rec, authenticated)
	if errors.Is(err, orchestrator.ErrInFlight) {
		// Duplicate submission from rapid repeated taps: drop, not an error.
		writeJSON(w, http.StatusOK, saveResponse{Dropped: true})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	summary := metrics.SummarizeDay(&rec)
	broadcastDayEvent(&syncfeed.DayEvent{Record: &rec, Summary: summary})

	resp := saveResponse{
		DayID:    result.DayID,
		Degraded: result.RemoteErr != nil,
		Summary:  summary,
	}
	for _, u := range result.Units {
		status := unitStatus{Kind: string(u.Kind), Code: u.Code, OK: u.Err == nil}
		if u.Err != nil {
			status.Error = u.Err.Error()
		}
		resp.Units = append(resp.Units, status)
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	dateKey := mux.Vars(r)["dateKey"]
	dayID := r.URL.Query().Get("day_id")

	err := orch.Delete(r.Context(), dayID, dateKey)
	if errors.Is(err, orchestrator.ErrInFlight) {
		writeJSON(w, http.StatusOK, map[string]bool{"dropped": true})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func handleDaySummary(w http.ResponseWriter, r *http.Request) {
	dateKey := mux.Vars(r)["dateKey"]
	summary, err := orch.SummarizeDay(r.Context(), dateKey, authenticated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	yearMonth := mux.Vars(r)["yearMonth"]
	summary, err := orch.SummarizeMonth(r.Context(), yearMonth, authenticated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	AddWebSocketClient(conn)

	// Keep connection alive
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			RemoveWebSocketClient(conn)
			break
		}
	}
}

func broadcastDayEvent(event *syncfeed.DayEvent) {
	wsClientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(wsClients))
	for client := range wsClients {
		clients = append(clients, client)
	}
	wsClientsMutex.RUnlock()

	data := event.ToJsonBytes()
	if data == nil {
		return
	}
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			RemoveWebSocketClient(client)
		}
	}
}

func AddWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	wsClients[conn] = true
	wsClientsMutex.Unlock()
}

func RemoveWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	delete(wsClients, conn)
	wsClientsMutex.Unlock()
	conn.Close()
}
