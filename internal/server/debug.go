package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"borg-perception/internal/engine"
	"borg-perception/pkg/api"
)

// DebugHandler предоставляет доступ к модели мира только для чтения
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/cell", h.handleCell)
	mux.HandleFunc("/debug/entities", h.handleEntities)
	mux.HandleFunc("/debug/fear", h.handleFear)
}

// /debug/cell?x=10&y=5 - знание о клетке, ее страх и обитатели
func (h *DebugHandler) handleCell(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "x and y are required", http.StatusBadRequest)
		return
	}
	p := api.PositionPayload{X: x, Y: y}
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var cell api.CellView
	err := h.Service.Query(r.Context(), func(e *engine.PerceptionEngine) {
		cell = e.CellSnapshot(x, y)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, cell)
}

// /debug/entities - отслеживаемые монстры и предметы из последнего снимка
func (h *DebugHandler) handleEntities(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Latest()
	if snap.Entities == nil {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, snap.Entities)
}

// /debug/fear - грубая карта страха и ощущения уровня
func (h *DebugHandler) handleFear(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Latest()
	type FearDump struct {
		Tick     int              `json:"tick"`
		Blocks   []api.FearView   `json:"blocks"`
		Feelings api.FeelingsView `json:"feelings"`
	}
	writeJSON(w, FearDump{Tick: snap.Tick, Blocks: snap.Fear, Feelings: snap.Feelings})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (локальные debug-клиенты)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
