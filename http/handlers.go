package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"housepredictor/app"
	"housepredictor/ml"
	"housepredictor/report"
)

type handlers struct {
	svc     *app.Service
	history HistoryReader
	hub     *WebSocketHub
	page    *pageRenderer
	logger  *zap.Logger
}

func newHandlers(svc *app.Service, history HistoryReader, hub *WebSocketHub, logger *zap.Logger) (*handlers, error) {
	page, err := newPageRenderer()
	if err != nil {
		return nil, err
	}
	return &handlers{svc: svc, history: history, hub: hub, page: page, logger: logger}, nil
}

func RegisterHandlers(mux *http.ServeMux, h *handlers) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /{$}", h.handleFormSubmit)
	mux.Handle("GET /static/", staticHandler())
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/status", h.handleStatus)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/history", h.handleHistory)
	mux.HandleFunc("GET /api/ws", h.hub.HandleWebSocket)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type artifactStatus struct {
	Artifact string `json:"artifact"`
	Path     string `json:"path"`
	Missing  bool   `json:"missing"`
	Error    string `json:"error,omitempty"`
}

type statusResponse struct {
	Ready      bool             `json:"ready"`
	Dir        string           `json:"dir"`
	DirMissing bool             `json:"dir_missing"`
	LoadedAt   string           `json:"loaded_at"`
	Problems   []artifactStatus `json:"problems"`
	Status     string           `json:"status"`
}

func (h *handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	bundle := h.svc.Bundle()
	resp := statusResponse{
		Ready:      bundle.Usable(),
		Dir:        bundle.Dir,
		DirMissing: bundle.DirMissing,
		LoadedAt:   bundle.LoadedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Problems:   make([]artifactStatus, 0, len(bundle.Problems)),
		Status:     h.svc.Formatter().StartStatus(bundle),
	}
	for _, p := range bundle.Problems {
		status := artifactStatus{Artifact: p.Artifact, Path: p.Path, Missing: p.Missing}
		if p.Err != nil {
			status.Error = p.Err.Error()
		}
		resp.Problems = append(resp.Problems, status)
	}
	respondJSON(w, http.StatusOK, resp)
}

type predictRequest struct {
	Fields map[string]string `json:"fields"`
}

type predictResponse struct {
	Price  float64 `json:"price"`
	Tier   ml.Tier `json:"tier"`
	Marker string  `json:"marker"`
	Report string  `json:"report"`
	Status string  `json:"status"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (h *handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "bad_request", Message: "request body must be JSON"})
		return
	}

	features, result, err := h.svc.Predict(req.Fields)
	if err != nil {
		status, kind := classifyError(err)
		respondJSON(w, status, errorResponse{
			Error:   err.Error(),
			Kind:    kind,
			Message: h.svc.Formatter().ErrorMessage(err),
		})
		return
	}

	formatter := h.svc.Formatter()
	respondJSON(w, http.StatusOK, predictResponse{
		Price:  result.Price,
		Tier:   result.Tier,
		Marker: report.Marker(result.Tier),
		Report: formatter.Report(features, result),
		Status: formatter.PredictedStatus(result),
	})
}

func (h *handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "history disabled", Kind: "not_found"})
		return
	}
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}
	records, err := h.history.QueryPredictions(limit)
	if err != nil {
		h.logger.Error("query history failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": records})
}

// classifyError maps a predict failure to an HTTP status and error kind.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, ml.ErrModelsUnavailable):
		return http.StatusServiceUnavailable, "models_unavailable"
	case errors.Is(err, ml.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "invalid_input"
	default:
		return http.StatusInternalServerError, "inference_failure"
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
