package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"autocare/internal/metrics"
	"autocare/internal/models"
	"autocare/internal/telemetry"
)

// LatestSampleCache caches the newest record per vehicle. Cache failures are
// logged and never fail the request.
type LatestSampleCache interface {
	Save(ctx context.Context, record models.TelemetryRecord) error
	Get(ctx context.Context, vehicleID int64) (*models.TelemetryRecord, error)
	Delete(ctx context.Context, vehicleID int64) error
}

// TelemetryHandler holds the ingestion endpoints.
type TelemetryHandler struct {
	svc      *telemetry.Service
	cache    LatestSampleCache
	dispatch Dispatcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewTelemetryHandler builds handler set.
func NewTelemetryHandler(svc *telemetry.Service, cache LatestSampleCache, dispatch Dispatcher, m *metrics.Metrics, logger *zap.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		svc:      svc,
		cache:    cache,
		dispatch: dispatch,
		metrics:  m,
		logger:   logger,
	}
}

// HandleIngest handles POST /telemetry/ingest.
func (h *TelemetryHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var input models.SampleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	sample, err := models.NewSample(input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	record, classification, events, err := h.svc.Ingest(r.Context(), sample)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.metrics.SamplesIngested.Inc()
	for _, kind := range classification.Kinds() {
		h.metrics.AlertsRaised.WithLabelValues(kind).Inc()
	}
	h.metrics.IngestLatency.Observe(time.Since(started).Seconds())

	if h.cache != nil {
		if err := h.cache.Save(r.Context(), record); err != nil {
			h.logger.Warn("failed to cache latest sample", zap.Error(err))
		}
	}
	h.dispatch.Dispatch(r.Context(), events)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"record_id":   record.ID,
		"ingested_at": record.IngestedAt,
		"alerts":      classification,
	})
}

type flushRequest struct {
	VehicleID int64 `json:"vehicle_id"`
}

// HandleFlush handles POST /telemetry/flush.
func (h *TelemetryHandler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	var req flushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.VehicleID <= 0 {
		writeError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	count, events, err := h.svc.Flush(r.Context(), req.VehicleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.metrics.Flushes.Inc()
	if h.cache != nil {
		if err := h.cache.Delete(r.Context(), req.VehicleID); err != nil {
			h.logger.Warn("failed to drop latest sample cache", zap.Error(err))
		}
	}
	h.dispatch.Dispatch(r.Context(), events)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicle_id": req.VehicleID,
		"count":      count,
	})
}

// HandleLatest handles GET /telemetry/latest?vehicle_id=.
func (h *TelemetryHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(r.URL.Query().Get("vehicle_id"), 10, 64)
	if err != nil || vehicleID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	if h.cache != nil {
		if record, err := h.cache.Get(r.Context(), vehicleID); err == nil {
			writeJSON(w, http.StatusOK, record)
			return
		}
	}

	record, ok := h.svc.Latest(r.Context(), vehicleID)
	if !ok {
		writeError(w, http.StatusNotFound, "no telemetry for vehicle")
		return
	}
	writeJSON(w, http.StatusOK, record)
}
