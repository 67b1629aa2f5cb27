package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"autocare/internal/metrics"
	"autocare/internal/models"
	"autocare/internal/telemetry"
)

const (
	readLimit    = 1024 * 1024
	readDeadline = 60 * time.Second
)

// Dispatcher delivers domain events produced while streaming.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []models.Event)
}

// StreamServer upgrades device connections and ingests each streamed frame
// as a telemetry sample. The device identifies its vehicle and driver in the
// query string; frames carrying a different binding are rejected per frame.
type StreamServer struct {
	svc      *telemetry.Service
	dispatch Dispatcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewStreamServer builds ws ingest server.
func NewStreamServer(svc *telemetry.Service, dispatch Dispatcher, m *metrics.Metrics, logger *zap.Logger) *StreamServer {
	return &StreamServer{
		svc:      svc,
		dispatch: dispatch,
		metrics:  m,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type frameAck struct {
	RecordID string                    `json:"record_id,omitempty"`
	Alerts   *telemetry.Classification `json:"alerts,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// HandleStream is the HTTP handler for GET /telemetry/stream.
func (s *StreamServer) HandleStream(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(r.URL.Query().Get("vehicle_id"), 10, 64)
	if err != nil || vehicleID <= 0 {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}
	driverID, err := strconv.ParseInt(r.URL.Query().Get("driver_id"), 10, 64)
	if err != nil || driverID <= 0 {
		http.Error(w, "driver_id is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	s.logger.Info("device connected",
		zap.Int64("vehicle_id", vehicleID),
		zap.Int64("driver_id", driverID),
	)
	// The request context dies when the handler returns; the hijacked
	// connection outlives it.
	go s.readLoop(context.Background(), conn, vehicleID, driverID)
}

func (s *StreamServer) readLoop(ctx context.Context, conn *websocket.Conn, vehicleID, driverID int64) {
	defer func() {
		conn.Close()
		s.logger.Info("device disconnected", zap.Int64("vehicle_id", vehicleID))
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		var input models.SampleInput
		if err := conn.ReadJSON(&input); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("device stream error", zap.Int64("vehicle_id", vehicleID), zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))

		// The connection owns the binding; frames may omit it.
		if input.VehicleID == 0 {
			input.VehicleID = vehicleID
		}
		if input.DriverID == 0 {
			input.DriverID = driverID
		}
		if input.VehicleID != vehicleID {
			s.ack(conn, frameAck{Error: "frame vehicle does not match stream binding"})
			continue
		}

		sample, err := models.NewSample(input)
		if err != nil {
			s.ack(conn, frameAck{Error: err.Error()})
			continue
		}

		record, classification, events, err := s.svc.Ingest(ctx, sample)
		if err != nil {
			s.ack(conn, frameAck{Error: err.Error()})
			continue
		}

		s.metrics.SamplesIngested.Inc()
		for _, kind := range classification.Kinds() {
			s.metrics.AlertsRaised.WithLabelValues(kind).Inc()
		}
		s.dispatch.Dispatch(ctx, events)
		s.ack(conn, frameAck{RecordID: record.ID, Alerts: &classification})
	}
}

func (s *StreamServer) ack(conn *websocket.Conn, ack frameAck) {
	if err := conn.WriteJSON(ack); err != nil {
		s.logger.Warn("failed to write stream ack", zap.Error(err))
	}
}
