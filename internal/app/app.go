package app

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"autocare/internal/config"
	httpserver "autocare/internal/http"
	"autocare/internal/http/handlers"
	"autocare/internal/metrics"
	"autocare/internal/redisstore"
	"autocare/internal/repository"
	"autocare/internal/scheduling"
	"autocare/internal/telemetry"
	"autocare/internal/ws"
	"autocare/libs/db"
	libredis "autocare/libs/redis"
)

// App wires service dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var (
		redisClient *goredis.Client
		sink        Sink
		cache       handlers.LatestSampleCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		sink = redisstore.NewPublisher(redisClient, cfg.Redis.EventChannel)
		cache = redisstore.NewLatestSampleStore(redisClient, cfg.Redis.LatestTTL)
	} else {
		logger.Warn("redis addr not configured, events stay local")
	}

	m := metrics.New()
	dispatcher := newEventDispatcher(sink, logger)

	appointmentRepo := repository.NewAppointmentRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	mechanicRepo := repository.NewMechanicRepository(sqlDB)
	workshopRepo := repository.NewWorkshopRepository(sqlDB)
	archive := repository.NewTelemetryArchive(sqlDB)

	scheduler := scheduling.NewScheduler(appointmentRepo, vehicleRepo, mechanicRepo, logger)
	workshopSvc := scheduling.NewWorkshopService(workshopRepo, mechanicRepo, logger)

	evaluator := telemetry.NewEvaluator(cfg.Alerts)
	store := telemetry.NewStore(uuid.NewString)
	telemetrySvc := telemetry.NewService(store, archive, evaluator, logger, uuid.NewString)

	appointmentHandler := handlers.NewAppointmentHandler(scheduler, dispatcher, m, logger)
	workshopHandler := handlers.NewWorkshopHandler(workshopSvc, logger)
	telemetryHandler := handlers.NewTelemetryHandler(telemetrySvc, cache, dispatcher, m, logger)
	streamServer := ws.NewStreamServer(telemetrySvc, dispatcher, m, logger)

	routes := httpserver.Routes{
		AppointmentCreate:     appointmentHandler.HandleCreate,
		AppointmentReschedule: appointmentHandler.HandleReschedule,
		AppointmentStatus:     appointmentHandler.HandleStatus,
		AppointmentNotes:      appointmentHandler.HandleAddNote,
		MechanicAssign:        appointmentHandler.HandleAssignMechanic,
		MechanicUnassign:      appointmentHandler.HandleUnassignMechanic,
		WorkshopAppointments:  appointmentHandler.HandleWorkshopAppointments,
		WorkshopMechanics:     workshopHandler.HandleAssignMechanic,
		TelemetryIngest:       telemetryHandler.HandleIngest,
		TelemetryFlush:        telemetryHandler.HandleFlush,
		TelemetryLatest:       telemetryHandler.HandleLatest,
		TelemetryStream:       streamServer.HandleStream,
		Health:                handlers.NewHealthHandler(),
		Metrics:               m.Handler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
