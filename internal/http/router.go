package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	AppointmentCreate     http.HandlerFunc
	AppointmentReschedule http.HandlerFunc
	AppointmentStatus     http.HandlerFunc
	AppointmentNotes      http.HandlerFunc
	MechanicAssign        http.HandlerFunc
	MechanicUnassign      http.HandlerFunc
	WorkshopAppointments  http.HandlerFunc
	WorkshopMechanics     http.HandlerFunc
	TelemetryIngest       http.HandlerFunc
	TelemetryFlush        http.HandlerFunc
	TelemetryLatest       http.HandlerFunc
	TelemetryStream       http.HandlerFunc
	Health                http.HandlerFunc
	Metrics               http.Handler
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.AppointmentCreate != nil {
		mux.Handle("/appointments", method(http.MethodPost, routes.AppointmentCreate))
	}
	if routes.AppointmentReschedule != nil {
		mux.Handle("/appointments/reschedule", method(http.MethodPost, routes.AppointmentReschedule))
	}
	if routes.AppointmentStatus != nil {
		mux.Handle("/appointments/status", method(http.MethodPost, routes.AppointmentStatus))
	}
	if routes.AppointmentNotes != nil {
		mux.Handle("/appointments/notes", method(http.MethodPost, routes.AppointmentNotes))
	}
	if routes.MechanicAssign != nil || routes.MechanicUnassign != nil {
		mux.HandleFunc("/appointments/mechanic", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				if routes.MechanicAssign != nil {
					routes.MechanicAssign(w, r)
					return
				}
			case http.MethodDelete:
				if routes.MechanicUnassign != nil {
					routes.MechanicUnassign(w, r)
					return
				}
			}
			w.Header().Set("Allow", "POST, DELETE")
			w.WriteHeader(http.StatusMethodNotAllowed)
		})
	}
	if routes.WorkshopAppointments != nil {
		mux.Handle("/appointments/workshop", method(http.MethodGet, routes.WorkshopAppointments))
	}
	if routes.WorkshopMechanics != nil {
		mux.Handle("/workshops/mechanics", method(http.MethodPost, routes.WorkshopMechanics))
	}
	if routes.TelemetryIngest != nil {
		mux.Handle("/telemetry/ingest", method(http.MethodPost, routes.TelemetryIngest))
	}
	if routes.TelemetryFlush != nil {
		mux.Handle("/telemetry/flush", method(http.MethodPost, routes.TelemetryFlush))
	}
	if routes.TelemetryLatest != nil {
		mux.Handle("/telemetry/latest", method(http.MethodGet, routes.TelemetryLatest))
	}
	if routes.TelemetryStream != nil {
		mux.Handle("/telemetry/stream", method(http.MethodGet, routes.TelemetryStream))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", routes.Metrics)
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
