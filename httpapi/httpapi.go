package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gpsartgen/routeart/generator"
	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/routeassembly"
	"github.com/gpsartgen/routeart/routeerrors"
)

// Handler serves the route-generation HTTP surface.
type Handler struct {
	routes *generator.RouteContext
	logger *slog.Logger
}

// NewHandler builds a Handler backed by rc, logging through logger (or
// slog.Default() if nil).
func NewHandler(rc *generator.RouteContext, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{routes: rc, logger: logger}
}

// NewRouter mounts h's endpoints on a fresh chi.Router.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/routes/generate", h.generateRoute)

	return r
}

type latLngBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type generateRequestBody struct {
	TemplateName string         `json:"template_name"`
	StartPoint   latLngBody     `json:"start_point"`
	TargetKM     float64        `json:"target_km"`
	Options      map[string]any `json:"options"`
	SaveGeoJSON  bool           `json:"save_geojson"`
}

type errorEnvelope struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type generateResponseBody struct {
	OK    bool                   `json:"ok"`
	Data  *routeassembly.Response `json:"data,omitempty"`
	Error *errorEnvelope         `json:"error,omitempty"`
}

func (h *Handler) generateRoute(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	logger := h.logger.With("request_id", reqID)

	var body generateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, logger, routeerrors.Wrap(routeerrors.KindBadRequest, err, "invalid JSON request body"))
		return
	}

	if body.TemplateName == "" {
		h.writeError(w, logger, routeerrors.New(routeerrors.KindBadRequest, "template_name is required"))
		return
	}
	if body.TargetKM <= 0 {
		h.writeError(w, logger, routeerrors.New(routeerrors.KindBadRequest, "target_km must be positive"))
		return
	}

	opts, err := options.Parse(body.Options)
	if err != nil {
		h.writeError(w, logger, err)
		return
	}

	req := generator.Request{
		TemplateName: body.TemplateName,
		Start:        geoproj.LatLng{Lat: body.StartPoint.Lat, Lng: body.StartPoint.Lng},
		TargetKM:     body.TargetKM,
		Options:      opts,
		SaveGeoJSON:  body.SaveGeoJSON,
	}

	logger.Info("generating route", "template", req.TemplateName, "target_km", req.TargetKM)

	resp, err := h.routes.Generate(r.Context(), req)
	if err != nil {
		h.writeError(w, logger, err)
		return
	}

	logger.Info("route generated", "matched", resp.Metrics.Matched, "route_length_m", resp.Metrics.RouteLengthM)
	writeJSON(w, http.StatusOK, generateResponseBody{OK: true, Data: &resp})
}

func (h *Handler) writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := routeerrors.KindOf(err)
	status := statusForKind(kind)

	logger.Error("route generation failed", "kind", kind, "error", err)
	writeJSON(w, status, generateResponseBody{
		OK:    false,
		Error: &errorEnvelope{Kind: string(kind), Message: err.Error()},
	})
}

// statusForKind maps a routeerrors.Kind to the HTTP status code specified
// for the /routes/generate endpoint: 400 for validation errors, 404 for an
// unknown template, 500 for everything else.
func statusForKind(kind routeerrors.Kind) int {
	switch kind {
	case routeerrors.KindBadRequest:
		return http.StatusBadRequest
	case routeerrors.KindTemplateNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
