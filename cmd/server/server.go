package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
	"github.com/Muhammad-div/ghanabuild/internal/estimate"
	"github.com/Muhammad-div/ghanabuild/internal/report"
	"github.com/Muhammad-div/ghanabuild/internal/takeoff"
)

const maxBodyBytes = 1 << 20

type server struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

type catalogResponse struct {
	Version       string           `json:"version"`
	Currency      string           `json:"currency"`
	LastUpdated   string           `json:"lastUpdated"`
	DefaultRegion string           `json:"defaultRegion"`
	Defaults      catalog.Defaults `json:"defaults"`
	Regions       []regionSummary  `json:"regions"`
	Materials     int              `json:"materials"`
	Workers       int              `json:"workers"`
	Phases        int              `json:"phases"`
}

type regionSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type validateResponse struct {
	Valid   bool     `json:"valid"`
	Details []string `json:"details"`
}

func (s *server) routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/regions", s.handleRegions)
		r.Get("/schedule", s.handleSchedule)
	})
	r.Post("/estimate", s.handleEstimate)
	r.Post("/estimate/report", s.handleEstimateReport)
	r.Post("/estimate/text", s.handleEstimateText)
	r.Post("/estimate/validate", s.handleEstimateValidate)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	regions := s.catalog.RegionList()
	summaries := make([]regionSummary, 0, len(regions))
	for _, reg := range regions {
		summaries = append(summaries, regionSummary{Name: reg.Name, DisplayName: reg.DisplayName})
	}

	materials := 0
	for _, g := range s.catalog.MaterialGroups() {
		materials += len(g.Items)
	}
	workers := 0
	for _, t := range s.catalog.WorkerTiers() {
		workers += len(t.Workers)
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Version:       s.catalog.Version,
		Currency:      s.catalog.Currency,
		LastUpdated:   s.catalog.LastUpdated,
		DefaultRegion: s.catalog.FallbackRegion().Name,
		Defaults:      s.catalog.Defaults,
		Regions:       summaries,
		Materials:     materials,
		Workers:       workers,
		Phases:        len(s.catalog.PhaseList()),
	})
}

func (s *server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.RegionList())
}

func (s *server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, takeoff.ScheduleSummary(s.catalog.PhaseList()))
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	b, ok := s.compute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *server) handleEstimateReport(w http.ResponseWriter, r *http.Request) {
	b, ok := s.compute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Build(b, s.catalog, reportQuery(r)))
}

func (s *server) handleEstimateText(w http.ResponseWriter, r *http.Request) {
	b, ok := s.compute(w, r)
	if !ok {
		return
	}

	rep := report.Summary(b)
	if r.URL.Query().Get("details") == "true" {
		rep = report.Build(b, s.catalog, reportQuery(r))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.WriteText(w, rep); err != nil {
		s.logger.ErrorContext(r.Context(), "write text report", "error", err)
	}
}

func (s *server) handleEstimateValidate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEstimateRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json", Message: err.Error()})
		return
	}

	details := estimate.ValidateForm(req)
	if details == nil {
		details = []string{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(details) == 0, Details: details})
}

// compute decodes the request body and runs the engine. On failure it has
// already written the response.
func (s *server) compute(w http.ResponseWriter, r *http.Request) (estimate.Breakdown, bool) {
	req, err := decodeEstimateRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json", Message: err.Error()})
		return estimate.Breakdown{}, false
	}

	b, err := estimate.Compute(req, s.catalog)
	if errors.Is(err, estimate.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "invalid_input",
			Message: "the estimate request has invalid fields",
			Details: estimate.Details(err),
		})
		return estimate.Breakdown{}, false
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "compute estimate", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
		return estimate.Breakdown{}, false
	}

	if b.RegionData.Fallback {
		s.logger.WarnContext(r.Context(), "unknown region, using fallback",
			"requested", req.Region,
			"fallback", b.RegionData.Slug,
			"request_id", requestIDFrom(r.Context()),
		)
	}
	return b, true
}

func decodeEstimateRequest(w http.ResponseWriter, r *http.Request) (estimate.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return estimate.Request{}, errors.New("invalid form")
		}
		return parseEstimateForm(r), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return estimate.Request{}, errors.New("invalid multipart form")
		}
		return parseEstimateForm(r), nil
	}

	var req estimate.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		return estimate.Request{}, errors.New("request body must be a JSON object")
	}
	return req, nil
}

// parseEstimateForm reads the estimator web form. Checkboxes submit "on" and
// the free-text region is turned into a catalog slug ("Cape Coast" -> "cape-coast").
func parseEstimateForm(r *http.Request) estimate.Request {
	get := func(k string) string { return strings.TrimSpace(r.FormValue(k)) }

	finish := get("finishQuality")
	if finish == "" {
		finish = get("preferredFinishQuality")
	}
	return estimate.Request{
		Region:                catalog.Slug(get("region")),
		ProjectType:           get("projectType"),
		TotalFloorArea:        estimate.Value(get("totalFloorArea")),
		AreaUnit:              get("areaUnit"),
		NumberOfBathrooms:     estimate.Value(get("numberOfBathrooms")),
		NumberOfFloors:        estimate.Value(get("numberOfFloors")),
		FinishQuality:         finish,
		IncludeExternalWorks:  checked(get("includeExternalWorks")),
		UseCustomLandCost:     checked(get("useCustomLandCost")),
		CustomLandCost:        estimate.Value(get("customLandCost")),
		UseCustomMaterialCost: checked(get("useCustomMaterialCost")),
		CustomMaterialCost:    estimate.Value(get("customMaterialCost")),
		UseCustomLaborCost:    checked(get("useCustomLaborCost")),
		CustomLaborCost:       estimate.Value(get("customLaborCost")),
	}
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func reportQuery(r *http.Request) report.Query {
	q := r.URL.Query()
	return report.Query{
		Sort:   q.Get("sort"),
		Desc:   strings.EqualFold(q.Get("order"), "desc"),
		Filter: q.Get("q"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response", "error", err)
	}
}
