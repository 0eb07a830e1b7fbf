// Package portal maps the HTTP surface onto the webpros scrapers: one
// route per report, credentials in the request body, results as JSON
// plus persisted artifacts.
package portal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"gokaraju-backend/lib/artifact"
	"gokaraju-backend/lib/browser"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Service struct {
	launch browser.Launcher
	store  artifact.Store
	tracer trace.Tracer

	// serializes scrape calls: the portal design tolerates exactly one
	// live session per process, overlapping sessions are disallowed,
	// so every handler holds mu for its whole scrape and /get-all runs
	// its reports strictly sequentially under one hold
	mu sync.Mutex
}

func NewService(launch browser.Launcher, store artifact.Store) *Service {
	return &Service{
		launch: launch,
		store:  store,
		tracer: otel.GetTracerProvider().Tracer("services/portal"),
	}
}

func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("POST /get-timetable-and-calendar", s.handleTimetableAndCalendar)
	mux.HandleFunc("POST /get-attendance", s.handleAttendance)
	mux.HandleFunc("POST /get-library-books", s.handleLibraryBooks)
	mux.HandleFunc("POST /get-bio-data", s.handleBioData)
	mux.HandleFunc("POST /get-all", s.handleAll)
	mux.HandleFunc("POST /get-result", s.handleResult)
}

func readCredentials(r *http.Request) (Credentials, error) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return creds, fmt.Errorf("invalid request body: %w", err)
	}
	return creds, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// every failure inside a scrape call surfaces here as a generic error
// payload, there is no finer-grained status taxonomy
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Gokaraju scraper running. POST credentials to endpoints to fetch data.")
}

func (s *Service) handleTimetableAndCalendar(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fetchTimetableAndCalendar(r.Context(), creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, data)
}

func (s *Service) handleAttendance(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fetchAttendance(r.Context(), creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, data)
}

func (s *Service) handleLibraryBooks(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fetchLibraryBooks(r.Context(), creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, data)
}

func (s *Service) handleBioData(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fetchBioData(r.Context(), creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, data)
}

func (s *Service) handleAll(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := r.Context()
	combined := map[string]any{}

	ttcal, err := s.fetchTimetableAndCalendar(ctx, creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	for k, v := range ttcal {
		combined[k] = v
	}

	attendance, err := s.fetchAttendance(ctx, creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	combined["attendance"] = attendance

	library, err := s.fetchLibraryBooks(ctx, creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	combined["library_books"] = library

	bio, err := s.fetchBioData(ctx, creds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	combined["bio_data"] = bio

	writeData(w, combined)
}

func (s *Service) handleResult(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RollNo string `json:"rollno"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.RollNo == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("provide 'rollno' in JSON body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.fetchResult(r.Context(), body.RollNo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rollno": body.RollNo,
		"result": sheet,
	})
}
