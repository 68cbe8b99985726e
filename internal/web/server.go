package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/availability"
	"github.com/example/pista-scheduler/internal/booking"
	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/jobs"
	"github.com/example/pista-scheduler/internal/profile"
	"github.com/example/pista-scheduler/internal/scheduler"
	"github.com/example/pista-scheduler/internal/store"
)

// Server is the JSON surface the app frontend drives. Every failure it
// sees becomes a JSON error payload; nothing escapes to crash the
// process.
type Server struct {
	Client    *appointlet.Client
	Store     store.Store
	Jobs      *jobs.Store
	Scheduler *scheduler.Scheduler
	Executor  *booking.Executor
	History   *booking.History
	Log       *zap.Logger
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /api/courts", s.handleCourts)
	mux.HandleFunc("GET /api/slots", s.handleSlots)
	mux.HandleFunc("POST /api/book", s.handleBook)
	mux.HandleFunc("GET /api/bookings", s.handleBookings)
	mux.HandleFunc("GET /api/profile", s.handleProfileGet)
	mux.HandleFunc("PUT /api/profile", s.handleProfilePut)
	mux.HandleFunc("GET /api/jobs", s.handleJobsList)
	mux.HandleFunc("POST /api/jobs", s.handleJobCreate)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleJobCancel)

	return mux
}

type courtView struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

func (s *Server) handleCourts(w http.ResponseWriter, r *http.Request) {
	out := make([]courtView, 0, 2)
	for _, c := range court.All() {
		out = append(out, courtView{Key: c.Key, Name: c.Name, Minutes: c.Minutes})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleSlots queries availability for one court and keeps only the
// slots on the requested local calendar day.
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	ct, ok := court.ByKey(r.URL.Query().Get("court"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, errors.New("unknown court"))
		return
	}
	date, err := availability.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}
	loc, err := court.Location()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	slots, err := s.Client.AvailableTimes(r.Context(), ct)
	if err != nil {
		s.Log.Warn("availability query failed", zap.String("court", ct.Key), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, errors.New("could not load availability"))
		return
	}
	s.writeJSON(w, http.StatusOK, wireTimes(availability.OnLocalDate(slots, date, loc)))
}

type bookRequest struct {
	Court string    `json:"court"`
	Start time.Time `json:"start"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	ct, ok := court.ByKey(req.Court)
	if !ok {
		s.writeError(w, http.StatusBadRequest, errors.New("unknown court"))
		return
	}
	if req.Start.IsZero() {
		s.writeError(w, http.StatusBadRequest, errors.New("start required"))
		return
	}

	rec, err := s.Executor.Execute(r.Context(), ct, req.Start)
	if err != nil {
		s.writeError(w, statusForBookingErr(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	recs, err := s.History.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if recs == nil {
		recs = []appointlet.Record{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := profile.Load(r.Context(), s.Store)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	if err := profile.Save(r.Context(), s.Store, p); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleJobsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.Jobs.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []jobs.Job{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

type jobCreateRequest struct {
	Court        string    `json:"court"`
	DesiredStart time.Time `json:"desiredStart"`
	FireAt       time.Time `json:"fireAt"`
}

func (s *Server) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	var req jobCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	ct, ok := court.ByKey(req.Court)
	if !ok {
		s.writeError(w, http.StatusBadRequest, errors.New("unknown court"))
		return
	}

	j, err := s.Jobs.Create(r.Context(), ct, req.DesiredStart, req.FireAt)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Scheduler.Reload(r.Context()); err != nil {
		s.Log.Error("scheduler reload failed", zap.Error(err))
	}
	s.writeJSON(w, http.StatusCreated, j)
}

func (s *Server) handleJobCancel(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("job id required"))
		return
	}
	if err := s.Scheduler.Cancel(r.Context(), id); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusForBookingErr(err error) int {
	if errors.Is(err, profile.ErrIncomplete) {
		return http.StatusUnprocessableEntity
	}
	var rej *appointlet.RejectionError
	if errors.As(err, &rej) {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func wireTimes(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, appointlet.WireTime(t))
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error("response encode failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Start serves h until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
