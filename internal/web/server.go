package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/logging"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/publish"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// LoadFunc returns the roster to serve. It is called once by NewServer and again on
// every POST /reload.
type LoadFunc func(ctx context.Context) (Snapshot, error)

// Snapshot is the roster the server hands out, plus where it came from.
type Snapshot struct {
	Roster   model.Roster
	Source   string
	Endpoint string
}

type ServerConfig struct {
	Addr   string
	Load   LoadFunc
	Logger logrus.FieldLogger
	// Now stamps the slip footer; nil means time.Now.
	Now func() time.Time
}

type Server struct {
	mu       sync.RWMutex
	cfg      ServerConfig
	snap     Snapshot
	loadedAt time.Time
}

func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Load == nil {
		return nil, errors.New("web: no roster loader")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	srv := &Server{cfg: cfg}
	if err := srv.Reload(ctx); err != nil {
		return nil, err
	}
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Reload replaces the served snapshot. On error the previous snapshot stays in place.
func (s *Server) Reload(ctx context.Context) error {
	snap, err := s.cfg.Load(ctx)
	if err != nil {
		return err
	}
	snap.Roster = snap.Roster.Clone()
	s.mu.Lock()
	s.snap = snap
	s.loadedAt = s.cfg.Now()
	s.mu.Unlock()
	s.cfg.Logger.WithFields(logrus.Fields{
		"op":      "reload",
		"records": len(snap.Roster),
		"source":  snap.Source,
	}).Info("roster loaded")
	return nil
}

func (s *Server) snapshot() (Snapshot, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.loadedAt
}

func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(Logger(s.cfg.Logger))
	router.Use(Recoverer(s.cfg.Logger))

	router.Get("/healthz", s.handleHealth)
	router.Get("/export.csv", s.handleExportCSV)
	router.Get("/roster.json", s.handleRosterJSON)
	router.Get("/slip/{file}", s.handleSlip)
	router.Post("/reload", s.handleReload)
	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.snapshot()
	w.Header().Set("Content-Type", "text/csv;charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+tabular.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := tabular.Write(w, snap.Roster); err != nil {
		s.cfg.Logger.WithError(err).WithField("request_id", GetRequestID(r.Context())).Warn("export write failed")
	}
}

type rosterResponse struct {
	Source   string       `json:"source"`
	Endpoint string       `json:"endpoint,omitempty"`
	LoadedAt string       `json:"loadedAt"`
	Count    int          `json:"count"`
	Records  model.Roster `json:"records"`
}

func (s *Server) handleRosterJSON(w http.ResponseWriter, r *http.Request) {
	snap, at := s.snapshot()
	records := snap.Roster
	if records == nil {
		records = model.Roster{}
	}
	writeJSON(w, http.StatusOK, rosterResponse{
		Source:   snap.Source,
		Endpoint: snap.Endpoint,
		LoadedAt: at.UTC().Format(time.RFC3339),
		Count:    len(records),
		Records:  records,
	})
}

// handleSlip serves /slip/<ic>.pdf and /slip/<ic>.md.
func (s *Server) handleSlip(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := strings.ToLower(path.Ext(file))
	if ext != ".pdf" && ext != ".md" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown slip format"})
		return
	}
	snap, _ := s.snapshot()
	rec, ok := snap.Roster.FindByIdentity(strings.TrimSuffix(file, path.Ext(file)))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "identity number not found"})
		return
	}

	if ext == ".md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, publish.RecordMarkdown(rec))
		return
	}

	b, err := publish.PDFBytes(rec, s.cfg.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+publish.SlipFilename(rec, ".pdf")+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	snap, at := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"source":   snap.Source,
		"count":    len(snap.Roster),
		"loadedAt": at.UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
