package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/darkenness/airnet/pkg/compile"
	"github.com/darkenness/airnet/pkg/controls"
	"github.com/darkenness/airnet/pkg/engine"
	"github.com/darkenness/airnet/pkg/model"
	"github.com/darkenness/airnet/pkg/validation"
)

// Server is the local development server backing the interactive
// editor. It keeps the loaded project in memory, reloads it when the
// project file changes on disk, and exposes compilation, validation,
// and simulation over HTTP.
type Server struct {
	projectDir string
	port       int
	log        *zap.Logger
	runner     *engine.Runner

	mu      sync.RWMutex
	project *model.Project
	sync    *controls.Synchronizer
}

// New creates a server for the given project directory.
func New(projectDir string, port int, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		projectDir: projectDir,
		port:       port,
		log:        log,
		runner:     engine.NewRunner(log),
	}
}

// Start loads the project, begins watching the project file, and
// serves until the listener fails.
func (s *Server) Start() error {
	if err := s.reload(); err != nil {
		return err
	}
	if err := s.watch(); err != nil {
		s.log.Warn("project file watching disabled", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/model", s.handleModel)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/topology", s.handleTopology)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/controls/graph", s.handleControlGraph)
	mux.HandleFunc("POST /api/controls/connect", s.handleControlConnect)

	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("airnet server starting",
		zap.String("addr", addr),
		zap.String("project", s.projectDir))

	return http.ListenAndServe(addr, mux)
}

func (s *Server) reload() error {
	p, err := model.LoadProject(s.projectDir)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = p
	if s.sync == nil {
		s.sync = controls.New(p.Controls, controls.WithLogger(s.log))
	} else {
		s.sync.SetRecord(p.Controls)
	}
	return nil
}

// watch reloads the project whenever its file is rewritten.
func (s *Server) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.projectDir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != model.ProjectFileName {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := s.reload(); err != nil {
					s.log.Warn("project reload failed", zap.Error(err))
					continue
				}
				s.log.Info("project reloaded", zap.String("file", ev.Name))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

// snapshot returns the current project with the reconciled control
// record folded in.
func (s *Server) snapshot() *model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := *s.project
	s.sync.Flush()
	p.Controls = s.sync.Record()
	return &p
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	p := s.snapshot()
	report := validation.ValidateModel(p)
	if report.Valid {
		report.Merge(validation.ValidateDocument(compile.Compile(p)))
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTopology(w http.ResponseWriter, _ *http.Request) {
	doc := compile.Compile(s.snapshot())
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	p := s.snapshot()

	report := validation.ValidateModel(p)
	doc := compile.Compile(p)
	report.Merge(validation.ValidateDocument(doc))
	if !report.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	data, err := doc.Encode()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.runner.Run(r.Context(), data)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, engine.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		s.log.Error("simulation failed", zap.Error(err))
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if result.Transient != nil {
		writeJSON(w, http.StatusOK, result.Transient)
		return
	}
	writeJSON(w, http.StatusOK, result.Steady)
}

func (s *Server) handleControlGraph(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	g := s.sync.Graph()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleControlConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.RLock()
	err := s.sync.Connect(req.From, req.To)
	s.mu.RUnlock()
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
