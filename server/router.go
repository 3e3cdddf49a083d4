package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"gto-trainer/server/rival"
	"gto-trainer/server/session"
	"gto-trainer/server/store"
)

// registry holds live sessions. Each entry carries its own lock because a
// session is single-threaded by contract; the registry lock only guards the
// map itself.
type registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *session.Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[uuid.UUID]*sessionEntry)}
}

func (r *registry) add(s *session.Session) *sessionEntry {
	e := &sessionEntry{session: s}
	r.mu.Lock()
	r.sessions[s.ID()] = e
	r.mu.Unlock()
	return e
}

func (r *registry) get(id uuid.UUID) (*sessionEntry, bool) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	return e, ok
}

func Router(db *store.DB) http.Handler {
	reg := newRegistry()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": db != nil})
	})

	r.Post("/api/sessions", func(w http.ResponseWriter, req *http.Request) {
		var cfg session.Config
		if req.Body != nil && req.ContentLength != 0 {
			if err := json.NewDecoder(req.Body).Decode(&cfg); err != nil {
				http.Error(w, "bad request body", http.StatusBadRequest)
				return
			}
		}
		if cfg.RivalStyle != "" {
			if _, err := rival.ParseStyle(string(cfg.RivalStyle)); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		s := session.New(cfg)
		if db != nil {
			s.SetRecorder(store.Recorder{DB: db})
			if err := db.InsertSession(req.Context(), s.ID(), s.Config()); err != nil {
				http.Error(w, "session persistence failed", http.StatusInternalServerError)
				return
			}
		}
		e := reg.add(s)

		e.mu.Lock()
		state := s.Snapshot()
		e.mu.Unlock()
		writeJSON(w, http.StatusCreated, state)
	})

	r.Get("/api/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
		e, ok := lookup(reg, w, req)
		if !ok {
			return
		}
		e.mu.Lock()
		state := e.session.Snapshot()
		e.mu.Unlock()
		writeJSON(w, http.StatusOK, state)
	})

	r.Post("/api/sessions/{id}/actions", func(w http.ResponseWriter, req *http.Request) {
		e, ok := lookup(reg, w, req)
		if !ok {
			return
		}
		var action session.Action
		if err := json.NewDecoder(req.Body).Decode(&action); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}

		e.mu.Lock()
		e.session.Apply(action)
		state := e.session.Snapshot()
		e.mu.Unlock()

		if db != nil && state.Status == session.StatusCompleted {
			if err := db.CloseSession(req.Context(), e.session.ID()); err != nil {
				log.Printf("close session row: %v", err)
			}
		}
		writeJSON(w, http.StatusOK, state)
	})

	r.Get("/api/results", func(w http.ResponseWriter, req *http.Request) {
		if db == nil {
			http.Error(w, "results require a database", http.StatusServiceUnavailable)
			return
		}
		rows, err := db.RecentResults(req.Context(), 50)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
	})

	return r
}

func lookup(reg *registry, w http.ResponseWriter, req *http.Request) (*sessionEntry, bool) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		http.Error(w, "bad session id", http.StatusBadRequest)
		return nil, false
	}
	e, ok := reg.get(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return nil, false
	}
	return e, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
