package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docwheel/internal/edit"
	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/dgallion1/docwheel/internal/navigate"
	"github.com/dgallion1/docwheel/internal/render"
	"github.com/dgallion1/docwheel/internal/store"
	"github.com/dgallion1/docwheel/internal/wheel"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type sessionState struct {
	Mode    string      `json:"mode"`
	Target  string      `json:"target"`
	Pending string      `json:"pending"`
	Prompt  edit.Prompt `json:"prompt"`
}

type viewState struct {
	Document  string          `json:"document"`
	Visible   bool            `json:"visible"`
	State     string          `json:"state"`
	Selection *layout.Section `json:"selection,omitempty"`
	Session   *sessionState   `json:"session,omitempty"`
	Frame     layout.Frame    `json:"frame"`
}

// snapshot must be called with s.mu held.
func (s *Server) snapshot() viewState {
	st := viewState{
		Document: s.view.Path(),
		Visible:  s.view.Visible(),
		State:    s.view.State().String(),
		Frame:    s.view.Frame(),
	}
	if sel, ok := s.view.Selection(); ok {
		st.Selection = &sel
	}
	if sess := s.view.Session(); sess != nil {
		st.Session = &sessionState{
			Mode:    sess.Mode.String(),
			Target:  sess.Target.String(),
			Pending: sess.Pending,
			Prompt:  sess.Prompt,
		}
	}
	return st
}

// writeState encodes the view state. Must be called with s.mu held.
func (s *Server) writeState(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.snapshot())
}

// decode reads an optional JSON body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeState(w)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	f := s.view.Frame()
	var buf bytes.Buffer
	surface := render.NewSVGSurface(&buf, int(f.Width), int(f.Height))
	s.view.Render(surface)
	surface.Finish()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Toggle()
	s.writeState(w)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.view.Reload(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	s.writeState(w)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Width < 0 || req.Height < 0 {
		jsonError(w, "width and height must not be negative", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Resize(req.Width, req.Height)
	s.writeState(w)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		jsonError(w, "x and y are required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Click(*req.X, *req.Y)
	s.writeState(w)
}

func (s *Server) handleSelectFirst(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SelectFirst()
	s.writeState(w)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	dir, ok := navigate.ParseDirection(chi.URLParam(r, "dir"))
	if !ok {
		jsonError(w, "unknown direction: "+chi.URLParam(r, "dir"), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Navigate(dir)
	s.writeState(w)
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Find(req.Query)
	s.writeState(w)
}

// statusFor maps view errors onto HTTP status codes.
func statusFor(err error) int {
	var se *wheel.StoreError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &se):
		return http.StatusBadGateway
	case errors.Is(err, edit.ErrInvalidTitle):
		return http.StatusBadRequest
	case errors.Is(err, edit.ErrNoSelection),
		errors.Is(err, edit.ErrEditInProgress),
		errors.Is(err, edit.ErrNotEditing),
		errors.Is(err, edit.ErrLevelLimit),
		errors.Is(err, wheel.ErrStaleReference),
		errors.Is(err, wheel.ErrNoDocument),
		errors.Is(err, wheel.ErrHidden):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("view command failed", "error", err)
	}
	jsonError(w, err.Error(), code)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
