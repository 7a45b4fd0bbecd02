package api

import (
	"net/http"

	"github.com/dgallion1/docwheel/internal/edit"
)

func (s *Server) handleBegin(begin func() (*edit.Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, err := begin(); err != nil {
			s.fail(w, err)
			return
		}
		s.writeState(w)
	}
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.view.Commit(r.Context(), req.Text); err != nil {
		s.fail(w, err)
		return
	}
	s.writeState(w)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.view.Cancel(); err != nil {
		s.fail(w, err)
		return
	}
	s.writeState(w)
}
