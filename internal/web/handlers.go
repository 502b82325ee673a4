package web

import (
	"bytes"
	"net/http"

	"github.com/roasbeef/plexdash/internal/viewmodel"
)

// handleDashboard renders the main dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := s.source.DashboardSnapshot(ctx, pageDashboard)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load dashboard snapshot",
			"err", err)
		http.Error(w, "Failed to load dashboard",
			http.StatusInternalServerError)
		return
	}

	view := viewmodel.BuildDashboard(*snap, s.cfg.Clock())

	var buf bytes.Buffer
	if err := s.composer.RenderDashboard(&buf, view); err != nil {
		s.log.ErrorContext(ctx, "Failed to render dashboard", "err", err)
		http.Error(w, "Failed to render dashboard",
			http.StatusInternalServerError)
		return
	}

	writeHTML(w, &buf)
}

// handleSetupComplete renders the final page of the setup wizard.
func (s *Server) handleSetupComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, err := s.source.SetupInput(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load setup state", "err", err)
		http.Error(w, "Failed to load setup state",
			http.StatusInternalServerError)
		return
	}

	view := viewmodel.BuildSetupComplete(*in)

	var buf bytes.Buffer
	if err := s.composer.RenderSetupComplete(&buf, view); err != nil {
		s.log.ErrorContext(ctx, "Failed to render setup page", "err", err)
		http.Error(w, "Failed to render setup page",
			http.StatusInternalServerError)
		return
	}

	writeHTML(w, &buf)
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// writeHTML sends a fully rendered page.
func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
