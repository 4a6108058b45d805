// Package server is the HTTP adapter for the dashboard: routing, page
// rendering and the JSON analysis endpoint.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/takeru-oka/repo-health/internal/domain"
	"github.com/takeru-oka/repo-health/web"
)

const sessionName = "repo-health"

// Analyzer computes the health metrics document for a repository.
type Analyzer interface {
	Analyze(ctx context.Context, repo domain.Repository) (*domain.HealthMetrics, error)
}

// Handler holds the dashboard's HTTP endpoints.
type Handler struct {
	analyzer Analyzer
	store    *sessions.CookieStore
	tmpl     *template.Template
}

// NewHandler parses the embedded templates and binds the handler to the
// analyzer. The session secret signs the flash-message cookie.
func NewHandler(analyzer Analyzer, sessionSecret string) (*Handler, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{
		analyzer: analyzer,
		store:    sessions.NewCookieStore([]byte(sessionSecret)),
		tmpl:     tmpl,
	}, nil
}

// home renders the repository URL input form with any pending flash
// messages.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, sessionName)
	var flashes []string
	for _, f := range session.Flashes() {
		if s, ok := f.(string); ok {
			flashes = append(flashes, s)
		}
	}
	_ = session.Save(r, w)

	h.render(w, "home.html", map[string]any{"Flashes": flashes})
}

// analyze parses the submitted repository reference and redirects to the
// results page, or back to the form with a flash on bad input.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	repoURL := strings.TrimSpace(r.FormValue("repo_url"))
	if repoURL == "" {
		h.flashAndRedirect(w, r, "Please enter a GitHub repository URL")
		return
	}

	repo, err := domain.ParseRepository(repoURL)
	if err != nil {
		h.flashAndRedirect(w, r, "Please enter a valid GitHub repository URL (e.g., https://github.com/owner/repo)")
		return
	}

	http.Redirect(w, r, "/results/"+repo.Owner+"/"+repo.Name, http.StatusSeeOther)
}

// results renders the results shell; the page fetches the metrics
// asynchronously from the analysis API.
func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	h.render(w, "results.html", map[string]any{
		"Owner": chi.URLParam(r, "owner"),
		"Repo":  chi.URLParam(r, "repo"),
	})
}

// apiAnalyze returns the full health metrics document as JSON.
func (h *Handler) apiAnalyze(w http.ResponseWriter, r *http.Request) {
	repo := domain.Repository{
		Owner: chi.URLParam(r, "owner"),
		Name:  chi.URLParam(r, "repo"),
	}

	metrics, err := h.analyzer.Analyze(r.Context(), repo)
	if err != nil {
		httpLogger().WarnContext(r.Context(), "analysis failed",
			"repo", repo.FullName(),
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := h.store.Get(r, sessionName)
	session.AddFlash(message)
	_ = session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		httpLogger().Error("template render failed", "template", name, "error", err)
	}
}
