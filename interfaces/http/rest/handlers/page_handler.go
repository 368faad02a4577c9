package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// templateExt is the file extension of view templates
const templateExt = ".html"

// PageHandler renders the site's views. Templates are parsed on first use
// and cached for the life of the process.
type PageHandler struct {
	viewsDir  string
	logger    *zap.Logger
	mu        sync.Mutex
	templates map[string]*template.Template
}

// NewPageHandler creates a page handler reading views from viewsDir
func NewPageHandler(viewsDir string, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		viewsDir:  viewsDir,
		logger:    logger,
		templates: make(map[string]*template.Template),
	}
}

// Render returns a handler that renders the named view
func (h *PageHandler) Render(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl, err := h.lookup(view)
		if err != nil {
			h.logger.Error("Failed to load view", zap.String("view", view), zap.Error(err))
			respondText(w, http.StatusInternalServerError, msgServerError)
			return
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, map[string]string{"Page": view}); err != nil {
			h.logger.Error("Failed to render view", zap.String("view", view), zap.Error(err))
			respondText(w, http.StatusInternalServerError, msgServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func (h *PageHandler) lookup(view string) (*template.Template, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if tmpl, ok := h.templates[view]; ok {
		return tmpl, nil
	}

	tmpl, err := template.ParseFiles(filepath.Join(h.viewsDir, view+templateExt))
	if err != nil {
		return nil, fmt.Errorf("parse view %s: %w", view, err)
	}
	h.templates[view] = tmpl
	return tmpl, nil
}
