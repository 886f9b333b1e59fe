package handler

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/markdown"
	"github.com/itchan-dev/nanabbs/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	baseTemplate     = "base.html"
	partialsTemplate = "partials.html"
)

// maxFormBytes bounds POST bodies before the form is parsed.
const maxFormBytes = 1 << 20

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Templates     map[string]*template.Template
	Threads       service.ThreadService
	Board         service.BoardService
	Posts         service.PostService
	Health        Pinger
	TextProcessor *markdown.TextProcessor
	Limits        config.Posting
	Log           *slog.Logger
}

func New(threads service.ThreadService, board service.BoardService, posts service.PostService, health Pinger, textProcessor *markdown.TextProcessor, limits config.Posting, log *slog.Logger) (*Handler, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		Templates:     templates,
		Threads:       threads,
		Board:         board,
		Posts:         posts,
		Health:        health,
		TextProcessor: textProcessor,
		Limits:        limits,
		Log:           log,
	}, nil
}

// loadTemplates parses every page together with the base layout and partials.
func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	for _, page := range []string{"index.html", "thread.html", "error.html"} {
		tmpl, err := template.New(baseTemplate).ParseFS(templateFS,
			"templates/"+baseTemplate,
			"templates/"+partialsTemplate,
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}
