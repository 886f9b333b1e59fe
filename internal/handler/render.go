package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

type CommonTemplateData struct {
	Board domain.Board
	Error string
}

type PostForm struct {
	Action    string
	WithTitle bool
	Limits    config.Posting
}

type ResponseView struct {
	domain.DisplayResponse
	Body template.HTML
}

type ThreadPage struct {
	Thread    domain.ThreadMeta
	Responses []ResponseView
	Next      string // link to the responses after this page, "" when there are none
	Form      PostForm
}

// ThreadLink is one entry of the index listing. Threads with a digest link to it in-page.
type ThreadLink struct {
	Rank   int
	Thread domain.ThreadMeta
	Href   string
}

type DigestView struct {
	Rank      int
	Thread    domain.ThreadMeta
	Responses []ResponseView
	Form      PostForm
}

type IndexPage struct {
	Threads []ThreadLink
	Digests []DigestView
	Form    PostForm
}

type ErrorPage struct {
	Status     int
	StatusText string
}

func (h *Handler) renderTemplate(w http.ResponseWriter, name string, status int, data any, errMsg string) {
	tmpl, ok := h.Templates[name]
	if !ok {
		h.Log.Error("template not found", "template", name)
		http.Error(w, "Template "+name+" not found", http.StatusInternalServerError)
		return
	}

	wrapped := TemplateData{
		Data:   data,
		Common: CommonTemplateData{Board: h.Board.Info(), Error: errMsg},
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		h.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// writeError renders the error page with the status picked from the error kind.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := internal_errors.StatusCode(err)
	h.logFailure(r, status, err)
	h.renderTemplate(w, "error.html", status, ErrorPage{Status: status, StatusText: http.StatusText(status)}, internal_errors.PublicMessage(err))
}

func (h *Handler) logFailure(r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		return
	}
	h.Log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
}

// renderResponses turns response bodies into HTML. A body the renderer chokes
// on is shown escaped.
func (h *Handler) renderResponses(threadId domain.ThreadId, responses []domain.DisplayResponse) []ResponseView {
	views := make([]ResponseView, len(responses))
	for i, r := range responses {
		body, err := h.TextProcessor.Render(threadId, r.Content)
		if err != nil {
			h.Log.Warn("failed to render response body", "thread_id", threadId, "number", r.Number, "error", err)
			body = template.HTMLEscapeString(r.Content)
		}
		views[i] = ResponseView{DisplayResponse: r, Body: template.HTML(body)}
	}
	return views
}
