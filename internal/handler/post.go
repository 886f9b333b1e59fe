package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
	mw "github.com/itchan-dev/nanabbs/internal/middleware"
	"github.com/itchan-dev/nanabbs/internal/query"
)

// parseResponseForm reads the name, mail and content fields shared by both post forms.
func parseResponseForm(w http.ResponseWriter, r *http.Request) (domain.ResponseCreationData, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return domain.ResponseCreationData{}, internal_errors.Wrap(internal_errors.Validation, err, "failed to parse form")
	}
	ip, err := mw.GetIP(r)
	if err != nil {
		return domain.ResponseCreationData{}, err
	}
	return domain.ResponseCreationData{
		AuthorName: r.PostFormValue("name"),
		Mail:       r.PostFormValue("mail"),
		Content:    r.PostFormValue("content"),
		PosterIP:   ip,
	}, nil
}

// ThreadPostHandler creates a thread and redirects to it.
func (h *Handler) ThreadPostHandler(w http.ResponseWriter, r *http.Request) {
	first, err := parseResponseForm(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.Posts.CreateThread(r.Context(), domain.ThreadCreationData{
		Title:         r.PostFormValue("title"),
		FirstResponse: first,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/threads/%d", id), http.StatusSeeOther)
}

// ResponsePostHandler appends a response and redirects to the latest responses.
func (h *Handler) ResponsePostHandler(w http.ResponseWriter, r *http.Request) {
	threadId, err := query.ParseThreadId(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data, err := parseResponseForm(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data.ThreadId = threadId

	number, err := h.Posts.CreateResponse(r.Context(), data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/threads/%d/l50#r%d", threadId, number), http.StatusSeeOther)
}
