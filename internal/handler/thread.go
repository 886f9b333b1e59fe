package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/nanabbs/internal/display"
	"github.com/itchan-dev/nanabbs/internal/domain"
)

func localeOf(r *http.Request) display.Locale {
	return display.ParseLocale(r.Header.Get("Accept-Language"))
}

// ThreadGetHandler serves /threads/{id}/{query}.
func (h *Handler) ThreadGetHandler(w http.ResponseWriter, r *http.Request) {
	thread, err := h.Threads.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "query"), localeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderThread(w, thread)
}

// ThreadGetAllHandler serves /threads/{id} and /threads/{id}/.
func (h *Handler) ThreadGetAllHandler(w http.ResponseWriter, r *http.Request) {
	thread, err := h.Threads.GetAll(r.Context(), chi.URLParam(r, "id"), localeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderThread(w, thread)
}

func (h *Handler) renderThread(w http.ResponseWriter, thread domain.ThreadWithResponses) {
	page := ThreadPage{
		Thread:    thread.Thread,
		Responses: h.renderResponses(thread.Thread.Id, thread.Responses),
		Next:      nextLink(thread),
		Form: PostForm{
			Action: fmt.Sprintf("/threads/%d/responses", thread.Thread.Id),
			Limits: h.Limits,
		},
	}
	h.renderTemplate(w, "thread.html", http.StatusOK, page, "")
}

// nextLink points at the responses posted after the last one shown.
func nextLink(thread domain.ThreadWithResponses) string {
	latest := thread.LatestNumber()
	if latest == 0 || latest >= thread.Thread.ResponseCount {
		return ""
	}
	return fmt.Sprintf("/threads/%d/%d-", thread.Thread.Id, latest+1)
}
