package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/itchan-dev/nanabbs/internal/domain"
)

func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	index, err := h.Board.Index(r.Context(), localeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderTemplate(w, "index.html", http.StatusOK, h.indexPage(index), "")
}

func (h *Handler) indexPage(index domain.Index) IndexPage {
	page := IndexPage{
		Threads: make([]ThreadLink, len(index.Threads)),
		Digests: make([]DigestView, len(index.Digests)),
		Form:    PostForm{Action: "/threads", WithTitle: true, Limits: h.Limits},
	}
	rank := make(map[domain.ThreadId]int, len(index.Threads))
	for i, t := range index.Threads {
		href := fmt.Sprintf("/threads/%d/l50", t.Id)
		if index.HasDigest(t.Id) {
			href = fmt.Sprintf("#thread-%d", t.Id)
		}
		rank[t.Id] = i + 1
		page.Threads[i] = ThreadLink{Rank: i + 1, Thread: t, Href: href}
	}
	for i, d := range index.Digests {
		page.Digests[i] = DigestView{
			Rank:      rank[d.Thread.Id],
			Thread:    d.Thread,
			Responses: h.renderResponses(d.Thread.Id, d.Responses),
			Form: PostForm{
				Action: fmt.Sprintf("/threads/%d/responses", d.Thread.Id),
				Limits: h.Limits,
			},
		}
	}
	return page
}

// Health is a liveness check. It never touches the database.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready checks that the database answers within two seconds.
func (h *Handler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Health.Ping(ctx); err != nil {
		h.Log.Error("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
