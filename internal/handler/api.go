package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/nanabbs/internal/api"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
)

func (h *Handler) APIIndexHandler(w http.ResponseWriter, r *http.Request) {
	index, err := h.Board.Index(r.Context(), localeOf(r))
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewIndexResponse(index))
}

func (h *Handler) APIThreadGetHandler(w http.ResponseWriter, r *http.Request) {
	thread, err := h.Threads.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "query"), localeOf(r))
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewThreadResponse(thread))
}

func (h *Handler) APIThreadGetAllHandler(w http.ResponseWriter, r *http.Request) {
	thread, err := h.Threads.GetAll(r.Context(), chi.URLParam(r, "id"), localeOf(r))
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewThreadResponse(thread))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := internal_errors.StatusCode(err)
	h.logFailure(r, status, err)
	writeJSON(w, status, api.ErrorResponse{Error: internal_errors.PublicMessage(err)})
}
