package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"festops/internal/domain"
)

func (h *Handler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = domain.EventPending
	}
	now := time.Now().UTC()
	event := domain.Event{
		ID:         uuid.NewString(),
		ClientID:   req.ClientID,
		Title:      req.Title,
		Date:       req.Date,
		Guests:     req.Guests,
		Package:    req.Package,
		TotalValue: req.TotalValue,
		Status:     status,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		respondStoreError(w, err)
		return
	}

	// Re-read so the response carries the client summary.
	created, err := h.store.GetEvent(r.Context(), event.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.store.GetEvent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, event)
}

func (h *Handler) UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := mux.Vars(r)["id"]
	event, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	updated := req.Apply(*event)
	if err := h.store.UpdateEvent(r.Context(), updated); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEvent(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r, domain.FilterStatus, domain.FilterClientID, domain.FilterFrom, domain.FilterTo)
	resp, err := h.store.ListEvents(r.Context(), q)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}
