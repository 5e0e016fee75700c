package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"festops/internal/domain"
)

func (h *Handler) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreateClient(r.Context(), client); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, client)
}

func (h *Handler) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	client, err := h.store.GetClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, client)
}

func (h *Handler) UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	client, err := h.store.GetClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	updated := req.Apply(*client)
	if err := h.store.UpdateClient(r.Context(), updated); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClient(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	resp, err := h.store.ListClients(r.Context(), q)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}
