package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"festops/internal/domain"
)

func (h *Handler) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = domain.PaymentPending
	}
	now := time.Now().UTC()
	payment := domain.Payment{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    status,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if payment.Status == domain.PaymentPaid {
		payment.PaidAt = &now
	}
	if err := h.store.CreatePayment(r.Context(), payment); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, payment)
}

func (h *Handler) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	payment, err := h.store.GetPayment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, payment)
}

func (h *Handler) UpdatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	payment, err := h.store.GetPayment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	updated := req.Apply(*payment)
	if err := h.store.UpdatePayment(r.Context(), updated); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePaymentHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePayment(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r, domain.FilterStatus, domain.FilterEventID, domain.FilterMethod, domain.FilterFrom, domain.FilterTo)
	resp, err := h.store.ListPayments(r.Context(), q)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}
