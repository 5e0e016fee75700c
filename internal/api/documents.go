package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"festops/internal/domain"
)

// Uploads are capped; contracts and menu scans stay well under this.
const maxUploadBytes = 32 << 20

// UploadDocumentHandler accepts a multipart form with a "file" part and
// optional client_id/event_id fields linking the document.
func (h *Handler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file part")
		return
	}
	defer file.Close()

	clientID := r.FormValue("client_id")
	eventID := r.FormValue("event_id")
	if clientID == "" && eventID == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "client_id or event_id is required")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := uuid.NewString()
	key := fmt.Sprintf("documents/%s/%s", id, header.Filename)
	size, err := h.docs.Put(r.Context(), key, file)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Document storage failed")
		return
	}

	doc := domain.Document{
		ID:          id,
		ClientID:    clientID,
		EventID:     eventID,
		Name:        header.Filename,
		ContentType: contentType,
		Size:        size,
		StorageKey:  key,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.store.CreateDocument(r.Context(), doc); err != nil {
		// Roll the stored bytes back so no orphan object lingers.
		_ = h.docs.Delete(r.Context(), key)
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, doc)
}

func (h *Handler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetDocument(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

func (h *Handler) DocumentContentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetDocument(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	rc, err := h.docs.Get(r.Context(), doc.StorageKey)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Document content missing")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc)
}

func (h *Handler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetDocument(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if err := h.store.DeleteDocument(r.Context(), doc.ID); err != nil {
		respondStoreError(w, err)
		return
	}
	// Metadata row is the source of truth; a failed blob delete only
	// leaves unreferenced bytes behind.
	_ = h.docs.Delete(r.Context(), doc.StorageKey)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r, domain.FilterClientID, domain.FilterEventID)
	resp, err := h.store.ListDocuments(r.Context(), q)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}
