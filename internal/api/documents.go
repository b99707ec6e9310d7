package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/core"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/ingest"
)

// maxUploadBytes caps document uploads.
const maxUploadBytes = 25 << 20

func (h *APIHandler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A 'file' field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	doc, err := h.documentService.Upload(r.Context(), userID, header.Filename, data)
	if err != nil {
		var unsupported *ingest.UnsupportedFormatError
		var extraction *ingest.ExtractionError
		switch {
		case errors.As(err, &unsupported):
			http.Error(w, unsupported.Error(), http.StatusBadRequest)
		case errors.As(err, &extraction):
			log.Printf("Extraction failed for user %d, file %s: %v", userID, header.Filename, err)
			http.Error(w, extraction.Error(), http.StatusUnprocessableEntity)
		default:
			log.Printf("Error uploading document for user %d: %v", userID, err)
			http.Error(w, "Failed to upload document", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (h *APIHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	docs, err := h.documentService.List(userID)
	if err != nil {
		log.Printf("Error listing documents for user %d: %v", userID, err)
		http.Error(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(docs)
}

func (h *APIHandler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	documentID := chi.URLParam(r, "documentID")

	err := h.documentService.Delete(userID, documentID)
	if err != nil {
		if errors.Is(err, core.ErrDocumentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			log.Printf("Error deleting document %s for user %d: %v", documentID, userID, err)
			http.Error(w, "Failed to delete document", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) ActivateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	documentID := chi.URLParam(r, "documentID")

	err := h.documentService.SetActive(userID, documentID)
	if err != nil {
		if errors.Is(err, core.ErrDocumentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			log.Printf("Error activating document %s for user %d: %v", documentID, userID, err)
			http.Error(w, "Failed to activate document", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) DeactivateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := h.documentService.ClearActive(userID); err != nil {
		log.Printf("Error clearing active document for user %d: %v", userID, err)
		http.Error(w, "Failed to clear active document", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
