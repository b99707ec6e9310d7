package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/core"
)

func (h *APIHandler) UsageStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.documentService.UsageStats()
	if err != nil {
		log.Printf("Error loading usage stats: %v", err)
		http.Error(w, "Failed to load usage stats", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stats)
}

func (h *APIHandler) AdminListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documentService.ListAll()
	if err != nil {
		log.Printf("Error listing all documents: %v", err)
		http.Error(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(docs)
}

func (h *APIHandler) AdminDeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	err := h.documentService.AdminDelete(documentID)
	if err != nil {
		if errors.Is(err, core.ErrDocumentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			log.Printf("Error deleting document %s: %v", documentID, err)
			http.Error(w, "Failed to delete document", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
