package core

import (
	"context"
	"fmt"
	"log"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/ingest"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/store"
)

// DocumentService runs uploads through the ingestion pipeline and manages
// the stored documents and the per-user active selection.
type DocumentService struct {
	dbStore  *store.SQLiteStore
	pipeline *ingest.Pipeline
}

func NewDocumentService(db *store.SQLiteStore, pipeline *ingest.Pipeline) *DocumentService {
	return &DocumentService{
		dbStore:  db,
		pipeline: pipeline,
	}
}

// Upload ingests a file and persists the resulting document. A re-upload
// under the same name replaces the previous record wholesale: the old
// document is deleted and a fresh one (new id) is saved.
func (s *DocumentService) Upload(ctx context.Context, userID int64, filename string, data []byte) (*store.Document, error) {
	doc, err := s.pipeline.Ingest(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	doc.UserID = userID

	existing, err := s.dbStore.GetDocumentByName(userID, doc.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing document: %w", err)
	}
	if existing != nil {
		if err := s.dbStore.DeleteDocument(existing.ID); err != nil {
			return nil, fmt.Errorf("failed to replace document %q: %w", doc.Name, err)
		}
		log.Printf("Replacing document %q for user %d (old id %s)", doc.Name, userID, existing.ID)
	}

	if err := s.dbStore.SaveDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	log.Printf("Ingested document %q for user %d: %d chars, %d chunks", doc.Name, userID, len(doc.Content), doc.ChunkCount)
	return doc, nil
}

func (s *DocumentService) List(userID int64) ([]store.Document, error) {
	return s.dbStore.GetDocumentsByUserID(userID)
}

// Delete removes one of the user's documents. The store clears any active
// selection pointing at it.
func (s *DocumentService) Delete(userID int64, documentID string) error {
	doc, err := s.dbStore.GetDocumentByID(documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil || doc.UserID != userID {
		return ErrDocumentNotFound
	}
	return s.dbStore.DeleteDocument(documentID)
}

// SetActive makes the document the user's context for subsequent questions.
func (s *DocumentService) SetActive(userID int64, documentID string) error {
	doc, err := s.dbStore.GetDocumentByID(documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil || doc.UserID != userID {
		return ErrDocumentNotFound
	}
	return s.dbStore.SetActiveDocument(userID, &documentID)
}

func (s *DocumentService) ClearActive(userID int64) error {
	return s.dbStore.SetActiveDocument(userID, nil)
}

// Admin surface

func (s *DocumentService) ListAll() ([]store.Document, error) {
	return s.dbStore.GetAllDocuments()
}

func (s *DocumentService) AdminDelete(documentID string) error {
	doc, err := s.dbStore.GetDocumentByID(documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	return s.dbStore.DeleteDocument(documentID)
}

func (s *DocumentService) UsageStats() (*store.UsageStats, error) {
	return s.dbStore.GetUsageStats()
}
