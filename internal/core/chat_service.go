package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/store"
)

// Generator is the remote completion surface the chat service depends on.
// *LLMService satisfies it.
type Generator interface {
	Answer(ctx context.Context, question, documentText string, history []store.Message) (*Answer, error)
	GenerateTitleForChat(chatSummary string) (string, error)
}

type ChatService struct {
	dbStore *store.SQLiteStore
	llm     Generator

	// One in-flight completion per chat. The cancel func is held so an
	// explicit interrupt action can abort the request.
	mu       sync.Mutex
	inflight map[string]context.CancelFunc
}

func NewChatService(db *store.SQLiteStore, llm Generator) *ChatService {
	return &ChatService{
		dbStore:  db,
		llm:      llm,
		inflight: make(map[string]context.CancelFunc),
	}
}

func (s *ChatService) GetUserByExternalID(externalUserID string) (*store.User, error) {
	return s.dbStore.GetUserByExternalID(externalUserID)
}

func (s *ChatService) CreateUser(externalUserID, passwordHash, role string) (*store.User, error) {
	return s.dbStore.CreateUser(externalUserID, passwordHash, role)
}

func (s *ChatService) CreateChat(ctx context.Context, userID int64, firstMessageContent *string) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.CreateChat(userID, nil) // Title will be generated later
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}

	var messages []store.Message

	if firstMessageContent != nil && *firstMessageContent != "" {
		modelMsg, err := s.PostMessage(ctx, chat.ID, userID, *firstMessageContent)
		if err != nil {
			// The chat exists either way; surface what happened with the
			// first exchange alongside it.
			return chat, nil, err
		}

		// PostMessage stored both sides of the exchange.
		stored, err := s.dbStore.GetMessagesByChatID(chat.ID, 10, 0)
		if err != nil {
			log.Printf("Failed to load messages for new chat %s: %v", chat.ID, err)
			messages = []store.Message{*modelMsg}
		} else {
			messages = stored
		}
	}

	return chat, messages, nil
}

func (s *ChatService) GetChats(userID int64) ([]store.Chat, error) {
	return s.dbStore.GetChatsByUserID(userID)
}

func (s *ChatService) GetChatDetails(chatID string, userID int64) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if chat == nil {
		return nil, nil, nil // Not found
	}

	messages, err := s.dbStore.GetMessagesByChatID(chatID, 100, 0) // Get up to 100 messages
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	return chat, messages, nil
}

// PostMessage stores the user's question, asks the model with the active
// document's full content as context, and stores the reply. The reply always
// carries exactly one source: the name of the document that was active when
// the question was asked. If the completion is interrupted or fails, the
// user message stays committed and no model reply is stored.
func (s *ChatService) PostMessage(ctx context.Context, chatID string, userID int64, userContent string) (*store.Message, error) {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	doc, err := s.activeDocument(userID)
	if err != nil {
		return nil, err
	}

	genCtx, err := s.begin(ctx, chatID)
	if err != nil {
		return nil, err
	}
	defer s.finish(chatID)

	// History is read before the new question is stored so the question is
	// not doubled up in the prompt.
	history, err := s.dbStore.GetLastNMessagesByChatID(chatID, 5)
	if err != nil {
		log.Printf("Error getting chat history for chat %s: %v. Proceeding without history.", chatID, err)
		history = nil
	}
	reverseMessages(history) // Oldest first

	userMsg := store.Message{
		ChatID:  chatID,
		Sender:  "user",
		Content: userContent,
	}
	if err := s.dbStore.CreateMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	answer, err := s.llm.Answer(genCtx, userContent, doc.Content, history)
	if err != nil {
		return nil, err
	}

	modelMessage := store.Message{
		ChatID:         chatID,
		Sender:         "model",
		Content:        answer.Text,
		SourceDocument: &doc.Name,
	}
	if err := s.dbStore.CreateMessage(&modelMessage); err != nil {
		return nil, fmt.Errorf("failed to store model message: %w", err)
	}

	if chat.Title == nil || *chat.Title == "" {
		go s.generateAndSaveChatTitle(chatID, userID, userContent)
	}

	return &modelMessage, nil
}

// Interrupt aborts the in-flight completion for the chat, if any.
func (s *ChatService) Interrupt(chatID string, userID int64) error {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return ErrChatNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel, ok := s.inflight[chatID]
	if !ok {
		return ErrNoGenerationInFlight
	}
	cancel()
	return nil
}

func (s *ChatService) SetMessageFeedback(messageID string, userID int64, negative bool) error {
	// Should verify that the message belongs to the user's chat
	return s.dbStore.UpdateMessageFeedback(messageID, negative)
}

// begin marks the chat as processing and returns the cancellable context the
// completion must run under. ErrChatBusy when a request is already in flight.
func (s *ChatService) begin(parent context.Context, chatID string) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[chatID]; busy {
		return nil, ErrChatBusy
	}

	ctx, cancel := context.WithCancel(parent)
	s.inflight[chatID] = cancel
	return ctx, nil
}

func (s *ChatService) finish(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.inflight[chatID]; ok {
		cancel()
		delete(s.inflight, chatID)
	}
}

// activeDocument resolves the user's current document selection.
func (s *ChatService) activeDocument(userID int64) (*store.Document, error) {
	user, err := s.dbStore.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.ActiveDocumentID == nil {
		return nil, ErrNoActiveDocument
	}

	doc, err := s.dbStore.GetDocumentByID(*user.ActiveDocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active document: %w", err)
	}
	if doc == nil {
		// The store clears selections on delete, so this points at a bug.
		log.Printf("Active document %s for user %d no longer exists", *user.ActiveDocumentID, userID)
		return nil, ErrNoActiveDocument
	}
	return doc, nil
}

func (s *ChatService) generateAndSaveChatTitle(chatID string, userID int64, basisContent string) {
	log.Printf("Attempting to generate title for chat %s", chatID)
	title, err := s.llm.GenerateTitleForChat(basisContent)
	if err != nil {
		log.Printf("Failed to generate title for chat %s: %v", chatID, err)
		return
	}
	title = strings.Trim(title, "\"'\n\r\t .")

	err = s.dbStore.UpdateChatTitle(chatID, userID, title)
	if err != nil {
		log.Printf("Failed to save generated title '%s' for chat %s: %v", title, chatID, err)
	} else {
		log.Printf("Successfully generated and saved title '%s' for chat %s", title, chatID)
	}
}

func reverseMessages(msgs []store.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
