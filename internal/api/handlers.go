package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/auth"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/config"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/core"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/store"
)

// maxAudioBytes caps transcription uploads.
const maxAudioBytes = 20 << 20

// Transcriber is the voice-input surface. *core.LLMService satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type APIHandler struct {
	chatService     *core.ChatService
	documentService *core.DocumentService
	transcriber     Transcriber
}

func NewAPIHandler(cs *core.ChatService, ds *core.DocumentService, tr Transcriber) *APIHandler {
	return &APIHandler{
		chatService:     cs,
		documentService: ds,
		transcriber:     tr,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		externalUserID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.chatService.GetUserByExternalID(externalUserID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", externalUserID, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "externalUserID", user.ExternalUserID)
		ctx = context.WithValue(ctx, "role", user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnlyMiddleware gates the admin surface on the user's role.
func (h *APIHandler) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value("role").(string)
		if role != store.RoleAdmin {
			http.Error(w, "Admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type SignupRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	role := store.RoleUser
	if config.IsAdminUser(req.UserID) {
		role = store.RoleAdmin
	}

	user, err := h.chatService.CreateUser(req.UserID, hashedPassword, role)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.UserID, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.chatService.GetUserByExternalID(req.UserID)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.UserID, err)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(req.UserID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token, "role": user.Role})
}

type CreateChatRequest struct {
	FirstMessage *string `json:"first_message,omitempty"`
}

type CreateChatResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages,omitempty"`
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req CreateChatRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	chat, messages, err := h.chatService.CreateChat(r.Context(), userID, req.FirstMessage)
	if err != nil && chat == nil {
		log.Printf("Error creating chat for user %d: %v", userID, err)
		http.Error(w, "Failed to create chat", http.StatusInternalServerError)
		return
	}
	if err != nil {
		// The chat was created but the first exchange failed; surface the
		// chat and let the client retry the message.
		log.Printf("First exchange failed for new chat %s: %v", chat.ID, err)
	}

	resp := CreateChatResponse{
		Chat:     chat,
		Messages: messages,
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	chats, err := h.chatService.GetChats(userID)
	if err != nil {
		log.Printf("Error listing chats for user %d: %v", userID, err)
		http.Error(w, "Failed to list chats", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(chats)
}

type GetChatDetailsResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages"`
}

func (h *APIHandler) GetChatDetailsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chatService.GetChatDetails(chatID, userID)
	if err != nil {
		log.Printf("Error getting chat details for user %d, chat %s: %v", userID, chatID, err)
		http.Error(w, "Failed to get chat details", http.StatusInternalServerError)
		return
	}
	if chat == nil {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	resp := GetChatDetailsResponse{
		Chat:     chat,
		Messages: messages,
	}
	json.NewEncoder(w).Encode(resp)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	chatID := chi.URLParam(r, "chatID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		return
	}

	modelMessage, err := h.chatService.PostMessage(r.Context(), chatID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrChatNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, core.ErrNoActiveDocument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, core.ErrChatBusy), errors.Is(err, core.ErrInterrupted):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, core.ErrGenerationFailed):
			log.Printf("Generation failed for user %d, chat %s: %v", userID, chatID, err)
			http.Error(w, "Failed to generate a reply", http.StatusBadGateway)
		default:
			log.Printf("Error posting message for user %d, chat %s: %v", userID, chatID, err)
			http.Error(w, "Failed to post message", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(modelMessage)
}

func (h *APIHandler) InterruptHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	chatID := chi.URLParam(r, "chatID")

	err := h.chatService.Interrupt(chatID, userID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrChatNotFound), errors.Is(err, core.ErrNoGenerationInFlight):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			log.Printf("Error interrupting chat %s for user %d: %v", chatID, userID, err)
			http.Error(w, "Failed to interrupt", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type FeedbackRequest struct {
	Negative bool `json:"negative"`
}

func (h *APIHandler) MessageFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	messageID := chi.URLParam(r, "messageID")

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := h.chatService.SetMessageFeedback(messageID, userID, req.Negative)
	if err != nil {
		if err.Error() == "message not found, feedback not updated" {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			log.Printf("Error setting feedback for message %s by user %d: %v", messageID, userID, err)
			http.Error(w, "Failed to set feedback", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TranscribeHandler accepts a recorded audio file and returns its transcript.
// Recording has fully stopped by the time the client uploads, so the call is
// a plain synchronous request; the client submits the transcript as an
// ordinary chat message afterwards.
func (h *APIHandler) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "An 'audio' file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		http.Error(w, "Failed to read audio upload", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	transcript, err := h.transcriber.Transcribe(r.Context(), audio, mimeType)
	if err != nil {
		log.Printf("Transcription failed for user %d: %v", userID, err)
		http.Error(w, "Failed to transcribe audio", http.StatusBadGateway)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"text": transcript})
}
