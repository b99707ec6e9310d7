package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/config"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/store"
)

const (
	defaultChatModelName          = "gemini-1.5-flash-latest"
	defaultTitleModelName         = "gemini-1.5-flash-latest"
	defaultTranscriptionModelName = "gemini-1.5-flash-latest"

	// maxContextChars caps the document content sent alongside a question.
	// The full document is always sent; no chunk-level selection occurs.
	maxContextChars  = 800_000
	truncationMarker = "\n[content truncated]"

	chatSystemInstruction = "You are Mesob, a helpful document assistant. Answer questions based only on the provided document content. " +
		"If the answer is not found in the document, clearly state that the document does not contain the information. " +
		"Keep your answers concise and directly related to the user's question and the document. " +
		"Do not make up information."

	transcriptionInstruction = "Transcribe the following audio recording verbatim. Return only the transcript text, nothing else."

	titleSystemInstruction = "You are a helpful assistant that generates concise titles for chat conversations. " +
		"The title should be 3-5 words maximum. Just return the title itself, nothing else."
)

// Answer is the result of a document-grounded completion.
type Answer struct {
	Text       string `json:"text"`
	ModelLabel string `json:"model_label"`
}

type LLMService struct {
	client *genai.Client
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// Answer asks the model the given question with the entire document content
// as context, preceded by the recent chat history. A context cancelled by the
// caller's interrupt action surfaces as ErrInterrupted; any other remote
// failure surfaces as ErrGenerationFailed. Neither is retried here.
func (s *LLMService) Answer(ctx context.Context, question, documentText string, history []store.Message) (*Answer, error) {
	model := s.client.GenerativeModel(defaultChatModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(chatSystemInstruction)},
	}

	chatSession := model.StartChat()
	for _, msg := range history {
		chatSession.History = append(chatSession.History, &genai.Content{
			Role:  msg.Sender,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	prompt := fmt.Sprintf("Here is the full content of the selected document:\n\n--- DOCUMENT START ---\n%s\n--- DOCUMENT END ---\n\nNow, please answer my question: %s",
		truncateContext(documentText), question)

	resp, err := chatSession.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
		return nil, fmt.Errorf("%w: gemini SendMessage: %v", ErrGenerationFailed, err)
	}

	text := collectText(resp)
	if text == "" {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return nil, fmt.Errorf("%w: empty response from model", ErrGenerationFailed)
	}

	return &Answer{Text: text, ModelLabel: defaultChatModelName}, nil
}

// Transcribe sends raw audio to the model as an inline blob and returns the
// transcript text.
func (s *LLMService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	model := s.client.GenerativeModel(defaultTranscriptionModelName)

	resp, err := model.GenerateContent(ctx,
		genai.Text(transcriptionInstruction),
		genai.Blob{MIMEType: mimeType, Data: audio},
	)
	if err != nil {
		return "", fmt.Errorf("%w: gemini GenerateContent: %v", ErrTranscriptionFailed, err)
	}

	text := strings.TrimSpace(collectText(resp))
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript from model", ErrTranscriptionFailed)
	}
	return text, nil
}

func (s *LLMService) GenerateTitleForChat(chatSummary string) (string, error) {
	ctx := context.Background()
	model := s.client.GenerativeModel(defaultTitleModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(titleSystemInstruction)},
	}

	temp := float32(0.3)
	maxTokens := int32(20)

	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	userPromptForTitle := fmt.Sprintf("Generate a very concise title (3-5 words maximum) for a conversation that starts with or is about: \"%s\".", chatSummary)

	resp, err := model.GenerateContent(ctx, genai.Text(userPromptForTitle))
	if err != nil {
		return "", fmt.Errorf("gemini title generation request failed: %w", err)
	}

	title := collectText(resp)
	if title == "" {
		return "Chat", fmt.Errorf("LLM generated an empty title")
	}

	return strings.Trim(title, "\"'\n\r\t ."), nil
}

// collectText concatenates the text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return b.String()
}

// truncateContext enforces the context ceiling, appending a marker when the
// document had to be cut.
func truncateContext(text string) string {
	runes := []rune(text)
	if len(runes) <= maxContextChars {
		return text
	}
	return string(runes[:maxContextChars]) + truncationMarker
}
