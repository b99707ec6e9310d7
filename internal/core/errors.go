package core

import "errors"

var (
	// ErrChatNotFound is returned when a chat does not exist or is not owned
	// by the requesting user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrChatBusy is returned when a completion request is already in flight
	// for the chat. Callers must wait or interrupt before asking again.
	ErrChatBusy = errors.New("a request is already being processed for this chat")

	// ErrNoActiveDocument is returned when a question is posted without a
	// document selected as the session's context.
	ErrNoActiveDocument = errors.New("no active document selected")

	// ErrDocumentNotFound is returned for operations on a missing document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNoGenerationInFlight is returned by Interrupt when there is nothing
	// to cancel.
	ErrNoGenerationInFlight = errors.New("no generation in flight")

	// ErrInterrupted marks a completion aborted by the user. The already
	// committed user message stays; no model reply is stored.
	ErrInterrupted = errors.New("generation interrupted")

	// ErrGenerationFailed marks a remote completion failure. Not retried.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrTranscriptionFailed marks a remote transcription failure. Not retried.
	ErrTranscriptionFailed = errors.New("transcription failed")
)
