package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDocument(userID int64, name string) *Document {
	return &Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		MediaType:  "text/plain",
		Content:    "some document content",
		SizeBytes:  21,
		ChunkCount: 1,
		UploadedAt: time.Now(),
	}
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateUser("alice", "hash", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ExternalUserID)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.Nil(t, user.ActiveDocumentID)

	found, err := s.GetUserByExternalID("alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := s.GetUserByExternalID("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.CreateUser("alice", "hash2", RoleUser)
	assert.Error(t, err, "external user IDs are unique")
}

func TestDocumentCRUD(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("bob", "hash", RoleUser)
	require.NoError(t, err)

	doc := testDocument(user.ID, "report.pdf")
	require.NoError(t, s.SaveDocument(doc))

	loaded, err := s.GetDocumentByID(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, doc.Name, loaded.Name)
	assert.Equal(t, doc.Content, loaded.Content)
	assert.Equal(t, doc.ChunkCount, loaded.ChunkCount)

	byName, err := s.GetDocumentByName(user.ID, "report.pdf")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, doc.ID, byName.ID)

	docs, err := s.GetDocumentsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Content, "listings do not load content")

	require.NoError(t, s.DeleteDocument(doc.ID))

	gone, err := s.GetDocumentByID(doc.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Error(t, s.DeleteDocument(doc.ID), "second delete fails, deletion is terminal")
}

func TestActiveDocumentSelection(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("carol", "hash", RoleUser)
	require.NoError(t, err)

	doc := testDocument(user.ID, "notes.txt")
	require.NoError(t, s.SaveDocument(doc))

	require.NoError(t, s.SetActiveDocument(user.ID, &doc.ID))

	loaded, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.ActiveDocumentID)
	assert.Equal(t, doc.ID, *loaded.ActiveDocumentID)

	// Clearing the selection
	require.NoError(t, s.SetActiveDocument(user.ID, nil))
	loaded, err = s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.ActiveDocumentID)
}

func TestDeleteDocumentClearsActiveSelection(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("dave", "hash", RoleUser)
	require.NoError(t, err)

	doc := testDocument(user.ID, "active.txt")
	require.NoError(t, s.SaveDocument(doc))
	require.NoError(t, s.SetActiveDocument(user.ID, &doc.ID))

	require.NoError(t, s.DeleteDocument(doc.ID))

	loaded, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.ActiveDocumentID, "the active selection must never dangle")
}

func TestMessagesWithSourceDocument(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("erin", "hash", RoleUser)
	require.NoError(t, err)

	chat, err := s.CreateChat(user.ID, nil)
	require.NoError(t, err)

	userMsg := Message{ChatID: chat.ID, Sender: "user", Content: "what is this about?"}
	require.NoError(t, s.CreateMessage(&userMsg))
	assert.NotEmpty(t, userMsg.ID)

	source := "report.pdf"
	modelMsg := Message{ChatID: chat.ID, Sender: "model", Content: "it is about reports", SourceDocument: &source}
	require.NoError(t, s.CreateMessage(&modelMsg))

	messages, err := s.GetMessagesByChatID(chat.ID, 100, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	var sawSource bool
	for _, msg := range messages {
		if msg.Sender == "model" {
			require.NotNil(t, msg.SourceDocument)
			assert.Equal(t, "report.pdf", *msg.SourceDocument)
			sawSource = true
		} else {
			assert.Nil(t, msg.SourceDocument)
		}
	}
	assert.True(t, sawSource)
}

func TestChatOwnership(t *testing.T) {
	s := newTestStore(t)
	owner, err := s.CreateUser("frank", "hash", RoleUser)
	require.NoError(t, err)
	other, err := s.CreateUser("grace", "hash", RoleUser)
	require.NoError(t, err)

	chat, err := s.CreateChat(owner.ID, nil)
	require.NoError(t, err)

	found, err := s.GetChatByID(chat.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, found, "chats are only visible to their owner")
}

func TestUsageStats(t *testing.T) {
	s := newTestStore(t)

	alice, err := s.CreateUser("alice", "hash", RoleUser)
	require.NoError(t, err)
	bob, err := s.CreateUser("bob", "hash", RoleUser)
	require.NoError(t, err)

	require.NoError(t, s.SaveDocument(testDocument(alice.ID, "a.txt")))
	require.NoError(t, s.SaveDocument(testDocument(alice.ID, "b.txt")))

	chat, err := s.CreateChat(bob.ID, nil)
	require.NoError(t, err)
	require.NoError(t, s.CreateMessage(&Message{ChatID: chat.ID, Sender: "user", Content: "hi"}))

	stats, err := s.GetUsageStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(2), stats.Documents)
	assert.Equal(t, int64(1), stats.Messages)

	require.Len(t, stats.PerUser, 2)
	assert.Equal(t, "alice", stats.PerUser[0].ExternalUserID)
	assert.Equal(t, int64(2), stats.PerUser[0].Documents)
	assert.Equal(t, int64(0), stats.PerUser[0].Messages)
	assert.Equal(t, "bob", stats.PerUser[1].ExternalUserID)
	assert.Equal(t, int64(1), stats.PerUser[1].Messages)
}
