package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        external_user_id TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
        active_document_id TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (active_document_id) REFERENCES documents (id)
    );

    CREATE TABLE IF NOT EXISTS documents (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        name TEXT NOT NULL,
        media_type TEXT NOT NULL,
        content TEXT NOT NULL,
        size_bytes INTEGER NOT NULL,
        chunk_count INTEGER NOT NULL,
        uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (user_id, name),
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        title TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        chat_id TEXT NOT NULL,
        sender TEXT NOT NULL CHECK (sender IN ('user', 'model')),
        content TEXT NOT NULL,
        source_document TEXT,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        negative_feedback BOOLEAN DEFAULT FALSE,
        FOREIGN KEY (chat_id) REFERENCES chats (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByExternalID(externalUserID string) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, external_user_id, password_hash, role, active_document_id, created_at FROM users WHERE external_user_id = ?",
		externalUserID))
}

func (s *SQLiteStore) CreateUser(externalUserID, passwordHash, role string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (external_user_id, password_hash, role) VALUES (?, ?, ?)", externalUserID, passwordHash, role)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) GetUserByID(id int64) (*User, error) {
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	user, err := s.scanUser(s.db.QueryRow(
		"SELECT id, external_user_id, password_hash, role, active_document_id, created_at FROM users WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", id)
	}
	return user, nil
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	var activeDoc sql.NullString
	err := row.Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.Role, &activeDoc, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if activeDoc.Valid {
		user.ActiveDocumentID = &activeDoc.String
	}
	return &user, nil
}

// SetActiveDocument points the user's active selection at a document, or
// clears it when documentID is nil.
func (s *SQLiteStore) SetActiveDocument(userID int64, documentID *string) error {
	res, err := s.db.Exec("UPDATE users SET active_document_id = ? WHERE id = ?", documentID, userID)
	if err != nil {
		return fmt.Errorf("failed to update active document: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("user not found, active document not updated")
	}
	return nil
}

// Document methods
func (s *SQLiteStore) SaveDocument(doc *Document) error {
	stmt, err := s.db.Prepare("INSERT INTO documents (id, user_id, name, media_type, content, size_bytes, chunk_count, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(doc.ID, doc.UserID, doc.Name, doc.MediaType, doc.Content, doc.SizeBytes, doc.ChunkCount, doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to execute document insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDocumentByID(documentID string) (*Document, error) {
	var doc Document
	err := s.db.QueryRow(
		"SELECT id, user_id, name, media_type, content, size_bytes, chunk_count, uploaded_at FROM documents WHERE id = ?",
		documentID).Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.MediaType, &doc.Content, &doc.SizeBytes, &doc.ChunkCount, &doc.UploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteStore) GetDocumentByName(userID int64, name string) (*Document, error) {
	var doc Document
	err := s.db.QueryRow(
		"SELECT id, user_id, name, media_type, content, size_bytes, chunk_count, uploaded_at FROM documents WHERE user_id = ? AND name = ?",
		userID, name).Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.MediaType, &doc.Content, &doc.SizeBytes, &doc.ChunkCount, &doc.UploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document by name: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteStore) GetDocumentsByUserID(userID int64) ([]Document, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, media_type, size_bytes, chunk_count, uploaded_at FROM documents WHERE user_id = ? ORDER BY uploaded_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	return scanDocumentRows(rows)
}

// GetAllDocuments lists every user's documents. Admin view only; content is
// not loaded.
func (s *SQLiteStore) GetAllDocuments() ([]Document, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, media_type, size_bytes, chunk_count, uploaded_at FROM documents ORDER BY uploaded_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	return scanDocumentRows(rows)
}

func scanDocumentRows(rows *sql.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.MediaType, &doc.SizeBytes, &doc.ChunkCount, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and clears any active selection pointing
// at it. Deletion is terminal; there is no soft-delete.
func (s *SQLiteStore) DeleteDocument(documentID string) error {
	if _, err := s.db.Exec("UPDATE users SET active_document_id = NULL WHERE active_document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to clear active document references: %w", err)
	}

	res, err := s.db.Exec("DELETE FROM documents WHERE id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

// Chat methods
func (s *SQLiteStore) CreateChat(userID int64, title *string) (*Chat, error) {
	chatID := uuid.NewString()
	stmt, err := s.db.Prepare("INSERT INTO chats (id, user_id, title, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	_, err = stmt.Exec(chatID, userID, title, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}
	return &Chat{ID: chatID, UserID: userID, Title: title, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetChatByID(chatID string, userID int64) (*Chat, error) {
	var chat Chat
	var title sql.NullString
	err := s.db.QueryRow("SELECT id, user_id, title, created_at FROM chats WHERE id = ? AND user_id = ?", chatID, userID).Scan(&chat.ID, &chat.UserID, &title, &chat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if title.Valid {
		chat.Title = &title.String
	}
	return &chat, nil
}

func (s *SQLiteStore) GetChatsByUserID(userID int64) ([]Chat, error) {
	rows, err := s.db.Query("SELECT id, user_id, title, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		var title sql.NullString
		if err := rows.Scan(&chat.ID, &chat.UserID, &title, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		if title.Valid {
			chat.Title = &title.String
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (s *SQLiteStore) UpdateChatTitle(chatID string, userID int64, title string) error {
	stmt, err := s.db.Prepare("UPDATE chats SET title = ? WHERE id = ? AND user_id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare chat title update: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(title, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to execute chat title update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("chat not found or not owned by user, title not updated")
	}
	return nil
}

// Message methods
func (s *SQLiteStore) CreateMessage(msg *Message) error {
	msg.ID = uuid.NewString() // Ensure ID is set
	msg.Timestamp = time.Now()

	stmt, err := s.db.Prepare("INSERT INTO messages (id, chat_id, sender, content, source_document, timestamp, negative_feedback) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(msg.ID, msg.ChatID, msg.Sender, msg.Content, msg.SourceDocument, msg.Timestamp, msg.NegativeFeedback)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessagesByChatID(chatID string, limit int, offset int) ([]Message, error) {
	query := "SELECT id, chat_id, sender, content, source_document, timestamp, negative_feedback FROM messages WHERE chat_id = ? ORDER BY timestamp ASC LIMIT ? OFFSET ?"
	rows, err := s.db.Query(query, chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessageRows(rows)
}

func (s *SQLiteStore) GetLastNMessagesByChatID(chatID string, n int) ([]Message, error) {
	query := `
        SELECT id, chat_id, sender, content, source_document, timestamp, negative_feedback
        FROM messages
        WHERE chat_id = ?
        ORDER BY timestamp DESC
        LIMIT ?
    `

	rows, err := s.db.Query(query, chatID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessageRows(rows)
}

func scanMessageRows(rows *sql.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		var msg Message
		var source sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Sender, &msg.Content, &source, &msg.Timestamp, &msg.NegativeFeedback); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if source.Valid {
			msg.SourceDocument = &source.String
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) UpdateMessageFeedback(messageID string, negativeFeedback bool) error {
	stmt, err := s.db.Prepare("UPDATE messages SET negative_feedback = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare feedback update: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(negativeFeedback, messageID)
	if err != nil {
		return fmt.Errorf("failed to execute feedback update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("message not found, feedback not updated")
	}
	return nil
}

// Usage methods (admin view)
func (s *SQLiteStore) GetUsageStats() (*UsageStats, error) {
	var stats UsageStats

	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&stats.Users); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&stats.Documents); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&stats.Messages); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `
        SELECT u.external_user_id,
               (SELECT COUNT(*) FROM documents d WHERE d.user_id = u.id),
               (SELECT COUNT(*) FROM messages m JOIN chats c ON m.chat_id = c.id WHERE c.user_id = u.id)
        FROM users u
        ORDER BY u.external_user_id
    `
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query per-user usage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var usage UserUsage
		if err := rows.Scan(&usage.ExternalUserID, &usage.Documents, &usage.Messages); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		stats.PerUser = append(stats.PerUser, usage)
	}
	return &stats, rows.Err()
}
