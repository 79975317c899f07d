// database_chat.go - Chat CRUD Operationen
// Enthält: getAllChats, getChat, saveChat, ensureChat, renameChat, deleteChat

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// getAllChats gibt alle Chats ohne Messages zurück, zuletzt aktive zuerst
func (db *database) getAllChats() ([]Chat, error) {
	query := `
		SELECT
			c.id,
			c.title,
			c.video_id,
			c.created_at,
			COALESCE(datetime(MAX(m.updated_at)), datetime(c.created_at)) as last_updated
		FROM chats c
		LEFT JOIN messages m ON c.id = m.chat_id
		GROUP BY c.id, c.title, c.video_id, c.created_at
		ORDER BY last_updated DESC, c.id DESC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		var lastUpdatedStr string

		if err := rows.Scan(&chat.ID, &chat.Title, &chat.VideoID, &chat.CreatedAt, &lastUpdatedStr); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}

		chat.UpdatedAt, _ = time.Parse(time.DateTime, lastUpdatedStr)
		chat.Messages = []Message{}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return chats, nil
}

// getChat gibt einen Chat mit allen Messages zurück
func (db *database) getChat(id string) (*Chat, error) {
	var chat Chat
	err := db.conn.QueryRow(`SELECT id, title, video_id, created_at FROM chats WHERE id = ?`, id).Scan(
		&chat.ID,
		&chat.Title,
		&chat.VideoID,
		&chat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: chat %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("query chat: %w", err)
	}

	messages, err := db.getMessages(id)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	chat.Messages = messages

	chat.UpdatedAt = chat.CreatedAt
	for _, m := range messages {
		if m.UpdatedAt.After(chat.UpdatedAt) {
			chat.UpdatedAt = m.UpdatedAt
		}
	}

	return &chat, nil
}

// saveChat speichert einen Chat mit allen Messages
func (db *database) saveChat(chat Chat) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO chats (id, title, video_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			video_id = excluded.video_id
	`

	if _, err := tx.Exec(query, chat.ID, chat.Title, chat.VideoID, chat.CreatedAt); err != nil {
		return fmt.Errorf("save chat: %w", err)
	}

	// Bestehende Messages löschen (werden alle neu eingefügt)
	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", chat.ID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	for _, msg := range chat.Messages {
		if _, err := db.insertMessage(tx, chat.ID, msg); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit()
}

// ensureChat legt einen Chat an, falls er noch nicht existiert
func (db *database) ensureChat(tx *sql.Tx, chat Chat) error {
	_, err := tx.Exec(`INSERT OR IGNORE INTO chats (id, title, video_id, created_at) VALUES (?, ?, ?, ?)`,
		chat.ID,
		chat.Title,
		chat.VideoID,
		chat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ensure chat: %w", err)
	}
	return nil
}

// renameChat setzt einen neuen Titel
func (db *database) renameChat(id, title string) error {
	result, err := db.conn.Exec(`UPDATE chats SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}
	return requireRow(result, id)
}

// deleteChat löscht einen Chat und alle zugehörigen Daten
func (db *database) deleteChat(id string) error {
	result, err := db.conn.Exec("DELETE FROM chats WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	if err := requireRow(result, id); err != nil {
		return err
	}

	_, _ = db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return nil
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: chat %s", ErrNotFound, id)
	}
	return nil
}
