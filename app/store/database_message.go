// database_message.go - Message- und Segment-Operationen
// Enthält: getMessages, insertMessage, appendMessages, getSegments, insertSegments

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/7blacky7/videocompanion/decode"
)

// getMessages gibt alle Messages eines Chats zurück
func (db *database) getMessages(chatID string) ([]Message, error) {
	query := `
		SELECT id, role, content, reasoning, boundary_seen, created_at, updated_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := db.conn.Query(query, chatID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		err := rows.Scan(
			&msg.ID,
			&msg.Role,
			&msg.Content,
			&msg.Reasoning,
			&msg.BoundarySeen,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Segmente erst nach dem Schliessen von rows laden
	rows.Close()
	for i := range messages {
		segments, err := db.getSegments(messages[i].ID)
		if err != nil {
			return nil, fmt.Errorf("get segments: %w", err)
		}
		messages[i].Segments = segments
	}

	return messages, nil
}

// insertMessage fügt eine Message samt Segmenten ein und gibt ihre ID zurück
func (db *database) insertMessage(tx *sql.Tx, chatID string, msg Message) (string, error) {
	if msg.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generate message id: %w", err)
		}
		msg.ID = id.String()
	}

	query := `
		INSERT INTO messages (id, chat_id, role, content, reasoning, boundary_seen, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		msg.ID,
		chatID,
		msg.Role,
		msg.Content,
		msg.Reasoning,
		msg.BoundarySeen,
		msg.CreatedAt,
		msg.UpdatedAt,
	)
	if err != nil {
		return "", err
	}

	if err := db.insertSegments(tx, msg.ID, msg.Segments); err != nil {
		return "", err
	}

	return msg.ID, nil
}

// appendMessages hängt Messages an einen bestehenden Chat an
func (db *database) appendMessages(chat Chat, messages ...Message) ([]string, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := db.ensureChat(tx, chat); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		id, err := db.insertMessage(tx, chat.ID, msg)
		if err != nil {
			return nil, fmt.Errorf("insert message: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return ids, nil
}

// getSegments gibt die Segmente einer Message in Reihenfolge zurück
func (db *database) getSegments(messageID string) ([]decode.Segment, error) {
	rows, err := db.conn.Query(`
		SELECT type, content, payload
		FROM segments
		WHERE message_id = ?
		ORDER BY position ASC
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []decode.Segment
	for rows.Next() {
		var typ, content, payload string
		if err := rows.Scan(&typ, &content, &payload); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}

		switch decode.SegmentType(typ) {
		case decode.SegmentText:
			segments = append(segments, decode.TextSegment(content))
		case decode.SegmentToolCall:
			call, err := decode.ParseToolCall([]byte(payload))
			if err != nil {
				return nil, fmt.Errorf("segment of message %s: %w", messageID, err)
			}
			segments = append(segments, decode.ToolCallSegment(call))
		default:
			return nil, errors.New("unknown segment type " + typ)
		}
	}

	return segments, rows.Err()
}

// insertSegments speichert Segmente mit ihrer Position
func (db *database) insertSegments(tx *sql.Tx, messageID string, segments []decode.Segment) error {
	for i, seg := range segments {
		var kind, payload string
		if seg.Type == decode.SegmentToolCall {
			b, err := decode.MarshalToolCall(seg.Call)
			if err != nil {
				return fmt.Errorf("marshal tool call: %w", err)
			}
			kind, payload = string(seg.Call.Kind()), string(b)
		}

		_, err := tx.Exec(`
			INSERT INTO segments (message_id, position, type, content, kind, payload)
			VALUES (?, ?, ?, ?, ?, ?)
		`, messageID, i, string(seg.Type), seg.Content, kind, payload)
		if err != nil {
			return fmt.Errorf("insert segment: %w", err)
		}
	}
	return nil
}
