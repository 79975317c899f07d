// Modul: store_types.go
// Beschreibung: Datentypen fuer den Verlauf.
// Enthaelt Chat, Message und die Konstruktoren.

package store

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/7blacky7/videocompanion/decode"
)

// ErrNotFound wird zurueckgegeben, wenn ein Chat nicht existiert
var ErrNotFound = errors.New("not found")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID           string           `json:"id"`
	Role         string           `json:"role"`
	Content      string           `json:"content"`
	Reasoning    string           `json:"reasoning,omitempty"`
	BoundarySeen bool             `json:"boundary_seen,omitempty"`
	Segments     []decode.Segment `json:"segments,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewMessage creates a question message
func NewMessage(role, content string) Message {
	now := time.Now()
	return Message{
		Role:      role,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AnswerMessage creates an assistant message from a decoded answer. Content
// holds the visible answer text without tool-call payloads.
func AnswerMessage(st decode.State) Message {
	msg := NewMessage(RoleAssistant, st.Answer)
	msg.Reasoning = st.Reasoning
	msg.BoundarySeen = st.BoundarySeen
	msg.Segments = st.Segments
	return msg
}

// State rebuilds the decoded answer of an assistant message
func (m Message) State() decode.State {
	return decode.State{
		Reasoning:    m.Reasoning,
		Answer:       m.Content,
		Segments:     m.Segments,
		BoundarySeen: m.BoundarySeen,
	}
}

type Chat struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Title     string    `json:"title"`
	VideoID   string    `json:"video_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt ist die Zeit der letzten Message, nur beim Lesen gefuellt
	UpdatedAt time.Time `json:"updated_at"`
}

// NewChat creates a new Chat with the ID, with CreatedAt timestamp initialized
func NewChat(id string) *Chat {
	return &Chat{
		ID:        id,
		Messages:  []Message{},
		CreatedAt: time.Now(),
	}
}

const maxTitleRunes = 48

// TitleFromQuestion leitet einen Chat-Titel aus der ersten Frage ab
func TitleFromQuestion(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if utf8.RuneCountInString(q) <= maxTitleRunes {
		return q
	}

	runes := []rune(q)
	return strings.TrimSpace(string(runes[:maxTitleRunes-1])) + "…"
}
