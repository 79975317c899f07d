// types.go - Request- und Response-Typen der Companion-API
// Enthaelt: StatusError, AskRequest, StreamEvent, DecodeRequest, ChatInfo, Chat, Message
package api

import (
	"fmt"
	"time"

	"github.com/7blacky7/videocompanion/decode"
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the companion server logs for details"
	}
}

// AskRequest is the request passed to [Client.Ask]. Without ChatID a new
// conversation is started.
type AskRequest struct {
	ChatID   string `json:"chat_id,omitempty"`
	VideoID  string `json:"video_id,omitempty"`
	Question string `json:"question"`

	// Position im Video beim Stellen der Frage
	At *decode.Seconds `json:"at,omitempty"`
}

type EventType string

const (
	EventChatCreated EventType = "chat_created"
	EventDecodeState EventType = "decode_state"
	EventDone        EventType = "done"
	EventError       EventType = "error"
)

// StreamEvent is one line of the NDJSON stream returned by /api/ask.
type StreamEvent struct {
	Type      EventType     `json:"type"`
	ChatID    string        `json:"chat_id,omitempty"`
	MessageID string        `json:"message_id,omitempty"`
	State     *decode.State `json:"state,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// AskResponseFunc is a function that [Client.Ask] invokes for every event
// received from the server. If it returns an error, the stream is aborted.
type AskResponseFunc func(StreamEvent) error

// DecodeRequest decodes a complete raw buffer in one shot.
type DecodeRequest struct {
	Buffer  string          `json:"buffer"`
	Framing *decode.Framing `json:"framing,omitempty"`
}

// ChatInfo describes a stored conversation without its messages.
type ChatInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	VideoID   string    `json:"video_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatsResponse struct {
	Chats []ChatInfo `json:"chats"`
}

// Message is a stored question or a finalized answer.
type Message struct {
	ID           string           `json:"id"`
	Role         string           `json:"role"`
	Content      string           `json:"content"`
	Reasoning    string           `json:"reasoning,omitempty"`
	Segments     []decode.Segment `json:"segments,omitempty"`
	BoundarySeen bool             `json:"boundary_seen,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type Chat struct {
	ChatInfo
	Messages []Message `json:"messages"`
}

type RenameRequest struct {
	Title string `json:"title"`
}

type VersionResponse struct {
	Version string `json:"version"`
}
