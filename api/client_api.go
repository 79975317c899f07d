// Package api - Einfache API-Methoden des Clients.
// Dieses Modul enthaelt alle nicht-streaming API-Methoden.

package api

import (
	"context"
	"net/http"

	"github.com/7blacky7/videocompanion/decode"
)

// Chats lists stored conversations, most recent first.
func (c *Client) Chats(ctx context.Context) (*ChatsResponse, error) {
	var resp ChatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/chats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat returns a stored conversation including its messages.
func (c *Client) Chat(ctx context.Context, id string) (*Chat, error) {
	var resp Chat
	if err := c.do(ctx, http.MethodGet, "/api/chats/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteChat deletes a conversation and all its messages.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chats/"+id, nil, nil)
}

// RenameChat sets a new title for a conversation.
func (c *Client) RenameChat(ctx context.Context, id, title string) error {
	return c.do(ctx, http.MethodPut, "/api/chats/"+id+"/rename", &RenameRequest{Title: title}, nil)
}

// Decode decodes a complete raw response buffer on the server.
func (c *Client) Decode(ctx context.Context, req *DecodeRequest) (*decode.State, error) {
	var resp decode.State
	if err := c.do(ctx, http.MethodPost, "/api/decode", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Heartbeat checks if the server has started and is responsive; if yes, it
// returns nil, otherwise an error.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, http.MethodHead, "/", nil, nil)
}

// Version returns the companion server version as a string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version VersionResponse
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &version); err != nil {
		return "", err
	}

	return version.Version, nil
}
