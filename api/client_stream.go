// Package api - Stream-basierte Client-Methoden.
// Dieses Modul enthaelt alle Methoden, die Streaming-Responses verwenden.

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/7blacky7/videocompanion/format"
)

const maxBufferSize = 8 * format.MegaByte

func (c *Client) stream(ctx context.Context, method, path string, data any, fn func([]byte) error) error {
	var reqBody *bytes.Buffer
	if data != nil {
		bts, err := json.Marshal(data)
		if err != nil {
			return err
		}

		reqBody = bytes.NewBuffer(bts)
	}

	requestURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/x-ndjson")
	request.Header.Set("User-Agent", userAgent())

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	scanner := bufio.NewScanner(response.Body)
	// increase the buffer size to avoid running out of space
	scanBuf := make([]byte, 0, maxBufferSize)
	scanner.Buffer(scanBuf, maxBufferSize)
	for scanner.Scan() {
		var errorResponse struct {
			Error string `json:"error,omitempty"`
		}

		bts := scanner.Bytes()
		if err := json.Unmarshal(bts, &errorResponse); err != nil {
			if response.StatusCode >= http.StatusBadRequest {
				return StatusError{
					StatusCode:   response.StatusCode,
					Status:       response.Status,
					ErrorMessage: string(bts),
				}
			}
			return errors.New(string(bts))
		}

		if response.StatusCode >= http.StatusBadRequest {
			return StatusError{
				StatusCode:   response.StatusCode,
				Status:       response.Status,
				ErrorMessage: errorResponse.Error,
			}
		}

		if err := fn(bts); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Ask sends a question about a video and streams the decoded answer. fn is
// called for every event; the last event is either [EventDone] or
// [EventError]. An error event is also returned as error after fn saw it,
// so callers can still render the partial state it carries.
func (c *Client) Ask(ctx context.Context, req *AskRequest, fn AskResponseFunc) error {
	return c.stream(ctx, http.MethodPost, "/api/ask", req, func(bts []byte) error {
		var event StreamEvent
		if err := json.Unmarshal(bts, &event); err != nil {
			return err
		}

		if err := fn(event); err != nil {
			return err
		}

		if event.Type == EventError {
			return errors.New(event.Error)
		}
		return nil
	})
}
