// Package server - Frage-, Dekodier- und Stream-Funktionen
// Beinhaltet: AskHandler, DecodeHandler, streamResponse
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/decode"
)

// AskHandler beantwortet eine Frage als NDJSON-Stream von api.StreamEvent
func (s *Server) AskHandler(c *gin.Context) {
	var req api.AskRequest
	if err := c.ShouldBindJSON(&req); errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	if s.upstream == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "upstream is not configured"})
		return
	}

	ch := make(chan any)
	go s.runExchange(c.Request.Context(), ch, req)

	streamResponse(c, ch)
}

// DecodeHandler dekodiert einen vollstaendigen Puffer in einem Schritt
func (s *Server) DecodeHandler(c *gin.Context) {
	var req api.DecodeRequest
	if err := c.ShouldBindJSON(&req); errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f := decode.DefaultFraming()
	if req.Framing != nil {
		f = *req.Framing
	}

	if err := f.Validate(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, decode.Decode(req.Buffer, f))
}

func streamResponse(c *gin.Context, ch chan any) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Stream(func(w io.Writer) bool {
		val, ok := <-ch
		if !ok {
			return false
		}

		if h, ok := val.(gin.H); ok {
			if e, ok := h["error"].(string); ok {
				status, ok := h["status"].(int)
				if !ok {
					status = http.StatusInternalServerError
				}

				if !c.Writer.Written() {
					c.Header("Content-Type", "application/json")
					c.JSON(status, gin.H{"error": e})
				} else {
					if err := json.NewEncoder(c.Writer).Encode(gin.H{"error": e}); err != nil {
						slog.Error("streamResponse failed to encode json error", "error", err)
					}
				}

				return false
			}
		}

		bts, err := json.Marshal(val)
		if err != nil {
			slog.Info(fmt.Sprintf("streamResponse: json.Marshal failed with %s", err))
			return false
		}

		bts = append(bts, '\n')
		if _, err := w.Write(bts); err != nil {
			slog.Info(fmt.Sprintf("streamResponse: w.Write failed with %s", err))
			return false
		}

		return true
	})
}
