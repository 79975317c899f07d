// exchange.go - Ablauf einer Frage
// Enthaelt: newDecoder, runExchange, send
//
// Pro Frage gibt es genau einen Decoder. Jedes Fragment des Backends wird
// angehaengt und der neue State als Event verschickt. Am Ende wird einmal
// finalisiert und der finale State gespeichert, auch wenn die Verbindung
// zum Backend vorher abgerissen ist.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/app/store"
	"github.com/7blacky7/videocompanion/decode"
	"github.com/7blacky7/videocompanion/envconfig"
)

func (s *Server) newDecoder() *decode.Decoder {
	opts := []decode.Option{
		decode.WithLogger(s.logger()),
		decode.WithMaxBuffer(int(envconfig.MaxBuffer())),
	}
	if envconfig.FullRescan() {
		opts = append(opts, decode.WithFullRescan())
	}
	return decode.NewDecoder(opts...)
}

// runExchange beantwortet req und schreibt die Events nach ch. ch wird am
// Ende geschlossen.
func (s *Server) runExchange(ctx context.Context, ch chan<- any, req api.AskRequest) {
	defer close(ch)

	askedAt := time.Now()
	if req.ChatID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			send(ctx, ch, gin.H{"error": err.Error()})
			return
		}
		req.ChatID = id.String()
	}

	if err := send(ctx, ch, api.StreamEvent{Type: api.EventChatCreated, ChatID: req.ChatID}); err != nil {
		return
	}

	d := s.newDecoder()
	err := s.upstream.Stream(ctx, &req, func(fragment string) error {
		st, err := d.Append(fragment)
		if err != nil {
			return err
		}
		return send(ctx, ch, api.StreamEvent{Type: api.EventDecodeState, ChatID: req.ChatID, State: &st})
	})

	final := d.Finalize()
	messageID := s.persist(req, askedAt, d.Len(), final)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger().Info("client went away, answer kept", "chat", req.ChatID, "bytes", d.Len())
			return
		}

		s.logger().Warn("upstream stream ended with error", "chat", req.ChatID, "bytes", d.Len(), "error", err)
		send(ctx, ch, api.StreamEvent{Type: api.EventError, ChatID: req.ChatID, MessageID: messageID, State: &final, Error: err.Error()})
		return
	}

	send(ctx, ch, api.StreamEvent{Type: api.EventDone, ChatID: req.ChatID, MessageID: messageID, State: &final})
}

// persist speichert die Frage mit dem finalen State. Antworten ohne ein
// einziges empfangenes Byte werden nicht gespeichert.
func (s *Server) persist(req api.AskRequest, askedAt time.Time, received int, final decode.State) string {
	if s.store == nil || envconfig.NoHistory() || received == 0 {
		return ""
	}

	id, err := s.store.SaveExchange(store.Exchange{
		ChatID:   req.ChatID,
		VideoID:  req.VideoID,
		Question: req.Question,
		Answer:   final,
		AskedAt:  askedAt,
	})
	if err != nil {
		s.logger().Error("failed to save exchange", "chat", req.ChatID, "error", err)
		return ""
	}
	return id
}

// send blockiert bis das Event abgenommen wurde oder ctx endet
func send(ctx context.Context, ch chan<- any, v any) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
