// Modul: store_operations.go
// Beschreibung: Store-Operationen fuer Chats und Messages.
// Jede Operation oeffnet die Datenbank bei Bedarf.

package store

import (
	"fmt"
	"time"

	"github.com/7blacky7/videocompanion/decode"
)

// Chats gibt alle Chats ohne Messages zurueck
func (s *Store) Chats() ([]Chat, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	return s.db.getAllChats()
}

// Chat gibt einen Chat mit allen Messages zurueck, ErrNotFound falls unbekannt
func (s *Store) Chat(id string) (*Chat, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	return s.db.getChat(id)
}

// SetChat speichert chat vollstaendig, bestehende Messages werden ersetzt
func (s *Store) SetChat(chat Chat) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	return s.db.saveChat(chat)
}

func (s *Store) AppendMessage(chatID string, message Message) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	if _, err := s.db.getChat(chatID); err != nil {
		return err
	}

	_, err := s.db.appendMessages(Chat{ID: chatID}, message)
	return err
}

func (s *Store) RenameChat(id, title string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	return s.db.renameChat(id, title)
}

func (s *Store) DeleteChat(id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	return s.db.deleteChat(id)
}

// Exchange ist eine Frage mit ihrer dekodierten Antwort
type Exchange struct {
	ChatID   string
	VideoID  string
	Question string
	Answer   decode.State

	// AskedAt ist der Zeitpunkt der Frage, sonst jetzt
	AskedAt time.Time
}

// SaveExchange speichert Frage und Antwort in einer Transaktion. Existiert
// der Chat noch nicht, wird er mit einem Titel aus der Frage angelegt.
// Zurueck kommt die ID der Antwort.
func (s *Store) SaveExchange(ex Exchange) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}

	question := NewMessage(RoleUser, ex.Question)
	if !ex.AskedAt.IsZero() {
		question.CreatedAt, question.UpdatedAt = ex.AskedAt, ex.AskedAt
	}

	answer := AnswerMessage(ex.Answer)
	if answer.CreatedAt.Before(question.CreatedAt) {
		answer.CreatedAt, answer.UpdatedAt = question.CreatedAt, question.CreatedAt
	}

	chat := NewChat(ex.ChatID)
	chat.Title = TitleFromQuestion(ex.Question)
	chat.VideoID = ex.VideoID
	chat.CreatedAt = question.CreatedAt

	ids, err := s.db.appendMessages(*chat, question, answer)
	if err != nil {
		return "", fmt.Errorf("save exchange: %w", err)
	}
	return ids[1], nil
}
