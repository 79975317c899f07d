package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7blacky7/videocompanion/decode"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := &Store{DBPath: filepath.Join(t.TempDir(), "db.sqlite")}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func testAnswer() decode.State {
	cite := decode.CiteMoment{Timestamp: ptr(decode.Seconds(83)), Label: "Definition"}
	return decode.State{
		Reasoning:    "der Nutzer fragt nach Tensoren",
		Answer:       "Siehe  dort.",
		Segments:     []decode.Segment{decode.TextSegment("Siehe "), decode.ToolCallSegment(cite), decode.TextSegment(" dort.")},
		BoundarySeen: true,
	}
}

func TestSaveExchange(t *testing.T) {
	s := testStore(t)

	asked := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.SaveExchange(Exchange{
		ChatID:   "chat-1",
		VideoID:  "vid-42",
		Question: "Was ist   ein Tensor?",
		Answer:   testAnswer(),
		AskedAt:  asked,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	chat, err := s.Chat("chat-1")
	require.NoError(t, err)
	assert.Equal(t, "Was ist ein Tensor?", chat.Title)
	assert.Equal(t, "vid-42", chat.VideoID)
	assert.True(t, chat.CreatedAt.Equal(asked), "CreatedAt = %s", chat.CreatedAt)

	require.Len(t, chat.Messages, 2)
	q, a := chat.Messages[0], chat.Messages[1]
	assert.Equal(t, RoleUser, q.Role)
	assert.Equal(t, "Was ist   ein Tensor?", q.Content)
	assert.Empty(t, q.Segments)

	assert.Equal(t, id, a.ID)
	assert.Equal(t, RoleAssistant, a.Role)
	assert.Equal(t, testAnswer(), a.State())
}

func TestSaveExchangeFollowUp(t *testing.T) {
	s := testStore(t)

	_, err := s.SaveExchange(Exchange{ChatID: "c", Question: "erste Frage", Answer: testAnswer()})
	require.NoError(t, err)
	_, err = s.SaveExchange(Exchange{ChatID: "c", Question: "zweite Frage", Answer: decode.State{Reasoning: "abgebrochen"}})
	require.NoError(t, err)

	chat, err := s.Chat("c")
	require.NoError(t, err)
	assert.Equal(t, "erste Frage", chat.Title, "Titel bleibt beim Folgeaustausch")
	require.Len(t, chat.Messages, 4)
	assert.Equal(t, "zweite Frage", chat.Messages[2].Content)

	// Antwort ohne Grenze: nur Reasoning
	last := chat.Messages[3]
	assert.False(t, last.BoundarySeen)
	assert.Equal(t, "abgebrochen", last.Reasoning)
	assert.Empty(t, last.Segments)
}

func TestChats(t *testing.T) {
	s := testStore(t)

	chats, err := s.Chats()
	require.NoError(t, err)
	assert.Empty(t, chats)

	old := NewChat("alt")
	old.CreatedAt = time.Now().Add(-time.Hour)
	msg := NewMessage(RoleUser, "alt")
	msg.CreatedAt, msg.UpdatedAt = old.CreatedAt, old.CreatedAt
	old.Messages = append(old.Messages, msg)
	require.NoError(t, s.SetChat(*old))
	_, err = s.SaveExchange(Exchange{ChatID: "neu", Question: "neu", Answer: testAnswer()})
	require.NoError(t, err)

	chats, err = s.Chats()
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "neu", chats[0].ID)
	assert.Equal(t, "alt", chats[1].ID)
	assert.Empty(t, chats[0].Messages)
	assert.False(t, chats[0].UpdatedAt.IsZero())
}

func TestChatNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Chat("fehlt")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteChat("fehlt"), ErrNotFound)
	require.ErrorIs(t, s.RenameChat("fehlt", "x"), ErrNotFound)
	require.ErrorIs(t, s.AppendMessage("fehlt", NewMessage(RoleUser, "hallo")), ErrNotFound)
}

func TestRenameAndDeleteChat(t *testing.T) {
	s := testStore(t)

	_, err := s.SaveExchange(Exchange{ChatID: "c", Question: "frage", Answer: testAnswer()})
	require.NoError(t, err)

	require.NoError(t, s.RenameChat("c", "Lineare Algebra"))
	chat, err := s.Chat("c")
	require.NoError(t, err)
	assert.Equal(t, "Lineare Algebra", chat.Title)

	require.NoError(t, s.DeleteChat("c"))
	_, err = s.Chat("c")
	require.ErrorIs(t, err, ErrNotFound)

	// Messages und Segmente werden mit geloescht
	var n int
	require.NoError(t, s.db.conn.QueryRow("SELECT COUNT(*) FROM segments").Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, s.db.conn.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n))
	assert.Zero(t, n)
}

func TestSetChat(t *testing.T) {
	s := testStore(t)

	chat := NewChat("c")
	chat.Title = "manuell"
	chat.Messages = append(chat.Messages, NewMessage(RoleUser, "frage"), AnswerMessage(testAnswer()))
	require.NoError(t, s.SetChat(*chat))

	// Erneutes Speichern ersetzt die Messages
	chat.Messages = chat.Messages[:1]
	require.NoError(t, s.SetChat(*chat))

	got, err := s.Chat("c")
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "frage", got.Messages[0].Content)

	require.NoError(t, s.AppendMessage("c", AnswerMessage(testAnswer())))
	got, err = s.Chat("c")
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, testAnswer(), got.Messages[1].State())
}

func TestMigrateFromV1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")

	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = conn.Exec(`
		CREATE TABLE settings (id INTEGER PRIMARY KEY CHECK (id = 1), schema_version INTEGER NOT NULL DEFAULT 1);
		INSERT INTO settings (id) VALUES (1);
		CREATE TABLE chats (id TEXT PRIMARY KEY, title TEXT NOT NULL DEFAULT '', created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
		CREATE TABLE messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			reasoning TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
		);
		INSERT INTO chats (id, title) VALUES ('alt', 'Altbestand');
		INSERT INTO messages (id, chat_id, role, content) VALUES ('m1', 'alt', 'user', 'frage');
		INSERT INTO messages (id, chat_id, role, content) VALUES ('m2', 'alt', 'assistant', 'antwort');
	`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	s := &Store{DBPath: path}
	t.Cleanup(func() { s.Close() })

	chat, err := s.Chat("alt")
	require.NoError(t, err)
	assert.Equal(t, "Altbestand", chat.Title)
	assert.Empty(t, chat.VideoID)
	require.Len(t, chat.Messages, 2)
	assert.False(t, chat.Messages[0].BoundarySeen)
	assert.True(t, chat.Messages[1].BoundarySeen)

	version, err := s.db.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)

	_, err = s.SaveExchange(Exchange{ChatID: "alt", VideoID: "v", Question: "neu", Answer: testAnswer()})
	require.NoError(t, err)
}

func TestMigrateFromV2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")

	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = conn.Exec(`
		CREATE TABLE settings (id INTEGER PRIMARY KEY CHECK (id = 1), schema_version INTEGER NOT NULL DEFAULT 2);
		INSERT INTO settings (id) VALUES (1);
		CREATE TABLE chats (id TEXT PRIMARY KEY, title TEXT NOT NULL DEFAULT '', video_id TEXT NOT NULL DEFAULT '', created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
		CREATE TABLE messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			reasoning TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
		);
		CREATE TABLE segments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (message_id) REFERENCES messages(id) ON DELETE CASCADE
		);
		INSERT INTO chats (id, title, video_id) VALUES ('alt', 'Altbestand', 'v1');
		INSERT INTO messages (id, chat_id, role, content, created_at) VALUES ('m1', 'alt', 'user', 'frage', '2026-01-01 10:00:00');
		INSERT INTO messages (id, chat_id, role, content, created_at) VALUES ('m2', 'alt', 'assistant', '', '2026-01-01 10:00:01');
		INSERT INTO segments (message_id, position, type, kind, payload)
			VALUES ('m2', 0, 'tool_call', 'reference_video', '{"kind":"reference_video","video_id":"v2","title":"Teil 2"}');
		INSERT INTO messages (id, chat_id, role, content, reasoning, created_at) VALUES ('m3', 'alt', 'assistant', '', 'nur gedacht', '2026-01-01 10:00:02');
	`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	s := &Store{DBPath: path}
	t.Cleanup(func() { s.Close() })

	chat, err := s.Chat("alt")
	require.NoError(t, err)
	require.Len(t, chat.Messages, 3)
	assert.False(t, chat.Messages[0].BoundarySeen)
	assert.True(t, chat.Messages[1].BoundarySeen, "antwort nur aus tool-call")
	assert.False(t, chat.Messages[2].BoundarySeen, "antwort ohne grenze")
	require.Len(t, chat.Messages[1].Segments, 1)
	assert.Equal(t, decode.KindReferenceVideo, chat.Messages[1].Segments[0].Call.Kind())
}

func TestTitleFromQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"kurz", "kurz"},
		{"  mit\n  umbruch ", "mit umbruch"},
		{"Warum ist die Ableitung von e hoch x wieder e hoch x?", "Warum ist die Ableitung von e hoch x wieder e h…"},
		{"äöü", "äöü"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleFromQuestion(tt.in), "TitleFromQuestion(%q)", tt.in)
	}
}
