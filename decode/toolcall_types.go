// toolcall_types.go - Varianten der Tool-Call-Union
// Enthaelt: Kind, ToolCall, Seconds und je eine Struktur pro Kind
//
// Die Menge der Kinds ist geschlossen. Pflichtfelder werden ueber
// validate-Tags strukturell geprueft, Inhalte nicht. Numerische Pflichtfelder
// sind Pointer, damit ein Zeitstempel von 0 als vorhanden gilt.

package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/7blacky7/videocompanion/format"
)

// Kind ist der Diskriminator eines Tool-Calls
type Kind string

const (
	KindCiteMoment              Kind = "cite_moment"
	KindReferenceVideo          Kind = "reference_video"
	KindSearchResults           Kind = "search_results"
	KindPrerequisiteChain       Kind = "prerequisite_chain"
	KindQuiz                    Kind = "quiz"
	KindChapterContext          Kind = "chapter_context"
	KindAlternativeExplanations Kind = "alternative_explanations"
	KindLearningPath            Kind = "learning_path"
)

// Kinds listet alle bekannten Kinds in fester Reihenfolge
var Kinds = []Kind{
	KindCiteMoment,
	KindReferenceVideo,
	KindSearchResults,
	KindPrerequisiteChain,
	KindQuiz,
	KindChapterContext,
	KindAlternativeExplanations,
	KindLearningPath,
}

// ToolCall ist ein dekodiertes, strukturell gueltiges Tool-Call-Ergebnis.
// Nur die Typen dieses Packages implementieren das Interface.
type ToolCall interface {
	Kind() Kind
	isToolCall()
}

// Seconds ist eine Position im Video in Sekunden. Beim Dekodieren werden
// neben Zahlen auch Strings wie "83.5", "1:23" oder "1:02:03" akzeptiert.
type Seconds float64

func (s *Seconds) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := format.ParseTimestamp(str)
		if err != nil {
			return err
		}
		*s = Seconds(v)
		return nil
	}

	// gleiche Regel wie ParseTimestamp: endlich und nicht negativ
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid seconds %s", b)
	}
	*s = Seconds(v)
	return nil
}

// String formatiert als m:ss bzw. h:mm:ss
func (s Seconds) String() string {
	return format.Timestamp(float64(s))
}

// secondsValue gibt 0 fuer nil zurueck
func secondsValue(s *Seconds) float64 {
	if s == nil {
		return 0
	}
	return float64(*s)
}

// CiteMoment verweist auf eine Stelle im aktuellen Video
type CiteMoment struct {
	Timestamp *Seconds `json:"timestamp" validate:"required"`
	End       *Seconds `json:"end_timestamp,omitempty"`
	Label     string   `json:"label" validate:"required"`
	Quote     string   `json:"quote,omitempty"`
	VideoID   string   `json:"video_id,omitempty"`
}

// At gibt den Zeitstempel in Sekunden zurueck
func (c CiteMoment) At() float64 { return secondsValue(c.Timestamp) }

// ReferenceVideo verweist auf ein anderes Video
type ReferenceVideo struct {
	VideoID   string   `json:"video_id" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	Channel   string   `json:"channel,omitempty"`
	Timestamp *Seconds `json:"timestamp,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// SearchResults buendelt Treffer einer Suche ueber Videos
type SearchResults struct {
	Query   string         `json:"query" validate:"required"`
	Results []SearchResult `json:"results" validate:"required,dive"`
}

type SearchResult struct {
	VideoID   string   `json:"video_id" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	Timestamp *Seconds `json:"timestamp,omitempty"`
	Snippet   string   `json:"snippet,omitempty"`
	Score     float64  `json:"score,omitempty"`
}

// PrerequisiteChain beschreibt, was man vor einem Konzept verstanden haben sollte
type PrerequisiteChain struct {
	Concept       string         `json:"concept" validate:"required"`
	Prerequisites []Prerequisite `json:"prerequisites" validate:"required,dive"`
}

type Prerequisite struct {
	Concept     string   `json:"concept" validate:"required"`
	Description string   `json:"description,omitempty"`
	VideoID     string   `json:"video_id,omitempty"`
	Timestamp   *Seconds `json:"timestamp,omitempty"`
}

// Quiz enthaelt Verstaendnisfragen zum Video
type Quiz struct {
	Title     string         `json:"title,omitempty"`
	Questions []QuizQuestion `json:"questions" validate:"required,min=1,dive"`
}

type QuizQuestion struct {
	Question     string   `json:"question" validate:"required"`
	Options      []string `json:"options" validate:"required,min=1"`
	CorrectIndex *int     `json:"correct_index" validate:"required"`
	Explanation  string   `json:"explanation,omitempty"`
}

// ChapterContext ordnet die Antwort einem Kapitel des Videos zu
type ChapterContext struct {
	ChapterTitle string   `json:"chapter_title" validate:"required"`
	Start        *Seconds `json:"start" validate:"required"`
	End          *Seconds `json:"end" validate:"required"`
	Summary      string   `json:"summary,omitempty"`
}

// AlternativeExplanations erklaert ein Konzept auf mehrere Arten
type AlternativeExplanations struct {
	Concept      string        `json:"concept" validate:"required"`
	Explanations []Explanation `json:"explanations" validate:"required,dive"`
}

type Explanation struct {
	Style   string `json:"style" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// LearningPath schlaegt eine Reihenfolge von Lernschritten vor
type LearningPath struct {
	Goal  string         `json:"goal" validate:"required"`
	Steps []LearningStep `json:"steps" validate:"required,dive"`
}

type LearningStep struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	VideoID     string   `json:"video_id,omitempty"`
	Timestamp   *Seconds `json:"timestamp,omitempty"`
}

func (CiteMoment) Kind() Kind              { return KindCiteMoment }
func (ReferenceVideo) Kind() Kind          { return KindReferenceVideo }
func (SearchResults) Kind() Kind           { return KindSearchResults }
func (PrerequisiteChain) Kind() Kind       { return KindPrerequisiteChain }
func (Quiz) Kind() Kind                    { return KindQuiz }
func (ChapterContext) Kind() Kind          { return KindChapterContext }
func (AlternativeExplanations) Kind() Kind { return KindAlternativeExplanations }
func (LearningPath) Kind() Kind            { return KindLearningPath }

func (CiteMoment) isToolCall()              {}
func (ReferenceVideo) isToolCall()          {}
func (SearchResults) isToolCall()           {}
func (PrerequisiteChain) isToolCall()       {}
func (Quiz) isToolCall()                    {}
func (ChapterContext) isToolCall()          {}
func (AlternativeExplanations) isToolCall() {}
func (LearningPath) isToolCall()            {}
