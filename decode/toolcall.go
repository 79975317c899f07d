// toolcall.go - Dekodierung und Serialisierung von Tool-Call-Payloads
// Enthaelt: ParseToolCall, MarshalToolCall, ErrMalformedToolCall

package decode

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

// ErrMalformedToolCall kennzeichnet Payloads, die nicht zu einem bekannten
// Kind passen. Der Extractor verwirft solche Payloads stillschweigend.
var ErrMalformedToolCall = errors.New("malformed tool call")

var validate = validator.New()

// payloadJSON vergleicht Feldnamen exakt. encoding/json wuerde auch "KIND"
// oder "Label" als kind bzw. label lesen.
var payloadJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	CaseSensitive:          true,
}.Froze()

// ParseToolCall dekodiert einen Payload anhand seines kind-Feldes und prueft
// die Pflichtfelder der jeweiligen Variante.
func ParseToolCall(data []byte) (ToolCall, error) {
	var envelope struct {
		Kind Kind `json:"kind"`
	}
	if err := payloadJSON.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToolCall, err)
	}

	switch envelope.Kind {
	case KindCiteMoment:
		return decodeAs[CiteMoment](data)
	case KindReferenceVideo:
		return decodeAs[ReferenceVideo](data)
	case KindSearchResults:
		return decodeAs[SearchResults](data)
	case KindPrerequisiteChain:
		return decodeAs[PrerequisiteChain](data)
	case KindQuiz:
		return decodeAs[Quiz](data)
	case KindChapterContext:
		return decodeAs[ChapterContext](data)
	case KindAlternativeExplanations:
		return decodeAs[AlternativeExplanations](data)
	case KindLearningPath:
		return decodeAs[LearningPath](data)
	case "":
		return nil, fmt.Errorf("%w: missing kind", ErrMalformedToolCall)
	default:
		if k, ok := closestKind(envelope.Kind); ok {
			return nil, fmt.Errorf("%w: unknown kind %q (did you mean %q?)", ErrMalformedToolCall, envelope.Kind, k)
		}
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedToolCall, envelope.Kind)
	}
}

func decodeAs[T ToolCall](data []byte) (ToolCall, error) {
	var v T
	if err := payloadJSON.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedToolCall, v.Kind(), err)
	}
	if err := validate.Struct(v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedToolCall, v.Kind(), err)
	}
	return v, nil
}

// closestKind sucht ein bekanntes Kind mit kleiner Editierdistanz,
// nur fuer Log- und Fehlermeldungen.
func closestKind(k Kind) (Kind, bool) {
	best, bestDist := Kind(""), 3
	for _, known := range Kinds {
		if d := levenshtein.ComputeDistance(string(k), string(known)); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best, best != ""
}

// MarshalToolCall serialisiert c inklusive kind-Feld, so dass das Ergebnis
// wieder von ParseToolCall gelesen werden kann.
func MarshalToolCall(c ToolCall) ([]byte, error) {
	if c == nil {
		return nil, errors.New("marshal tool call: nil")
	}

	body, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	kind, err := json.Marshal(c.Kind())
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(kind)+9)
	out = append(out, `{"kind":`...)
	out = append(out, kind...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...), nil
}
