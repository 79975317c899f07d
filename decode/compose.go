// compose.go - Segment-Composer
// Enthaelt: SegmentType, Segment, ComposeSegments, JSON-Kodierung der Segmente

package decode

import (
	"encoding/json"
	"fmt"
)

type SegmentType string

const (
	SegmentText     SegmentType = "text"
	SegmentToolCall SegmentType = "tool_call"
)

// Segment ist entweder Text (Content) oder ein Tool-Call (Call)
type Segment struct {
	Type    SegmentType
	Content string
	Call    ToolCall
}

// TextSegment erstellt ein Text-Segment
func TextSegment(content string) Segment {
	return Segment{Type: SegmentText, Content: content}
}

// ToolCallSegment erstellt ein Tool-Call-Segment
func ToolCallSegment(call ToolCall) Segment {
	return Segment{Type: SegmentToolCall, Call: call}
}

// ComposeSegments schneidet clean an den Offsets der Calls und setzt Text und
// Calls in Originalreihenfolge zusammen. Leere Textstuecke entfallen.
func ComposeSegments(clean string, calls []PlacedToolCall) []Segment {
	var segments []Segment
	pos := 0
	for _, c := range calls {
		off := min(max(c.Offset, pos), len(clean))
		if off > pos {
			segments = append(segments, TextSegment(clean[pos:off]))
		}
		segments = append(segments, ToolCallSegment(c.Call))
		pos = off
	}

	if pos < len(clean) {
		segments = append(segments, TextSegment(clean[pos:]))
	}
	return segments
}

type textSegmentJSON struct {
	Type    SegmentType `json:"type"`
	Content string      `json:"content"`
}

type toolCallSegmentJSON struct {
	Type SegmentType     `json:"type"`
	Call json.RawMessage `json:"call"`
}

func (s Segment) MarshalJSON() ([]byte, error) {
	switch s.Type {
	case SegmentText:
		return json.Marshal(textSegmentJSON{Type: s.Type, Content: s.Content})
	case SegmentToolCall:
		call, err := MarshalToolCall(s.Call)
		if err != nil {
			return nil, err
		}
		return json.Marshal(toolCallSegmentJSON{Type: s.Type, Call: call})
	default:
		return nil, fmt.Errorf("unknown segment type %q", s.Type)
	}
}

func (s *Segment) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type    SegmentType     `json:"type"`
		Content string          `json:"content"`
		Call    json.RawMessage `json:"call"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case SegmentText:
		*s = TextSegment(raw.Content)
	case SegmentToolCall:
		call, err := ParseToolCall(raw.Call)
		if err != nil {
			return err
		}
		*s = ToolCallSegment(call)
	default:
		return fmt.Errorf("unknown segment type %q", raw.Type)
	}
	return nil
}
