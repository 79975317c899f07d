package decode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	rs = DefaultBoundary
	us = DefaultToolCall

	citePayload = `{"kind":"cite_moment","timestamp":83,"label":"Intro"}`
	refPayload  = `{"kind":"reference_video","video_id":"v2","title":"Teil 2"}`
)

var (
	citeCall = CiteMoment{Timestamp: ptr(Seconds(83)), Label: "Intro"}
	refCall  = ReferenceVideo{VideoID: "v2", Title: "Teil 2"}
)

func TestExtractToolCalls(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   Extraction
	}{
		{
			name:   "leer",
			answer: "",
			want:   Extraction{},
		},
		{
			name:   "nur text",
			answer: "Hello world",
			want:   Extraction{CleanText: "Hello world"},
		},
		{
			name:   "ein call",
			answer: "Hello " + us + citePayload + us + " world",
			want: Extraction{
				CleanText: "Hello  world",
				ToolCalls: []PlacedToolCall{{Offset: 6, Call: citeCall}},
			},
		},
		{
			name:   "ungueltiger payload wird verworfen",
			answer: "A" + us + "not valid structure" + us + "B",
			want:   Extraction{CleanText: "AB"},
		},
		{
			name:   "offener payload bleibt unsichtbar",
			answer: "A" + us + "partial...",
			want:   Extraction{CleanText: "A"},
		},
		{
			name:   "offener payload nach gueltigem call",
			answer: "A" + us + citePayload + us + "B" + us + `{"kind":"ref`,
			want: Extraction{
				CleanText: "AB",
				ToolCalls: []PlacedToolCall{{Offset: 1, Call: citeCall}},
			},
		},
		{
			name:   "benachbarte calls",
			answer: us + citePayload + us + us + refPayload + us,
			want: Extraction{
				ToolCalls: []PlacedToolCall{{Offset: 0, Call: citeCall}, {Offset: 0, Call: refCall}},
			},
		},
		{
			name:   "leerer payload",
			answer: "x" + us + us + "y",
			want:   Extraction{CleanText: "xy"},
		},
		{
			name:   "ungueltig zwischen gueltigen",
			answer: "a" + us + citePayload + us + "b" + us + `{"kind":"quiz"}` + us + "c" + us + refPayload + us + "d",
			want: Extraction{
				CleanText: "abcd",
				ToolCalls: []PlacedToolCall{{Offset: 1, Call: citeCall}, {Offset: 3, Call: refCall}},
			},
		},
		{
			name:   "grenzzeichen in der antwort ist text",
			answer: "a" + rs + "b",
			want:   Extraction{CleanText: "a" + rs + "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractToolCalls(tt.answer, DefaultFraming())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractToolCalls() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractToolCallsMultiCharSentinel(t *testing.T) {
	f := Framing{Boundary: "</think>", ToolCall: "<|tool|>"}

	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"angefangener sentinel am ende", "Hallo <|to", "Hallo "},
		{"aehnlicher text ist inhalt", "a <| b", "a <| b"},
		{"vollstaendig", "a<|tool|>" + citePayload + "<|tool|>b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractToolCalls(tt.answer, f).CleanText; got != tt.want {
				t.Errorf("CleanText = %q, erwartet %q", got, tt.want)
			}
		})
	}
}

func TestComposeSegments(t *testing.T) {
	tests := []struct {
		name  string
		clean string
		calls []PlacedToolCall
		want  []Segment
	}{
		{
			name: "leer",
		},
		{
			name:  "nur text",
			clean: "abc",
			want:  []Segment{TextSegment("abc")},
		},
		{
			name:  "call in der mitte",
			clean: "Hello  world",
			calls: []PlacedToolCall{{Offset: 6, Call: citeCall}},
			want:  []Segment{TextSegment("Hello "), ToolCallSegment(citeCall), TextSegment(" world")},
		},
		{
			name:  "benachbarte calls ohne leere segmente",
			clean: "ab",
			calls: []PlacedToolCall{{Offset: 1, Call: citeCall}, {Offset: 1, Call: refCall}},
			want:  []Segment{TextSegment("a"), ToolCallSegment(citeCall), ToolCallSegment(refCall), TextSegment("b")},
		},
		{
			name:  "call am anfang und ende",
			clean: "mitte",
			calls: []PlacedToolCall{{Offset: 0, Call: citeCall}, {Offset: 5, Call: refCall}},
			want:  []Segment{ToolCallSegment(citeCall), TextSegment("mitte"), ToolCallSegment(refCall)},
		},
		{
			name:  "offset hinter dem text wird begrenzt",
			clean: "ab",
			calls: []PlacedToolCall{{Offset: 9, Call: citeCall}},
			want:  []Segment{TextSegment("ab"), ToolCallSegment(citeCall)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeSegments(tt.clean, tt.calls)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComposeSegments() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
