package decode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitReasoning(t *testing.T) {
	tests := []struct {
		name    string
		buf     string
		framing Framing
		want    ReasoningSplit
	}{
		{
			name:    "leerer puffer",
			buf:     "",
			framing: DefaultFraming(),
			want:    ReasoningSplit{},
		},
		{
			name:    "ohne grenze ist alles reasoning",
			buf:     "ich denke noch",
			framing: DefaultFraming(),
			want:    ReasoningSplit{Reasoning: "ich denke noch"},
		},
		{
			name:    "grenze gefunden",
			buf:     "think1\x1eHello",
			framing: DefaultFraming(),
			want:    ReasoningSplit{Reasoning: "think1", Answer: "Hello", BoundarySeen: true},
		},
		{
			name:    "grenze am ende",
			buf:     "think1\x1e",
			framing: DefaultFraming(),
			want:    ReasoningSplit{Reasoning: "think1", BoundarySeen: true},
		},
		{
			name:    "zweite grenze ist inhalt",
			buf:     "a\x1eb\x1ec",
			framing: DefaultFraming(),
			want:    ReasoningSplit{Reasoning: "a", Answer: "b\x1ec", BoundarySeen: true},
		},
		{
			name:    "angefangene mehrstellige grenze wird zurueckgehalten",
			buf:     "denken</thi",
			framing: Framing{Boundary: "</think>", ToolCall: "<|tool|>"},
			want:    ReasoningSplit{Reasoning: "denken"},
		},
		{
			name:    "mehrstellige grenze",
			buf:     "denken</think>antwort",
			framing: Framing{Boundary: "</think>", ToolCall: "<|tool|>"},
			want:    ReasoningSplit{Reasoning: "denken", Answer: "antwort", BoundarySeen: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitReasoning(tt.buf, tt.framing)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitReasoning() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFramingValidate(t *testing.T) {
	tests := []struct {
		name    string
		framing Framing
		wantErr bool
	}{
		{"standard", DefaultFraming(), false},
		{"mehrstellig", Framing{Boundary: "</think>", ToolCall: "<|tool|>"}, false},
		{"leere grenze", Framing{ToolCall: "\x1f"}, true},
		{"leerer tool-sentinel", Framing{Boundary: "\x1e"}, true},
		{"gleich", Framing{Boundary: "\x1f", ToolCall: "\x1f"}, true},
		{"enthalten", Framing{Boundary: "<|x|>", ToolCall: "|x|"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.framing.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
