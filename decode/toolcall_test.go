package decode

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    ToolCall
	}{
		{
			name:    "cite_moment",
			payload: `{"kind":"cite_moment","timestamp":83,"label":"Intro"}`,
			want:    CiteMoment{Timestamp: ptr(Seconds(83)), Label: "Intro"},
		},
		{
			name:    "cite_moment mit zeitstempel 0 und string-ende",
			payload: `{"kind":"cite_moment","timestamp":0,"end_timestamp":"1:05","label":"Start"}`,
			want:    CiteMoment{Timestamp: ptr(Seconds(0)), End: ptr(Seconds(65)), Label: "Start"},
		},
		{
			name:    "reference_video",
			payload: `{"kind":"reference_video","video_id":"dQw4w9WgXcQ","title":"Part 2","reason":"continues"}`,
			want:    ReferenceVideo{VideoID: "dQw4w9WgXcQ", Title: "Part 2", Reason: "continues"},
		},
		{
			name:    "search_results",
			payload: `{"kind":"search_results","query":"fourier","results":[{"video_id":"a","title":"A","timestamp":"0:30"}]}`,
			want: SearchResults{Query: "fourier", Results: []SearchResult{
				{VideoID: "a", Title: "A", Timestamp: ptr(Seconds(30))},
			}},
		},
		{
			name:    "search_results ohne treffer",
			payload: `{"kind":"search_results","query":"nichts","results":[]}`,
			want:    SearchResults{Query: "nichts", Results: []SearchResult{}},
		},
		{
			name:    "prerequisite_chain",
			payload: `{"kind":"prerequisite_chain","concept":"eigenvectors","prerequisites":[{"concept":"matrices"},{"concept":"determinants","description":"2x2"}]}`,
			want: PrerequisiteChain{Concept: "eigenvectors", Prerequisites: []Prerequisite{
				{Concept: "matrices"},
				{Concept: "determinants", Description: "2x2"},
			}},
		},
		{
			name:    "quiz mit correct_index 0",
			payload: `{"kind":"quiz","questions":[{"question":"2+2?","options":["4","5"],"correct_index":0}]}`,
			want: Quiz{Questions: []QuizQuestion{
				{Question: "2+2?", Options: []string{"4", "5"}, CorrectIndex: ptr(0)},
			}},
		},
		{
			name:    "chapter_context",
			payload: `{"kind":"chapter_context","chapter_title":"Setup","start":"0:00","end":"2:10","summary":"tools"}`,
			want:    ChapterContext{ChapterTitle: "Setup", Start: ptr(Seconds(0)), End: ptr(Seconds(130)), Summary: "tools"},
		},
		{
			name:    "alternative_explanations",
			payload: `{"kind":"alternative_explanations","concept":"recursion","explanations":[{"style":"analogy","content":"mirrors"}]}`,
			want: AlternativeExplanations{Concept: "recursion", Explanations: []Explanation{
				{Style: "analogy", Content: "mirrors"},
			}},
		},
		{
			name:    "learning_path mit unbekannten zusatzfeldern",
			payload: ` {"kind":"learning_path","goal":"calculus","steps":[{"title":"limits"}],"extra":true} `,
			want:    LearningPath{Goal: "calculus", Steps: []LearningStep{{Title: "limits"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToolCall([]byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseToolCall() unerwarteter Fehler: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseToolCall() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseToolCallMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		contain string
	}{
		{"kein json", `not valid structure`, ""},
		{"array", `[{"kind":"quiz"}]`, ""},
		{"null", `null`, "missing kind"},
		{"ohne kind", `{"timestamp":1,"label":"x"}`, "missing kind"},
		{"unbekanntes kind", `{"kind":"weather"}`, `unknown kind "weather"`},
		{"tippfehler im kind", `{"kind":"cite_momnet","timestamp":1,"label":"x"}`, `did you mean "cite_moment"`},
		{"fehlender zeitstempel", `{"kind":"cite_moment","label":"x"}`, "cite_moment"},
		{"zeitstempel null", `{"kind":"cite_moment","timestamp":null,"label":"x"}`, "cite_moment"},
		{"leeres label", `{"kind":"cite_moment","timestamp":3,"label":""}`, "cite_moment"},
		{"kaputter zeitstempel", `{"kind":"cite_moment","timestamp":"soon","label":"x"}`, "cite_moment"},
		{"falscher typ", `{"kind":"reference_video","video_id":42,"title":"x"}`, "reference_video"},
		{"treffer ohne titel", `{"kind":"search_results","query":"q","results":[{"video_id":"a"}]}`, "search_results"},
		{"quiz ohne fragen", `{"kind":"quiz","questions":[]}`, "quiz"},
		{"quiz ohne correct_index", `{"kind":"quiz","questions":[{"question":"q","options":["a"]}]}`, "quiz"},
		{"kapitel ohne ende", `{"kind":"chapter_context","chapter_title":"x","start":1}`, "chapter_context"},
		{"lernpfad ohne schritte", `{"kind":"learning_path","goal":"g"}`, "learning_path"},
		{"zeitstempel nan", `{"kind":"cite_moment","timestamp":"NaN","label":"x"}`, "cite_moment"},
		{"zeitstempel inf", `{"kind":"cite_moment","timestamp":"Inf","label":"x"}`, "cite_moment"},
		{"zeitstempel infinity", `{"kind":"cite_moment","timestamp":"infinity","label":"x"}`, "cite_moment"},
		{"kapitelende nan", `{"kind":"chapter_context","chapter_title":"x","start":1,"end":"1:NaN"}`, "chapter_context"},
		{"negativer zeitstempel", `{"kind":"cite_moment","timestamp":-5,"label":"x"}`, "cite_moment"},
		{"negativer zeitstempel als text", `{"kind":"cite_moment","timestamp":"-5","label":"x"}`, "cite_moment"},
		{"kind gross geschrieben", `{"KIND":"cite_moment","timestamp":1,"label":"x"}`, "missing kind"},
		{"kind gemischt", `{"Kind":"cite_moment","timestamp":1,"label":"x"}`, "missing kind"},
		{"pflichtfelder gross geschrieben", `{"kind":"cite_moment","Timestamp":1,"LABEL":"x"}`, "cite_moment"},
		{"verschachteltes feld gross", `{"kind":"search_results","query":"q","results":[{"VIDEO_ID":"a","title":"t"}]}`, "search_results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := ParseToolCall([]byte(tt.payload))
			if err == nil {
				t.Fatalf("ParseToolCall() erwartet Fehler, bekam %#v", call)
			}
			if !errors.Is(err, ErrMalformedToolCall) {
				t.Errorf("Fehler %v ist kein ErrMalformedToolCall", err)
			}
			if !strings.Contains(err.Error(), tt.contain) {
				t.Errorf("Fehler %q sollte %q enthalten", err, tt.contain)
			}
		})
	}
}

func TestMarshalToolCall(t *testing.T) {
	call := CiteMoment{Timestamp: ptr(Seconds(83.5)), Label: "Intro"}

	b, err := MarshalToolCall(call)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"kind":"cite_moment","timestamp":83.5,"label":"Intro"}`
	if string(b) != want {
		t.Errorf("MarshalToolCall() = %s, erwartet %s", b, want)
	}

	back, err := ParseToolCall(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ToolCall(call), back); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}

	if _, err := MarshalToolCall(nil); err == nil {
		t.Error("MarshalToolCall(nil) erwartet Fehler")
	}
}

func TestSegmentJSON(t *testing.T) {
	segments := []Segment{
		TextSegment("Hello "),
		ToolCallSegment(ReferenceVideo{VideoID: "v1", Title: "Next"}),
		TextSegment(" world"),
	}

	b, err := json.Marshal(segments)
	if err != nil {
		t.Fatal(err)
	}

	want := `[{"type":"text","content":"Hello "},{"type":"tool_call","call":{"kind":"reference_video","video_id":"v1","title":"Next"}},{"type":"text","content":" world"}]`
	if string(b) != want {
		t.Errorf("json = %s\nerwartet %s", b, want)
	}

	var back []Segment
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(segments, back); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}

	var bad Segment
	if err := json.Unmarshal([]byte(`{"type":"image"}`), &bad); err == nil {
		t.Error("unbekannter Segment-Typ erwartet Fehler")
	}
	if err := json.Unmarshal([]byte(`{"type":"tool_call","call":{"kind":"nope"}}`), &bad); err == nil {
		t.Error("ungueltiger Tool-Call erwartet Fehler")
	}
}
