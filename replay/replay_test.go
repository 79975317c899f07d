package replay

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/7blacky7/videocompanion/decode"
)

const transcript = "Der Nutzer will Ableitungen.\x1eHier ist die Stelle \x1f" +
	`{"kind":"cite_moment","timestamp":"1:23","label":"Produktregel"}` +
	"\x1f und dazu \x1f" +
	`{"kind":"quiz","questions":[{"question":"f'(x) von x²?","options":["2x","x"],"correct_index":0}]}` +
	"\x1f sowie \x1f" +
	`{"kind":"cite_moment","timestamp":200,"label":"Kettenregel"}` +
	"\x1f. Grüße!"

func TestFragments(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		size int
		want []string
	}{
		{"leer", "", 3, nil},
		{"ohne groesse", "abc", 0, []string{"abc"}},
		{"gleichmaessig", "abcdef", 2, []string{"ab", "cd", "ef"}},
		{"rest", "abcde", 2, []string{"ab", "cd", "e"}},
		{"umlaut nicht geteilt", "aäb", 2, []string{"a", "ä", "b"}},
		{"zeichen groesser als stueck", "日本", 1, []string{"日", "本"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fragments(tt.buf, tt.size)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Fragments() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFragmentsValidUTF8(t *testing.T) {
	for size := 1; size < 12; size++ {
		frags := Fragments(transcript, size)
		if got := strings.Join(frags, ""); got != transcript {
			t.Fatalf("size %d: zusammengesetzt ungleich", size)
		}
		for _, f := range frags {
			if !utf8.ValidString(f) {
				t.Fatalf("size %d: ungueltiges Fragment %q", size, f)
			}
		}
	}
}

func TestReplay(t *testing.T) {
	want := decode.Decode(transcript, decode.DefaultFraming())

	for _, size := range []int{1, 2, 3, 7, 64, 0} {
		r, err := Replay(transcript, size)
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(want, r.Final); diff != "" {
			t.Errorf("size %d: Final mismatch (-want +got):\n%s", size, diff)
		}
		if err := r.Verify(); err != nil {
			t.Errorf("size %d: %v", size, err)
		}
		if len(r.States) != len(Fragments(transcript, size)) {
			t.Errorf("size %d: %d States fuer %d Fragmente", size, len(r.States), len(Fragments(transcript, size)))
		}
	}
}

func TestReplayEmpty(t *testing.T) {
	r, err := Replay("", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.States) != 0 {
		t.Errorf("States = %d, erwartet 0", len(r.States))
	}
	if err := r.Verify(); err != nil {
		t.Error(err)
	}
}

func TestVerifyMismatch(t *testing.T) {
	r := Result{
		States: []decode.State{{Reasoning: "a"}},
		Final:  decode.State{Reasoning: "ab"},
	}
	if err := r.Verify(); err == nil {
		t.Error("erwartet Fehler bei abweichendem Endstand")
	}
}

func TestKindStats(t *testing.T) {
	st := decode.Decode(transcript, decode.DefaultFraming())
	stats := KindStats(st.Segments)

	var got []string
	for pair := stats.Oldest(); pair != nil; pair = pair.Next() {
		got = append(got, fmt.Sprintf("%s=%d", pair.Key, pair.Value))
	}

	want := []string{"cite_moment=2", "quiz=1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("KindStats() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTranscript(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"roh", []byte("a\x1eb\x1fc\x1f"), "a\x1eb\x1fc\x1f"},
		{"utf8 bom", append([]byte{0xef, 0xbb, 0xbf}, "ä\x1eb"...), "ä\x1eb"},
		{"escapes", []byte(`gedanke\x1eantwort \x1f{}\x1f`), "gedanke\x1eantwort \x1f{}\x1f"},
		{"platzhalter", []byte("gedanke<RS>antwort<US>{}<US>"), "gedanke\x1eantwort\x1f{}\x1f"},
		{"utf16 le", []byte{0xff, 0xfe, 'h', 0, 0xe4, 0, 0x1e, 0, 'x', 0}, "hä\x1ex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTranscript(bytes.NewReader(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ReadTranscript() = %q, erwartet %q", got, tt.want)
			}
		})
	}
}
