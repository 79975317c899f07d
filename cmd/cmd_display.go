// cmd_display.go - Display und Output-Funktionen
// Hauptfunktionen: displayResponse, describeCall, renderSegments, highlightTimestamps
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/7blacky7/videocompanion/decode"
	"github.com/7blacky7/videocompanion/format"
)

const (
	colorGrey    = "\033[38;5;245m"
	colorCyan    = "\033[36m"
	colorBold    = "\033[1m"
	colorDefault = "\033[0m"
)

// terminalWidth - Breite des Terminals hinter w, ok ist false wenn w kein
// Terminal ist und die Ausgabe ohne Farben erfolgen soll
func terminalWidth(w io.Writer) (width int, ok bool) {
	f, isFile := w.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, _ = term.GetSize(int(f.Fd()))
	return width, true
}

// displayResponseState - Zustand fuer den Word-Wrap ueber mehrere Deltas
type displayResponseState struct {
	lineLength int
	wordBuffer string
}

// displayResponse - Zeigt Text mit optionalem Word-Wrap an. width <= 0
// schaltet den Umbruch ab.
func displayResponse(w io.Writer, content string, width int, state *displayResponseState) {
	if width < 10 {
		fmt.Fprint(w, content)
		return
	}

	for _, ch := range content {
		if state.lineLength+1 > width-5 {
			if runewidth.StringWidth(state.wordBuffer) > width-10 {
				fmt.Fprintf(w, "%c", ch)
				state.wordBuffer = ""
				state.lineLength = 0
				continue
			}

			// angefangenes Wort in die naechste Zeile verschieben
			if a := runewidth.StringWidth(state.wordBuffer); a > 0 {
				fmt.Fprintf(w, "\x1b[%dD", a)
			}
			fmt.Fprintf(w, "\x1b[K\n%s%c", state.wordBuffer, ch)
			state.lineLength = runewidth.StringWidth(state.wordBuffer) + runewidth.RuneWidth(ch)
			continue
		}

		fmt.Fprintf(w, "%c", ch)
		state.lineLength += runewidth.RuneWidth(ch)
		if runewidth.RuneWidth(ch) >= 2 {
			state.wordBuffer = ""
			continue
		}

		switch ch {
		case ' ', '\t':
			state.wordBuffer = ""
		case '\n', '\r':
			state.lineLength = 0
			state.wordBuffer = ""
		default:
			state.wordBuffer += string(ch)
		}
	}
}

// reasoningOpeningText - Oeffnungstext fuer den Denkteil
func reasoningOpeningText(plainText bool) string {
	text := "Thinking...\n"
	if plainText {
		return text
	}
	return colorGrey + colorBold + text + colorDefault + colorGrey
}

// reasoningClosingText - Schliessungstext fuer den Denkteil
func reasoningClosingText(plainText bool) string {
	text := "...done thinking.\n\n"
	if plainText {
		return text
	}
	return colorGrey + colorBold + text + colorDefault
}

func timestamp(s *decode.Seconds) string {
	if s == nil {
		return ""
	}
	return format.Timestamp(float64(*s))
}

// describeCall - Einzeilige Beschreibung eines Tool-Calls
func describeCall(call decode.ToolCall) string {
	switch c := call.(type) {
	case decode.CiteMoment:
		at := format.Timestamp(c.At())
		if c.End != nil {
			at += "-" + timestamp(c.End)
		}
		return fmt.Sprintf("%s %s", at, c.Label)
	case decode.ReferenceVideo:
		s := fmt.Sprintf("%s (%s)", c.Title, c.VideoID)
		if c.Timestamp != nil {
			s += " @ " + timestamp(c.Timestamp)
		}
		return s
	case decode.SearchResults:
		return fmt.Sprintf("%q: %d results", c.Query, len(c.Results))
	case decode.PrerequisiteChain:
		names := make([]string, len(c.Prerequisites))
		for i, p := range c.Prerequisites {
			names[i] = p.Concept
		}
		return fmt.Sprintf("%s <- %s", c.Concept, strings.Join(names, ", "))
	case decode.Quiz:
		if c.Title != "" {
			return fmt.Sprintf("%s: %d questions", c.Title, len(c.Questions))
		}
		return fmt.Sprintf("%d questions", len(c.Questions))
	case decode.ChapterContext:
		return fmt.Sprintf("%s %s-%s", c.ChapterTitle, timestamp(c.Start), timestamp(c.End))
	case decode.AlternativeExplanations:
		return fmt.Sprintf("%s: %d explanations", c.Concept, len(c.Explanations))
	case decode.LearningPath:
		return fmt.Sprintf("%s: %d steps", c.Goal, len(c.Steps))
	default:
		return string(call.Kind())
	}
}

// callMarker - Inline-Markierung eines Tool-Calls im Antworttext
func callMarker(call decode.ToolCall, plainText bool) string {
	text := fmt.Sprintf("[%s: %s]", call.Kind(), describeCall(call))
	if plainText {
		return text
	}
	return colorCyan + text + colorDefault
}

// renderSegments - Setzt Text und Tool-Call-Markierungen in Reihenfolge zusammen
func renderSegments(segments []decode.Segment, plainText bool) string {
	var sb strings.Builder
	for _, seg := range segments {
		switch seg.Type {
		case decode.SegmentText:
			sb.WriteString(seg.Content)
		case decode.SegmentToolCall:
			sb.WriteString(callMarker(seg.Call, plainText))
		}
	}
	return sb.String()
}

// Zeitangaben wie 1:23 oder 1:02:03, nicht innerhalb groesserer Zahlen
var timestampPattern = regexp2.MustCompile(`(?<![\d:.])\d{1,2}:[0-5]\d(?::[0-5]\d)?(?![\d:])`, regexp2.None)

// highlightTimestamps - Hebt Zeitangaben im Fliesstext hervor
func highlightTimestamps(text string, plainText bool) string {
	if plainText {
		return text
	}

	out, err := timestampPattern.Replace(text, colorBold+"$0"+colorDefault, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// truncate - Kuerzt s auf width Spalten, Zeilenumbrueche werden zu Leerzeichen
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "…")
}
