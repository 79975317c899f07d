// extract.go - Tool-Call-Extractor
// Enthaelt: PlacedToolCall, Extraction, ExtractToolCalls, extractor (fortsetzbar)

package decode

import (
	"log/slog"
	"slices"
	"strings"
)

// PlacedToolCall ist ein dekodierter Tool-Call mit der Position im bereinigten
// Text, an der der Erzaehltext nach dem Call weitergeht.
type PlacedToolCall struct {
	Offset int      `json:"offset"`
	Call   ToolCall `json:"-"`
}

// Extraction ist das Ergebnis von ExtractToolCalls
type Extraction struct {
	CleanText string
	ToolCalls []PlacedToolCall
}

// ExtractToolCalls entfernt alle geklammerten Payloads aus answer.
//
// Gueltige Payloads werden als Tool-Call an ihrer Position festgehalten,
// ungueltige samt Klammern verworfen. Fehlt zu einem oeffnenden Sentinel das
// schliessende, endet der Scan dort: der unvollstaendige Payload und alles
// danach ist (noch) nicht Teil des Textes.
func ExtractToolCalls(answer string, f Framing) Extraction {
	var x extractor
	tail := x.scan(answer, f.ToolCall)
	return Extraction{
		CleanText: x.clean.String() + tail,
		ToolCalls: x.calls,
	}
}

// extractor merkt sich, wie weit der Antworttext endgueltig verarbeitet ist.
// Alles vor cursor liegt hinter einer geschlossenen Spanne und aendert sich
// nicht mehr, solange der Text nur hinten waechst.
type extractor struct {
	clean  strings.Builder
	calls  []PlacedToolCall
	cursor int

	// logger ist optional, nil = keine Ausgabe
	logger *slog.Logger
}

// scan verarbeitet answer ab cursor. Zurueck kommt der Text hinter der letzten
// geschlossenen Spanne, der zum bereinigten Text gehoert aber noch nicht
// festgeschrieben ist.
func (x *extractor) scan(answer, sentinel string) string {
	pos := x.cursor
	for {
		open := Index(answer, sentinel, pos)
		if open == -1 {
			rest := answer[pos:]
			return rest[:len(rest)-Dangling(rest, sentinel)]
		}

		body := open + len(sentinel)
		end := Index(answer, sentinel, body)
		if end == -1 {
			return answer[pos:open]
		}

		x.clean.WriteString(answer[pos:open])
		if call, err := ParseToolCall([]byte(answer[body:end])); err == nil {
			x.calls = append(x.calls, PlacedToolCall{Offset: x.clean.Len(), Call: call})
		} else if x.logger != nil {
			x.logger.Debug("dropping tool call payload", "offset", open, "error", err)
		}

		pos = end + len(sentinel)
		x.cursor = pos
	}
}

// snapshot gibt bereinigten Text und eine Kopie der Calls fuer den
// aktuellen Stand zurueck.
func (x *extractor) snapshot(tail string) (string, []PlacedToolCall) {
	return x.clean.String() + tail, slices.Clone(x.calls)
}
