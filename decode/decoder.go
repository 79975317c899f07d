// Package decode zerlegt den Antwort-Stream eines KI-Backends in Reasoning,
// sichtbaren Antworttext und eingebettete Tool-Call-Ergebnisse.
//
// decoder.go - Decode-Driver
// Enthaelt: State, Phase, Decode, Decoder mit Append/Finalize
//
// Der Stream wird bei jedem Fragment vom Anfang an betrachtet; das Ergebnis
// haengt nur vom bisher empfangenen Text ab, nicht davon, wie er in Fragmente
// zerfallen ist.
package decode

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/7blacky7/videocompanion/logutil"
)

// ErrFinalized wird von Append nach Finalize zurueckgegeben
var ErrFinalized = errors.New("decoder is finalized")

// State ist ein unveraenderlicher Schnappschuss des Dekodierstands
type State struct {
	Reasoning    string    `json:"reasoning"`
	Answer       string    `json:"answer"`
	Segments     []Segment `json:"segments"`
	BoundarySeen bool      `json:"boundary_seen"`
}

// ToolCalls gibt die Tool-Calls aus den Segmenten in Reihenfolge zurueck
func (s State) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, seg := range s.Segments {
		if seg.Type == SegmentToolCall {
			calls = append(calls, seg.Call)
		}
	}
	return calls
}

// Decode fuehrt Splitter, Extractor und Composer auf dem ganzen Puffer aus.
// Gleicher Puffer ergibt immer den gleichen State.
func Decode(buf string, f Framing) State {
	split := SplitReasoning(buf, f)
	if !split.BoundarySeen {
		return State{Reasoning: split.Reasoning}
	}

	x := ExtractToolCalls(split.Answer, f)
	return State{
		Reasoning:    split.Reasoning,
		Answer:       x.CleanText,
		Segments:     ComposeSegments(x.CleanText, x.ToolCalls),
		BoundarySeen: true,
	}
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStreaming
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStreaming:
		return "streaming"
	case PhaseFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Option konfiguriert einen Decoder
type Option func(*Decoder)

// WithFraming setzt abweichende Sentinels
func WithFraming(f Framing) Option {
	return func(d *Decoder) { d.framing = f }
}

// WithLogger setzt den Logger fuer verworfene Payloads und Warnungen
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// WithMaxBuffer setzt eine weiche Obergrenze fuer den Puffer in Bytes.
// Wird sie ueberschritten, wird einmal gewarnt; Fragmente werden weiter
// angenommen.
func WithMaxBuffer(n int) Option {
	return func(d *Decoder) { d.maxBuffer = n }
}

// WithFullRescan schaltet den fortsetzbaren Scan ab. Jedes Fragment fuehrt
// dann Decode auf dem ganzen Puffer aus.
func WithFullRescan() Option {
	return func(d *Decoder) { d.fullRescan = true }
}

// Decoder gehoert genau einer Antwort. Er ist nicht fuer gleichzeitige
// Verwendung gedacht; die zurueckgegebenen States duerfen aber weitergereicht
// werden.
type Decoder struct {
	framing    Framing
	logger     *slog.Logger
	maxBuffer  int
	fullRescan bool

	phase  Phase
	buf    strings.Builder
	state  State
	warned bool

	// Fortsetzungszustand
	boundaryFrom int // ab hier weiter nach der Grenze suchen
	answerAt     int // Beginn der Antwort im Puffer, -1 solange keine Grenze
	reasoning    string
	x            extractor
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		framing:  DefaultFraming(),
		answerAt: -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.x.logger = d.logger
	return d
}

// Append haengt fragment an den Puffer und gibt den neuen State zurueck
func (d *Decoder) Append(fragment string) (State, error) {
	if d.phase == PhaseFinalized {
		return d.state, ErrFinalized
	}

	d.phase = PhaseStreaming
	d.buf.WriteString(fragment)

	if d.maxBuffer > 0 && d.buf.Len() > d.maxBuffer && !d.warned {
		d.warned = true
		d.logger.Warn("response buffer exceeds limit", "size", d.buf.Len(), "limit", d.maxBuffer)
	}

	if d.fullRescan {
		d.state = Decode(d.buf.String(), d.framing)
	} else {
		d.state = d.resume()
	}
	return d.state, nil
}

// resume liefert dasselbe Ergebnis wie Decode, scannt aber nur den Teil des
// Puffers, der noch nicht endgueltig verarbeitet ist.
func (d *Decoder) resume() State {
	buf := d.buf.String()
	boundary := d.framing.Boundary

	if d.answerAt < 0 {
		i := Index(buf, boundary, d.boundaryFrom)
		if i == -1 {
			d.boundaryFrom = max(0, len(buf)-len(boundary)+1)
			return State{Reasoning: buf[:len(buf)-Dangling(buf, boundary)]}
		}
		d.reasoning = buf[:i]
		d.answerAt = i + len(boundary)
		logutil.Trace("reasoning boundary seen", "offset", i)
	}

	tail := d.x.scan(buf[d.answerAt:], d.framing.ToolCall)
	clean, calls := d.x.snapshot(tail)
	return State{
		Reasoning:    d.reasoning,
		Answer:       clean,
		Segments:     ComposeSegments(clean, calls),
		BoundarySeen: true,
	}
}

// Finalize dekodiert den vollstaendigen Puffer ein letztes Mal und friert den
// State ein. Weitere Aufrufe geben denselben State zurueck.
func (d *Decoder) Finalize() State {
	if d.phase == PhaseFinalized {
		return d.state
	}

	d.state = Decode(d.buf.String(), d.framing)
	d.phase = PhaseFinalized
	d.logger.Debug("decoder finalized", "bytes", d.buf.Len(), "segments", len(d.state.Segments), "boundary", d.state.BoundarySeen)
	return d.state
}

// State gibt den zuletzt berechneten State zurueck
func (d *Decoder) State() State { return d.state }

func (d *Decoder) Phase() Phase { return d.phase }

// Buffer gibt den bisher empfangenen Rohtext zurueck
func (d *Decoder) Buffer() string { return d.buf.String() }

func (d *Decoder) Len() int { return d.buf.Len() }
