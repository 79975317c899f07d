// framing.go - Sentinel-Konfiguration
// Enthaelt: Framing, DefaultFraming, Validate

package decode

import (
	"errors"
	"strings"
)

const (
	// DefaultBoundary trennt Reasoning und Antwort (ASCII Record Separator)
	DefaultBoundary = "\x1e"

	// DefaultToolCall umschliesst Tool-Call-Payloads (ASCII Unit Separator)
	DefaultToolCall = "\x1f"
)

// Framing legt die beiden Sentinels fest, die der Upstream-Produzent verwendet.
type Framing struct {
	Boundary string `json:"boundary"`
	ToolCall string `json:"tool_call"`
}

// DefaultFraming gibt die Standard-Sentinels zurueck
func DefaultFraming() Framing {
	return Framing{Boundary: DefaultBoundary, ToolCall: DefaultToolCall}
}

// Validate prueft, dass beide Sentinels gesetzt sind und sich nicht
// gegenseitig enthalten.
func (f Framing) Validate() error {
	if f.Boundary == "" || f.ToolCall == "" {
		return errors.New("framing: empty sentinel")
	}
	if strings.Contains(f.Boundary, f.ToolCall) || strings.Contains(f.ToolCall, f.Boundary) {
		return errors.New("framing: sentinels overlap")
	}
	return nil
}
