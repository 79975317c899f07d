// transcript.go - Aufgezeichnete Roh-Streams laden
// Enthaelt: ReadTranscript

package replay

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/7blacky7/videocompanion/decode"
)

// Sentinels in handbearbeiteten Dateien duerfen auch ausgeschrieben werden
var escapes = strings.NewReplacer(
	`\x1e`, decode.DefaultBoundary,
	`\x1f`, decode.DefaultToolCall,
	`<RS>`, decode.DefaultBoundary,
	`<US>`, decode.DefaultToolCall,
)

// ReadTranscript liest einen aufgezeichneten Antwort-Stream. Ein UTF-8- oder
// UTF-16-BOM wird entfernt, UTF-16 nach UTF-8 umgewandelt.
func ReadTranscript(r io.Reader) (string, error) {
	tr := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(r, tr))
	if err != nil {
		return "", err
	}

	return escapes.Replace(string(b)), nil
}
