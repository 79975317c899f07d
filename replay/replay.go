// Package replay spielt aufgezeichnete Antwort-Streams durch den Decoder,
// so wie sie ueber das Netz ankommen wuerden.
//
// replay.go - Fragmentieren, Abspielen, Auswerten
// Enthaelt: Fragments, Replay, Result, KindStats
package replay

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/7blacky7/videocompanion/decode"
)

// Fragments zerlegt buf in Stuecke von hoechstens size Bytes, ohne ein
// UTF-8-Zeichen zu teilen. Ein Zeichen, das laenger als size ist, bildet ein
// eigenes Stueck. size <= 0 liefert buf als einziges Stueck.
func Fragments(buf string, size int) []string {
	if buf == "" {
		return nil
	}
	if size <= 0 {
		return []string{buf}
	}

	var out []string
	for len(buf) > 0 {
		n := min(size, len(buf))
		for n < len(buf) && n > 0 && !utf8.RuneStart(buf[n]) {
			n--
		}
		if n == 0 {
			_, n = utf8.DecodeRuneInString(buf)
		}
		out = append(out, buf[:n])
		buf = buf[n:]
	}
	return out
}

// Result ist das Ergebnis eines Durchlaufs
type Result struct {
	// States nach jedem Fragment
	States []decode.State
	Final  decode.State
}

// Streamed ist der letzte State vor Finalize
func (r Result) Streamed() decode.State {
	if len(r.States) == 0 {
		return decode.State{}
	}
	return r.States[len(r.States)-1]
}

// Replay spielt buf in Fragmenten von size Bytes durch einen neuen Decoder
func Replay(buf string, size int, opts ...decode.Option) (Result, error) {
	d := decode.NewDecoder(opts...)

	var r Result
	for _, frag := range Fragments(buf, size) {
		st, err := d.Append(frag)
		if err != nil {
			return r, err
		}
		r.States = append(r.States, st)
	}

	r.Final = d.Finalize()
	return r, nil
}

// Verify prueft, dass der gestreamte Endstand dem finalen State entspricht
func (r Result) Verify() error {
	if !reflect.DeepEqual(r.Streamed(), r.Final) {
		return fmt.Errorf("streamed state differs from final state after %d fragments", len(r.States))
	}
	return nil
}

// KindStats zaehlt Tool-Calls je Art in der Reihenfolge ihres ersten Auftretens
func KindStats(segments []decode.Segment) *orderedmap.OrderedMap[decode.Kind, int] {
	stats := orderedmap.New[decode.Kind, int]()
	for _, seg := range segments {
		if seg.Type != decode.SegmentToolCall {
			continue
		}

		n, _ := stats.Get(seg.Call.Kind())
		stats.Set(seg.Call.Kind(), n+1)
	}
	return stats
}
