// split.go - Trennung von Reasoning und Antwort
// Enthaelt: ReasoningSplit, SplitReasoning

package decode

// ReasoningSplit ist das Ergebnis von SplitReasoning.
//
// Ist BoundarySeen false, ist Answer leer und Reasoning enthaelt den ganzen
// Puffer. Sonst steht in Reasoning alles vor der ersten Grenze und in Answer
// alles danach.
type ReasoningSplit struct {
	Reasoning    string `json:"reasoning"`
	Answer       string `json:"answer"`
	BoundarySeen bool   `json:"boundary_seen"`
}

// SplitReasoning teilt buf an der ersten Reasoning-Grenze. Weitere Grenzen
// gehoeren zum Antworttext.
func SplitReasoning(buf string, f Framing) ReasoningSplit {
	i := Index(buf, f.Boundary, 0)
	if i == -1 {
		// Angefangene mehrstellige Grenze am Ende zurueckhalten
		return ReasoningSplit{Reasoning: buf[:len(buf)-Dangling(buf, f.Boundary)]}
	}

	return ReasoningSplit{
		Reasoning:    buf[:i],
		Answer:       buf[i+len(f.Boundary):],
		BoundarySeen: true,
	}
}
