// scanner.go - Delimiter-Scanner
// Enthaelt: Index, Dangling
//
// Sentinels stammen aus dem ASCII-Steuerzeichenbereich und kommen in normalem
// Text oder in Tool-Call-Payloads nicht vor. Das wird hier nicht geprueft.

package decode

import "strings"

// Index gibt die Position des ersten Vorkommens von sentinel in s ab from
// zurueck, oder -1 wenn es keins gibt.
func Index(s, sentinel string, from int) int {
	if sentinel == "" || from > len(s) {
		return -1
	}
	from = max(from, 0)

	i := strings.Index(s[from:], sentinel)
	if i == -1 {
		return -1
	}
	return from + i
}

// Dangling gibt die Laenge des laengsten Suffix von s zurueck, das ein echter
// Praefix von sentinel ist. Ein solcher Rest kann erst mit dem naechsten
// Fragment zum Sentinel werden und gilt bis dahin als "noch nicht gefunden".
// Bei Sentinels aus einem Zeichen ist das Ergebnis immer 0.
func Dangling(s, sentinel string) int {
	n := min(len(sentinel)-1, len(s))
	for i := n; i > 0; i-- {
		if strings.HasSuffix(s, sentinel[:i]) {
			return i
		}
	}
	return 0
}
