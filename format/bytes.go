// bytes.go - Groessenangaben
// Enthaelt: Byte-Konstanten, HumanBytes

package format

import "fmt"

const (
	Byte = 1

	KiloByte = Byte * 1000
	MegaByte = KiloByte * 1000

	KibiByte = Byte * 1024
	MebiByte = KibiByte * 1024
)

// HumanBytes formatiert b mit SI-Einheit
func HumanBytes(b int64) string {
	switch {
	case b >= MegaByte:
		return fmt.Sprintf("%.1f MB", float64(b)/MegaByte)
	case b >= KiloByte:
		return fmt.Sprintf("%.1f KB", float64(b)/KiloByte)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
