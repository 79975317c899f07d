// config_features.go - Feature-Flags und Grenzen
//
// Dieses Modul enthaelt:
// - Feature-Flags (NoHistory, FullRescan)
// - MaxBuffer: weiche Obergrenze fuer einen Antwortpuffer
package envconfig

var (
	// NoHistory speichert abgeschlossene Antworten nicht im Verlauf
	NoHistory = Bool("COMPANION_NOHISTORY")

	// FullRescan schaltet den fortsetzbaren Scan des Decoders ab
	FullRescan = Bool("COMPANION_FULL_RESCAN")

	// MaxBuffer ist die weiche Obergrenze eines Antwortpuffers in Bytes
	MaxBuffer = Uint("COMPANION_MAX_BUFFER", 64<<10)
)
