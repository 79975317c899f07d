// config.go - Haupt-Konfigurationsfunktionen fuer den Video-Companion
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (COMPANION_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (COMPANION_ORIGINS)
// - Upstream: URL des KI-Backends (COMPANION_UPSTREAM)
// - UpstreamTimeout: Timeout bis zu den Response-Headern (COMPANION_UPSTREAM_TIMEOUT)
// - DBPath: Pfad der Verlaufs-Datenbank (COMPANION_DB)
// - LogLevel: Gibt Log-Level zurueck (COMPANION_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Feature-Flags und Grenzen des Decoders
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via COMPANION_HOST
// Default: http://127.0.0.1:11535
func Host() *url.URL {
	defaultPort := "11535"

	s := strings.TrimSpace(Var("COMPANION_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte Origins zurueck
// Konfigurierbar via COMPANION_ORIGINS (komma-separiert)
// Enthaelt Standard-Origins fuer localhost
func AllowedOrigins() (origins []string) {
	if s := Var("COMPANION_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	// Browser-Erweiterungen, die das Video-Overlay einbetten
	origins = append(origins,
		"chrome-extension://*",
		"moz-extension://*",
		"file://*",
	)

	return origins
}

// Upstream gibt die URL des KI-Backends zurueck
// Konfigurierbar via COMPANION_UPSTREAM
// nil wenn nicht gesetzt oder ungueltig
func Upstream() *url.URL {
	s := Var("COMPANION_UPSTREAM")
	if s == "" {
		return nil
	}

	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		slog.Warn("invalid upstream url", "value", s, "error", err)
		return nil
	}
	return u
}

// UpstreamTimeout gibt das Timeout bis zu den Response-Headern des Backends zurueck
// Konfigurierbar via COMPANION_UPSTREAM_TIMEOUT (Dauer oder Sekunden)
// 0 oder negative Werte = unendlich
// Default: 30 Sekunden
func UpstreamTimeout() (timeout time.Duration) {
	timeout = 30 * time.Second
	if s := Var("COMPANION_UPSTREAM_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			timeout = d
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			timeout = time.Duration(n) * time.Second
		}
	}

	if timeout <= 0 {
		return time.Duration(math.MaxInt64)
	}

	return timeout
}

// DBPath gibt den Pfad der sqlite-Datenbank fuer den Verlauf zurueck
// Konfigurierbar via COMPANION_DB
// Default: $HOME/.videocompanion/db.sqlite
func DBPath() string {
	if s := Var("COMPANION_DB"); s != "" {
		return s
	}

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	return filepath.Join(home, ".videocompanion", "db.sqlite")
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via COMPANION_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("COMPANION_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
