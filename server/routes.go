// Package server - Haupt-Router und Server-Setup fuer den Companion
// Beinhaltet: Server-Struct, Router-Registrierung, Middleware
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/app/store"
	"github.com/7blacky7/videocompanion/envconfig"
	"github.com/7blacky7/videocompanion/version"
)

var mode string = gin.DebugMode

// Upstream liefert den rohen Antwort-Stream des KI-Backends in Fragmenten
type Upstream interface {
	Stream(ctx context.Context, req *api.AskRequest, fn func(fragment string) error) error
}

// Server verbindet Backend, Decoder und Verlauf
type Server struct {
	addr     net.Addr
	upstream Upstream
	store    *store.Store

	// Logger ist optional, sonst slog.Default()
	Logger *slog.Logger
}

// NewServer erstellt einen Server. upstream darf nil sein, dann antwortet
// /api/ask mit 503.
func NewServer(addr net.Addr, upstream Upstream, st *store.Store) *Server {
	return &Server{addr: addr, upstream: upstream, store: st}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// isLocalIP prueft ob die IP-Adresse zu einem lokalen Interface gehoert
func isLocalIP(ip netip.Addr) bool {
	if interfaces, err := net.Interfaces(); err == nil {
		for _, iface := range interfaces {
			addrs, err := iface.Addrs()
			if err != nil {
				continue
			}

			for _, a := range addrs {
				if parsed, _, err := net.ParseCIDR(a.String()); err == nil {
					if parsed.String() == ip.String() {
						return true
					}
				}
			}
		}
	}

	return false
}

// allowedHost prueft ob der Host erlaubt ist
func allowedHost(host string) bool {
	host = strings.ToLower(host)

	if host == "" || host == "localhost" {
		return true
	}

	if hostname, err := os.Hostname(); err == nil && host == strings.ToLower(hostname) {
		return true
	}

	// Pruefe ob der Host eine lokale TLD hat
	for _, tld := range []string{"localhost", "local", "internal"} {
		if strings.HasSuffix(host, "."+tld) {
			return true
		}
	}

	return false
}

// allowedHostsMiddleware blockiert Anfragen von nicht erlaubten Hosts,
// solange der Server nur auf Loopback lauscht
func allowedHostsMiddleware(addr net.Addr) gin.HandlerFunc {
	return func(c *gin.Context) {
		if addr == nil {
			c.Next()
			return
		}

		if addr, err := netip.ParseAddrPort(addr.String()); err == nil && !addr.Addr().IsLoopback() {
			c.Next()
			return
		}

		host, _, err := net.SplitHostPort(c.Request.Host)
		if err != nil {
			host = c.Request.Host
		}

		if addr, err := netip.ParseAddr(host); err == nil {
			if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || isLocalIP(addr) {
				c.Next()
				return
			}
		}

		if allowedHost(host) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}

			c.Next()
			return
		}

		c.AbortWithStatus(http.StatusForbidden)
	}
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
	}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.New()
	r.Use(gin.Recovery())
	if mode != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.HandleMethodNotAllowed = true
	r.Use(
		cors.New(corsConfig),
		allowedHostsMiddleware(s.addr),
	)

	// General
	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "Companion is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Companion is running") })
	r.HEAD("/api/version", s.VersionHandler)
	r.GET("/api/version", s.VersionHandler)

	// Fragen und Dekodieren
	r.POST("/api/ask", s.AskHandler)
	r.POST("/api/decode", s.DecodeHandler)

	// Verlauf
	r.GET("/api/chats", s.ListChatsHandler)
	r.GET("/api/chats/:id", s.GetChatHandler)
	r.DELETE("/api/chats/:id", s.DeleteChatHandler)
	r.PUT("/api/chats/:id/rename", s.RenameChatHandler)

	return r
}

func (s *Server) VersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.VersionResponse{Version: version.Version})
}
