// cmd_serve.go - Server-Start und Versionsanzeige
// Hauptfunktionen: RunServer, versionHandler, newServeCmd
package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/envconfig"
	"github.com/7blacky7/videocompanion/server"
	"github.com/7blacky7/videocompanion/version"
)

// RunServer - Startet den Companion-Server
func RunServer(_ *cobra.Command, _ []string) error {
	ln, err := net.Listen("tcp", envconfig.Host().Host)
	if err != nil {
		return err
	}

	err = server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// versionHandler - Zeigt die Version an
func versionHandler(cmd *cobra.Command, _ []string) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return
	}

	out := cmd.OutOrStdout()
	serverVersion, err := client.Version(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "Warning: could not connect to a running companion server")
	}

	if serverVersion != "" {
		fmt.Fprintf(out, "companion version is %s\n", serverVersion)
	}

	if serverVersion != version.Version {
		fmt.Fprintf(out, "Warning: client version is %s\n", version.Version)
	}
}

// newServeCmd - Erstellt den serve Command
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the companion server",
		Args:    cobra.ExactArgs(0),
		RunE:    RunServer,
	}
}
