// cmd_utils.go - Gemeinsame Hilfsfunktionen
// Hauptfunktionen: checkServerHeartbeat
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/envconfig"
)

// checkServerHeartbeat - Prueft ob der Server erreichbar ist
func checkServerHeartbeat(cmd *cobra.Command, _ []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}
	if err := client.Heartbeat(cmd.Context()); err != nil {
		if strings.Contains(err.Error(), " refused") || strings.Contains(err.Error(), "could not connect") {
			return fmt.Errorf("companion server not responding at %s, start it with 'companion serve'", envconfig.Host())
		}
		return err
	}
	return nil
}
