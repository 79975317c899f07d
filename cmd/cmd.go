// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/7blacky7/videocompanion/envconfig"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-28s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "companion",
		Short:         "Video learning companion",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	serveCmd := newServeCmd()
	askCmd := newAskCmd()
	decodeCmd := newDecodeCmd()
	historyCmd := newHistoryCmd()

	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["COMPANION_HOST"]}

	for _, cmd := range []*cobra.Command{
		serveCmd,
		askCmd,
		decodeCmd,
		historyCmd,
	} {
		switch cmd {
		case serveCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["COMPANION_DEBUG"],
				envVars["COMPANION_HOST"],
				envVars["COMPANION_UPSTREAM"],
				envVars["COMPANION_UPSTREAM_TIMEOUT"],
				envVars["COMPANION_DB"],
				envVars["COMPANION_ORIGINS"],
				envVars["COMPANION_MAX_BUFFER"],
				envVars["COMPANION_NOHISTORY"],
				envVars["COMPANION_FULL_RESCAN"],
			})
		case decodeCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["COMPANION_DEBUG"],
				envVars["COMPANION_FULL_RESCAN"],
			})
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		serveCmd,
		askCmd,
		decodeCmd,
		historyCmd,
	)

	return rootCmd
}
