// cmd_decode.go - Aufgezeichnete Streams lokal dekodieren
// Hauptfunktionen: DecodeHandler, decodeFile, newDecodeCmd
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/decode"
	"github.com/7blacky7/videocompanion/envconfig"
	"github.com/7blacky7/videocompanion/format"
	"github.com/7blacky7/videocompanion/logutil"
	"github.com/7blacky7/videocompanion/replay"
)

// decodedFile - Ergebnis fuer eine Datei
type decodedFile struct {
	Name      string       `json:"file"`
	Fragments int          `json:"fragments"`
	Bytes     int          `json:"bytes"`
	State     decode.State `json:"state"`
	Verified  bool         `json:"verified"`
	Error     string       `json:"error,omitempty"`
}

func readTranscript(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := replay.ReadTranscript(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return buf, nil
}

func decodeFile(name string, chunk int, opts ...decode.Option) (decodedFile, error) {
	buf, err := readTranscript(name)
	if err != nil {
		return decodedFile{}, err
	}

	res, err := replay.Replay(buf, chunk, opts...)
	if err != nil {
		return decodedFile{}, fmt.Errorf("%s: %w", name, err)
	}

	out := decodedFile{Name: name, Fragments: len(res.States), Bytes: len(buf), State: res.Final, Verified: true}
	if err := res.Verify(); err != nil {
		out.Verified = false
		out.Error = err.Error()
	}
	return out, nil
}

// decodeRemote - Dekodiert die Datei am Stueck auf dem Server
func decodeRemote(ctx context.Context, client *api.Client, name string) (decodedFile, error) {
	buf, err := readTranscript(name)
	if err != nil {
		return decodedFile{}, err
	}

	st, err := client.Decode(ctx, &api.DecodeRequest{Buffer: buf})
	if err != nil {
		return decodedFile{}, fmt.Errorf("%s: %w", name, err)
	}
	return decodedFile{Name: name, Fragments: 1, Bytes: len(buf), State: *st, Verified: true}, nil
}

// DecodeHandler - Spielt Dateien fragmentweise durch den Decoder und zeigt
// die Segmente an. Mehrere Dateien werden parallel verarbeitet.
func DecodeHandler(cmd *cobra.Command, args []string) error {
	chunk, _ := cmd.Flags().GetInt("chunk")
	asJSON, _ := cmd.Flags().GetBool("json")
	remote, _ := cmd.Flags().GetBool("remote")

	var client *api.Client
	if remote {
		var err error
		if client, err = api.ClientFromEnvironment(); err != nil {
			return err
		}
	}

	opts := []decode.Option{
		decode.WithLogger(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel())),
	}
	if envconfig.FullRescan() {
		opts = append(opts, decode.WithFullRescan())
	}

	results := make([]decodedFile, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range args {
		g.Go(func() error {
			var err error
			if client != nil {
				results[i], err = decodeRemote(ctx, client, name)
			} else {
				results[i], err = decodeFile(name, chunk, opts...)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printDecoded(out, r)
		}
	}

	var failed int
	for _, r := range results {
		if !r.Verified {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files: streamed state differs from final state", failed, len(results))
	}
	return nil
}

func printDecoded(w io.Writer, r decodedFile) {
	fmt.Fprintf(w, "%s (%d fragments, %s)\n", r.Name, r.Fragments, format.HumanBytes(int64(r.Bytes)))
	if r.State.Reasoning != "" {
		fmt.Fprintf(w, "reasoning: %s\n", truncate(r.State.Reasoning, 72))
	}
	if !r.State.BoundarySeen {
		fmt.Fprintln(w, "no answer boundary")
		return
	}

	var data [][]string
	for i, seg := range r.State.Segments {
		switch seg.Type {
		case decode.SegmentText:
			data = append(data, []string{strconv.Itoa(i + 1), string(seg.Type), "", truncate(seg.Content, 60)})
		case decode.SegmentToolCall:
			data = append(data, []string{strconv.Itoa(i + 1), string(seg.Type), string(seg.Call.Kind()), truncate(describeCall(seg.Call), 60)})
		}
	}

	table := newTable(w, []string{"#", "TYPE", "KIND", "CONTENT"})
	table.AppendBulk(data)
	table.Render()

	stats := replay.KindStats(r.State.Segments)
	if stats.Len() > 0 {
		var parts []string
		for pair := stats.Oldest(); pair != nil; pair = pair.Next() {
			parts = append(parts, fmt.Sprintf("%s=%d", pair.Key, pair.Value))
		}
		fmt.Fprintf(w, "tool calls: %s\n", strings.Join(parts, " "))
	}

	if !r.Verified {
		fmt.Fprintf(w, "verification failed: %s\n", r.Error)
	}
}

// newDecodeCmd - Erstellt den decode Command
func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode FILE...",
		Short: "Decode recorded response streams",
		Args:  cobra.MinimumNArgs(1),
		RunE:  DecodeHandler,
	}

	decodeCmd.Flags().Int("chunk", 16, "Fragment size in bytes (0 feeds each file at once)")
	decodeCmd.Flags().Bool("json", false, "Print the final states as JSON")
	decodeCmd.Flags().Bool("remote", false, "Decode on the running server instead of locally")

	return decodeCmd
}
