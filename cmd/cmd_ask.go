// cmd_ask.go - Frage stellen und Antwort live anzeigen
// Hauptfunktionen: AskHandler, askRenderer, newAskCmd
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/decode"
	"github.com/7blacky7/videocompanion/format"
)

// askRenderer - Gibt aufeinanderfolgende States als Deltas aus. Der Server
// schickt jedes Mal den ganzen State, hier wird nur der neue Teil gedruckt.
type askRenderer struct {
	w             io.Writer
	plainText     bool
	width         int
	hideReasoning bool

	reasoning     string
	reasoningOpen bool
	reasoningDone bool
	answer        string
	state         displayResponseState
}

func (r *askRenderer) render(st decode.State) {
	if !r.hideReasoning && !r.reasoningDone && len(st.Reasoning) > len(r.reasoning) {
		if !r.reasoningOpen {
			fmt.Fprint(r.w, reasoningOpeningText(r.plainText))
			r.reasoningOpen = true
		}
		displayResponse(r.w, st.Reasoning[len(r.reasoning):], r.width, &r.state)
		r.reasoning = st.Reasoning
	}

	if !st.BoundarySeen {
		return
	}

	r.closeReasoning()

	rendered := renderSegments(st.Segments, r.plainText)
	delta, ok := strings.CutPrefix(rendered, r.answer)
	if !ok {
		// sollte nicht vorkommen, dann komplett neu ausgeben
		fmt.Fprintln(r.w)
		r.state = displayResponseState{}
		delta = rendered
	}
	displayResponse(r.w, delta, r.width, &r.state)
	r.answer = rendered
}

func (r *askRenderer) closeReasoning() {
	if r.reasoningDone {
		return
	}
	r.reasoningDone = true
	if !r.reasoningOpen {
		return
	}

	if !strings.HasSuffix(r.reasoning, "\n") {
		fmt.Fprintln(r.w)
	}
	fmt.Fprint(r.w, reasoningClosingText(r.plainText))
	r.state = displayResponseState{}
}

// finish - Schliesst die Ausgabe mit einem Zeilenumbruch ab
func (r *askRenderer) finish() {
	r.closeReasoning()
	if r.answer != "" && !strings.HasSuffix(r.answer, "\n") {
		fmt.Fprintln(r.w)
	}
}

// AskHandler - Stellt eine Frage und zeigt Denkteil und Antwort waehrend des Streams an
func AskHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	req := &api.AskRequest{Question: strings.Join(args, " ")}
	req.ChatID, _ = cmd.Flags().GetString("chat")
	req.VideoID, _ = cmd.Flags().GetString("video")

	if at, _ := cmd.Flags().GetString("at"); at != "" {
		secs, err := format.ParseTimestamp(at)
		if err != nil {
			return err
		}
		s := decode.Seconds(secs)
		req.At = &s
	}

	hideReasoning, _ := cmd.Flags().GetBool("hidereasoning")
	noWordWrap, _ := cmd.Flags().GetBool("nowordwrap")

	width, isTerminal := terminalWidth(cmd.OutOrStdout())
	r := &askRenderer{
		w:             cmd.OutOrStdout(),
		plainText:     !isTerminal,
		hideReasoning: hideReasoning,
	}
	if !noWordWrap {
		r.width = width
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	var chatID string
	err = client.Ask(ctx, req, func(event api.StreamEvent) error {
		if event.ChatID != "" {
			chatID = event.ChatID
		}
		if event.State != nil {
			r.render(*event.State)
		}
		return nil
	})
	r.finish()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if chatID != "" && req.ChatID == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nContinue with: companion ask --chat %s QUESTION\n", chatID)
	}
	return nil
}

// newAskCmd - Erstellt den ask Command
func newAskCmd() *cobra.Command {
	askCmd := &cobra.Command{
		Use:     "ask QUESTION",
		Short:   "Ask a question about a video",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    AskHandler,
	}

	askCmd.Flags().String("chat", "", "Continue an existing conversation")
	askCmd.Flags().String("video", "", "ID of the video the question is about")
	askCmd.Flags().String("at", "", "Position in the video (e.g. 1:23)")
	askCmd.Flags().Bool("hidereasoning", false, "Hide the reasoning part of the answer")
	askCmd.Flags().Bool("nowordwrap", false, "Don't wrap words to the next line automatically")

	return askCmd
}
