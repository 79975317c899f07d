// cmd_history.go - Gespeicherte Unterhaltungen
// Hauptfunktionen: HistoryListHandler, HistoryShowHandler, HistoryDeleteHandler, newHistoryCmd
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/decode"
	"github.com/7blacky7/videocompanion/format"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoWrapText(false)
	return table
}

// HistoryListHandler - Listet gespeicherte Unterhaltungen, neueste zuerst
func HistoryListHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	chats, err := client.Chats(cmd.Context())
	if err != nil {
		return err
	}

	var data [][]string
	for _, c := range chats.Chats {
		if len(args) > 0 && c.VideoID != args[0] {
			continue
		}
		data = append(data, []string{c.ID, truncate(c.Title, 48), c.VideoID, format.HumanTime(c.UpdatedAt, "Never")})
	}

	table := newTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "VIDEO", "UPDATED"})
	table.AppendBulk(data)
	table.Render()

	return nil
}

// HistoryShowHandler - Zeigt eine Unterhaltung mit allen Nachrichten
func HistoryShowHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	chat, err := client.Chat(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	hideReasoning, _ := cmd.Flags().GetBool("hidereasoning")
	_, isTerminal := terminalWidth(cmd.OutOrStdout())
	showChat(cmd.OutOrStdout(), chat, !isTerminal, hideReasoning)
	return nil
}

func showChat(w io.Writer, chat *api.Chat, plainText, hideReasoning bool) {
	fmt.Fprintf(w, "%s\n", chat.Title)
	if chat.VideoID != "" {
		fmt.Fprintf(w, "video: %s\n", chat.VideoID)
	}

	var calls [][]string
	for i, m := range chat.Messages {
		fmt.Fprintf(w, "\n>>> %s (%s)\n", m.Role, format.HumanTime(m.CreatedAt, "unknown"))

		if m.Reasoning != "" && !hideReasoning {
			fmt.Fprint(w, reasoningOpeningText(plainText))
			fmt.Fprint(w, strings.TrimSuffix(m.Reasoning, "\n")+"\n")
			fmt.Fprint(w, reasoningClosingText(plainText))
		}

		text := m.Content
		if len(m.Segments) > 0 {
			text = renderSegments(m.Segments, plainText)
		}
		fmt.Fprintln(w, highlightTimestamps(strings.TrimSuffix(text, "\n"), plainText))

		for _, seg := range m.Segments {
			if seg.Type != decode.SegmentToolCall {
				continue
			}
			calls = append(calls, []string{strconv.Itoa(i + 1), string(seg.Call.Kind()), truncate(describeCall(seg.Call), 60)})
		}
	}

	if len(calls) > 0 {
		fmt.Fprintln(w)
		table := newTable(w, []string{"MESSAGE", "KIND", "DETAILS"})
		table.AppendBulk(calls)
		table.Render()
	}
}

// HistoryDeleteHandler - Loescht Unterhaltungen
func HistoryDeleteHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	for _, id := range args {
		if err := client.DeleteChat(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted '%s'\n", id)
	}
	return nil
}

// HistoryRenameHandler - Setzt einen neuen Titel
func HistoryRenameHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	return client.RenameChat(cmd.Context(), args[0], strings.Join(args[1:], " "))
}

// newHistoryCmd - Erstellt den history Command mit Unterbefehlen
func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Show stored conversations",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE:    HistoryListHandler,
	}

	listCmd := &cobra.Command{
		Use:     "list [VIDEO]",
		Aliases: []string{"ls"},
		Short:   "List conversations",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    HistoryListHandler,
	}

	showCmd := &cobra.Command{
		Use:     "show ID",
		Short:   "Show a conversation",
		Args:    cobra.ExactArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    HistoryShowHandler,
	}
	showCmd.Flags().Bool("hidereasoning", false, "Hide the reasoning part of answers")

	rmCmd := &cobra.Command{
		Use:     "rm ID [ID...]",
		Short:   "Delete conversations",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    HistoryDeleteHandler,
	}

	renameCmd := &cobra.Command{
		Use:     "rename ID TITLE",
		Short:   "Rename a conversation",
		Args:    cobra.MinimumNArgs(2),
		PreRunE: checkServerHeartbeat,
		RunE:    HistoryRenameHandler,
	}

	historyCmd.AddCommand(listCmd, showCmd, rmCmd, renameCmd)
	return historyCmd
}
