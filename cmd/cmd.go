// Package cmd builds the vaulttasks cobra command tree, executed through
// charmbracelet/fang for --help/man-page generation and pretty error
// rendering.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vaulttasks/vaulttasks/internal/cli"
	"github.com/vaulttasks/vaulttasks/internal/config"
)

// Execute builds and runs the root command. name selects the binary's
// reported name ("vaulttasks").
func Execute(name string) {
	rootCmd := buildRootCmd(name)
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd assembles the cobra command tree. Split out from Execute so
// tests can inspect the tree without driving fang.Execute.
func buildRootCmd(name string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   name,
		Short: "vaulttasks treats a directory of Markdown notes as a task/habit database",
	}
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().String("locale", "", "BCP 47 locale for name sorting, e.g. en-US")

	listCmd := &cobra.Command{
		Use:   "list [search terms]",
		Short: "List tasks matching a filter query, sorted",
		Run:   cli.ListCmd,
	}
	listCmd.Flags().String("sort", "name", "name|due-date")
	rootCmd.AddCommand(listCmd)

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use across the vault",
		Run:   cli.TagsCmd,
	}
	rootCmd.AddCommand(tagsCmd)

	addCmd := &cobra.Command{
		Use:   "add [task name]",
		Short: "Append a new task to a vault file",
		Args:  cobra.MinimumNArgs(1),
		Run:   cli.AddCmd,
	}
	addCmd.Flags().String("file", "", "vault file to append the task to (required)")
	rootCmd.AddCommand(addCmd)

	doneCmd := &cobra.Command{
		Use:   "done",
		Short: "Mark the task at --file:--line as done",
		Run:   cli.DoneCmd,
	}
	doneCmd.Flags().String("file", "", "vault file containing the task (required)")
	doneCmd.Flags().Int("line", 0, "1-based line number of the task (required)")
	rootCmd.AddCommand(doneCmd)

	editCmd := &cobra.Command{
		Use:   "edit [new task name]",
		Short: "Rewrite the task at --file:--line's fixed attributes",
		Args:  cobra.MinimumNArgs(1),
		Run:   cli.EditCmd,
	}
	editCmd.Flags().String("file", "", "vault file containing the task (required)")
	editCmd.Flags().Int("line", 0, "1-based line number of the task (required)")
	editCmd.Flags().Int("priority", 0, "new priority (0-3)")
	editCmd.Flags().String("tags", "", "comma-separated replacement tag list")
	rootCmd.AddCommand(editCmd)

	trackerCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Manage habit trackers",
	}
	trackerLogCmd := &cobra.Command{
		Use:   "log",
		Short: "Append today's occurrence to a tracker",
		Run:   cli.TrackerLogCmd,
	}
	trackerLogCmd.Flags().String("name", "", "tracker name, as it appears after \"Tracker:\" (required)")
	trackerLogCmd.Flags().String("category", "", "category column to set")
	trackerLogCmd.Flags().String("value", "", "value to record in that category")
	trackerCmd.AddCommand(trackerLogCmd)
	rootCmd.AddCommand(trackerCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive terminal browser",
		Run:   cli.TuiCmd,
	}
	rootCmd.AddCommand(tuiCmd)

	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Launch the stdio JSON-RPC server",
		Run:   cli.DaemonCmd,
	}
	rootCmd.AddCommand(daemonCmd)

	return rootCmd
}
