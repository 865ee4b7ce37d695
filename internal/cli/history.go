package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccarocean/copernicus-sync/internal/config"
	"github.com/ccarocean/copernicus-sync/internal/sync/journal"
	"github.com/ccarocean/copernicus-sync/internal/utils"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past sync runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

// RunHistory is the result envelope for the history command.
type RunHistory struct {
	Runs []journal.Run `json:"runs"`
}

func (h RunHistory) Headers() []string {
	return []string{"Started", "Dataset", "Status", "Fetched", "Updated", "Deleted", "Skipped", "Transferred"}
}

func (h RunHistory) Rows() [][]string {
	var rows [][]string
	for _, run := range h.Runs {
		status := run.Status
		if run.DryRun {
			status += " (dry run)"
		}
		rows = append(rows, []string{
			run.StartedAt.Format(time.RFC3339),
			run.Dataset,
			status,
			fmt.Sprintf("%d", run.Fetched),
			fmt.Sprintf("%d", run.Updated),
			fmt.Sprintf("%d", run.Deleted),
			fmt.Sprintf("%d", run.Skipped),
			formatSize(run.Bytes),
		})
	}
	return rows
}

func (h RunHistory) EmptyMessage() string {
	return "No runs recorded yet."
}

func runHistory(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	writer := NewOutputWriter(flags.OutputFormat, flags.Quiet)

	path, err := config.GetJournalPath()
	if err != nil {
		return handleError(writer, "history", utils.WrapError(utils.ErrCodeJournalError, "cannot locate journal", err))
	}

	db, err := journal.Open(path)
	if err != nil {
		return handleError(writer, "history", utils.WrapError(utils.ErrCodeJournalError, "cannot open journal", err))
	}
	defer db.Close()

	runs, err := db.ListRuns(context.Background(), historyLimit)
	if err != nil {
		return handleError(writer, "history", utils.WrapError(utils.ErrCodeJournalError, "cannot read journal", err))
	}

	return writer.WriteSuccess("history", RunHistory{Runs: runs})
}
