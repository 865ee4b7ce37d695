package cli

import (
	"github.com/spf13/cobra"

	"github.com/ccarocean/copernicus-sync/internal/dataset"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the datasets this tool can mirror",
	RunE:  runDatasets,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

// DatasetList is the result envelope for the datasets command.
type DatasetList struct {
	Datasets []dataset.Profile `json:"datasets"`
}

func (l DatasetList) Headers() []string {
	return []string{"Dataset", "Description", "Host", "Layout"}
}

func (l DatasetList) Rows() [][]string {
	var rows [][]string
	for _, p := range l.Datasets {
		rows = append(rows, []string{
			p.Selector,
			p.Description,
			p.Host,
			string(p.Granularity),
		})
	}
	return rows
}

func (l DatasetList) EmptyMessage() string {
	return "No datasets configured."
}

func runDatasets(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	writer := NewOutputWriter(flags.OutputFormat, flags.Quiet)

	return writer.WriteSuccess("datasets", DatasetList{Datasets: dataset.All()})
}
