package cli

import (
	"github.com/spf13/cobra"

	"github.com/canlaw-labs/jurist-cli/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if _, err := ensureConfig(); err != nil {
		return err
	}

	if len(sourceConfigs) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	for _, src := range sourceConfigs {
		switch src.Type {
		case sources.TypeHuggingFace:
			cmd.Printf("%s  %s  %s  dataset=%s config=%s split=%s\n",
				src.ID, src.Type, src.Jurisdiction, src.Dataset, src.Config, src.Split)
		default:
			cmd.Printf("%s  %s  %s  path=%s\n",
				src.ID, src.Type, src.Jurisdiction, src.Path)
		}
	}
	return nil
}
