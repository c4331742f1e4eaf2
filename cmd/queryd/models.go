package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"queryd/internal/config"
	"queryd/internal/registry"
)

func newModelsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List GGUF models in the local models directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := registry.Scan(cfg.ModelsDir)
			if err != nil {
				return err
			}
			if len(models) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no models in %s\n", cfg.ModelsDir)
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tQUANT\tSIZE\tPATH")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Quant, humanSize(m.SizeBytes), m.Path)
			}
			return w.Flush()
		},
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
