package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"queryd/internal/config"
	"queryd/internal/hub"
	"queryd/internal/registry"
)

func newPullCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:     "pull <model-id>",
		Short:   "Download a GGUF model from the HuggingFace Hub",
		Example: "  queryd pull TheBloke/Meta-Llama-3-8B-Instruct-GGUF",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID := args[0]
			destDir, err := registry.Expand(cfg.ModelsDir)
			if err != nil {
				return err
			}
			c := hub.New(cfg.HubToken)
			repoPath, size, err := c.FindGGUF(cmd.Context(), modelID)
			if err != nil {
				return err
			}
			log.Info().Str("model", modelID).Str("file", repoPath).
				Int64("size_bytes", size).Msg("downloading")
			dest, err := c.Download(cmd.Context(), modelID, repoPath, destDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}
}
