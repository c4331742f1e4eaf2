package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"queryd/internal/config"
	"queryd/internal/parser"
)

// defaultQuery is the sample invocation used when no query is given.
const defaultQuery = "Find listings under 600000 in wildfire zones"

func newParseCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:     "parse [query]",
		Short:   "Parse one free-text query and print the structured JSON",
		Example: "  queryd parse \"" + defaultQuery + "\"",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := defaultQuery
			if len(args) == 1 {
				query = args[0]
			}
			backend, model, err := buildBackend(*cfg)
			if err != nil {
				return err
			}
			p, err := parser.New(*cfg, backend, model, *log)
			if err != nil {
				return err
			}
			defer p.Close()

			res := p.Parse(cmd.Context(), query)
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
