package main

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/daily-games-bot/internal/export"
	"github.com/Zuo-Peng/daily-games-bot/internal/transcript"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <path>",
		Short: "Parse a transcript file and print its messages",
		Long:  `Parse a transcript without touching the index. Formats: ` + strings.Join(export.Formats, ", ") + `.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "" {
				return fmt.Errorf("path must not be empty")
			}

			result, err := transcript.ParseFile(path, "")
			if err != nil {
				return classify(path, err)
			}
			return export.Write(cmd.OutOrStdout(), format, result.Messages)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text/json/yaml)")

	return cmd
}
