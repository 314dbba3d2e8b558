package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mdinsert/internal/pipeline"
)

func newPreprocessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preprocess <file>",
		Short: "Resolve insert markers and print the resulting markdown",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreprocess,
	}
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	opts, err := readPipelineOptions(cmd)
	if err != nil {
		return err
	}

	file := args[0]
	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}

	// Front matter passes through untouched.
	lines, err := opts.newRenderer(file).Registry().Run(pipeline.SplitLines(string(source)))
	if err != nil {
		return fmt.Errorf("preprocess %s: %w", file, err)
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return out.Flush()
}
