package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mdinsert/internal/insert"
	"mdinsert/internal/pipeline"
)

// newRootCmd builds the command tree. Flags shared by every subcommand are
// persistent on the root.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mdinsert",
		Short: "Markdown preprocessor for inserting file fragments",
		Long: `mdinsert resolves &[ranges](path) markers in markdown documents by
replacing each marker line with the selected lines of the referenced file.`,
		PersistentPreRunE: setupLogging,
	}

	rootCmd.PersistentFlags().String("parent-path", "", "directory inserts resolve against (default: directory of each input file)")
	rootCmd.PersistentFlags().String("path", ".", "path below --parent-path that inserts resolve against")
	rootCmd.PersistentFlags().StringSlice("extensions", []string{"gfm", "linkify", "tasklist"}, "goldmark extensions to enable")
	rootCmd.PersistentFlags().Bool("safe", false, "drop raw HTML from rendered output")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(newPreprocessCmd())
	rootCmd.AddCommand(newRenderCmd())

	return rootCmd
}

// main executes the root command and exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// pipelineOptions holds the persistent flags that shape the pipeline.
type pipelineOptions struct {
	parentPath string
	path       string
	extensions []string
	safe       bool
}

func readPipelineOptions(cmd *cobra.Command) (pipelineOptions, error) {
	var opts pipelineOptions
	var err error

	if opts.parentPath, err = cmd.Flags().GetString("parent-path"); err != nil {
		return opts, err
	}
	if opts.path, err = cmd.Flags().GetString("path"); err != nil {
		return opts, err
	}
	if opts.extensions, err = cmd.Flags().GetStringSlice("extensions"); err != nil {
		return opts, err
	}
	for _, name := range opts.extensions {
		if !pipeline.KnownExtension(name) {
			return opts, fmt.Errorf("unknown markdown extension %q", name)
		}
	}
	if opts.safe, err = cmd.Flags().GetBool("safe"); err != nil {
		return opts, err
	}

	return opts, nil
}

// newRenderer builds a pipeline for a document located at file. Without
// --parent-path, inserts resolve relative to the document's own directory.
func (o pipelineOptions) newRenderer(file string) *pipeline.Renderer {
	parent := o.parentPath
	if parent == "" {
		parent = filepath.Dir(file)
	}

	registry := pipeline.NewRegistry()
	insert.New(insert.Config{ParentPath: parent, Path: o.path}, insert.WithLogger(slog.Default())).Extend(registry)

	return pipeline.NewRenderer(registry, pipeline.Options{
		Extensions: o.extensions,
		SafeMode:   o.safe,
	})
}
