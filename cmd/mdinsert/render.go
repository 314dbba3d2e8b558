package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mdinsert/internal/workspace"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file|dir>",
		Short: "Resolve insert markers and render markdown to HTML",
		Long: `Render a single markdown file to stdout, or every *.md file below a
directory. Directory output mirrors the source tree under --out, or is
written next to each source file when --out is empty.`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}

	cmd.Flags().String("out", "", "output directory")
	cmd.Flags().Int("jobs", runtime.NumCPU(), "number of files rendered in parallel")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	opts, err := readPipelineOptions(cmd)
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	input := args[0]
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if !info.IsDir() {
		html, err := renderFile(cmd, opts, input)
		if err != nil {
			return err
		}
		if outDir == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		}
		return writeOutput(filepath.Join(outDir, htmlName(filepath.Base(input))), html)
	}

	files, err := workspace.Scan(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if len(files) == 0 {
		slog.Warn("no markdown files found", "dir", input)
		return nil
	}

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, min(jobs, len(files))))

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			html, err := renderFile(cmd, opts, file.AbsPath)
			if err != nil {
				return err
			}

			target := htmlName(file.AbsPath)
			if outDir != "" {
				target = filepath.Join(outDir, filepath.FromSlash(htmlName(file.RelPath)))
			}
			return writeOutput(target, html)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("rendered documents", "count", len(files), "dir", input)
	return nil
}

func renderFile(cmd *cobra.Command, opts pipelineOptions, file string) (string, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	res, err := opts.newRenderer(file).Convert(cmd.Context(), source)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", file, err)
	}
	return res.HTML, nil
}

func writeOutput(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Debug("wrote output", "path", path)
	return nil
}

// htmlName swaps a markdown extension for .html.
func htmlName(name string) string {
	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".md") {
		name = strings.TrimSuffix(name, ext)
	}
	return name + ".html"
}
