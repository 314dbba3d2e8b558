package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"mdinsert/internal/contextutil"
)

// Options configures the markdown engine behind a Renderer.
type Options struct {
	// Extensions lists goldmark extensions by name (see extensionRegistry).
	// An empty list enables gfm, linkify and tasklist.
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the output.
	SafeMode bool
}

// Result is a rendered document.
type Result struct {
	Lines []string       // markdown lines after preprocessing
	HTML  string         // rendered body
	Title string         // first level 1 (or level 2) heading, else front matter title
	Meta  map[string]any // front matter, empty when absent
}

// Renderer is the host pipeline: front matter is split off, the body lines
// run through the registered preprocessors and the result is rendered to HTML
// with goldmark.
type Renderer struct {
	registry *Registry
	engine   goldmark.Markdown
}

// NewRenderer creates a renderer that runs the stages of reg before rendering.
func NewRenderer(reg *Registry, opts Options) *Renderer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Renderer{
		registry: reg,
		engine:   newEngine(opts),
	}
}

// Registry returns the preprocessor registry used by the renderer.
func (r *Renderer) Registry() *Registry {
	return r.registry
}

// Preprocess runs the registered preprocessors over the markdown body of
// source and returns the resulting lines with the parsed front matter.
func (r *Renderer) Preprocess(ctx context.Context, source []byte) ([]string, map[string]any, error) {
	logger := contextutil.LoggerFromContext(ctx)

	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse front matter: %w", err)
	}
	meta = normalizeMeta(meta)

	lines, err := r.registry.Run(SplitLines(string(body)))
	if err != nil {
		return nil, nil, err
	}

	logger.DebugContext(ctx, "preprocessed document", "stages", r.registry.Len(), "lines", len(lines))
	return lines, meta, nil
}

// Convert preprocesses source and renders it to HTML.
func (r *Renderer) Convert(ctx context.Context, source []byte) (*Result, error) {
	lines, meta, err := r.Preprocess(ctx, source)
	if err != nil {
		return nil, err
	}

	markdown := []byte(strings.Join(lines, "\n"))
	doc := r.engine.Parser().Parse(text.NewReader(markdown))

	var buf bytes.Buffer
	if err := r.engine.Renderer().Render(&buf, markdown, doc); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}

	title := extractTitle(doc, markdown)
	if title == "" {
		if t, ok := meta["title"].(string); ok {
			title = t
		}
	}

	return &Result{
		Lines: lines,
		HTML:  buf.String(),
		Title: title,
		Meta:  meta,
	}, nil
}

// normalizeMeta converts the map[interface{}]interface{} values produced by
// the YAML decoder into map[string]any so the metadata can be JSON encoded.
func normalizeMeta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[fmt.Sprint(k)] = normalizeValue(inner)
		}
		return m
	case map[string]any:
		return normalizeMeta(val)
	case []any:
		items := make([]any, len(val))
		for i, inner := range val {
			items[i] = normalizeValue(inner)
		}
		return items
	default:
		return v
	}
}

// SplitLines splits markdown source into lines the way the pipeline sees
// them. Windows line endings are normalised.
func SplitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.TrimSuffix(source, "\n")
	if source == "" {
		return []string{}
	}
	return strings.Split(source, "\n")
}

func newEngine(opts Options) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// Inserted content is frequently raw HTML.
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// KnownExtension reports whether name is a supported extension name.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			slog.Warn("ignoring unknown markdown extension", "name", name)
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// extractTitle returns the text of the first level 1 heading, falling back
// to the first level 2 heading.
func extractTitle(doc ast.Node, source []byte) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		switch {
		case heading.Level == 1:
			firstH1 = nodeText(heading, source)
			return ast.WalkStop, nil
		case heading.Level == 2 && firstH2 == "":
			firstH2 = nodeText(heading, source)
		}
		return ast.WalkSkipChildren, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	return firstH2
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}
