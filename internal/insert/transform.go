package insert

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_reader.go -package=mocks mdinsert/internal/insert FileReader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mdinsert/internal/pipeline"
)

const (
	// Name is the name the transform registers under in a pipeline.
	Name = "insert-snippet"
	// DefaultPriority runs the transform before anything that would read the
	// marker as a link.
	DefaultPriority = 100
)

// Config holds the immutable settings of a Transform.
type Config struct {
	// ParentPath is the base directory inserts are resolved from.
	ParentPath string
	// Path is an extra prefix joined onto ParentPath.
	Path string
	// Priority is the pipeline priority used by Extend. Zero means
	// DefaultPriority.
	Priority int
}

// FileReader reads inserted files.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// OSReader reads files from the local filesystem.
type OSReader struct{}

// ReadFile implements FileReader.
func (OSReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Option customises a Transform.
type Option func(*Transform)

// WithReader replaces the filesystem reader.
func WithReader(r FileReader) Option {
	return func(t *Transform) {
		t.reader = r
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transform) {
		t.logger = logger
	}
}

// Transform replaces marker lines with the content of the files they point at.
// It holds no mutable state, so one instance can serve concurrent Run calls.
type Transform struct {
	cfg     Config
	baseDir string
	reader  FileReader
	logger  *slog.Logger
}

// New creates a Transform. Empty paths default to "." and a zero priority
// to DefaultPriority.
func New(cfg Config, opts ...Option) *Transform {
	if cfg.ParentPath == "" {
		cfg.ParentPath = "."
	}
	if cfg.Path == "" {
		cfg.Path = "."
	}
	if cfg.Priority == 0 {
		cfg.Priority = DefaultPriority
	}

	t := &Transform{
		cfg:     cfg,
		baseDir: filepath.Join(cfg.ParentPath, cfg.Path),
		reader:  OSReader{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns a copy of the transform configuration.
func (t *Transform) Config() Config {
	return t.cfg
}

// BaseDir returns the directory relative insert paths are resolved against.
func (t *Transform) BaseDir() string {
	return t.baseDir
}

// Extend registers the transform in a host pipeline.
func (t *Transform) Extend(reg *pipeline.Registry) {
	reg.Register(t, Name, t.cfg.Priority)
}

// Run returns a copy of lines with every marker line replaced by the selected
// lines of its target file, each prefixed with the marker's indentation.
// Any failure aborts the whole run and no lines are returned.
func (t *Transform) Run(lines []string) ([]string, error) {
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		marker, ok := ParseMarker(line)
		if !ok {
			out = append(out, line)
			continue
		}

		inserted, err := t.expand(marker)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, inserted...)
	}

	return out, nil
}

// Resolve returns the path a marker target is read from.
func (t *Transform) Resolve(target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(t.baseDir, target)
}

func (t *Transform) expand(marker Marker) ([]string, error) {
	spans, err := ParseSpans(marker.Ranges)
	if err != nil {
		return nil, err
	}

	path := t.Resolve(marker.Path)
	content, err := t.reader.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	fileLines := splitLines(string(content))

	var selected []string
	if spans == nil {
		selected = fileLines
	} else {
		// Every span is checked against the file before it is copied, so the
		// output never grows past what the file can supply.
		for _, s := range spans {
			if s.Last >= len(fileLines) {
				return nil, &RangeOutOfBoundsError{Path: path, Index: max(s.First, len(fileLines)), Lines: len(fileLines)}
			}
			selected = append(selected, fileLines[s.First:s.Last+1]...)
		}
	}

	result := make([]string, len(selected))
	for i, l := range selected {
		result[i] = marker.Indent + l
	}

	t.logger.Debug("inserted file", "path", path, "ranges", marker.Ranges, "lines", len(result))
	return result, nil
}

// splitLines splits file content into lines. A final newline does not start
// an extra empty line and carriage returns are dropped.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
