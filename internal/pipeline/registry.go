package pipeline

import (
	"fmt"
	"sort"
)

// Preprocessor is a stage that rewrites the lines of a document before it is
// rendered.
type Preprocessor interface {
	Run(lines []string) ([]string, error)
}

// PreprocessorFunc adapts a function to the Preprocessor interface.
type PreprocessorFunc func(lines []string) ([]string, error)

// Run implements Preprocessor.
func (f PreprocessorFunc) Run(lines []string) ([]string, error) {
	return f(lines)
}

type entry struct {
	name     string
	priority int
	stage    Preprocessor
	seq      int
}

// Registry holds named preprocessors ordered by priority. Higher priorities
// run first; equal priorities run in registration order.
type Registry struct {
	entries []entry
	seq     int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds stage under name. Registering an existing name replaces it.
func (r *Registry) Register(stage Preprocessor, name string, priority int) {
	r.Deregister(name)
	r.seq++
	r.entries = append(r.entries, entry{
		name:     name,
		priority: priority,
		stage:    stage,
		seq:      r.seq,
	})
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].priority != r.entries[j].priority {
			return r.entries[i].priority > r.entries[j].priority
		}
		return r.entries[i].seq < r.entries[j].seq
	})
}

// Deregister removes the stage registered under name and reports whether it
// was present.
func (r *Registry) Deregister(name string) bool {
	for i, e := range r.entries {
		if e.name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the registered stage names in run order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered stages.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Run feeds lines through every stage in order. The output of one stage is
// the input of the next.
func (r *Registry) Run(lines []string) ([]string, error) {
	for _, e := range r.entries {
		out, err := e.stage.Run(lines)
		if err != nil {
			return nil, fmt.Errorf("preprocessor %s: %w", e.name, err)
		}
		lines = out
	}
	return lines, nil
}
