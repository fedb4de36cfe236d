// Package registry associates fully-qualified type-name patterns with the
// synthetic child providers and summary formatters a debugger frontend
// consults when displaying a value. Pattern matching lives here, outside the
// printers themselves.
package registry

import (
	"fmt"
	"regexp"

	"github.com/alloyengine/peek/internal/valobj"
)

type (
	// Synthetic fabricates a custom set of displayable children for a value,
	// overriding the default raw-field view. Implementations are total:
	// out-of-range indexes yield nil children and unknown names yield -1,
	// never an error.
	Synthetic interface {
		NumChildren() int
		ChildAtIndex(index int) valobj.Value
		ChildIndex(name string) int
	}

	// SyntheticFactory binds a provider to one inspected value. Called on
	// every inspection pass so children reflect current target memory.
	SyntheticFactory func(v valobj.Value) Synthetic

	// SummaryFunc renders a one-line description of a value for collapsed
	// display. It must return a printable string for any input.
	SummaryFunc func(v valobj.Value) string

	// Printer carries the hooks registered for a type. Either may be nil.
	Printer struct {
		Synthetic SyntheticFactory
		Summary   SummaryFunc
	}

	Registry struct {
		synthetics []syntheticEntry
		summaries  []summaryEntry
	}

	syntheticEntry struct {
		pattern *regexp.Regexp
		factory SyntheticFactory
	}

	summaryEntry struct {
		pattern *regexp.Regexp
		summary SummaryFunc
	}
)

func New() *Registry {
	return &Registry{}
}

// AddSynthetic registers a child provider for type names matching pattern.
func (r *Registry) AddSynthetic(pattern string, factory SyntheticFactory) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("synthetic pattern %q: %w", pattern, err)
	}
	r.synthetics = append(r.synthetics, syntheticEntry{pattern: re, factory: factory})
	return nil
}

// AddSummary registers a summary formatter for type names matching pattern.
func (r *Registry) AddSummary(pattern string, summary SummaryFunc) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("summary pattern %q: %w", pattern, err)
	}
	r.summaries = append(r.summaries, summaryEntry{pattern: re, summary: summary})
	return nil
}

// Lookup matches typeName against the registered patterns. Synthetic and
// summary hooks match independently, first registered pattern wins in each
// list. The second return is false when neither hook matched.
func (r *Registry) Lookup(typeName string) (Printer, bool) {
	var p Printer
	for _, e := range r.synthetics {
		if e.pattern.MatchString(typeName) {
			p.Synthetic = e.factory
			break
		}
	}
	for _, e := range r.summaries {
		if e.pattern.MatchString(typeName) {
			p.Summary = e.summary
			break
		}
	}
	return p, p.Synthetic != nil || p.Summary != nil
}
