// Package registry loads, caches and serves parsed notations by code.
//
// The registry is the only shared mutable resource in the engine. All
// reads and writes against its internal maps are serialized through a
// single mutex, so a directory load in progress can never be observed
// in a half-built state: for any given code a reader sees either the
// pre-load or the fully committed post-load entry.
package registry

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/formery/formery/internal/compiler"
	"github.com/formery/formery/internal/logging"
	"github.com/formery/formery/pkg/domain"
	"github.com/formery/formery/pkg/observability"
)

// sourceExtensions are the file suffixes LoadDirectory treats as
// notation source; everything else is skipped silently.
var sourceExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// Registry is a concurrency-safe notation store.
type Registry struct {
	mu        sync.RWMutex
	notations map[string]*domain.Notation
	sources   map[string]string

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets a structured logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics wires load counters into a metric set.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		notations: make(map[string]*domain.Notation),
		sources:   make(map[string]string),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// loaded pairs one successfully parsed file with its raw text.
type loaded struct {
	notation *domain.Notation
	source   string
}

// LoadDirectory scans dir for notation source files, parses each and
// indexes the successfully parsed notations by code, returning them in
// scan order. Files whose extension does not match are skipped
// silently; files that fail to parse are skipped with a warning and do
// not abort the load.
//
// Parsing happens outside the lock; results are committed in a single
// critical section, so callers awaiting the return see every parsed
// file at once.
func (r *Registry) LoadDirectory(dir string, recursive bool) ([]*domain.Notation, error) {
	files, err := scan(dir, recursive)
	if err != nil {
		return nil, err
	}

	results := make([]loaded, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		n, err := compiler.Parse(data)
		if err != nil {
			r.logger.Warn("skipping unparseable notation file", "path", path, "err", err)
			if r.metrics != nil {
				r.metrics.ParseFailures.Inc()
			}
			continue
		}
		results = append(results, loaded{notation: n, source: string(data)})
	}

	r.mu.Lock()
	notations := make([]*domain.Notation, 0, len(results))
	for _, res := range results {
		code := res.notation.Code()
		if _, exists := r.notations[code]; exists {
			r.logger.Warn("replacing previously registered notation", "code", code)
		}
		r.notations[code] = res.notation
		r.sources[code] = res.source
		notations = append(notations, res.notation)
	}
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.NotationsLoaded.Add(float64(len(notations)))
	}
	r.logger.Info("notation directory loaded",
		"dir", dir, "parsed", len(notations), "scanned", len(files))
	return notations, nil
}

// AddNotation registers a programmatically constructed notation,
// replacing any previous entry for its code. No raw source is recorded.
func (r *Registry) AddNotation(n *domain.Notation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notations[n.Code()] = n
	delete(r.sources, n.Code())
}

// Notation returns the notation registered under code.
func (r *Registry) Notation(code string) (*domain.Notation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notations[code]
	return n, ok
}

// AllNotations returns every registered notation, ordered by code.
func (r *Registry) AllNotations() []*domain.Notation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.Notation, 0, len(r.notations))
	for _, n := range r.notations {
		all = append(all, n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code() < all[j].Code() })
	return all
}

// RawSource returns the original unparsed text a notation was loaded
// from. Absent for unknown codes and for notations registered through
// AddNotation.
func (r *Registry) RawSource(code string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[code]
	return src, ok
}

// scan collects candidate source files under dir, in lexical order.
func scan(dir string, recursive bool) ([]string, error) {
	var files []string
	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && sourceExtensions[filepath.Ext(path)] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && sourceExtensions[filepath.Ext(entry.Name())] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
