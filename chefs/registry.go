package chefs

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
)

// ErrChefNotFound is returned when no registered chef matches a lookup.
var ErrChefNotFound = errors.New("chef not found")

// Registry tracks chefs by name and by supported format. Safe for
// concurrent use.
type Registry struct {
	chefs   map[string]Chef // chef name -> chef
	formats map[string]Chef // normalized format -> chef
	logger  *slog.Logger
	mu      sync.RWMutex
}

// NewRegistry creates an empty chef registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		chefs:   make(map[string]Chef),
		formats: make(map[string]Chef),
		logger:  logger,
	}
}

// Register adds a chef. Names must be unique and no format may be claimed
// by two chefs.
func (r *Registry) Register(chef Chef) error {
	if chef == nil {
		return errors.New("cannot register nil chef")
	}

	name := chef.Name()
	if name == "" {
		return errors.New("chef must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chefs[name]; exists {
		return fmt.Errorf("chef with name %q already registered", name)
	}

	formats := chef.SupportedFormats()
	for _, format := range formats {
		format = NormalizeFormat(format)
		if format == "" {
			continue
		}
		if owner, exists := r.formats[format]; exists {
			return fmt.Errorf("format %q already claimed by chef %q", format, owner.Name())
		}
	}

	r.chefs[name] = chef
	for _, format := range formats {
		format = NormalizeFormat(format)
		if format == "" {
			continue
		}
		r.formats[format] = chef
	}

	r.logger.Info("Registered chef", "name", name, "formats", formats)
	return nil
}

// Get retrieves a chef by name.
func (r *Registry) Get(name string) (Chef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chef, ok := r.chefs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChefNotFound, name)
	}
	return chef, nil
}

// ForFormat retrieves the chef claiming a format ("pdf", ".md", "TXT").
func (r *Registry) ForFormat(format string) (Chef, error) {
	format = NormalizeFormat(format)
	if format == "" {
		return nil, fmt.Errorf("%w: empty format", ErrChefNotFound)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	chef, ok := r.formats[format]
	if !ok {
		return nil, fmt.Errorf("%w for format %s", ErrChefNotFound, format)
	}
	return chef, nil
}

// ForFile retrieves the chef for a file based on its extension.
func (r *Registry) ForFile(path string) (Chef, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%w for file %s: no extension", ErrChefNotFound, path)
	}
	chef, err := r.ForFormat(ext)
	if err != nil {
		return nil, fmt.Errorf("%w for file %s", ErrChefNotFound, path)
	}
	return chef, nil
}

// All returns the registered chefs sorted by name.
func (r *Registry) All() []Chef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chefs := make([]Chef, 0, len(r.chefs))
	for _, chef := range r.chefs {
		chefs = append(chefs, chef)
	}
	sort.Slice(chefs, func(i, j int) bool { return chefs[i].Name() < chefs[j].Name() })
	return chefs
}

// Formats returns every claimed format, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.formats))
	for format := range r.formats {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
