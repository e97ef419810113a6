package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/errs"
)

// Registry holds the loaded, immutable weight artifacts keyed by version.
// Artifacts are loaded once at startup; there is no runtime learning.
type Registry struct {
	mu             sync.RWMutex
	byVersion      map[string]models.ModelWeights
	defaultVersion string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byVersion: make(map[string]models.ModelWeights)}
}

// Register adds a weights artifact. The first registered version becomes the
// default unless SetDefault overrides it. Malformed artifacts fail loudly.
func (r *Registry) Register(w models.ModelWeights) error {
	if err := validateWeights(w); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byVersion[w.Version] = w
	if r.defaultVersion == "" {
		r.defaultVersion = w.Version
	}
	return nil
}

// SetDefault selects the version used when a scoring call names none.
func (r *Registry) SetDefault(version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byVersion[version]; !ok {
		return errs.ModelUnavailable(version)
	}
	r.defaultVersion = version
	return nil
}

// Get resolves a version, or the default for "".
func (r *Registry) Get(version string) (models.ModelWeights, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if version == "" {
		version = r.defaultVersion
	}
	w, ok := r.byVersion[version]
	if !ok {
		return models.ModelWeights{}, errs.ModelUnavailable(version)
	}
	return w, nil
}

// Versions lists the loaded versions, sorted.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byVersion))
	for v := range r.byVersion {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// LoadDir loads every *.json weights artifact under dir into a registry.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read model dir: %w", err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read model %s: %w", path, err)
		}
		var w models.ModelWeights
		if err := json.Unmarshal(b, &w); err != nil {
			return nil, fmt.Errorf("parse model %s: %w", path, err)
		}
		if err := reg.Register(w); err != nil {
			return nil, fmt.Errorf("register model %s: %w", path, err)
		}
	}
	if len(reg.Versions()) == 0 {
		return nil, fmt.Errorf("no model artifacts found in %s", dir)
	}
	return reg, nil
}
