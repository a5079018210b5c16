package scrape

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all procurement sources. Selectors,
// URLs and jurisdiction lists are data, not code: disabling a flaky source
// or retuning its fetch budget is a config change.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// FetchConfig tunes a source's HTTP behavior.
type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"` // default 20
	MaxRetries     int `yaml:"max_retries,omitempty"`     // default 3
}

// SourceConfig defines one procurement source. Priority is the explicit
// first-seen-wins dedup order: lower wins, ties are a config error.
type SourceConfig struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Format   string      `yaml:"format"` // json, rss, html
	Priority int         `yaml:"priority"`
	Enabled  bool        `yaml:"enabled"`
	BaseURL  string      `yaml:"base_url"`
	APIKey   string      `yaml:"api_key,omitempty"`
	States   []string    `yaml:"states,omitempty"` // empty = all jurisdictions
	MaxPages int         `yaml:"max_pages,omitempty"`
	Fetch    FetchConfig `yaml:"fetch,omitempty"`
}

// LoadRegistry reads the embedded sources.yaml, expanding ${ENV} references
// (API keys stay out of the repo).
func LoadRegistry() (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded sources.yaml: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, fmt.Errorf("parse sources.yaml: %w", err)
	}

	seenID := make(map[string]bool, len(reg.Sources))
	seenPriority := make(map[int]string, len(reg.Sources))
	for _, src := range reg.Sources {
		if seenID[src.ID] {
			return nil, fmt.Errorf("duplicate source id %q", src.ID)
		}
		seenID[src.ID] = true
		if other, ok := seenPriority[src.Priority]; ok {
			return nil, fmt.Errorf("sources %q and %q share priority %d", other, src.ID, src.Priority)
		}
		seenPriority[src.Priority] = src.ID
	}

	sort.Slice(reg.Sources, func(i, j int) bool {
		return reg.Sources[i].Priority < reg.Sources[j].Priority
	})

	return &reg, nil
}

// Enabled returns the active sources in priority order.
func (r *Registry) Enabled() []SourceConfig {
	out := make([]SourceConfig, 0, len(r.Sources))
	for _, src := range r.Sources {
		if src.Enabled {
			out = append(out, src)
		}
	}
	return out
}

// Get returns the config for a source id.
func (r *Registry) Get(id string) (SourceConfig, bool) {
	for _, src := range r.Sources {
		if src.ID == id {
			return src, true
		}
	}
	return SourceConfig{}, false
}
