package regclient

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/locales/markers.yaml
var localeMarkersYAML []byte

// Locale Philosophy:
//
// This package provides MARKER VOCABULARY for citation correlation and display.
// It does NOT gate or translate answers - backends answer in whatever language
// the corpus and question use, and correlation falls back to the bare bracket
// pattern for locales with no registered labels.
//
// Use cases:
//  - Recognize "source [2]" / "출처 [1]" style markers while rendering
//  - Pick a display name for a locale in the UI
//  - Warn (not error) when a request names an unknown locale
//
// The embedded vocabulary may lag behind corpus growth. Library users can
// override it by:
//  1. Calling LoadLocalesFromFile() with custom YAML
//  2. Calling RegisterLocale() programmatically

// LocaleMarkers holds the citation marker vocabulary for one locale.
type LocaleMarkers struct {
	Name         string   `yaml:"name"`          // Display name (e.g., "Korean")
	MarkerLabels []string `yaml:"marker_labels"` // Words that may precede a bracketed number
}

// localeFile is the YAML document shape for marker vocabulary files.
type localeFile struct {
	Version     string                    `yaml:"version"`      // Semantic version (e.g., "1.0.0")
	LastUpdated string                    `yaml:"last_updated"` // ISO 8601 date
	Locales     map[string]*LocaleMarkers `yaml:"locales"`
}

// LocaleRegistry manages per-locale marker vocabulary.
type LocaleRegistry struct {
	locales map[string]*LocaleMarkers
	mu      sync.RWMutex
}

var (
	localeRegistry     *LocaleRegistry
	localeRegistryOnce sync.Once
)

// GetLocaleRegistry returns the global locale registry (singleton).
func GetLocaleRegistry() *LocaleRegistry {
	localeRegistryOnce.Do(func() {
		localeRegistry = &LocaleRegistry{
			locales: make(map[string]*LocaleMarkers),
		}
		// Load embedded marker vocabulary
		if err := localeRegistry.loadEmbeddedLocales(); err != nil {
			// Log error but don't panic - correlation falls back to the bare bracket pattern
			fmt.Printf("Warning: failed to load embedded locale markers: %v\n", err)
		}
	})
	return localeRegistry
}

// loadEmbeddedLocales loads the embedded marker YAML.
func (r *LocaleRegistry) loadEmbeddedLocales() error {
	var file localeFile
	if err := yaml.Unmarshal(localeMarkersYAML, &file); err != nil {
		return fmt.Errorf("failed to unmarshal locale markers: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for code, markers := range file.Locales {
		r.locales[code] = markers
	}

	return nil
}

// GetLocale returns the marker vocabulary for a locale code.
func (r *LocaleRegistry) GetLocale(code string) (*LocaleMarkers, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	markers, ok := r.locales[strings.ToLower(code)]
	if !ok {
		return nil, fmt.Errorf("no markers registered for locale: %s", code)
	}
	return markers, nil
}

// SupportsLocale checks if a locale has registered marker vocabulary.
func (r *LocaleRegistry) SupportsLocale(code string) bool {
	_, err := r.GetLocale(code)
	return err == nil
}

// MarkerLabels returns the marker words for a locale, or nil when the
// locale is unknown.
func (r *LocaleRegistry) MarkerLabels(code string) []string {
	markers, err := r.GetLocale(code)
	if err != nil {
		return nil
	}
	return markers.MarkerLabels
}

// AllMarkerLabels returns the deduplicated union of marker words across
// every registered locale, sorted for deterministic pattern construction.
// Answers routinely mix languages with their sources, so the default
// correlator recognizes every locale's vocabulary at once.
func (r *LocaleRegistry) AllMarkerLabels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var labels []string
	for _, markers := range r.locales {
		for _, label := range markers.MarkerLabels {
			key := strings.ToLower(label)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// LocaleCodes returns the registered locale codes, sorted.
func (r *LocaleRegistry) LocaleCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.locales))
	for code := range r.locales {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LoadLocalesFromFile loads marker vocabulary from a YAML file.
// This allows library users to override embedded vocabulary with custom data.
// The file format should match the embedded YAML structure.
func (r *LocaleRegistry) LoadLocalesFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read locale markers file: %w", err)
	}

	var file localeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal locale markers: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for code, markers := range file.Locales {
		r.locales[code] = markers
	}

	return nil
}

// RegisterLocale programmatically registers marker vocabulary for a locale.
// This allows library users to define vocabulary in code rather than YAML.
func (r *LocaleRegistry) RegisterLocale(code string, markers *LocaleMarkers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locales[strings.ToLower(code)] = markers
}

// LoadLocalesFromFile is a convenience function that calls the global registry's LoadLocalesFromFile.
func LoadLocalesFromFile(path string) error {
	return GetLocaleRegistry().LoadLocalesFromFile(path)
}

// RegisterLocale is a convenience function that calls the global registry's RegisterLocale.
func RegisterLocale(code string, markers *LocaleMarkers) {
	GetLocaleRegistry().RegisterLocale(code, markers)
}
