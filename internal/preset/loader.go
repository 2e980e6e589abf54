package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

var deckName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Paths helper for default/deck files.
type Paths struct {
	BaseDir string // base directory, e.g., /etc/raisehell/presets
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) DecksDir() string {
	return filepath.Join(p.BaseDir, "decks")
}
func (p Paths) DeckPath(deck string) string {
	return filepath.Join(p.DecksDir(), deck+".yaml")
}

// Loader reads YAML presets and merges default → deck.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawPreset // key: deck name, "" for default only
	gen   uint64               // bumped by Invalidate
}

// NewLoader creates a preset loader rooted at baseDir. An empty baseDir
// yields a loader that knows no decks.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawPreset),
	}
}

// Paths exposes the files the loader reads, for watchers.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → deck (deck optional).
// It returns the merged RawPreset without validation.
func (l *Loader) LoadMerged(deck string) (RawPreset, error) {
	if deck != "" && !deckName.MatchString(deck) {
		return RawPreset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, deck)
	}

	l.mu.RLock()
	cfg, ok := l.cache[deck]
	gen := l.gen
	l.mu.RUnlock()
	if ok {
		return cfg, nil
	}

	if l.paths.BaseDir == "" {
		if deck != "" {
			return RawPreset{}, fmt.Errorf("%w: %q (no preset directory configured)", ErrPresetNotFound, deck)
		}
		return RawPreset{}, nil
	}

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawPreset{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if deck != "" {
		deckCfg, found, err := readYAML(l.paths.DeckPath(deck))
		if err != nil {
			return RawPreset{}, fmt.Errorf("read deck %s: %w", deck, err)
		}
		if !found {
			return RawPreset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, deck)
		}
		merged = mergeRaw(merged, deckCfg)
	}

	l.store(deck, merged, gen)
	return merged, nil
}

// store caches raw unless the cache was invalidated since gen was read, in
// which case raw may predate the files on disk.
func (l *Loader) store(deck string, raw RawPreset, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == gen {
		l.cache[deck] = raw
	}
}

// List returns the deck names available under the decks directory.
func (l *Loader) List() ([]string, error) {
	if l.paths.BaseDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(l.paths.DecksDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var decks []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".yaml")
		if e.IsDir() || !ok || !deckName.MatchString(name) {
			continue
		}
		decks = append(decks, name)
	}
	sort.Strings(decks)
	return decks, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawPreset)
	l.gen++
}

// readYAML loads a YAML file into RawPreset. Missing files return a zero
// preset with found=false and no error.
func readYAML(path string) (RawPreset, bool, error) {
	var cfg RawPreset
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawPreset{}, false, nil
		}
		return RawPreset{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawPreset{}, true, fmt.Errorf("%w: %s: %v", ErrInvalidPreset, filepath.Base(path), err)
	}
	return cfg, true, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-zero/non-nil.
func mergeRaw(a, b RawPreset) RawPreset {
	out := a

	// top-level scalars
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// cascade
	out.Cascade.Triggers = pick(out.Cascade.Triggers, b.Cascade.Triggers)
	out.Cascade.PoolSize = pick(out.Cascade.PoolSize, b.Cascade.PoolSize)
	out.Cascade.Primary = pick(out.Cascade.Primary, b.Cascade.Primary)
	out.Cascade.Toggle = pick(out.Cascade.Toggle, b.Cascade.Toggle)
	out.Cascade.Secondary = pick(out.Cascade.Secondary, b.Cascade.Secondary)

	// simulation
	switch {
	case out.Simulation == nil && b.Simulation != nil:
		c := *b.Simulation
		out.Simulation = &c
	case out.Simulation != nil && b.Simulation != nil:
		c := *out.Simulation
		c.Trials = pick(c.Trials, b.Simulation.Trials)
		c.Seed = pick(c.Seed, b.Simulation.Seed)
		out.Simulation = &c
	}

	return out
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}
