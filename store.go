package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed data/*.json
var embeddedData embed.FS

// Fixture file names inside a data directory
const (
	PersonasFile   = "personas.json"
	TaxDataFile    = "tax-data.json"
	SpendingFile   = "spending-data.json"
	InfluenceFile  = "influence-data.json"
	EngagementFile = "engagement-data.json"
)

// ErrPersonaNotFound is returned when a persona id is not in the fixtures
var ErrPersonaNotFound = errors.New("persona not found")

// Store holds the parsed, validated fixtures. It is never mutated after
// LoadStore returns; a reload builds a new Store.
type Store struct {
	personas   []Persona
	byID       map[string]int
	Tax        TaxData
	Spending   SpendingData
	Influence  InfluenceData
	Engagement EngagementData
}

// EmbeddedData returns the fixtures compiled into the binary
func EmbeddedData() fs.FS {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		// Only fails for an invalid path literal
		panic(err)
	}
	return sub
}

// DataSource returns the configured fixture directory, or the embedded copy
func DataSource(cfg DataConfig) fs.FS {
	if cfg.Dir == "" {
		return EmbeddedData()
	}
	return os.DirFS(cfg.Dir)
}

// decodeFile reads and decodes one JSON fixture
func decodeFile(source fs.FS, name string, v any) error {
	data, err := fs.ReadFile(source, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// LoadStore reads all fixtures concurrently and validates them. Any missing or
// malformed document fails the whole load.
func LoadStore(ctx context.Context, source fs.FS) (*Store, error) {
	var (
		personas PersonasDocument
		store    Store
	)

	eg, egCtx := errgroup.WithContext(ctx)
	files := []struct {
		name string
		dst  any
	}{
		{PersonasFile, &personas},
		{TaxDataFile, &store.Tax},
		{SpendingFile, &store.Spending},
		{InfluenceFile, &store.Influence},
		{EngagementFile, &store.Engagement},
	}
	for _, f := range files {
		f := f
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return decodeFile(source, f.name, f.dst)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := ValidatePersonas(personas.Personas); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PersonasFile, err)
	}
	if err := ValidateTaxData(store.Tax); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TaxDataFile, err)
	}
	if err := ValidateEngagementData(store.Engagement); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EngagementFile, err)
	}

	store.personas = personas.Personas
	store.byID = make(map[string]int, len(store.personas))
	for i, p := range store.personas {
		store.byID[p.ID] = i
	}

	Log.Debug("Fixtures loaded",
		zap.Int("personas", len(store.personas)),
		zap.Int("federal_brackets", len(store.Tax.TaxRates.Federal)))

	return &store, nil
}

// Personas returns the personas in fixture order
func (s *Store) Personas() []Persona {
	out := make([]Persona, len(s.personas))
	copy(out, s.personas)
	return out
}

// Persona looks up a persona by id
func (s *Store) Persona(id string) (Persona, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Persona{}, false
	}
	return s.personas[i], true
}

// Municipalities returns every municipality the rate schedule knows about,
// in the order of the cantonal list followed by map-only names sorted
func (s *Store) Municipalities() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range s.Tax.TaxRates.Cantonal.Multipliers {
		if !seen[m.Municipality] {
			seen[m.Municipality] = true
			names = append(names, m.Municipality)
		}
	}
	var extra []string
	for name := range s.Tax.TaxRates.Municipal {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// StoreHolder gives request handlers a consistent snapshot while the reload
// watcher swaps in new fixtures
type StoreHolder struct {
	mu    sync.RWMutex
	store *Store
}

// NewStoreHolder wraps an already loaded store
func NewStoreHolder(store *Store) *StoreHolder {
	return &StoreHolder{store: store}
}

// Get returns the current store
func (h *StoreHolder) Get() *Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store
}

// Set replaces the current store
func (h *StoreHolder) Set(store *Store) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store = store
}
