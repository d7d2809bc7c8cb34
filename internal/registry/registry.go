// Package registry holds the famous-creator registry: a static, read-only
// lookup of known creators (authors, directors, photographers, historical
// figures) with per-entry signed-value multipliers and fame tiers. Loaded
// once at process start and injected into the pipeline; never mutated.
package registry

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Fame tiers seen in the registry file. Informational only; pricing keys
// off the per-entry multiplier, not the tier.
const (
	TierLiteraryIcon      = "literary_icon"
	TierBestsellingAuthor = "bestselling_author"
	TierCelebrity         = "celebrity"
	TierHistoricalFigure  = "historical_figure"
	TierAwardWinner       = "award_winner"
)

// firstEditionFraction and firstEditionFloor derive the unsigned
// first-edition multiplier from the signed one: unsigned first editions
// trade around a quarter of signed value, never below 2x.
const (
	firstEditionFraction = 0.25
	firstEditionFloor    = 2.0
)

// Entry describes one registered famous creator.
type Entry struct {
	Name             string   `yaml:"name" json:"name"`
	Tier             string   `yaml:"tier" json:"tier"`
	SignedMultiplier float64  `yaml:"signed_multiplier" json:"signed_multiplier"`
	Genres           []string `yaml:"genres,omitempty" json:"genres,omitempty"`
	Notes            string   `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// FirstEditionMultiplier is the unsigned first-edition multiplier derived
// from the signed multiplier.
func (e Entry) FirstEditionMultiplier() float64 {
	m := e.SignedMultiplier * firstEditionFraction
	if m < firstEditionFloor {
		m = firstEditionFloor
	}
	return m
}

// Registry is an immutable set of famous-creator entries with indexed
// lookups. Construct with Load or New.
type Registry struct {
	entries []Entry
	exact   map[string]int
	folded  map[string]int
	byLast  map[string]int // first insertion wins
}

// New builds a registry from entries, validating multipliers.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: entries,
		exact:   make(map[string]int, len(entries)),
		folded:  make(map[string]int, len(entries)),
		byLast:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Name == "" {
			return nil, eris.Errorf("registry: entry %d has no name", i)
		}
		if e.SignedMultiplier < 1 {
			return nil, eris.Errorf("registry: %s has signed multiplier %.2f, must be >= 1", e.Name, e.SignedMultiplier)
		}
		if _, dup := r.exact[e.Name]; dup {
			return nil, eris.Errorf("registry: duplicate entry %s", e.Name)
		}
		r.exact[e.Name] = i
		folded := strings.ToLower(e.Name)
		if _, ok := r.folded[folded]; !ok {
			r.folded[folded] = i
		}
		if last := lastToken(folded); last != "" {
			if _, ok := r.byLast[last]; !ok {
				r.byLast[last] = i
			}
		}
	}
	return r, nil
}

// Load reads the registry from a static YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}
	var doc struct {
		People []Entry `yaml:"people"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "registry: parse %s", path)
	}
	if len(doc.People) == 0 {
		return nil, eris.Errorf("registry: %s contains no entries", path)
	}
	return New(doc.People)
}

// Lookup resolves a normalized name to an entry. Exact match first, then
// case-insensitive, then last-name-only as a fallback for truncated input
// (ties broken by registry insertion order). The second return value
// distinguishes "not found" from a real entry, so callers can tell an
// ordinary book from a famous creator with a low multiplier.
func (r *Registry) Lookup(name string) (Entry, bool) {
	if name == "" {
		return Entry{}, false
	}
	if i, ok := r.exact[name]; ok {
		return r.entries[i], true
	}
	folded := strings.ToLower(name)
	if i, ok := r.folded[folded]; ok {
		return r.entries[i], true
	}
	if i, ok := r.byLast[lastToken(folded)]; ok {
		return r.entries[i], true
	}
	return Entry{}, false
}

// Resolve normalizes raw creator strings in order and returns the first
// one that matches a registry entry. At most one creator resolves per
// record; co-creator multipliers are never blended.
func (r *Registry) Resolve(creators []string) (Entry, bool) {
	for _, raw := range creators {
		if e, ok := r.Lookup(NormalizeName(raw)); ok {
			return e, true
		}
	}
	return Entry{}, false
}

// Len reports the number of registered creators.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns the entries in insertion order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
