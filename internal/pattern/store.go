package pattern

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store owns a collection of prompt patterns. Reads take a shared lock and
// operate on the current snapshot; mutations are serialized behind the write
// lock. Returned patterns are copies, so callers cannot alter store state.
type Store struct {
	mu       sync.RWMutex
	patterns []*PromptPattern // insertion order
	byID     map[string]int

	now func() time.Time
}

// NewStore creates an empty pattern store.
func NewStore() *Store {
	return &Store{
		byID: make(map[string]int),
		now:  time.Now,
	}
}

// Add inserts a pattern. An existing pattern with the same id is replaced in
// place, keeping its insertion position.
func (s *Store) Add(p *PromptPattern) error {
	if s == nil {
		return errors.New("pattern: nil store")
	}
	if p == nil {
		return errors.New("pattern: nil pattern")
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return errors.New("pattern: empty pattern id")
	}

	cp := p.Clone()
	cp.ID = id
	if strings.TrimSpace(cp.Model) == "" {
		cp.Model = ScopeGeneral
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.byID[id]; ok {
		s.patterns[idx] = cp
		return nil
	}
	s.byID[id] = len(s.patterns)
	s.patterns = append(s.patterns, cp)
	return nil
}

// Update replaces an existing pattern. Unknown ids are a no-op: the pattern
// may have been deleted concurrently by another caller.
func (s *Store) Update(p *PromptPattern) bool {
	if s == nil || p == nil {
		return false
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[id]
	if !ok {
		return false
	}
	cp := p.Clone()
	cp.ID = id
	if strings.TrimSpace(cp.Model) == "" {
		cp.Model = ScopeGeneral
	}
	s.patterns[idx] = cp
	return true
}

// Delete removes a pattern by id. Unknown ids are a no-op.
func (s *Store) Delete(id string) bool {
	if s == nil {
		return false
	}
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[id]
	if !ok {
		return false
	}
	s.patterns = append(s.patterns[:idx], s.patterns[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.patterns); i++ {
		s.byID[s.patterns[i].ID] = i
	}
	return true
}

// Get returns a copy of the pattern with the given id.
func (s *Store) Get(id string) (*PromptPattern, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, false
	}
	return s.patterns[idx].Clone(), true
}

// Len returns the number of stored patterns.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns)
}

// All returns copies of every pattern in insertion order.
func (s *Store) All() []*PromptPattern {
	return s.filter(func(*PromptPattern) bool { return true })
}

// ByCategory returns patterns whose category matches exactly.
func (s *Store) ByCategory(category string) []*PromptPattern {
	category = strings.TrimSpace(category)
	return s.filter(func(p *PromptPattern) bool {
		return p.Category == category
	})
}

// ByModel returns patterns scoped to the model or to "general".
func (s *Store) ByModel(model string) []*PromptPattern {
	model = strings.TrimSpace(model)
	return s.filter(func(p *PromptPattern) bool {
		return p.Model == model || p.Model == ScopeGeneral
	})
}

// ByTags returns patterns carrying at least one of the given tags.
func (s *Store) ByTags(tags []string) []*PromptPattern {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			want[t] = struct{}{}
		}
	}
	if len(want) == 0 {
		return nil
	}

	return s.filter(func(p *PromptPattern) bool {
		for _, t := range p.Tags {
			if _, ok := want[strings.ToLower(strings.TrimSpace(t))]; ok {
				return true
			}
		}
		return false
	})
}

func (s *Store) filter(keep func(*PromptPattern) bool) []*PromptPattern {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*PromptPattern
	for _, p := range s.patterns {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// RecordOutcome folds one success or failure into a pattern's running stats:
// usage count increments, the success rate absorbs the new sample, and the
// last-used timestamp advances. Unknown ids are a no-op, since a pattern may
// be deleted concurrently with a stat update from a stale reference.
func (s *Store) RecordOutcome(id string, success bool) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return
	}

	p := s.patterns[idx]
	oldCount := p.UsageCount
	newCount := oldCount + 1
	sample := 0.0
	if success {
		sample = 1.0
	}
	p.SuccessRate = (p.SuccessRate*float64(oldCount) + sample) / float64(newCount)
	p.UsageCount = newCount
	p.LastUsed = s.now()
}

// FindMatching returns patterns for the category whose compiled template
// matches the prompt and whose model scope covers the requested model, sorted
// by descending success rate. Ties keep insertion order. An empty category
// matches every category.
func (s *Store) FindMatching(prompt, category, model string) []*PromptPattern {
	category = strings.TrimSpace(category)
	model = strings.TrimSpace(model)

	out := s.filter(func(p *PromptPattern) bool {
		if category != "" && p.Category != category {
			return false
		}
		if p.Model != model && p.Model != ScopeGeneral {
			return false
		}
		return Compile(p.Template).Matches(prompt)
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuccessRate > out[j].SuccessRate
	})
	return out
}

// MatchesAny reports whether any stored pattern matches the prompt for the
// given category and model scope.
func (s *Store) MatchesAny(prompt, category, model string) bool {
	return len(s.FindMatching(prompt, category, model)) > 0
}

// Suggest scores every pattern scoped to the model (or "general") against the
// prompt and returns those above the 0.5 confidence threshold, best first,
// with extracted placeholder values attached.
func (s *Store) Suggest(prompt, model string) []Suggestion {
	candidates := s.ByModel(model)

	var out []Suggestion
	for _, p := range candidates {
		conf := Confidence(p.Template, prompt)
		if conf <= 0.5 {
			continue
		}
		out = append(out, Suggestion{
			Pattern:    p,
			Confidence: conf,
			Variables:  Compile(p.Template).Extract(prompt),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}
