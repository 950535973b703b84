package store

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/AngelCh415/verification-stats/internal/models"
	"github.com/AngelCh415/verification-stats/internal/overall"
)

// MemoryStore holds the loaded campaigns and the overall aggregate derived
// from them. Insert and recompute happen under one lock, so readers never see
// a loaded set and an aggregate that disagree.
type MemoryStore struct {
	mu      sync.RWMutex
	loaded  map[string]*models.CampaignSummary
	overall models.OverallAggregate
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{loaded: make(map[string]*models.CampaignSummary)}
	s.overall = overall.Aggregate(nil)
	return s
}

// Put caches a summary and rebuilds the overall aggregate from scratch. A
// summary already cached under id is kept and reported with false.
func (s *MemoryStore) Put(id string, sum *models.CampaignSummary) (*models.CampaignSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.loaded[id]; ok {
		return prev, false
	}
	s.loaded[id] = sum
	s.overall = overall.Aggregate(s.sortedLocked())
	return sum, true
}

func (s *MemoryStore) Get(id string) (*models.CampaignSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.loaded[id]
	return sum, ok
}

// All returns the loaded summaries ordered by campaign id.
func (s *MemoryStore) All() []*models.CampaignSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loaded)
}

func (s *MemoryStore) Overall() models.OverallAggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overall
}

func (s *MemoryStore) sortedLocked() []*models.CampaignSummary {
	ids := lo.Keys(s.loaded)
	sort.Strings(ids)
	return lo.Map(ids, func(id string, _ int) *models.CampaignSummary { return s.loaded[id] })
}
