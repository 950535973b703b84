package metrics

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/AngelCh415/verification-stats/internal/campaign"
	"github.com/AngelCh415/verification-stats/internal/columns"
	"github.com/AngelCh415/verification-stats/internal/ingest"
	"github.com/AngelCh415/verification-stats/internal/models"
	"github.com/AngelCh415/verification-stats/internal/period"
	"github.com/AngelCh415/verification-stats/internal/store"
)

type Service struct {
	st          *store.MemoryStore
	src         ingest.Source
	aliases     columns.Aliases
	log         *slog.Logger
	m           *Collectors
	concurrency int
	loads       singleflight.Group
}

func NewService(st *store.MemoryStore, src ingest.Source, aliases columns.Aliases, log *slog.Logger, m *Collectors, concurrency int) *Service {
	return &Service{st: st, src: src, aliases: aliases, log: log, m: m, concurrency: max(1, concurrency)}
}

// CampaignInfo is one entry of the campaign listing.
type CampaignInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Loaded bool   `json:"loaded"`
	Total  int    `json:"total,omitempty"`
}

func (s *Service) Campaigns(ctx context.Context) ([]CampaignInfo, error) {
	ids, err := s.src.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CampaignInfo, 0, len(ids))
	for _, id := range ids {
		ci := CampaignInfo{ID: id, Title: campaign.Title(id)}
		if sum, ok := s.st.Get(id); ok {
			ci.Loaded, ci.Total = true, sum.Total
		}
		out = append(out, ci)
	}
	return out, nil
}

// Load returns the cached summary for id, or fetches and aggregates it and
// adds it to the loaded set. A failure caches nothing; calling Load again
// retries. Concurrent loads of the same campaign share one fetch, which is
// not cancelled when the caller that started it goes away.
func (s *Service) Load(ctx context.Context, id string) (*models.CampaignSummary, error) {
	if sum, ok := s.st.Get(id); ok {
		return sum, nil
	}
	v, err, _ := s.loads.Do(id, func() (any, error) {
		if sum, ok := s.st.Get(id); ok {
			return sum, nil
		}
		return s.load(context.WithoutCancel(ctx), id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.CampaignSummary), nil
}

func (s *Service) load(ctx context.Context, id string) (*models.CampaignSummary, error) {
	start := time.Now()
	sum, err := s.aggregate(ctx, id)
	s.m.Loads.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		s.log.Warn("campaign load failed", slog.String("campaign", id), slog.String("err", err.Error()))
		return nil, err
	}
	sum, added := s.st.Put(id, sum)
	s.m.LoadSeconds.Observe(time.Since(start).Seconds())
	if added {
		agg := s.st.Overall()
		s.m.Recomputes.Inc()
		s.m.Loaded.Set(float64(agg.Campaigns))
		s.log.Info("campaign loaded", slog.String("campaign", id), slog.Int("total", sum.Total), slog.Duration("took", time.Since(start)))
		s.log.Debug("overall recomputed", slog.Int("campaigns", agg.Campaigns), slog.Int("total", agg.Total))
	}
	return sum, nil
}

func (s *Service) aggregate(ctx context.Context, id string) (*models.CampaignSummary, error) {
	sheets, err := s.src.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	table := columns.SelectSheets(sheets, s.aliases.Sheets)
	return campaign.Aggregate(id, table, s.aliases.Resolve)
}

// LoadAll loads ids (every listed campaign when ids is empty) with bounded
// parallelism. Failures are returned per campaign and never stop the others.
func (s *Service) LoadAll(ctx context.Context, ids []string) (map[string]error, error) {
	if len(ids) == 0 {
		listed, err := s.src.List(ctx)
		if err != nil {
			return nil, err
		}
		ids = listed
	}
	var (
		mu     sync.Mutex
		failed = map[string]error{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := s.Load(gctx, id); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed, nil
}

func (s *Service) Get(id string) (*models.CampaignSummary, bool) { return s.st.Get(id) }

func (s *Service) Overall() models.OverallAggregate { return s.st.Overall() }

// FilterOptions are the selectable values for the period filter.
type FilterOptions struct {
	Months   []string `json:"months"`
	Statuses []string `json:"statuses"`
}

func (s *Service) Filters() FilterOptions {
	months, statuses := period.Options(s.st.Overall())
	return FilterOptions{Months: months, Statuses: statuses}
}

// Period resolves the view for the month and status query parameters.
func (s *Service) Period(v url.Values) (models.PeriodView, error) {
	f, err := period.ParseFilter(v.Get("month"), v.Get("status"))
	if err != nil {
		return models.PeriodView{}, err
	}
	s.m.Periods.Inc()
	return period.Resolve(s.st.Overall(), f), nil
}
