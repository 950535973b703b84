package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/verification-stats/internal/campaign"
	"github.com/AngelCh415/verification-stats/internal/ingest"
	"github.com/AngelCh415/verification-stats/internal/metrics"
	"github.com/AngelCh415/verification-stats/internal/sink"
	"github.com/AngelCh415/verification-stats/internal/utils"
)

func NewRouter(log *slog.Logger, svc *metrics.Service, exp *sink.Exporter, reg prometheus.Gatherer) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.Get("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Campaigns(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, 200, list)
	})

	mux.Post("/campaigns/load", func(w http.ResponseWriter, r *http.Request) {
		failed, err := svc.LoadAll(r.Context(), r.URL.Query()["id"])
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		msgs := make(map[string]string, len(failed))
		for id, ferr := range failed {
			msgs[id] = ferr.Error()
		}
		writeJSON(w, 200, map[string]any{"loaded": svc.Overall().Campaigns, "failures": msgs})
	})

	loadOne := func(w http.ResponseWriter, r *http.Request) {
		sum, err := svc.Load(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, err.Error(), loadStatus(err))
			return
		}
		writeJSON(w, 200, sum)
	}
	mux.Get("/campaigns/{id}", loadOne)
	mux.Post("/campaigns/{id}/load", loadOne)

	mux.Get("/overall", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, svc.Overall())
	})

	mux.Get("/overall/filters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, svc.Filters())
	})

	mux.Get("/overall/period", func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Period(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, 200, view)
	})

	mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Period(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		id, err := exp.Export(r.Context(), svc.Overall().Campaigns, view)
		if errors.Is(err, sink.ErrNotConfigured) {
			http.Error(w, err.Error(), 503)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, 200, map[string]any{"exported": id})
	})

	return mux
}

// loadStatus maps a campaign load error onto an HTTP status.
func loadStatus(err error) int {
	var (
		missing *campaign.MissingColumnsError
		empty   *campaign.EmptyCampaignError
	)
	switch {
	case errors.Is(err, ingest.ErrUnknownCampaign):
		return http.StatusNotFound
	case errors.As(err, &missing), errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
