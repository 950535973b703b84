package sink

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/verification-stats/internal/ingest"
	"github.com/AngelCh415/verification-stats/internal/models"
	"github.com/AngelCh415/verification-stats/internal/utils"
)

var ErrNotConfigured = errors.New("sink not configured")

// Exporter posts period snapshots to a webhook signed with HMAC-SHA256.
type Exporter struct {
	c       ingest.HTTPClient
	url     string
	secret  string
	log     *slog.Logger
	backoff utils.Backoff
}

func NewExporter(c ingest.HTTPClient, url, secret string, log *slog.Logger) *Exporter {
	return &Exporter{c: c, url: url, secret: secret, log: log, backoff: utils.NewBackoff(200*time.Millisecond, 3)}
}

// Snapshot is the exported payload.
type Snapshot struct {
	ID         string            `json:"id"`
	ExportedAt time.Time         `json:"exported_at"`
	Campaigns  int               `json:"campaigns"`
	View       models.PeriodView `json:"view"`
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Export sends one snapshot and returns its id. Transport errors and 5xx
// responses are retried with backoff.
func (e *Exporter) Export(ctx context.Context, campaigns int, view models.PeriodView) (string, error) {
	if e.url == "" || e.secret == "" {
		return "", ErrNotConfigured
	}
	snap := Snapshot{ID: uuid.NewString(), ExportedAt: time.Now().UTC(), Campaigns: campaigns, View: view}
	b, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	sig := Sign(e.secret, b)
	err = e.backoff.Do(ctx, func(i int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(b))
		if err != nil {
			return utils.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Signature", sig)
		req.Header.Set("X-Snapshot-ID", snap.ID)
		resp, err := e.c.Do(req)
		if err != nil {
			e.log.Debug("export attempt failed", slog.Int("attempt", i), slog.String("err", err.Error()))
			return err
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("export sink: %s", resp.Status)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return utils.Permanent(fmt.Errorf("export sink non-2xx: %s", resp.Status))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	e.log.Info("snapshot exported", slog.String("id", snap.ID), slog.String("month", view.Filter.Month), slog.String("status", view.Filter.Status))
	return snap.ID, nil
}
