package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/verification-stats/internal/models"
)

// HTTPSource fetches campaigns from a JSON endpoint:
//
//	GET <base>/manifest.json          manifest in any supported shape
//	GET <base>/campaigns/<campaign>   {"sheets":[{"name":..,"headers":[..],"rows":[{..}]}]}
type HTTPSource struct {
	base string
	c    HTTPClient
}

func NewHTTPSource(base string, c HTTPClient) *HTTPSource {
	return &HTTPSource{base: strings.TrimRight(base, "/"), c: c}
}

type remoteWorkbook struct {
	Sheets []struct {
		Name    string           `json:"name"`
		Headers []string         `json:"headers"`
		Rows    []map[string]any `json:"rows"`
	} `json:"sheets"`
}

func (s *HTTPSource) List(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := GetJSONWithRetry(ctx, s.c, s.base+"/manifest.json", &raw); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	files, err := parseManifest(raw, false)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return NormalizeManifest(files), nil
}

// Load makes a single attempt; a failed load is retried by calling Load again.
func (s *HTTPSource) Load(ctx context.Context, campaign string) ([]models.Sheet, error) {
	var wb remoteWorkbook
	err := getJSON(ctx, s.c, s.base+"/campaigns/"+url.PathEscape(campaign), &wb)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		err = fmt.Errorf("%w: %v", ErrUnknownCampaign, err)
	}
	if err != nil {
		return nil, loadErr(campaign, err)
	}
	out := make([]models.Sheet, 0, len(wb.Sheets))
	for _, sh := range wb.Sheets {
		sheet := models.Sheet{Name: sh.Name, Headers: sh.Headers}
		for _, row := range sh.Rows {
			rec := make(models.Record, len(row))
			for k, v := range row {
				rec[k] = jsonValue(v)
			}
			sheet.Rows = append(sheet.Rows, rec)
		}
		out = append(out, sheet)
	}
	return out, nil
}

func jsonValue(v any) models.Value {
	switch x := v.(type) {
	case nil:
		return models.Empty()
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return models.Number(f)
		}
		return models.Text(x.String())
	case string:
		if x == "" {
			return models.Empty()
		}
		return models.Text(x)
	case bool:
		return models.Text(strconv.FormatBool(x))
	}
	return models.Text(fmt.Sprint(v))
}
