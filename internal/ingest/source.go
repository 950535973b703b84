package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AngelCh415/verification-stats/internal/models"
)

// Source yields campaign workbooks. Load returns every sheet; picking the
// data sheets is left to the caller.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, campaign string) ([]models.Sheet, error)
}

var ErrUnknownCampaign = errors.New("unknown campaign")

// NormalizeManifest trims entries, drops blanks, appends .xlsx when no
// supported extension is present and removes case-insensitive duplicates
// keeping the first spelling.
func NormalizeManifest(entries []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(entries))
	for _, f := range entries {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		switch strings.ToLower(filepath.Ext(f)) {
		case ".xlsx", ".csv":
		default:
			f += ".xlsx"
		}
		key := strings.ToLower(f)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

func headerRowToSheet(name string, rows [][]string) models.Sheet {
	sh := models.Sheet{Name: name}
	if len(rows) == 0 {
		return sh
	}
	header := rows[0]
	cols := make([]int, 0, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			continue
		}
		// a repeated label keeps its first column
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		cols = append(cols, i)
		sh.Headers = append(sh.Headers, h)
	}
	for _, raw := range rows[1:] {
		if blankRow(raw) {
			continue
		}
		rec := make(models.Record, len(cols))
		for _, i := range cols {
			cell := ""
			if i < len(raw) {
				cell = raw[i]
			}
			rec[header[i]] = models.ParseCell(cell)
		}
		sh.Rows = append(sh.Rows, rec)
	}
	return sh
}

func blankRow(raw []string) bool {
	for _, c := range raw {
		if c != "" {
			return false
		}
	}
	return true
}

func loadErr(campaign string, err error) error {
	return fmt.Errorf("load campaign %s: %w", campaign, err)
}
