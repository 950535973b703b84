package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/AngelCh415/verification-stats/internal/models"
)

var manifestNames = []string{"manifest.json", "manifest.yaml", "manifest.yml"}

// DirSource reads campaigns listed in a manifest inside Dir. Workbooks are
// .xlsx files read sheet by sheet; .csv files are a single sheet.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource { return &DirSource{Dir: dir} }

func (s *DirSource) List(ctx context.Context) ([]string, error) {
	for _, name := range manifestNames {
		b, err := os.ReadFile(filepath.Join(s.Dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		files, err := parseManifest(b, filepath.Ext(name) != ".json")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return NormalizeManifest(files), nil
	}
	return nil, fmt.Errorf("no manifest in %s", s.Dir)
}

func (s *DirSource) Load(ctx context.Context, campaign string) ([]models.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if campaign != filepath.Base(campaign) {
		return nil, loadErr(campaign, ErrUnknownCampaign)
	}
	path := filepath.Join(s.Dir, campaign)
	var (
		sheets []models.Sheet
		err    error
	)
	switch strings.ToLower(filepath.Ext(campaign)) {
	case ".csv":
		sheets, err = readCSV(path)
	default:
		sheets, err = readWorkbook(path)
	}
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %v", ErrUnknownCampaign, err)
	}
	if err != nil {
		return nil, loadErr(campaign, err)
	}
	return sheets, nil
}

func readWorkbook(path string) ([]models.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []models.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		out = append(out, headerRowToSheet(name, rows))
	}
	return out, nil
}

func readCSV(path string) ([]models.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []models.Sheet{headerRowToSheet(name, rows)}, nil
}

func parseManifest(b []byte, isYAML bool) ([]string, error) {
	unmarshal := json.Unmarshal
	if isYAML {
		unmarshal = yaml.Unmarshal
	}
	var list []any
	if err := unmarshal(b, &list); err != nil {
		var m map[string]any
		if err := unmarshal(b, &m); err != nil {
			return nil, err
		}
		list = manifestList(m)
	}
	return lo.FilterMap(list, func(v any, _ int) (string, bool) { return entryName(v) }), nil
}

// manifestList prefers "files" over "campaigns".
func manifestList(m map[string]any) []any {
	for _, k := range []string{"files", "campaigns"} {
		if l, ok := m[k].([]any); ok {
			return l
		}
	}
	return nil
}

func entryName(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case map[string]any:
		s, ok := x["file"].(string)
		return s, ok
	}
	return "", false
}
