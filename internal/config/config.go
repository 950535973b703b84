package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AngelCh415/verification-stats/internal/columns"
	"github.com/AngelCh415/verification-stats/internal/models"
)

type Config struct {
	CampaignsDir    string
	CampaignsURL    string
	AliasesPath     string
	SinkURL         string
	SinkSecret      string
	Port            string
	HTTPTimeout     time.Duration
	LoadConcurrency int
	LogLevel        slog.Level
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	conc := 4
	if n, err := strconv.Atoi(os.Getenv("LOAD_CONCURRENCY")); err == nil && n > 0 {
		conc = n
	}
	return Config{
		CampaignsDir:    envOr("CAMPAIGNS_DIR", "./campaigns"),
		CampaignsURL:    os.Getenv("CAMPAIGNS_URL"),
		AliasesPath:     os.Getenv("ALIASES_PATH"),
		SinkURL:         os.Getenv("SINK_URL"),
		SinkSecret:      os.Getenv("SINK_SECRET"),
		Port:            envOr("PORT", "8080"),
		HTTPTimeout:     to,
		LoadConcurrency: conc,
		LogLevel:        lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// aliasFile is the YAML shape of an alias override file.
type aliasFile struct {
	Resolve map[string][]string `yaml:"resolve"`
	Sheets  map[string][]string `yaml:"sheets"`
}

// LoadAliases returns the default alias tables overridden by the YAML file at
// path. An empty path returns the defaults. Roles absent from the file keep
// their defaults; aliases are lower-cased and trimmed.
func LoadAliases(path string) (columns.Aliases, error) {
	al := columns.DefaultAliases()
	if path == "" {
		return al, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return al, err
	}
	var f aliasFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return al, fmt.Errorf("%s: %w", path, err)
	}
	if err := override(al.Resolve, f.Resolve); err != nil {
		return al, fmt.Errorf("%s: resolve: %w", path, err)
	}
	if err := override(al.Sheets, f.Sheets); err != nil {
		return al, fmt.Errorf("%s: sheets: %w", path, err)
	}
	slog.Info("loaded aliases", slog.String("path", path))
	return al, nil
}

func override(dst columns.RoleAliases, src map[string][]string) error {
	for k, list := range src {
		role := models.Role(k)
		if _, ok := dst[role]; !ok {
			return fmt.Errorf("unknown role %q (want one of %s)", k, roleNames())
		}
		norm := make([]string, 0, len(list))
		for _, a := range list {
			if a = models.NormalizeLabel(a); a != "" {
				norm = append(norm, a)
			}
		}
		dst[role] = norm
	}
	return nil
}

func roleNames() string {
	names := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
