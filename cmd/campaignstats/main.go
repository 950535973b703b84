package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/verification-stats/internal/config"
	"github.com/AngelCh415/verification-stats/internal/ingest"
	"github.com/AngelCh415/verification-stats/internal/metrics"
	"github.com/AngelCh415/verification-stats/internal/period"
	"github.com/AngelCh415/verification-stats/internal/store"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	dir         string
	url         string
	aliases     string
	concurrency int
	verbose     bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg := config.FromEnv()
	opts := &options{}
	root := &cobra.Command{
		Use:           "campaignstats",
		Short:         "Aggregate verification campaigns into dashboard statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.dir, "dir", cfg.CampaignsDir, "directory holding manifest and campaign files")
	root.PersistentFlags().StringVar(&opts.url, "url", cfg.CampaignsURL, "base URL of a JSON campaign source (overrides --dir)")
	root.PersistentFlags().StringVar(&opts.aliases, "aliases", cfg.AliasesPath, "YAML file overriding column aliases")
	root.PersistentFlags().IntVar(&opts.concurrency, "concurrency", cfg.LoadConcurrency, "campaigns loaded in parallel")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newCampaignsCmd(opts), newReportCmd(opts))
	return root
}

func newService(cmd *cobra.Command, opts *options) (*metrics.Service, error) {
	lvl := slog.LevelInfo
	if opts.verbose {
		lvl = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)

	aliases, err := config.LoadAliases(opts.aliases)
	if err != nil {
		return nil, err
	}
	var src ingest.Source = ingest.NewDirSource(opts.dir)
	if opts.url != "" {
		src = ingest.NewHTTPSource(opts.url, ingest.NewHTTPClient(config.FromEnv().HTTPTimeout))
	}
	col := metrics.NewCollectors(prometheus.NewRegistry())
	return metrics.NewService(store.NewMemoryStore(), src, aliases, log, col, opts.concurrency), nil
}

func newCampaignsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns",
		Short: "List campaigns from the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService(cmd, opts)
			if err != nil {
				return err
			}
			list, err := svc.Campaigns(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
}

func newReportCmd(opts *options) *cobra.Command {
	var (
		ids    []string
		month  string
		status string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Load campaigns and print the overall aggregate and a period view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := period.ParseFilter(month, status); err != nil {
				return err
			}
			svc, err := newService(cmd, opts)
			if err != nil {
				return err
			}
			failed, err := svc.LoadAll(cmd.Context(), ids)
			if err != nil {
				return err
			}
			view, err := svc.Period(url.Values{"month": {month}, "status": {status}})
			if err != nil {
				return err
			}
			failures := make(map[string]string, len(failed))
			for id, ferr := range failed {
				failures[id] = ferr.Error()
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"overall":  svc.Overall(),
				"period":   view,
				"failures": failures,
			})
		},
	}
	cmd.Flags().StringSliceVar(&ids, "campaign", nil, "campaign file to load (repeatable; default all)")
	cmd.Flags().StringVar(&month, "month", "ALL", "month filter (YYYY-MM or ALL)")
	cmd.Flags().StringVar(&status, "status", "ALL", "status filter (Verified, Reviewed, Could Not Verify, Other or ALL)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
