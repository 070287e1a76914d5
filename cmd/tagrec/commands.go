package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rushteam/tagrec/recommend"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <user-id>",
		Short: "Print recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), s, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer b.close(cmd.Context())

			res, err := b.svc.Recommend(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func recordCmd() *cobra.Command {
	var (
		duration    string
		rating      string
		searchQuery string
	)

	cmd := &cobra.Command{
		Use:   "record <user-id> <item-id> <type>",
		Short: "Record an interaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := recommend.RecordRequest{
				UserID:      args[0],
				ItemID:      args[1],
				Type:        args[2],
				SearchQuery: searchQuery,
			}
			var err error
			if req.Duration, err = optionalFloat("duration", duration); err != nil {
				return err
			}
			if req.Rating, err = optionalFloat("rating", rating); err != nil {
				return err
			}

			s, err := loadSettings()
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), s, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer b.close(cmd.Context())

			in, err := b.svc.Record(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), in)
		},
	}
	cmd.Flags().StringVar(&duration, "duration", "", "view duration in seconds (view only)")
	cmd.Flags().StringVar(&rating, "rating", "", "rating 1-5 (rating only)")
	cmd.Flags().StringVar(&searchQuery, "search-query", "", "matched query (search_query_match only)")
	return cmd
}

// optionalFloat 解析可选数值参数，空串表示未设置。
func optionalFloat(name, v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &f, nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load items, users and interactions from a seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), s, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer b.close(cmd.Context())

			stats, err := seedFile(cmd.Context(), b, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
