package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pennywise/internal/advisor"
	"github.com/Veraticus/pennywise/internal/llm"
)

func costsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "costs",
		Short: "Show advice cache effectiveness",
		Long: `Prints how often advisory responses were served from the cache
instead of a paid completion call. The counters persist across runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cache := store.AdviceCache(llm.DefaultCacheTTL, llm.DefaultCacheCapacity)
			adv := advisor.New(nil, cache, store, slog.Default())
			stats := adv.CostStats()

			fmt.Printf("Cache hits:   %d\n", stats.Hits)
			fmt.Printf("Cache misses: %d\n", stats.Misses)
			fmt.Printf("Hit rate:     %.0f%%\n", stats.HitRate()*100)
			fmt.Printf("Entries:      %d\n", stats.Entries)
			return nil
		},
	}
}
