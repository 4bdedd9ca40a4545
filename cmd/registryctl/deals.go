package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/deals-registry/internal/deals"
	"github.com/aanand-mishra/deals-registry/internal/deals/cheapshark"
)

func newDealsCmd(a *app) *cobra.Command {
	var (
		term, store, sortBy string
		more                int
	)
	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Fetch and print game deals",
		Long: `Fetch the first page of deals, optionally followed by more pages, then
filter and sort them the way the web grid does.

Examples:
  registryctl deals --query portal
  registryctl deals --more 2 --sort rating`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sortKey, err := deals.ParseSortKey(sortBy)
			if err != nil {
				return err
			}

			source := cheapshark.New(cheapshark.Config{
				BaseURL:   a.cfg.Deals.BaseURL,
				StoreID:   a.cfg.Deals.StoreID,
				Timeout:   a.cfg.Deals.Timeout,
				RateLimit: a.cfg.Deals.RateLimit,
			})
			session := deals.NewSession(source, deals.Options{
				Locale:          a.cfg.Locale,
				InitialPageSize: a.cfg.Deals.InitialPageSize,
				PageSize:        a.cfg.Deals.PageSize,
				DedupePages:     a.cfg.Deals.DedupePages,
				SearchURL:       a.cfg.Deals.SearchURL,
				Logger:          a.log,
			})

			ctx := cmd.Context()
			if err := session.Load(ctx); err != nil {
				return err
			}
			for i := 0; i < more; i++ {
				if err := session.LoadMore(ctx); err != nil {
					if errors.Is(err, deals.ErrEndOfData) {
						break
					}
					return err
				}
			}

			session.Apply(deals.Filter{Term: term, Store: store, Sort: sortKey})
			printDeals(cmd.OutOrStdout(), session.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&term, "query", "q", "", "title search term")
	cmd.Flags().StringVar(&store, "store", "", "only deals from this storeID")
	cmd.Flags().StringVar(&sortBy, "sort", "", "rating, recent or name")
	cmd.Flags().IntVar(&more, "more", 0, "number of extra pages to load")
	return cmd
}

func printDeals(out io.Writer, snap deals.Snapshot) {
	if len(snap.Cards) > 0 {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tTITLE\tSALE\tNORMAL\tSAVINGS\tRATING")
		for _, c := range snap.Cards {
			savings := "-"
			if c.HasSavings {
				savings = fmt.Sprintf("%d%%", c.Savings)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", c.Index, c.Title, c.SalePrice, c.NormalPrice, savings, c.Rating)
		}
		tw.Flush()
	}
	if snap.Status.Banner() {
		fmt.Fprintln(out, snap.Status.Message)
	}
}
