package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tastycli/tasty/internal/api"
	"github.com/tastycli/tasty/internal/output"
)

var two = decimal.NewFromInt(2)

// quoteOptions holds dependencies for the quote command.
type quoteOptions struct {
	baseURL      string
	sessionToken string
	jsonMode     bool
}

// newQuoteCmd creates the quote command with the given options.
func newQuoteCmd(opts quoteOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote SYMBOL...",
		Short: "Get market quotes",
		Long: `Get bid/ask/mid quotes for one or more symbols. Equity symbols and
OCC option symbols are both accepted.

Examples:
  tasty quote AAPL
  tasty quote AAPL SPY
  tasty quote "AAPL  250117C00175000"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, opts, args)
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func runQuote(cmd *cobra.Command, opts quoteOptions, symbols []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := api.NewClient(opts.baseURL, opts.sessionToken)

	quotes := make([]*api.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		// Equity symbols are conventionally upper case; OCC symbols
		// already are.
		quote, err := client.GetMarketData(ctx, strings.ToUpper(symbol))
		if err != nil {
			return fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
		}
		quotes = append(quotes, quote)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)

	if opts.jsonMode {
		return formatter.Print(quotes)
	}

	headers := []string{"SYMBOL", "BID", "ASK", "MID"}
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		mid := q.Bid.Add(q.Ask).Div(two)
		rows = append(rows, []string{
			q.Symbol,
			q.Bid.StringFixed(2),
			q.Ask.StringFixed(2),
			mid.StringFixed(2),
		})
	}
	return formatter.Table(headers, rows)
}

func init() {
	cmd := &cobra.Command{
		Use:   "quote SYMBOL...",
		Short: "Get market quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadTradeOptions("")
			if err != nil {
				return err
			}
			return runQuote(cmd, quoteOptions{
				baseURL:      opts.baseURL,
				sessionToken: opts.sessionToken,
				jsonMode:     opts.jsonMode,
			}, args)
		},
	}
	cmd.SilenceUsage = true

	rootCmd.AddCommand(cmd)
}
