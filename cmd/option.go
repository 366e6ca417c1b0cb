package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tastycli/tasty/internal/api"
	"github.com/tastycli/tasty/internal/order"
	"github.com/tastycli/tasty/internal/output"
	"github.com/tastycli/tasty/internal/strategy"
)

// optionOrderParams holds the flag values for a single-leg option order.
type optionOrderParams struct {
	quantity int
	limit    string
	gtc      bool
}

// strategyParams converts the flag values to builder parameters.
func (p optionOrderParams) strategyParams() (strategy.Params, error) {
	params := strategy.Params{Quantity: p.quantity}
	if p.limit != "" {
		price, err := decimal.NewFromString(p.limit)
		if err != nil {
			return strategy.Params{}, fmt.Errorf("invalid limit price %q", p.limit)
		}
		params.Price = &price
	}
	if p.gtc {
		params.TimeInForce = order.GTC
	}
	return params, nil
}

// buildSingleOption fetches the contract and builds the requested order.
func buildSingleOption(ctx context.Context, client *api.Client, verb, occSymbol string, params optionOrderParams) (order.Order, error) {
	// close takes a signed quantity; everything else a positive one.
	if params.quantity == 0 || (verb != "close" && params.quantity < 0) {
		return order.Order{}, fmt.Errorf("quantity is required (use --quantity flag)")
	}

	opt, err := client.GetOption(ctx, occSymbol)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to fetch option %s: %w", occSymbol, err)
	}

	p, err := params.strategyParams()
	if err != nil {
		return order.Order{}, err
	}

	switch verb {
	case "buy":
		if opt.ContractType == strategy.Call {
			return strategy.BuyCall(opt, p)
		}
		return strategy.BuyPut(opt, p)
	case "sell":
		if opt.ContractType == strategy.Call {
			return strategy.SellCall(opt, p)
		}
		return strategy.SellPut(opt, p)
	case "close":
		return strategy.ClosePosition(opt, p)
	default:
		return order.Order{}, fmt.Errorf("unknown option action %q", verb)
	}
}

// previewPremium prints the estimated net premium for an option order.
// Quote failures are non-fatal; the preview is best effort.
func previewPremium(cmd *cobra.Command, client *api.Client, o order.Order, jsonMode bool) {
	if jsonMode {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	net, err := strategy.NetPremium(ctx, client, o)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Note: could not estimate net premium: %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Estimated net premium: %s\n", output.Premium(net))
}

// runOptionOrder builds and submits a single-leg option order.
func runOptionOrder(cmd *cobra.Command, opts tradeOptions, verb, occSymbol string, params optionOrderParams, flags submitFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := api.NewClient(opts.baseURL, opts.sessionToken)
	o, err := buildSingleOption(ctx, client, verb, occSymbol, params)
	if err != nil {
		return err
	}

	previewPremium(cmd, client, o, opts.jsonMode)
	return submitOrder(cmd, opts, o, flags)
}

// newOptionSubCmd creates one of the buy/sell/close subcommands with the
// given options.
func newOptionSubCmd(opts tradeOptions, verb, short string) *cobra.Command {
	var params optionOrderParams
	var flags submitFlags
	var account string

	cmd := &cobra.Command{
		Use:   verb + " OCC_SYMBOL",
		Short: short,
		Long: fmt.Sprintf(`%s using the full OCC contract symbol.

Examples:
  tasty option %s "AAPL  250117C00175000" --quantity 1 --yes
  tasty option %s "AAPL  250117C00175000" --quantity 1 --limit 2.45 --yes`, short, verb, verb),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if account != "" {
				opts.accountNumber = account
			}
			return runOptionOrder(cmd, opts, verb, args[0], params, flags)
		},
	}

	cmd.Flags().IntVarP(&params.quantity, "quantity", "q", 0, "Number of contracts (required)")
	cmd.Flags().StringVarP(&params.limit, "limit", "l", "", "Limit price per contract")
	cmd.Flags().BoolVar(&params.gtc, "gtc", false, "Good till cancelled (default is a day order)")
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account number (uses default if not specified)")
	addSubmitFlags(cmd, &flags)
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	optionCmd := &cobra.Command{
		Use:   "option",
		Short: "Trade single option contracts",
		Long: `Buy, sell, and close single option contracts by OCC symbol.

Examples:
  tasty option buy "AAPL  250117C00175000" --quantity 1 --yes
  tasty option sell "AAPL  250117P00165000" --quantity 1 --limit 1.20 --yes
  tasty option close "AAPL  250117C00175000" --quantity 1 --yes`,
	}

	for _, sub := range []struct {
		verb  string
		short string
	}{
		{"buy", "Buy an option contract to open"},
		{"sell", "Sell an option contract to open"},
		{"close", "Close an existing option position"},
	} {
		verb, short := sub.verb, sub.short
		var params optionOrderParams
		var flags submitFlags
		var account string

		cmd := &cobra.Command{
			Use:   verb + " OCC_SYMBOL",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := loadTradeOptions(account)
				if err != nil {
					return err
				}
				return runOptionOrder(cmd, opts, verb, args[0], params, flags)
			},
		}
		cmd.Flags().IntVarP(&params.quantity, "quantity", "q", 0, "Number of contracts (required)")
		cmd.Flags().StringVarP(&params.limit, "limit", "l", "", "Limit price per contract")
		cmd.Flags().BoolVar(&params.gtc, "gtc", false, "Good till cancelled (default is a day order)")
		cmd.Flags().StringVarP(&account, "account", "a", "", "Account number (uses default if not specified)")
		addSubmitFlags(cmd, &flags)
		cmd.SilenceUsage = true

		optionCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(optionCmd)
}
