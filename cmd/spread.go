package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tastycli/tasty/internal/api"
	"github.com/tastycli/tasty/internal/order"
	"github.com/tastycli/tasty/internal/strategy"
)

// spreadSpec describes one multi-leg strategy subcommand: the OCC symbols
// it takes, in order, and the builder that assembles them.
type spreadSpec struct {
	name      string
	short     string
	args      []string
	takesSide bool // supports --sell to open short instead of long
	build     func(legs []strategy.Option, action order.Action, p strategy.Params) (order.Order, error)
}

var spreadSpecs = []spreadSpec{
	{
		name:  "vertical",
		short: "Vertical spread (long + short, same expiration)",
		args:  []string{"LONG_OCC", "SHORT_OCC"},
		build: func(legs []strategy.Option, _ order.Action, p strategy.Params) (order.Order, error) {
			return strategy.VerticalSpread(legs[0], legs[1], p)
		},
	},
	{
		name:  "iron-condor",
		short: "Iron condor (short put spread + short call spread)",
		args:  []string{"SHORT_PUT", "LONG_PUT", "SHORT_CALL", "LONG_CALL"},
		build: func(legs []strategy.Option, _ order.Action, p strategy.Params) (order.Order, error) {
			return strategy.IronCondor(legs[0], legs[1], legs[2], legs[3], p)
		},
	},
	{
		name:  "iron-butterfly",
		short: "Iron butterfly (short straddle + protective wings)",
		args:  []string{"SHORT_CALL", "LONG_CALL", "SHORT_PUT", "LONG_PUT"},
		build: func(legs []strategy.Option, _ order.Action, p strategy.Params) (order.Order, error) {
			return strategy.IronButterfly(legs[0], legs[1], legs[2], legs[3], p)
		},
	},
	{
		name:  "butterfly",
		short: "Butterfly spread (1-2-1 at three strikes)",
		args:  []string{"LOW_OCC", "MIDDLE_OCC", "HIGH_OCC"},
		build: func(legs []strategy.Option, _ order.Action, p strategy.Params) (order.Order, error) {
			return strategy.ButterflySpread(legs[0], legs[1], legs[2], p)
		},
	},
	{
		name:  "calendar",
		short: "Calendar spread (same strike, different expirations)",
		args:  []string{"SHORT_OCC", "LONG_OCC"},
		build: func(legs []strategy.Option, _ order.Action, p strategy.Params) (order.Order, error) {
			return strategy.CalendarSpread(legs[0], legs[1], p)
		},
	},
	{
		name:  "diagonal",
		short: "Diagonal spread (different strikes and expirations)",
		args:  []string{"SHORT_OCC", "LONG_OCC"},
		build: func(legs []strategy.Option, _ order.Action, p strategy.Params) (order.Order, error) {
			return strategy.DiagonalSpread(legs[0], legs[1], p)
		},
	},
	{
		name:      "strangle",
		short:     "Strangle (put + call at different strikes)",
		args:      []string{"PUT_OCC", "CALL_OCC"},
		takesSide: true,
		build: func(legs []strategy.Option, action order.Action, p strategy.Params) (order.Order, error) {
			return strategy.Strangle(legs[0], legs[1], action, p)
		},
	},
	{
		name:      "straddle",
		short:     "Straddle (put + call at the same strike)",
		args:      []string{"PUT_OCC", "CALL_OCC"},
		takesSide: true,
		build: func(legs []strategy.Option, action order.Action, p strategy.Params) (order.Order, error) {
			return strategy.Straddle(legs[0], legs[1], action, p)
		},
	},
}

// fetchOptions resolves every OCC symbol through the instrument API.
func fetchOptions(ctx context.Context, client *api.Client, symbols []string) ([]strategy.Option, error) {
	legs := make([]strategy.Option, 0, len(symbols))
	for _, symbol := range symbols {
		opt, err := client.GetOption(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch option %s: %w", symbol, err)
		}
		legs = append(legs, opt)
	}
	return legs, nil
}

// runSpread builds and submits a multi-leg strategy order.
func runSpread(cmd *cobra.Command, opts tradeOptions, spec spreadSpec, symbols []string, sell bool, params optionOrderParams, flags submitFlags) error {
	if params.quantity <= 0 {
		return fmt.Errorf("quantity is required (use --quantity flag)")
	}
	p, err := params.strategyParams()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := api.NewClient(opts.baseURL, opts.sessionToken)
	legs, err := fetchOptions(ctx, client, symbols)
	if err != nil {
		return err
	}

	action := order.BuyToOpen
	if sell {
		action = order.SellToOpen
	}

	o, err := spec.build(legs, action, p)
	if err != nil {
		return err
	}

	previewPremium(cmd, client, o, opts.jsonMode)
	return submitOrder(cmd, opts, o, flags)
}

// newSpreadSubCmd creates one strategy subcommand with the given options.
// The account flag overrides the resolved default account.
func newSpreadSubCmd(opts tradeOptions, spec spreadSpec) *cobra.Command {
	var params optionOrderParams
	var flags submitFlags
	var sell bool
	var account string

	use := spec.name
	for _, a := range spec.args {
		use += " " + a
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: spec.short,
		Args:  cobra.ExactArgs(len(spec.args)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if account != "" {
				opts.accountNumber = account
			}
			return runSpread(cmd, opts, spec, args, sell, params, flags)
		},
	}

	cmd.Flags().IntVarP(&params.quantity, "quantity", "q", 0, "Number of spreads (required)")
	cmd.Flags().StringVarP(&params.limit, "limit", "l", "", "Net limit price")
	cmd.Flags().BoolVar(&params.gtc, "gtc", false, "Good till cancelled (default is a day order)")
	if spec.takesSide {
		cmd.Flags().BoolVar(&sell, "sell", false, "Sell to open instead of buy to open")
	}
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account number (uses default if not specified)")
	addSubmitFlags(cmd, &flags)
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	spreadCmd := &cobra.Command{
		Use:   "spread",
		Short: "Trade multi-leg option strategies",
		Long: `Build and place multi-leg option strategies from OCC contract symbols.
Each strategy validates its structural rules before anything is sent to
the brokerage.

Examples:
  tasty spread vertical "SPY   250117C00440000" "SPY   250117C00445000" -q 1 --yes
  tasty spread iron-condor PUT_S PUT_L CALL_S CALL_L -q 1 --limit 1.10 --yes
  tasty spread strangle PUT CALL --sell -q 1 --yes`,
	}

	for _, spec := range spreadSpecs {
		spec := spec
		var params optionOrderParams
		var flags submitFlags
		var sell bool
		var account string

		use := spec.name
		for _, a := range spec.args {
			use += " " + a
		}

		cmd := &cobra.Command{
			Use:   use,
			Short: spec.short,
			Args:  cobra.ExactArgs(len(spec.args)),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := loadTradeOptions(account)
				if err != nil {
					return err
				}
				return runSpread(cmd, opts, spec, args, sell, params, flags)
			},
		}
		cmd.Flags().IntVarP(&params.quantity, "quantity", "q", 0, "Number of spreads (required)")
		cmd.Flags().StringVarP(&params.limit, "limit", "l", "", "Net limit price")
		cmd.Flags().BoolVar(&params.gtc, "gtc", false, "Good till cancelled (default is a day order)")
		if spec.takesSide {
			cmd.Flags().BoolVar(&sell, "sell", false, "Sell to open instead of buy to open")
		}
		cmd.Flags().StringVarP(&account, "account", "a", "", "Account number (uses default if not specified)")
		addSubmitFlags(cmd, &flags)
		cmd.SilenceUsage = true

		spreadCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(spreadCmd)
}
