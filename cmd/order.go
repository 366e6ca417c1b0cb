package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tastycli/tasty/internal/order"
)

// equityOrderParams holds the flag values for an equity order.
type equityOrderParams struct {
	quantity int
	limit    string
	gtc      bool
}

// buildEquityOrder constructs a validated single-leg equity order.
func buildEquityOrder(action order.Action, symbol string, params equityOrderParams) (order.Order, error) {
	if params.quantity <= 0 {
		return order.Order{}, fmt.Errorf("quantity is required (use --quantity flag)")
	}

	leg, err := order.NewLeg(action, strings.ToUpper(symbol), params.quantity)
	if err != nil {
		return order.Order{}, err
	}

	opts := []order.OrderOption{}
	orderType := order.Market
	if params.limit != "" {
		price, err := decimal.NewFromString(params.limit)
		if err != nil {
			return order.Order{}, fmt.Errorf("invalid limit price %q", params.limit)
		}
		orderType = order.Limit
		opts = append(opts, order.WithPrice(price))
	}
	if params.gtc {
		opts = append(opts, order.WithTimeInForce(order.GTC))
	}

	return order.Single(orderType, leg, opts...)
}

// newEquityOrderCmd creates a buy or sell subcommand with the given options.
// The account flag overrides the resolved default account.
func newEquityOrderCmd(opts tradeOptions, verb string, action order.Action) *cobra.Command {
	var params equityOrderParams
	var flags submitFlags
	var account string

	short := "Buy shares of a stock"
	if !action.IsBuy() {
		short = "Sell shares of a stock"
	}

	cmd := &cobra.Command{
		Use:   verb + " SYMBOL",
		Short: short,
		Long: fmt.Sprintf(`Place a %s order for shares of a stock.

Without --limit the order is a MARKET order. Orders run through
pre-trade validation, including a brokerage dry run, before placement.

Examples:
  tasty order %[1]s AAPL --quantity 10 --yes
  tasty order %[1]s AAPL --quantity 10 --limit 175.00 --yes
  tasty order %[1]s AAPL --quantity 10 --limit 175.00 --gtc --yes`, verb),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if account != "" {
				opts.accountNumber = account
			}
			o, err := buildEquityOrder(action, args[0], params)
			if err != nil {
				return err
			}
			return submitOrder(cmd, opts, o, flags)
		},
	}

	cmd.Flags().IntVarP(&params.quantity, "quantity", "q", 0, "Number of shares (required)")
	cmd.Flags().StringVarP(&params.limit, "limit", "l", "", "Limit price")
	cmd.Flags().BoolVar(&params.gtc, "gtc", false, "Good till cancelled (default is a day order)")
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account number (uses default if not specified)")
	addSubmitFlags(cmd, &flags)
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Place equity orders",
		Long: `Place buy and sell orders for stocks and ETFs.

Examples:
  tasty order buy AAPL --quantity 10 --yes
  tasty order sell AAPL --quantity 5 --limit 180.00 --yes`,
	}

	for _, sub := range []struct {
		verb   string
		action order.Action
	}{
		{"buy", order.BuyToOpen},
		{"sell", order.SellToClose},
	} {
		verb, action := sub.verb, sub.action
		var params equityOrderParams
		var flags submitFlags
		var account string

		short := "Buy shares of a stock"
		if !action.IsBuy() {
			short = "Sell shares of a stock"
		}
		cmd := &cobra.Command{
			Use:   verb + " SYMBOL",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := loadTradeOptions(account)
				if err != nil {
					return err
				}
				o, err := buildEquityOrder(action, args[0], params)
				if err != nil {
					return err
				}
				return submitOrder(cmd, opts, o, flags)
			},
		}
		cmd.Flags().IntVarP(&params.quantity, "quantity", "q", 0, "Number of shares (required)")
		cmd.Flags().StringVarP(&params.limit, "limit", "l", "", "Limit price")
		cmd.Flags().BoolVar(&params.gtc, "gtc", false, "Good till cancelled (default is a day order)")
		cmd.Flags().StringVarP(&account, "account", "a", "", "Account number (uses default if not specified)")
		addSubmitFlags(cmd, &flags)
		cmd.SilenceUsage = true

		orderCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(orderCmd)
}
