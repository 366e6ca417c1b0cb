package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tastycli/tasty/internal/api"
	"github.com/tastycli/tasty/internal/config"
	"github.com/tastycli/tasty/internal/order"
	"github.com/tastycli/tasty/internal/output"
	"github.com/tastycli/tasty/internal/validate"
)

// submitFlags are the submission controls shared by every order-placing
// command.
type submitFlags struct {
	skipConfirm bool
	skipDryRun  bool
	dryRunOnly  bool
}

func addSubmitFlags(cmd *cobra.Command, flags *submitFlags) {
	cmd.Flags().BoolVarP(&flags.skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().BoolVar(&flags.skipDryRun, "skip-dry-run", false, "Skip the brokerage dry-run validation stage")
	cmd.Flags().BoolVar(&flags.dryRunOnly, "dry-run", false, "Validate and preview without placing the order")
}

// submitOrder runs the validation pipeline, previews the order, and
// places it once confirmed. Validation warnings never block; errors do.
func submitOrder(cmd *cobra.Command, opts tradeOptions, o order.Order, flags submitFlags) error {
	if opts.accountNumber == "" {
		return fmt.Errorf("account number is required (use --account flag or configure default account)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := api.NewClient(opts.baseURL, opts.sessionToken)
	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)

	pipeline := validate.New(client, client, opts.accountNumber, o)
	outcome, verr := pipeline.Validate(ctx, flags.skipDryRun)

	if err := formatter.Findings(outcome); err != nil {
		return err
	}
	if verr != nil {
		return verr
	}

	if !opts.jsonMode {
		if err := formatter.OrderPreview(o); err != nil {
			return err
		}
	}

	// The config default can be overridden per invocation with --dry-run=false.
	dryRunOnly := flags.dryRunOnly
	if !cmd.Flags().Changed("dry-run") {
		dryRunOnly = opts.dryRunOnly
	}
	if dryRunOnly {
		if opts.jsonMode {
			return formatter.Print(map[string]string{"status": "dry_run"})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Dry run only; order not placed.")
		return nil
	}

	// The kill switch blocks live placement only; validation and dry runs
	// stay available while it is off.
	if opts.tradingDisabled {
		return config.ErrTradingDisabled
	}

	if !flags.skipConfirm {
		return fmt.Errorf("order requires confirmation (use --yes to confirm)")
	}

	resp, err := client.PlaceOrder(ctx, opts.accountNumber, o, false)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	if opts.jsonMode {
		return formatter.Print(resp)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order placed successfully!\n")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Order ID: %d\n", resp.Order.ID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Status:   %s\n", resp.Order.Status)
	if effect := resp.BuyingPowerEffect; effect != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Buying power: %s -> %s\n",
			effect.CurrentBuyingPower.StringFixed(2), effect.NewBuyingPower.StringFixed(2))
	}
	return nil
}
