package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tastycli/tasty/internal/api"
	"github.com/tastycli/tasty/internal/output"
)

// accountOptions holds dependencies for the account command.
type accountOptions struct {
	baseURL       string
	sessionToken  string
	accountNumber string
	jsonMode      bool
}

// newAccountCmd creates the account command with the given options.
func newAccountCmd(opts accountOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show accounts and trading status",
		Long: `List your trading accounts and show the trading status of the
default (or selected) account.

Examples:
  tasty account
  tasty account --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(cmd, opts)
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func runAccount(cmd *cobra.Command, opts accountOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := api.NewClient(opts.baseURL, opts.sessionToken)
	accounts, err := client.GetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)

	if opts.jsonMode {
		return formatter.Print(accounts)
	}

	if len(accounts) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No accounts")
		return nil
	}

	headers := []string{"ACCOUNT", "NICKNAME", "TYPE", "MARGIN/CASH"}
	rows := make([][]string, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, []string{
			acc.AccountNumber,
			acc.Nickname,
			acc.AccountTypeName,
			acc.MarginOrCash,
		})
	}
	if err := formatter.Table(headers, rows); err != nil {
		return err
	}

	// Show trading status for the default account when we have one.
	target := opts.accountNumber
	if target == "" && len(accounts) == 1 {
		target = accounts[0].AccountNumber
	}
	if target == "" {
		return nil
	}

	status, err := client.GetTradingStatus(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to fetch trading status: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nTrading status for %s:\n", target)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Options:        %s\n", yesNo(status.CanTradeOptions))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Futures:        %s\n", yesNo(status.CanTradeFutures))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Crypto:         %s\n", yesNo(status.CanTradeCryptocurrency))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Closing only:   %s\n", yesNo(status.IsClosingOnly))
	if status.Restricted() {
		line := output.ErrorStyle.Render(fmt.Sprintf("  Restrictions:   %v", status.ActiveRestrictions))
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	var account string

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show accounts and trading status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadTradeOptions(account)
			if err != nil {
				return err
			}
			return runAccount(cmd, accountOptions{
				baseURL:       opts.baseURL,
				sessionToken:  opts.sessionToken,
				accountNumber: opts.accountNumber,
				jsonMode:      opts.jsonMode,
			})
		},
	}
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account number (uses default if not specified)")
	cmd.SilenceUsage = true

	rootCmd.AddCommand(cmd)
}
