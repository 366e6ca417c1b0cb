package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tastycli/tasty/internal/api"
	"github.com/tastycli/tasty/internal/auth"
	"github.com/tastycli/tasty/internal/config"
	"github.com/tastycli/tasty/internal/keyring"
)

// passwordReader abstracts terminal password input for testing.
type passwordReader interface {
	ReadPassword() (string, error)
	IsTerminal() bool
}

// terminalReader reads passwords from the terminal using golang.org/x/term.
type terminalReader struct {
	fd int
}

// newTerminalReader creates a reader for the given file descriptor.
func newTerminalReader(fd int) *terminalReader {
	return &terminalReader{fd: fd}
}

func (r *terminalReader) ReadPassword() (string, error) {
	password, err := term.ReadPassword(r.fd)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (r *terminalReader) IsTerminal() bool {
	return term.IsTerminal(r.fd)
}

// prompter abstracts interactive input for testing.
type prompter interface {
	SelectOption(options []string) (int, error)
	ReadLine(prompt string) (string, error)
}

// terminalPrompter implements prompter using stdin.
type terminalPrompter struct {
	reader io.Reader
	writer io.Writer
}

func newTerminalPrompter(r io.Reader, w io.Writer) *terminalPrompter {
	return &terminalPrompter{reader: r, writer: w}
}

func (p *terminalPrompter) SelectOption(options []string) (int, error) {
	scanner := bufio.NewScanner(p.reader)
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("no input")
		}
		input := strings.TrimSpace(scanner.Text())
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(options) {
			_, _ = fmt.Fprintf(p.writer, "Please enter a number between 1 and %d: ", len(options))
			continue
		}
		return idx - 1, nil // Convert to 0-indexed
	}
}

func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.writer, prompt)
	scanner := bufio.NewScanner(p.reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// configureOptions holds dependencies for the configure command.
// This allows for dependency injection in tests.
type configureOptions struct {
	configPath     string
	baseURL        string
	store          keyring.Store
	passwordReader passwordReader
	prompt         prompter
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var accountNumber string
	var sandbox bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure CLI credentials",
		Long: `Configure the CLI with your tastytrade login credentials.

Credentials are stored in the system keyring and validated by creating
a session. You will be prompted to enter your password securely.

Example:
  tasty configure
  tasty configure --account 5WT00001
  tasty configure --sandbox`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts, accountNumber, sandbox)
		},
	}

	cmd.Flags().StringVar(&accountNumber, "account", "", "Default account number (optional)")
	cmd.Flags().BoolVar(&sandbox, "sandbox", false, "Use the certification (paper trading) environment")

	// Don't show usage info on validation errors - just show the error
	cmd.SilenceUsage = true

	return cmd
}

func runConfigure(cmd *cobra.Command, opts configureOptions, accountNumber string, sandbox bool) error {
	// Verify we're running in an interactive terminal
	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("configure requires an interactive terminal\nRun this command directly in your terminal (not piped or in a script)")
	}

	baseURL := opts.baseURL
	if sandbox {
		baseURL = config.SandboxAPIBaseURL
	}

	username, err := opts.prompt.ReadLine("Username (email): ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	password, err := opts.passwordReader.ReadPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout()) // Print newline after hidden input

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	// Validate credentials by creating a session
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := auth.CreateSession(ctx, baseURL, username, password)
	if err != nil {
		return fmt.Errorf("failed to validate credentials: %w", err)
	}

	// Store credentials in keyring
	if err := opts.store.Set(keyring.ServiceName, keyring.KeyUsername, username); err != nil {
		return fmt.Errorf("failed to store username in keyring: %w", err)
	}
	if err := opts.store.Set(keyring.ServiceName, keyring.KeyPassword, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}

	// Load existing config or create new one
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	cfg.Sandbox = sandbox
	if sandbox {
		cfg.APIBaseURL = ""
	}

	if accountNumber != "" {
		cfg.AccountNumber = accountNumber
	} else {
		// Offer account selection if no account was provided via flag
		selected, err := promptAccountSelection(cmd, opts, baseURL, token.SessionToken)
		if err != nil {
			// Non-fatal: just skip account selection
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Note: Could not fetch accounts: %v\n", err)
		} else if selected != "" {
			cfg.AccountNumber = selected
		}
	}

	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved successfully!")
	return nil
}

// promptAccountSelection fetches accounts and prompts user to select one.
func promptAccountSelection(cmd *cobra.Command, opts configureOptions, baseURL, sessionToken string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := api.NewClient(baseURL, sessionToken)
	accounts, err := client.GetAccounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Select a default account:")

	options := make([]string, 0, len(accounts)+1)
	for i, acc := range accounts {
		optionText := fmt.Sprintf("%s (%s, %s)", acc.AccountNumber, acc.AccountTypeName, acc.MarginOrCash)
		options = append(options, optionText)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", i+1, optionText)
	}
	options = append(options, "Skip")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d. Skip\n", len(accounts)+1)
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Select account: ")

	choice, err := opts.prompt.SelectOption(options)
	if err != nil {
		return "", err
	}
	if choice == len(accounts) {
		return "", nil // Skip
	}
	return accounts[choice].AccountNumber, nil
}

func init() {
	opts := configureOptions{
		configPath:     config.DefaultPath(),
		baseURL:        config.DefaultAPIBaseURL,
		store:          keyring.NewEnvStore(keyring.NewSystemStore()),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	}
	rootCmd.AddCommand(newConfigureCmd(opts))
}
