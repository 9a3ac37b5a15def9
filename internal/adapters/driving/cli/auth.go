package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// passwordEnv lets scripts supply the password without a prompt.
const passwordEnv = "ADMINDESK_PASSWORD"

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the admin backend",
	Long: `Signs in with email and password and stores the issued token pair.

The password is read from the terminal without echo. When stdin is not a
terminal it is read from ADMINDESK_PASSWORD or the first line of stdin.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	email := strings.TrimSpace(loginEmail)
	if email == "" {
		cmd.Print("Email: ")
		email = readLine(reader)
	}

	password, err := readPassword(cmd, reader)
	if err != nil {
		return err
	}

	result, err := sessionService.Login(context.Background(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthInvalid) {
			return fmt.Errorf("login rejected: %w", err)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Logged in as %s\n", displayName(result.User, email))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println("Logged out.")
	return nil
}

// readPassword prompts without echo on a terminal and falls back to the
// environment or a plain line otherwise.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print("Password: ")
		password, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(password), nil
	}

	if password := os.Getenv(passwordEnv); password != "" {
		return password, nil
	}
	return readLine(reader), nil
}

func readLine(reader *bufio.Reader) string {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}

// displayName picks the most readable identifier from the login user object.
func displayName(user map[string]any, fallback string) string {
	for _, key := range []string{"name", "email", "id"} {
		if v, ok := user[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}
