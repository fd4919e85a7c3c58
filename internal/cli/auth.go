package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

var (
	passwordFlag string
	registerIn   ports.RegisterInput
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and persist the session token",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and open a session",
	Long: `Create an account and open a session.

New accounts start with the guest role: they can browse everything and
propose edit suggestions, but need a promotion before creating blocks.`,
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active session and its permissions",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Password (prompted when omitted)")

	registerCmd.Flags().StringVarP(&registerIn.Username, "username", "u", "", "Username (required)")
	registerCmd.Flags().StringVarP(&registerIn.Email, "email", "e", "", "Email address (required)")
	registerCmd.Flags().StringVar(&registerIn.FullName, "full-name", "", "Display name")
	registerCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Password (prompted when omitted)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := resolvePassword()
	if err != nil {
		return err
	}

	identity, err := session.Login(cmd.Context(), ports.Credentials{
		Username: args[0],
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", identity.Username, identity.Role)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := resolvePassword()
	if err != nil {
		return err
	}
	registerIn.Password = password

	identity, err := session.Register(cmd.Context(), registerIn)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s. You are registered as %s (%s).\n",
		identity.DisplayName(), identity.Username, identity.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := session.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	identity, ok := session.Identity()
	if !ok {
		fmt.Println("Not logged in (anonymous)")
		return nil
	}

	fmt.Printf("%s (%s)\n", identity.DisplayName(), identity.Username)
	fmt.Printf("  role:  %s\n", identity.Role)
	fmt.Printf("  email: %s\n", identity.Email)
	fmt.Printf("  level: %d (%d xp)\n", identity.Level, identity.XP)

	var granted []string
	for _, p := range domain.AllPermissions() {
		if session.HasPermission(p) {
			granted = append(granted, string(p))
		}
	}
	fmt.Printf("  can:   %s\n", strings.Join(granted, ", "))

	if token, ok := session.Token(); ok {
		if expiry, found := tokenExpiry(token); found {
			fmt.Printf("  token expires %s\n", expiry.Local().Format(time.RFC1123))
		}
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend is the authority, this is display only.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

// resolvePassword returns the --password flag or prompts on the terminal.
func resolvePassword() (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	// Piped input, e.g. echo "pw" | nttl login maya
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
