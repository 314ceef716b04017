package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		email, _ := cmd.Flags().GetString("email")
		password, err := passwordFlag(cmd)
		if err != nil {
			return err
		}
		u, err := d.auth.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		role := "learner"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Printf("Logged in as %s (%s)\n", u.Email, role)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		email, _ := cmd.Flags().GetString("email")
		password, err := passwordFlag(cmd)
		if err != nil {
			return err
		}
		if err := d.auth.Register(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		fmt.Println("Registration successful. Log in with: adaptest login --email", strings.TrimSpace(email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// passwordFlag returns --password, or reads one line from stdin when the
// flag is "-".
func passwordFlag(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "-" {
		return password, nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", `Account password ("-" reads it from stdin)`)
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
}
