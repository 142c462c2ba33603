package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/me/shopctl/internal/app"
	"github.com/spf13/cobra"
)

// prompt reads one line from in. The label is printed only when stdin is a
// terminal so that piped input stays quiet.
func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprint(cmd.ErrOrStderr(), label)
	}
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email == "" {
				if email, err = prompt(cmd, in, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(cmd, in, "Password: "); err != nil {
					return err
				}
			}

			sess, err := application.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s <%s>", sess.Name, sess.Email)
			if sess.IsAdmin() {
				fmt.Fprint(out, " (admin)")
			}
			fmt.Fprintln(out)
			if n := application.Cart.TotalItems(); n > 0 {
				fmt.Fprintf(out, "Your cart has %d %s.\n", n, plural(n, "item", "items"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			wasSignedIn := application.Session.Current() != nil
			if err := application.Logout(cmd.Context()); err != nil {
				return err
			}
			if wasSignedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			}
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := application.RequireSession()
			if err != nil {
				return describe(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:  %s\n", sess.Name)
			fmt.Fprintf(out, "Email: %s\n", sess.Email)
			fmt.Fprintf(out, "Role:  %s\n", sess.Role)
			fmt.Fprintf(out, "API:   %s\n", application.Client.BaseURL())
			if exp, ok := application.Session.ExpiresAt(); ok {
				state := "expires"
				if exp.Before(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "Token: %s %s\n", state, humanize.Time(exp))
			}
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var form app.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			fields := []struct {
				dst   *string
				label string
			}{
				{&form.Name, "Name: "},
				{&form.Email, "Email: "},
				{&form.Password, "Password: "},
				{&form.ConfirmPassword, "Confirm password: "},
			}
			for _, f := range fields {
				if *f.dst != "" {
					continue
				}
				v, err := prompt(cmd, in, f.label)
				if err != nil {
					return err
				}
				*f.dst = v
			}

			user, err := application.Register(cmd.Context(), form)
			if err != nil {
				return describe(err)
			}
			email := user.Email
			if email == "" {
				email = form.Email
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Run `shop login` to sign in.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "Password confirmation")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&form.CPF, "cpf", "", "Taxpayer id (CPF)")
	return cmd
}
