package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/netdash/netdash/internal/api"
	"github.com/netdash/netdash/internal/errors"
)

var (
	emailEdit bool
	emailTest bool
)

// emailCmd views or edits the backend's SMTP notification settings.
var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "View or edit SMTP notification settings",
	Long: `Show the backend's SMTP settings for alert notification emails.

With --edit an interactive form pre-filled with the current settings is
shown and the result saved back to the backend. With --test the backend
sends a test email using the saved settings; combined with --edit the
new settings are saved first, then tested.

Examples:
  netdash email
  netdash email --edit
  netdash email --edit --test`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return emailCommand(cmd.OutOrStdout(), newClient(cfg), cfg.API.Timeout, emailEdit, emailTest)
	},
}

func init() {
	emailCmd.Flags().BoolVar(&emailEdit, "edit", false, "edit settings interactively")
	emailCmd.Flags().BoolVar(&emailTest, "test", false, "send a test email with the saved settings")
	rootCmd.AddCommand(emailCmd)
}

func emailCommand(w io.Writer, client *api.Client, timeout time.Duration, edit, test bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	current, err := client.EmailConfig(ctx)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to fetch email settings", api.Detail(err))
	}

	if edit {
		// Interactive forms need a terminal.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				"Cannot edit settings without a terminal",
				"Run 'netdash email --edit' from an interactive shell")
		}

		updated, err := emailForm(*current)
		if err != nil {
			return err
		}

		// The test send uses saved settings, so the save always comes
		// first.
		status, err := client.SaveEmailConfig(ctx, updated)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAPI,
				"Failed to save email settings", api.Detail(err))
		}
		fmt.Fprintln(w, status.Message)
		current = &updated
	}

	if test {
		status, err := client.TestEmail(ctx)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAPI,
				"Test email failed", api.Detail(err))
		}
		fmt.Fprintln(w, status.Message)
		return nil
	}

	if !edit {
		printEmailConfig(w, current)
	}
	return nil
}

func printEmailConfig(w io.Writer, cfg *api.EmailConfig) {
	if cfg.SMTPHost == "" {
		fmt.Fprintln(w, "Email notifications are not configured.")
		fmt.Fprintln(w, "Run 'netdash email --edit' to set them up.")
		return
	}
	fmt.Fprintf(w, "server:     %s:%d\n", cfg.SMTPHost, cfg.SMTPPort)
	fmt.Fprintf(w, "user:       %s\n", cfg.SMTPUser)
	fmt.Fprintf(w, "recipients: %s\n", cfg.Recipients)
}

// emailForm collects SMTP settings with an interactive form pre-filled
// from the current values.
func emailForm(current api.EmailConfig) (api.EmailConfig, error) {
	host := current.SMTPHost
	port := strconv.Itoa(current.SMTPPort)
	if current.SMTPPort == 0 {
		port = "587"
	}
	user := current.SMTPUser
	password := current.SMTPPassword
	recipients := current.Recipients

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SMTP server").
				Placeholder("smtp.example.com").
				Value(&host).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("SMTP server is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("SMTP port").
				Value(&port).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > 65535 {
						return fmt.Errorf("port must be a number between 1 and 65535")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("SMTP user").
				Placeholder("alerts@example.com").
				Value(&user),
			huh.NewInput().
				Title("SMTP password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Recipients").
				Description("Comma-separated email addresses").
				Placeholder("oncall@example.com, ops@example.com").
				Value(&recipients).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("at least one recipient is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return api.EmailConfig{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility")
	}

	portNum, _ := strconv.Atoi(strings.TrimSpace(port))
	return api.EmailConfig{
		SMTPHost:     strings.TrimSpace(host),
		SMTPPort:     portNum,
		SMTPUser:     strings.TrimSpace(user),
		SMTPPassword: password,
		Recipients:   strings.TrimSpace(recipients),
	}, nil
}
