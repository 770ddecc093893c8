package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/xraph/depot/internal/bootstrap"
	"github.com/xraph/depot/internal/config"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run a login through the configured wiring",
	Long: `Build the login view model, either by hand (--wiring=manual) or through
a fresh service container (--wiring=container) or the process-wide
container (--wiring=shared), and attempt a login.

Examples:
  depot login --username viswa --password apple123
  depot login --username viswa --password apple123 --wiring manual`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if wiring, _ := cmd.Flags().GetString("wiring"); wiring != "" {
			app.cfg.Wiring.Mode = wiring
		}

		if err := app.cfg.Validate(); err != nil {
			return err
		}

		vm, c, err := bootstrap.ViewModel(cmd.Context(), app.cfg, app.logger, prometheus.NewRegistry())
		if err != nil {
			return fmt.Errorf("failed to wire view model: %w", err)
		}

		if c != nil {
			defer func() { _ = c.Stop(cmd.Context()) }()
		}

		result := vm.Login(cmd.Context(), username, password)
		cmd.Println(result.Message)

		if result.Success {
			cmd.Printf("session: %s\n", result.SessionID)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.Flags().String("wiring", "", fmt.Sprintf("Wiring mode (%s|%s|%s)", config.WiringManual, config.WiringContainer, config.WiringShared))
	_ = loginCmd.MarkFlagRequired("username")
}
