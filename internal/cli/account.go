package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/journal"
	"trade-journal/internal/models"
)

// addAccountCommands adds account commands.
func addAccountCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage trading accounts",
		Long: `Each account keeps its own balance and trades. Commands that record or
report trades use the active account.`,
	}

	cmd.AddCommand(newAccountListCmd(app))
	cmd.AddCommand(newAccountCreateCmd(app))
	cmd.AddCommand(newAccountSwitchCmd(app))
	cmd.AddCommand(newAccountRenameCmd(app))
	cmd.AddCommand(newAccountBalanceCmd(app))
	cmd.AddCommand(newAccountDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

// currencyOf returns the active account's currency code.
func currencyOf(svc *journal.Service) string {
	acct, err := svc.CurrentAccount()
	if err != nil {
		return ""
	}
	return acct.Currency
}

func newAccountListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			current, err := svc.CurrentAccount()
			if err != nil {
				return err
			}
			accounts := svc.Accounts()
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"accounts":  accounts,
					"currentId": current.ID,
				})
			}

			table := NewTable(output, "", "ID", "Name", "Balance", "Currency", "Created")
			for _, a := range accounts {
				marker := ""
				if a.ID == current.ID {
					marker = output.Green("*")
				}
				name := a.Name
				if a.IsDefault {
					name += output.DimText(" (default)")
				}
				table.AddRow(marker, TruncateString(a.ID, 8), name,
					FormatCurrency(a.Balance, a.Currency), a.Currency,
					FormatDateTime(a.CreatedAt))
			}
			table.Render()
			return nil
		},
	}
}

func newAccountCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name> [balance]",
		Short: "Create an account",
		Example: `  journal account create "Prop Challenge" 50000 --currency EUR
  journal account create Swing --switch`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			balance := app.Config.Account.DefaultBalance
			if len(args) == 2 {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					output.Error("Invalid balance: %s", args[1])
					return err
				}
				balance = v
			}
			currency, _ := cmd.Flags().GetString("currency")

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			a, err := svc.CreateAccount(ctx, args[0], balance, currency)
			if err != nil {
				output.Error("Failed to create account: %v", err)
				return err
			}
			if activate, _ := cmd.Flags().GetBool("switch"); activate {
				if _, err := svc.SwitchAccount(ctx, a.ID); err != nil {
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(a)
			}
			output.Success("✓ Account '%s' created with %s", a.Name, FormatCurrency(a.Balance, a.Currency))
			output.Dim("ID: %s", a.ID)
			return nil
		},
	}
	cmd.Flags().String("currency", "", "currency code (default from config)")
	cmd.Flags().Bool("switch", false, "make the new account active")
	return cmd
}

func newAccountSwitchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <account>",
		Short: "Make an account active",
		Long:  "Make an account active. The account may be given by ID, ID prefix or name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			a, err := svc.SwitchAccount(ctx, resolveAccount(svc, args[0]))
			if err != nil {
				output.Error("Failed to switch account: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(a)
			}
			output.Success("✓ Switched to '%s' (%d trades)", a.Name, len(svc.Trades()))
			return nil
		},
	}
}

func newAccountRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account> <new-name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			a, err := svc.RenameAccount(ctx, resolveAccount(svc, args[0]), args[1])
			if err != nil {
				output.Error("Failed to rename account: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(a)
			}
			output.Success("✓ Account renamed to '%s'", a.Name)
			return nil
		},
	}
}

func newAccountBalanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <amount>",
		Short: "Set an account balance",
		Long: `Set the balance of the active account, or of --account. Trades already
recorded keep the balance they were entered with.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				output.Error("Invalid balance: %s", args[0])
				return err
			}

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			id, _ := cmd.Flags().GetString("account")
			if id == "" {
				current, err := svc.CurrentAccount()
				if err != nil {
					return err
				}
				id = current.ID
			}

			a, err := svc.SetBalance(ctx, resolveAccount(svc, id), amount)
			if err != nil {
				output.Error("Failed to set balance: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(a)
			}
			output.Success("✓ Balance of '%s' set to %s", a.Name, FormatCurrency(a.Balance, a.Currency))
			return nil
		},
	}
	cmd.Flags().String("account", "", "account ID or name (default: active account)")
	return cmd
}

func newAccountDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <account>",
		Aliases: []string{"rm"},
		Short:   "Delete an account and all of its trades",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				output.Warning("This deletes the account and every trade in it. Re-run with --yes to confirm.")
				return nil
			}

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			id := resolveAccount(svc, args[0])
			if err := svc.DeleteAccount(ctx, id); err != nil {
				output.Error("Failed to delete account: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": id})
			}
			output.Success("✓ Account deleted")
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "confirm deletion")
	return cmd
}

// resolveAccount matches ref against account IDs, unique ID prefixes and
// names, in that order. Unmatched refs are returned unchanged so the
// service reports them as not found.
func resolveAccount(svc *journal.Service, ref string) string {
	accounts := svc.Accounts()
	for _, a := range accounts {
		if a.ID == ref {
			return a.ID
		}
	}

	var match *models.Account
	for i := range accounts {
		if len(ref) >= 4 && len(accounts[i].ID) >= len(ref) && accounts[i].ID[:len(ref)] == ref {
			if match != nil {
				return ref
			}
			match = &accounts[i]
		}
	}
	if match != nil {
		return match.ID
	}

	for _, a := range accounts {
		if a.Name == ref {
			return a.ID
		}
	}
	return ref
}
