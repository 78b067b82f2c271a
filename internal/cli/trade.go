package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/journal"
	"trade-journal/internal/models"
)

const dayLayout = "2006-01-02"

// addTradeCommands adds trade commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Record and manage trades",
		Long:  "Add, edit, delete and list the trades of the active account.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeUpdateCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))

	rootCmd.AddCommand(cmd)
}

// addTradeFlags registers the editable trade fields on cmd.
func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("symbol", "s", "", "instrument symbol, e.g. EUR/USD or NAS100")
	cmd.Flags().StringP("type", "t", "long", "direction: long or short")
	cmd.Flags().Float64P("entry", "e", 0, "entry price")
	cmd.Flags().Float64("stop", 0, "stop-loss price")
	cmd.Flags().Float64("target", 0, "take-profit price (0 for none)")
	cmd.Flags().Float64("size", 0, "position size in lots")
	cmd.Flags().String("mood", "", "psychology tag, e.g. confident or anxious")
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().String("before", "", "screenshot URL before entry")
	cmd.Flags().String("after", "", "screenshot URL after exit")
	cmd.Flags().Int("leverage", 0, "leverage (default from config)")
}

func tradeInputFromFlags(cmd *cobra.Command) models.TradeInput {
	in := models.TradeInput{}
	in.Symbol, _ = cmd.Flags().GetString("symbol")
	direction, _ := cmd.Flags().GetString("type")
	in.Direction = models.Direction(direction)
	in.EntryPrice, _ = cmd.Flags().GetFloat64("entry")
	in.StopLoss, _ = cmd.Flags().GetFloat64("stop")
	if target, _ := cmd.Flags().GetFloat64("target"); target > 0 {
		in.TakeProfit = models.Float(target)
	}
	in.PositionSize, _ = cmd.Flags().GetFloat64("size")
	mood, _ := cmd.Flags().GetString("mood")
	in.Mood = models.Mood(mood)
	in.Notes, _ = cmd.Flags().GetString("notes")
	in.BeforeScreenshotURL, _ = cmd.Flags().GetString("before")
	in.AfterScreenshotURL, _ = cmd.Flags().GetString("after")
	in.Leverage, _ = cmd.Flags().GetInt("leverage")
	return in
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trade",
		Long: `Record a trade in the active account. P&L is booked at the take-profit;
risk is measured to the stop-loss.`,
		Example: `  journal trade add -s EUR/USD -t long -e 1.1000 --stop 1.0950 --target 1.1100 --size 1
  journal trade add -s NAS100 -t short -e 18000 --stop 18040 --size 0.5 --mood anxious`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			t, err := svc.AddTrade(ctx, tradeInputFromFlags(cmd))
			if err != nil {
				output.Error("Failed to add trade: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(t)
			}
			output.Success("✓ Trade %s recorded", t.ID)
			printTrade(output, t, currencyOf(svc))
			return nil
		},
	}
	addTradeFlags(cmd)
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("stop")
	_ = cmd.MarkFlagRequired("size")
	return cmd
}

func newTradeUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <trade-id>",
		Short: "Edit a trade",
		Long: `Edit a trade of the active account. Flags not given keep their current
value; every derived field is recalculated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			existing, err := svc.Trade(args[0])
			if err != nil {
				output.Error("Trade not found: %s", args[0])
				return err
			}

			in := mergeTradeInput(cmd, existing)
			t, err := svc.UpdateTrade(ctx, existing.ID, in)
			if err != nil {
				output.Error("Failed to update trade: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(t)
			}
			output.Success("✓ Trade %s updated", t.ID)
			printTrade(output, t, currencyOf(svc))
			return nil
		},
	}
	addTradeFlags(cmd)
	return cmd
}

// mergeTradeInput starts from the stored trade and applies changed flags.
func mergeTradeInput(cmd *cobra.Command, t models.Trade) models.TradeInput {
	flags := tradeInputFromFlags(cmd)
	in := models.TradeInput{
		Symbol:              t.Symbol,
		Direction:           t.Direction,
		EntryPrice:          t.EntryPrice,
		StopLoss:            t.StopLoss,
		TakeProfit:          t.TakeProfit,
		PositionSize:        t.PositionSize,
		Mood:                t.Mood,
		Notes:               t.Notes,
		BeforeScreenshotURL: t.BeforeScreenshotURL,
		AfterScreenshotURL:  t.AfterScreenshotURL,
		Leverage:            t.Leverage,
	}

	changed := cmd.Flags().Changed
	if changed("symbol") {
		in.Symbol = flags.Symbol
	}
	if changed("type") {
		in.Direction = flags.Direction
	}
	if changed("entry") {
		in.EntryPrice = flags.EntryPrice
	}
	if changed("stop") {
		in.StopLoss = flags.StopLoss
	}
	if changed("target") {
		in.TakeProfit = flags.TakeProfit
	}
	if changed("size") {
		in.PositionSize = flags.PositionSize
	}
	if changed("mood") {
		in.Mood = flags.Mood
	}
	if changed("notes") {
		in.Notes = flags.Notes
	}
	if changed("before") {
		in.BeforeScreenshotURL = flags.BeforeScreenshotURL
	}
	if changed("after") {
		in.AfterScreenshotURL = flags.AfterScreenshotURL
	}
	if changed("leverage") {
		in.Leverage = flags.Leverage
	}
	return in
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <trade-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a trade",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			if err := svc.DeleteTrade(ctx, args[0]); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Trade %s deleted", args[0])
			return nil
		},
	}
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trades of the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			q, err := tradeQueryFromFlags(cmd)
			if err != nil {
				return err
			}
			trades, err := svc.FindTrades(ctx, q)
			if err != nil {
				output.Error("Failed to list trades: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades recorded yet.")
				output.Dim("Tip: record one with 'journal trade add'.")
				return nil
			}

			currency := currencyOf(svc)
			table := NewTable(output, "ID", "Date", "Symbol", "Side", "Entry", "Stop", "Target", "Size", "P&L", "Risk %", "Mood")
			for _, t := range trades {
				target := "-"
				if t.HasTarget() {
					target = FormatPrice(t.Target())
				}
				mood := string(t.Mood)
				if mood == "" {
					mood = "-"
				}
				table.AddRow(
					t.ID,
					FormatDateTime(t.Timestamp),
					t.Symbol,
					string(t.Direction),
					FormatPrice(t.EntryPrice),
					FormatPrice(t.StopLoss),
					target,
					FormatLots(t.PositionSize),
					output.FormatPnL(t.Profit, currency),
					FormatPercent(t.RiskPercent),
					mood,
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 0, "show at most n trades (0 for all)")
	cmd.Flags().String("symbol", "", "only trades of this symbol")
	cmd.Flags().String("since", "", "only trades on or after this day (YYYY-MM-DD, UTC)")
	cmd.Flags().String("until", "", "only trades on or before this day (YYYY-MM-DD, UTC)")
	return cmd
}

func tradeQueryFromFlags(cmd *cobra.Command) (journal.TradeQuery, error) {
	var q journal.TradeQuery
	q.Symbol, _ = cmd.Flags().GetString("symbol")
	q.Limit, _ = cmd.Flags().GetInt("limit")

	since, _ := cmd.Flags().GetString("since")
	if since != "" {
		day, err := time.Parse(dayLayout, since)
		if err != nil {
			return q, fmt.Errorf("invalid --since %q (want YYYY-MM-DD)", since)
		}
		q.Since = day
	}
	until, _ := cmd.Flags().GetString("until")
	if until != "" {
		day, err := time.Parse(dayLayout, until)
		if err != nil {
			return q, fmt.Errorf("invalid --until %q (want YYYY-MM-DD)", until)
		}
		q.Until = day.Add(24*time.Hour - time.Nanosecond)
	}
	return q, nil
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show one trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			t, err := svc.Trade(args[0])
			if err != nil {
				output.Error("Trade not found: %s", args[0])
				return err
			}
			if output.IsJSON() {
				return output.JSON(t)
			}
			printTrade(output, t, currencyOf(svc))
			return nil
		},
	}
}

func printTrade(output *Output, t models.Trade, currency string) {
	output.Bold("%s %s", t.Symbol, t.Direction)
	output.Printf("  ID:          %s\n", t.ID)
	output.Printf("  Date:        %s\n", FormatDateTime(t.Timestamp))
	output.Printf("  Category:    %s\n", t.Category)
	output.Printf("  Entry:       %s\n", FormatPrice(t.EntryPrice))
	output.Printf("  Stop:        %s (%s)\n", FormatPrice(t.StopLoss), FormatDistance(t.RiskDistance, t.Category))
	if t.HasTarget() {
		output.Printf("  Target:      %s\n", FormatPrice(t.Target()))
	}
	output.Printf("  Size:        %s lots\n", FormatLots(t.PositionSize))
	output.Printf("  P&L:         %s\n", output.FormatPnL(t.Profit, currency))
	output.Printf("  Risk:        %s (%s of %s)\n",
		FormatCurrency(t.RiskAmount, currency), FormatPercent(t.RiskPercent),
		FormatCurrency(t.AccountBalanceAtEntry, currency))
	output.Printf("  Leverage:    1:%d\n", t.Leverage)
	if t.Mood != "" {
		output.Printf("  Mood:        %s\n", t.Mood)
	}
	if t.Notes != "" {
		output.Printf("  Notes:       %s\n", t.Notes)
	}
	if t.BeforeScreenshotURL != "" {
		output.Printf("  Before:      %s\n", t.BeforeScreenshotURL)
	}
	if t.AfterScreenshotURL != "" {
		output.Printf("  After:       %s\n", t.AfterScreenshotURL)
	}
}
