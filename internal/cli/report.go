package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/calc"
	"trade-journal/internal/journal"
	"trade-journal/internal/models"
	"trade-journal/internal/stats"
)

// addReportCommands adds statistics and calculator commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newDashboardCmd(app))
	rootCmd.AddCommand(newCalcCmd(app))
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance statistics",
		Long:  "Show summary statistics of the active account, or advanced analytics with --advanced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			currency := currencyOf(svc)

			if advanced, _ := cmd.Flags().GetBool("advanced"); advanced {
				a := svc.Advanced()
				if output.IsJSON() {
					return output.JSON(a)
				}
				printAdvanced(output, a, currency)
				return nil
			}

			s := svc.Stats()
			if output.IsJSON() {
				return output.JSON(s)
			}
			printSummary(output, s, currency)
			return nil
		},
	}
	cmd.Flags().BoolP("advanced", "a", false, "show advanced analytics")
	return cmd
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the full account dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			d, err := svc.Dashboard()
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(d)
			}
			printDashboard(output, d)
			return nil
		},
	}
}

func newCalcCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Preview risk and position size for a planned trade",
		Example: `  journal calc -s EUR/USD -e 1.1000 --stop 1.0950 --target 1.1100 --size 0.5
  journal calc -s US30 -t short -e 39000 --stop 39100 --risk 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}

			in := tradeInputFromFlags(cmd)
			direction, ok := models.ParseDirection(string(in.Direction))
			if !ok {
				return fmt.Errorf("invalid direction %q (must be long or short)", in.Direction)
			}
			pi := calc.PreviewInput{
				Symbol:       in.Symbol,
				Direction:    direction,
				EntryPrice:   in.EntryPrice,
				StopLoss:     in.StopLoss,
				TakeProfit:   in.TakeProfit,
				PositionSize: in.PositionSize,
			}
			pi.Balance, _ = cmd.Flags().GetFloat64("balance")
			pi.RiskPerTrade, _ = cmd.Flags().GetFloat64("risk")
			if !pi.Ready() {
				output.Warning("Symbol, entry and stop are required for a preview.")
				return nil
			}

			p := svc.Preview(pi)
			if output.IsJSON() {
				return output.JSON(p)
			}
			printPreview(output, pi, p, currencyOf(svc))
			return nil
		},
	}
	addTradeFlags(cmd)
	cmd.Flags().Float64("balance", 0, "account balance (default: active account)")
	cmd.Flags().Float64("risk", 0, "risk per trade in percent (default from config)")
	return cmd
}

func printSummary(output *Output, s stats.Summary, currency string) {
	output.Bold("Performance Summary")
	output.Printf("  Trades:          %d (%d W / %d L / %d BE)\n", s.TotalTrades, s.Wins, s.Losses, s.Breakeven)
	output.Printf("  Win rate:        %s\n", FormatPercent(s.WinRate))
	output.Printf("  Total P&L:       %s\n", output.FormatPnL(s.TotalPL, currency))
	output.Printf("  Balance:         %s → %s\n",
		FormatCurrency(s.StartingBalance, currency), FormatCurrency(s.CurrentBalance, currency))
	output.Println()

	output.Bold("Wins and Losses")
	output.Printf("  Gross profit:    %s\n", FormatCurrency(s.GrossProfit, currency))
	output.Printf("  Gross loss:      %s\n", FormatCurrency(s.GrossLoss, currency))
	output.Printf("  Average win:     %s\n", FormatCurrency(s.AvgWin, currency))
	output.Printf("  Average loss:    %s\n", FormatCurrency(s.AvgLoss, currency))
	output.Printf("  Largest win:     %s\n", FormatCurrency(s.LargestWin, currency))
	output.Printf("  Largest loss:    %s\n", FormatCurrency(s.LargestLoss, currency))
	output.Println()

	output.Bold("Edge")
	output.Printf("  Profit factor:   %s\n", formatProfitFactor(s.ProfitFactor))
	output.Printf("  Expectancy:      %s\n", output.FormatPnL(s.Expectancy, currency))
	output.Printf("  Avg R:R:         %s\n", FormatRiskReward(s.AvgRiskReward))
}

func formatProfitFactor(pf float64) string {
	if pf >= stats.ProfitFactorNoLosses {
		return "∞ (no losses)"
	}
	return fmt.Sprintf("%.2f", pf)
}

func printAdvanced(output *Output, a stats.Advanced, currency string) {
	output.Bold("Consistency")
	output.Printf("  Profitable weeks: %d of %d (%s)\n", a.ProfitableWeeks, a.TotalWeeks, FormatPercent(a.Consistency))
	output.Printf("  Trades/month:     %.1f\n", a.TradesPerMonth)
	output.Printf("  Win streak:       %d\n", a.LongestWinStreak)
	output.Printf("  Loss streak:      %d\n", a.LongestLossStreak)
	output.Println()

	output.Bold("Discipline")
	output.Printf("  Risk adherence:   %s\n", FormatPercent(a.RiskAdherence))
	output.Printf("  Discipline score: %.0f / 100\n", a.DisciplineScore)
	output.Println()

	output.Bold("Psychology")
	output.Printf("  Best mood:        %s\n", a.BestMood)
	output.Printf("  Worst mood:       %s\n", a.WorstMood)
	printGroups(output, "Mood", a.Moods, currency)
	output.Println()

	output.Bold("Timing")
	output.Printf("  Best day:         %s\n", a.BestDay)
	printGroups(output, "Day", a.Weekdays, currency)
	output.Println()

	output.Bold("Instruments")
	output.Printf("  Best instrument:  %s\n", a.BestInstrument)
	printGroups(output, "Symbol", a.Instruments, currency)
}

func printGroups(output *Output, label string, groups []stats.GroupStat, currency string) {
	if len(groups) == 0 {
		return
	}
	table := NewTable(output, label, "Trades", "Win rate", "Total", "Average")
	for _, g := range groups {
		table.AddRow(g.Key, fmt.Sprintf("%d", g.Trades), FormatPercent(g.WinRate),
			output.FormatPnL(g.TotalProfit, currency), output.FormatPnL(g.AvgProfit, currency))
	}
	table.Render()
}

func printDashboard(output *Output, d journal.Dashboard) {
	currency := d.Account.Currency
	output.Bold("%s", d.Account.Name)
	output.Printf("  Balance:         %s\n", FormatCurrency(d.Summary.CurrentBalance, currency))
	output.Printf("  Last %d trades:   %s\n", journal.RecentWindow, output.FormatPnL(d.RecentProfit, currency))
	output.Printf("  Max drawdown:    %s (%s)\n",
		FormatCurrency(d.Charts.Drawdown.Max, currency), FormatPercent(d.Charts.Drawdown.MaxPct))
	output.Printf("  Outcomes:        %d win / %d loss / %d even\n",
		d.Charts.Distribution.Win, d.Charts.Distribution.Loss, d.Charts.Distribution.Even)
	output.Printf("  Categories:      %d forex / %d indices\n",
		d.Charts.Categories.Forex, d.Charts.Categories.Indices)
	output.Println()

	printSummary(output, d.Summary, currency)
	output.Println()

	if len(d.Symbols) > 0 {
		output.Bold("By Symbol")
		table := NewTable(output, "Symbol", "Trades", "Win rate", "P&L")
		for _, s := range d.Symbols {
			table.AddRow(s.Symbol, fmt.Sprintf("%d", s.Trades), FormatPercent(s.WinRate),
				output.FormatPnL(s.TotalProfit, currency))
		}
		table.Render()
		output.Println()
	}

	printAdvanced(output, d.Advanced, currency)
}

func printPreview(output *Output, in calc.PreviewInput, p calc.Preview, currency string) {
	output.Bold("%s %s @ %s", in.Symbol, in.Direction, FormatPrice(in.EntryPrice))
	output.Printf("  Risk distance:   %.1f %s\n", p.RiskDistance, p.Unit)
	if p.RewardDistance > 0 {
		output.Printf("  Reward distance: %.1f %s\n", p.RewardDistance, p.Unit)
		output.Printf("  Risk:reward:     %s\n", FormatRiskReward(p.RiskReward))
		output.Printf("  Potential gain:  %s\n", output.FormatPnL(p.PotentialProfit, currency))
	}
	if in.PositionSize > 0 {
		output.Printf("  Potential loss:  %s\n", output.FormatPnL(p.PotentialLoss, currency))
		output.Printf("  Risk:            %s (%s)\n", FormatCurrency(p.RiskAmount, currency), FormatPercent(p.RiskPercent))
	}
	output.Println()
	output.Printf("  Max risk:        %s\n", FormatCurrency(p.MaxRiskAmount, currency))
	output.Printf("  Suggested size:  %s lots\n", FormatLots(p.RecommendedLotSize))
}
