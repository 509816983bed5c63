package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ducklens-lab/trendlens/internal/simulator"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for row labels.
	LabelStyle = lipgloss.NewStyle().Faint(true)

	// GainStyle for positive returns.
	GainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// LossStyle for negative returns.
	LossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// FormatSignedPct colors a percentage green or red by its sign.
func FormatSignedPct(pct float64) string {
	s := fmt.Sprintf("%+.2f%%", pct)
	if pct > 0 {
		return GainStyle.Render(s)
	}
	if pct < 0 {
		return LossStyle.Render(s)
	}
	return s
}

// FormatSignedMoney colors a dollar amount green or red by its sign.
func FormatSignedMoney(amount float64) string {
	s := fmt.Sprintf("%+.2f", amount)
	if amount > 0 {
		return GainStyle.Render(s)
	}
	if amount < 0 {
		return LossStyle.Render(s)
	}
	return s
}

func row(label, value string) string {
	return fmt.Sprintf("  %s %s", LabelStyle.Render(fmt.Sprintf("%-16s", label)), value)
}

// renderReport builds the terminal summary printed after a run.
func renderReport(result *simulator.Result, folder string) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Simulation Report"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Run %s  %s to %s  (%d trading days)\n\n",
		result.RunID,
		result.StartDate.Format("2006-01-02"),
		result.EndDate.Format("2006-01-02"),
		result.TradingDays))

	b.WriteString(TitleStyle.Render("Capital"))
	b.WriteString("\n")
	b.WriteString(row("Initial", fmt.Sprintf("%.2f", result.InitialCapital)))
	b.WriteString("\n")
	b.WriteString(row("Final", fmt.Sprintf("%.2f", result.FinalCapital)))
	b.WriteString("\n")
	b.WriteString(row("Total return", FormatSignedPct(result.TotalReturnPct)))
	b.WriteString("\n")
	if result.BenchmarkReturnPct != nil {
		b.WriteString(row("Benchmark", FormatSignedPct(*result.BenchmarkReturnPct)))
		b.WriteString("\n")
	}
	b.WriteString(row("Max drawdown", fmt.Sprintf("%.2f%%", result.MaxDrawdownPct)))
	b.WriteString("\n")
	if result.TargetReachedDate != nil {
		b.WriteString(row("Target reached", result.TargetReachedDate.Format("2006-01-02")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	summary := result.Summary
	b.WriteString(TitleStyle.Render("Trades"))
	b.WriteString("\n")
	b.WriteString(row("Total", fmt.Sprintf("%d  (%d wins / %d losses)",
		summary.TotalTrades, summary.WinningTrades, summary.LosingTrades)))
	b.WriteString("\n")
	if summary.TotalTrades > 0 {
		b.WriteString(row("Win rate", fmt.Sprintf("%.1f%%", summary.WinRate)))
		b.WriteString("\n")
		b.WriteString(row("Profit factor", fmt.Sprintf("%.2f", summary.ProfitFactor)))
		b.WriteString("\n")
		b.WriteString(row("Average win", FormatSignedMoney(summary.AverageWin)))
		b.WriteString("\n")
		b.WriteString(row("Average loss", FormatSignedMoney(summary.AverageLoss)))
		b.WriteString("\n")
		b.WriteString(row("Best trade", FormatSignedMoney(summary.BestTrade)))
		b.WriteString("\n")
		b.WriteString(row("Worst trade", FormatSignedMoney(summary.WorstTrade)))
		b.WriteString("\n")
		b.WriteString(row("Holding days", fmt.Sprintf("avg %.1f  (min %d, max %d)",
			summary.AvgHoldingDays, summary.MinHoldingDays, summary.MaxHoldingDays)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Results written to %s\n", folder))
	return b.String()
}
