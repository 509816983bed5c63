package types

import "time"

// Exit reasons recorded on closed trades, in the order CheckExits evaluates
// them plus the two simulator-driven closes.
const (
	CloseReasonTrailingStop string = "trailing_stop"
	CloseReasonStopLoss     string = "stop_loss"
	CloseReasonTakeProfit   string = "take_profit"
	CloseReasonSignalExit   string = "signal_exit"
	CloseReasonPeriodEnd    string = "period_end"
)

// Trade is the immutable record of a closed position. Created exactly once,
// at close.
type Trade struct {
	ID         string    `yaml:"id" json:"id" csv:"id"`
	Symbol     string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	EntryDate  time.Time `yaml:"entry_date" json:"entry_date" csv:"entry_date"`
	ExitDate   time.Time `yaml:"exit_date" json:"exit_date" csv:"exit_date"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	Quantity   float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	// PnL is realized profit or loss net of commission and slippage on both legs.
	PnL float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
	// PnLPct is PnL relative to the entry cost. Zero when the cost basis is zero.
	PnLPct float64 `yaml:"pnl_pct" json:"pnl_pct" csv:"pnl_pct"`
	// Confidence is the signal confidence the position was opened with.
	Confidence   float64      `yaml:"confidence" json:"confidence" csv:"confidence"`
	LeverageUsed float64      `yaml:"leverage_used" json:"leverage_used" csv:"leverage_used"`
	ExitReason   string       `yaml:"exit_reason" json:"exit_reason" csv:"exit_reason"`
	Regime       MarketRegime `yaml:"regime" json:"regime" csv:"regime"`
	HoldingDays  int          `yaml:"holding_days" json:"holding_days" csv:"holding_days"`
}

// IsWin reports whether the trade realized a positive profit.
func (t *Trade) IsWin() bool {
	return t.PnL > 0
}
