// Package portfolio manages the long-position lifecycle of a simulation run:
// regime-aware sizing and opening, trailing stop maintenance, exit checks in
// strict priority order, and closes with fee-adjusted PnL.
package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sizing bounds. The confidence above 0.5 becomes the position fraction,
// clamped to this band before the regime scale applies.
const (
	minPositionFraction = 0.10
	maxPositionFraction = 0.15
)

// highConfidenceLeverage is the confidence at which the regime's maximum
// leverage applies instead of its minimum.
const highConfidenceLeverage = 0.85

// vixLeverageCut halves leverage above this VIX level. Leverage never drops
// below 1x.
const vixLeverageCut = 30.0

// Settings fixes the cost model and trailing stop behavior for one
// portfolio.
type Settings struct {
	InitialCapital float64
	// Commission and Slippage are charged as fractions of notional on both
	// the entry and the exit leg.
	Commission float64
	Slippage   float64
	// TrailingActivation is the gain fraction that arms the trailing stop;
	// TrailingDistance is how far below the peak it trails.
	TrailingActivation float64
	TrailingDistance   float64
}

// DefaultSettings returns the standard cost and trailing model.
func DefaultSettings() Settings {
	return Settings{
		InitialCapital:     100_000,
		Commission:         0.001,
		Slippage:           0.001,
		TrailingActivation: 0.10,
		TrailingDistance:   0.05,
	}
}

// OpenOrder carries everything needed to size and open one position.
// PortfolioValue is the caller's mark of the whole portfolio for the day;
// sizing is a fraction of it, not of free cash.
type OpenOrder struct {
	Symbol         string
	Date           time.Time
	Price          float64
	Confidence     float64
	PortfolioValue float64
	Context        types.RegimeSnapshot
	Params         types.RegimeParams
}

// ExitSignal names one triggered exit: which position, at what price, and
// which rule fired.
type ExitSignal struct {
	Symbol string
	Price  float64
	Reason string
}

// Portfolio tracks cash, open positions and the closed-trade log for one
// run. It is not safe for concurrent use; runs own their portfolio
// exclusively.
type Portfolio struct {
	settings  Settings
	cash      float64
	positions map[string]*types.Position
	trades    []types.Trade
	logger    *logger.Logger
}

// NewPortfolio creates a portfolio holding the initial capital in cash.
func NewPortfolio(settings Settings, logger *logger.Logger) *Portfolio {
	return &Portfolio{
		settings:  settings,
		cash:      settings.InitialCapital,
		positions: make(map[string]*types.Position),
		trades:    make([]types.Trade, 0),
		logger:    logger,
	}
}

// Open sizes and opens a long position. Rejections are returned as coded
// errors and leave the portfolio untouched: duplicate symbol, the regime's
// position cap, a size that rounds to zero shares, or insufficient cash for
// the fee-adjusted cost.
func (p *Portfolio) Open(order OpenOrder) error {
	if order.Price <= 0 {
		return errors.Newf(errors.ErrCodePositionRejected, "non-positive price %.4f for %s", order.Price, order.Symbol)
	}

	if _, held := p.positions[order.Symbol]; held {
		return errors.Newf(errors.ErrCodeDuplicatePosition, "position already open for %s", order.Symbol)
	}

	if len(p.positions) >= order.Params.MaxPositions {
		return errors.Newf(errors.ErrCodePositionRejected, "max positions reached (%d)", order.Params.MaxPositions)
	}

	leverage := p.leverageFor(order.Confidence, order.Context.VIX, order.Params)
	fraction := positionFraction(order.Confidence) * order.Params.PositionScale

	quantity := math.Floor(order.PortfolioValue * fraction * leverage / order.Price)
	if quantity <= 0 {
		return errors.Newf(errors.ErrCodePositionRejected, "position size for %s rounded to zero shares", order.Symbol)
	}

	totalCost := quantity * order.Price * (1 + p.settings.Commission + p.settings.Slippage)
	if totalCost > p.cash {
		return errors.Newf(errors.ErrCodeInsufficientCash,
			"entry cost %.2f exceeds cash %.2f for %s", totalCost, p.cash, order.Symbol)
	}

	p.positions[order.Symbol] = &types.Position{
		Symbol:       order.Symbol,
		EntryDate:    order.Date,
		EntryPrice:   order.Price,
		Quantity:     quantity,
		StopLoss:     order.Price * (1 - order.Params.StopLossPct),
		TakeProfit:   order.Price * (1 + order.Params.TakeProfitPct),
		TrailingStop: optional.None[float64](),
		Confidence:   order.Confidence,
		LeverageUsed: leverage,
		HighestPrice: order.Price,
	}
	p.cash -= totalCost

	p.logger.Debug("Opened position",
		zap.String("symbol", order.Symbol),
		zap.Float64("price", order.Price),
		zap.Float64("quantity", quantity),
		zap.Float64("leverage", leverage),
		zap.String("regime", string(order.Context.Regime)))

	return nil
}

// Close exits the position at the given price, nets out commission and
// slippage on both legs, and appends the resulting trade.
func (p *Portfolio) Close(symbol string, date time.Time, price float64, reason string, regime types.MarketRegime) (types.Trade, error) {
	position, held := p.positions[symbol]
	if !held {
		return types.Trade{}, errors.Newf(errors.ErrCodePositionNotFound, "no open position for %s", symbol)
	}

	feeIn := 1 + p.settings.Commission + p.settings.Slippage
	feeOut := 1 - p.settings.Commission - p.settings.Slippage

	netProceeds := position.Quantity * price * feeOut

	// Decimal arithmetic keeps the PnL ledger exact across both fee legs.
	proceedsDec := decimal.NewFromFloat(position.Quantity).
		Mul(decimal.NewFromFloat(price)).
		Mul(decimal.NewFromFloat(feeOut))
	entryCostDec := decimal.NewFromFloat(position.Quantity).
		Mul(decimal.NewFromFloat(position.EntryPrice)).
		Mul(decimal.NewFromFloat(feeIn))
	pnl, _ := proceedsDec.Sub(entryCostDec).Float64()

	pnlPct := 0.0
	if costBasis := position.Quantity * position.EntryPrice; costBasis != 0 {
		pnlPct = pnl / costBasis
	}

	trade := types.Trade{
		ID:           uuid.New().String(),
		Symbol:       symbol,
		EntryDate:    position.EntryDate,
		ExitDate:     date,
		EntryPrice:   position.EntryPrice,
		ExitPrice:    price,
		Quantity:     position.Quantity,
		PnL:          pnl,
		PnLPct:       pnlPct,
		Confidence:   position.Confidence,
		LeverageUsed: position.LeverageUsed,
		ExitReason:   reason,
		Regime:       regime,
		HoldingDays:  int(date.Sub(position.EntryDate).Hours() / 24),
	}

	p.trades = append(p.trades, trade)
	p.cash += netProceeds
	delete(p.positions, symbol)

	p.logger.Debug("Closed position",
		zap.String("symbol", symbol),
		zap.Float64("price", price),
		zap.Float64("pnl", pnl),
		zap.String("reason", reason))

	return trade, nil
}

// UpdateTrailingStops advances the peak price of every position that has a
// quote today and arms or raises its trailing stop. Stops only move up.
func (p *Portfolio) UpdateTrailingStops(prices map[string]float64) {
	for _, symbol := range p.sortedSymbols() {
		position := p.positions[symbol]

		price, ok := prices[symbol]
		if !ok || price <= 0 {
			continue
		}

		if price > position.HighestPrice {
			position.HighestPrice = price
		}

		gain := position.GainPct(position.HighestPrice)
		if gain < p.settings.TrailingActivation {
			continue
		}

		candidate := position.HighestPrice * (1 - p.settings.TrailingDistance)
		if position.TrailingStop.IsNone() || candidate > position.TrailingStop.Unwrap() {
			position.TrailingStop = optional.Some(candidate)
		}
	}
}

// CheckExits evaluates every position with a quote today against its exit
// rules in priority order: trailing stop, then stop loss, then take profit.
// At most one exit is returned per position; nothing is closed here.
func (p *Portfolio) CheckExits(prices map[string]float64) []ExitSignal {
	exits := make([]ExitSignal, 0)

	for _, symbol := range p.sortedSymbols() {
		position := p.positions[symbol]

		price, ok := prices[symbol]
		if !ok || price <= 0 {
			continue
		}

		switch {
		case position.TrailingStop.IsSome() && price <= position.TrailingStop.Unwrap():
			exits = append(exits, ExitSignal{Symbol: symbol, Price: price, Reason: types.CloseReasonTrailingStop})
		case price <= position.StopLoss:
			exits = append(exits, ExitSignal{Symbol: symbol, Price: price, Reason: types.CloseReasonStopLoss})
		case price >= position.TakeProfit:
			exits = append(exits, ExitSignal{Symbol: symbol, Price: price, Reason: types.CloseReasonTakeProfit})
		}
	}

	return exits
}

// Value marks the portfolio: cash plus every position at today's quote,
// falling back to the entry price for symbols without one.
func (p *Portfolio) Value(prices map[string]float64) float64 {
	value := p.cash

	for symbol, position := range p.positions {
		price, ok := prices[symbol]
		if !ok || price <= 0 {
			price = position.EntryPrice
		}

		value += position.MarketValue(price)
	}

	return value
}

// Cash returns the free cash balance.
func (p *Portfolio) Cash() float64 {
	return p.cash
}

// OpenCount returns the number of open positions.
func (p *Portfolio) OpenCount() int {
	return len(p.positions)
}

// HasPosition reports whether symbol is currently held.
func (p *Portfolio) HasPosition(symbol string) bool {
	_, held := p.positions[symbol]

	return held
}

// Position returns a copy of the open position for symbol.
func (p *Portfolio) Position(symbol string) (types.Position, bool) {
	position, held := p.positions[symbol]
	if !held {
		return types.Position{}, false
	}

	return *position, true
}

// Positions returns copies of all open positions sorted by symbol.
func (p *Portfolio) Positions() []types.Position {
	positions := make([]types.Position, 0, len(p.positions))
	for _, symbol := range p.sortedSymbols() {
		positions = append(positions, *p.positions[symbol])
	}

	return positions
}

// Trades returns the closed trades in close order.
func (p *Portfolio) Trades() []types.Trade {
	trades := make([]types.Trade, len(p.trades))
	copy(trades, p.trades)

	return trades
}

func (p *Portfolio) sortedSymbols() []string {
	symbols := make([]string, 0, len(p.positions))
	for symbol := range p.positions {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}

// leverageFor picks the regime leverage for the confidence level, halves it
// in high-VIX conditions, and never goes below 1x.
func (p *Portfolio) leverageFor(confidence, vix float64, params types.RegimeParams) float64 {
	leverage := params.MinLeverage
	if confidence >= highConfidenceLeverage {
		leverage = params.MaxLeverage
	}

	if vix > vixLeverageCut {
		leverage *= 0.5
	}

	if leverage < 1.0 {
		leverage = 1.0
	}

	return leverage
}

// positionFraction maps confidence above coin-flip odds into the clamped
// sizing band.
func positionFraction(confidence float64) float64 {
	fraction := confidence - 0.5
	if fraction < minPositionFraction {
		fraction = minPositionFraction
	}

	if fraction > maxPositionFraction {
		fraction = maxPositionFraction
	}

	return fraction
}
