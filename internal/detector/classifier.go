// Package detector turns indicator snapshots into trading signals: a weighted
// vote classifies each day's trend, a per-symbol state machine counts
// consecutive confirmations, and the emitter applies blackout, confidence and
// strength gates before a decision policy settles trend changes.
package detector

import (
	"fmt"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/moznion/go-optional"
)

// Vote weights. SMA alignment is the strongest signal.
const (
	weightSMA  = 2
	weightMACD = 1
	weightRSI  = 1
	weightFlow = 1
)

// trendThreshold is the conviction share a direction needs to classify as a
// trend rather than NEUTRAL.
const trendThreshold = 0.6

// Volume-spike damping: above volumeSpikeThreshold times the 20-day average,
// confidence is reduced by 0.1 per extra multiple, capped at
// maxVolumePenalty.
const (
	volumeSpikeThreshold = 3.0
	maxVolumePenalty     = 0.3
)

// Classification is the outcome of evaluating one snapshot: the trend, its
// confidence, and the individual votes kept for the reasoning detail block.
// A Some(true) vote is bullish, Some(false) bearish, None abstained.
type Classification struct {
	Trend       types.TrendDirection
	Confidence  float64
	SMAAligned  optional.Option[bool]
	MACDBullish optional.Option[bool]
	RSIHealthy  optional.Option[bool]
	FlowBullish optional.Option[bool]
	// VolumeNote is set when a volume spike damped the confidence.
	VolumeNote string
}

// Classify runs the weighted trend vote over one snapshot. Missing
// sub-indicators abstain; if nothing votes the result is NEUTRAL with zero
// confidence. Pure function of its input.
func Classify(snapshot types.IndicatorSnapshot) Classification {
	c := Classification{
		Trend:       types.TrendNeutral,
		SMAAligned:  checkSMAAlignment(snapshot),
		MACDBullish: checkMACD(snapshot),
		RSIHealthy:  checkRSI(snapshot),
		FlowBullish: checkFlow(snapshot),
	}

	bullish := 0
	total := 0

	tally := func(vote optional.Option[bool], weight int) {
		if vote.IsNone() {
			return
		}

		total += weight
		if vote.Unwrap() {
			bullish += weight
		}
	}

	tally(c.SMAAligned, weightSMA)
	tally(c.MACDBullish, weightMACD)
	tally(c.RSIHealthy, weightRSI)
	tally(c.FlowBullish, weightFlow)

	if total == 0 {
		return c
	}

	bullishPct := float64(bullish) / float64(total)
	bearishPct := float64(total-bullish) / float64(total)

	switch {
	case bullishPct >= trendThreshold:
		c.Trend = types.TrendBullish
		c.Confidence = bullishPct
	case bearishPct >= trendThreshold:
		c.Trend = types.TrendBearish
		c.Confidence = bearishPct
	default:
		c.Trend = types.TrendNeutral
		c.Confidence = max(bullishPct, bearishPct)
	}

	return dampVolumeSpike(snapshot, c)
}

// dampVolumeSpike reduces confidence when today's volume is far above the
// 20-day average.
func dampVolumeSpike(snapshot types.IndicatorSnapshot, c Classification) Classification {
	ratio := snapshot.VolumeRatio()
	if ratio <= volumeSpikeThreshold {
		return c
	}

	penalty := (ratio - volumeSpikeThreshold) * 0.1
	if penalty > maxVolumePenalty {
		penalty = maxVolumePenalty
	}

	damped := c.Confidence - penalty
	if damped < 0 {
		damped = 0
	}

	c.VolumeNote = fmt.Sprintf("Volume spike %.1fx average - confidence reduced from %.0f%% to %.0f%%",
		ratio, c.Confidence*100, damped*100)
	c.Confidence = damped

	return c
}

// checkSMAAlignment votes bullish on a fully stacked 20>50>200 chain and
// bearish on the reverse. Partial or missing chains abstain.
func checkSMAAlignment(snapshot types.IndicatorSnapshot) optional.Option[bool] {
	if snapshot.SMA20.IsNone() || snapshot.SMA50.IsNone() || snapshot.SMA200.IsNone() {
		return optional.None[bool]()
	}

	sma20 := snapshot.SMA20.Unwrap()
	sma50 := snapshot.SMA50.Unwrap()
	sma200 := snapshot.SMA200.Unwrap()

	switch {
	case sma20 > sma50 && sma50 > sma200:
		return optional.Some(true)
	case sma20 < sma50 && sma50 < sma200:
		return optional.Some(false)
	default:
		return optional.None[bool]()
	}
}

func checkMACD(snapshot types.IndicatorSnapshot) optional.Option[bool] {
	if snapshot.MACD.IsNone() || snapshot.MACDSignal.IsNone() {
		return optional.None[bool]()
	}

	return optional.Some(snapshot.MACD.Unwrap() > snapshot.MACDSignal.Unwrap())
}

// checkRSI votes bullish in the healthy 40-70 band. Both oversold and
// overbought readings count bearish.
func checkRSI(snapshot types.IndicatorSnapshot) optional.Option[bool] {
	if snapshot.RSI14.IsNone() {
		return optional.None[bool]()
	}

	rsi := snapshot.RSI14.Unwrap()

	return optional.Some(rsi >= 40 && rsi <= 70)
}

func checkFlow(snapshot types.IndicatorSnapshot) optional.Option[bool] {
	if snapshot.Flow.IsNone() {
		return optional.None[bool]()
	}

	switch snapshot.Flow.Unwrap() {
	case types.FlowBullish:
		return optional.Some(true)
	case types.FlowBearish:
		return optional.Some(false)
	default:
		return optional.None[bool]()
	}
}
