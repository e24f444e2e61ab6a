package risk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameters are the risk limits for one trading cycle. They are loaded once
// and passed by value; nothing in the pipeline mutates them afterwards.
type Parameters struct {
	// Position sizing
	RiskFraction        float64 `yaml:"risk_fraction" json:"risk_fraction"`                 // account fraction risked per trade
	MaxPositionValue    float64 `yaml:"max_position_value" json:"max_position_value"`       // quote-currency cap per position
	MaxPositionFraction float64 `yaml:"max_position_fraction" json:"max_position_fraction"` // account fraction cap per position
	MaxOpenPositions    int     `yaml:"max_open_positions" json:"max_open_positions"`

	// Stop / target placement
	StopLossATRMultiple      float64 `yaml:"stop_loss_atr_multiple" json:"stop_loss_atr_multiple"`
	TakeProfitRewardMultiple float64 `yaml:"take_profit_reward_multiple" json:"take_profit_reward_multiple"` // risk:reward, 1.5 = 1:1.5

	// Trailing stop
	TrailingActivationPct float64 `yaml:"trailing_activation_pct" json:"trailing_activation_pct"` // unrealized profit fraction to arm
	TrailingDistancePct   float64 `yaml:"trailing_distance_pct" json:"trailing_distance_pct"`     // distance from high-water mark

	// Daily circuit breakers
	MaxDailyTrades int     `yaml:"max_daily_trades" json:"max_daily_trades"`
	MaxDailyLoss   float64 `yaml:"max_daily_loss" json:"max_daily_loss"` // quote currency, positive magnitude

	// Affordability
	FeeSafetyMargin float64 `yaml:"fee_safety_margin" json:"fee_safety_margin"` // fraction of position value reserved for fees
}

// DefaultParameters returns the documented defaults. Each field of a loaded
// document falls back to these when left zero.
func DefaultParameters() Parameters {
	return Parameters{
		RiskFraction:             0.02,
		MaxPositionValue:         1000,
		MaxPositionFraction:      0.25,
		MaxOpenPositions:         3,
		StopLossATRMultiple:      2.0,
		TakeProfitRewardMultiple: 1.5,
		TrailingActivationPct:    0.03,
		TrailingDistancePct:      0.015,
		MaxDailyTrades:           10,
		MaxDailyLoss:             50,
		FeeSafetyMargin:          0.005,
	}
}

// LoadParameters reads a YAML risk document and applies defaults for any
// field the document omits. A missing file is not an error: the defaults
// apply wholesale.
func LoadParameters(path string) (Parameters, error) {
	p := DefaultParameters()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("read risk config: %w", err)
	}

	var doc Parameters
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return p, fmt.Errorf("parse risk config: %w", err)
	}
	p.merge(doc)
	return p, nil
}

func (p *Parameters) merge(doc Parameters) {
	if doc.RiskFraction > 0 {
		p.RiskFraction = doc.RiskFraction
	}
	if doc.MaxPositionValue > 0 {
		p.MaxPositionValue = doc.MaxPositionValue
	}
	if doc.MaxPositionFraction > 0 {
		p.MaxPositionFraction = doc.MaxPositionFraction
	}
	if doc.MaxOpenPositions > 0 {
		p.MaxOpenPositions = doc.MaxOpenPositions
	}
	if doc.StopLossATRMultiple > 0 {
		p.StopLossATRMultiple = doc.StopLossATRMultiple
	}
	if doc.TakeProfitRewardMultiple > 0 {
		p.TakeProfitRewardMultiple = doc.TakeProfitRewardMultiple
	}
	if doc.TrailingActivationPct > 0 {
		p.TrailingActivationPct = doc.TrailingActivationPct
	}
	if doc.TrailingDistancePct > 0 {
		p.TrailingDistancePct = doc.TrailingDistancePct
	}
	if doc.MaxDailyTrades > 0 {
		p.MaxDailyTrades = doc.MaxDailyTrades
	}
	if doc.MaxDailyLoss > 0 {
		p.MaxDailyLoss = doc.MaxDailyLoss
	}
	if doc.FeeSafetyMargin > 0 {
		p.FeeSafetyMargin = doc.FeeSafetyMargin
	}
}
