package telemetry

import (
	"math"

	"autocare/internal/models"
)

// Alert kinds reported by the evaluator.
const (
	AlertUrgent            = "urgent"
	AlertPerformanceImpact = "performance_impact"
	AlertTireImbalance     = "tire_imbalance"
	AlertToxicGas          = "toxic_gas"
	AlertHarshDriving      = "harsh_driving"
)

// Thresholds are the tunable limits of the alert rules.
type Thresholds struct {
	TireMinPSI    float64 `yaml:"tire_min_psi"`
	TireMaxPSI    float64 `yaml:"tire_max_psi"`
	TireSpreadPSI float64 `yaml:"tire_spread_psi"`
	GasPpm        float64 `yaml:"gas_ppm"`
	HarshG        float64 `yaml:"harsh_g"`
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TireMinPSI:    25,
		TireMaxPSI:    45,
		TireSpreadPSI: 6,
		GasPpm:        800,
		HarshG:        1.2,
	}
}

func (t Thresholds) orDefaults() Thresholds {
	d := DefaultThresholds()
	if t.TireMinPSI <= 0 {
		t.TireMinPSI = d.TireMinPSI
	}
	if t.TireMaxPSI <= 0 {
		t.TireMaxPSI = d.TireMaxPSI
	}
	if t.TireSpreadPSI <= 0 {
		t.TireSpreadPSI = d.TireSpreadPSI
	}
	if t.GasPpm <= 0 {
		t.GasPpm = d.GasPpm
	}
	if t.HarshG <= 0 {
		t.HarshG = d.HarshG
	}
	return t
}

// Classification is the evaluator's verdict over one sample. A sample may
// trigger several kinds at once.
type Classification struct {
	Urgent            bool `json:"urgent"`
	PerformanceImpact bool `json:"performance_impact"`
	TireImbalance     bool `json:"tire_imbalance"`
	ToxicGas          bool `json:"toxic_gas"`
	HarshDriving      bool `json:"harsh_driving"`
}

// Any reports whether at least one rule fired.
func (c Classification) Any() bool {
	return c.Urgent || c.PerformanceImpact || c.TireImbalance || c.ToxicGas || c.HarshDriving
}

// Kinds lists the triggered alert kinds in a stable order.
func (c Classification) Kinds() []string {
	var kinds []string
	if c.Urgent {
		kinds = append(kinds, AlertUrgent)
	}
	if c.PerformanceImpact {
		kinds = append(kinds, AlertPerformanceImpact)
	}
	if c.TireImbalance {
		kinds = append(kinds, AlertTireImbalance)
	}
	if c.ToxicGas {
		kinds = append(kinds, AlertToxicGas)
	}
	if c.HarshDriving {
		kinds = append(kinds, AlertHarshDriving)
	}
	return kinds
}

// Evaluator is the stateless rule engine over ingested samples. It never
// mutates anything; its only failure mode is a nil sample.
type Evaluator struct {
	th Thresholds
}

// NewEvaluator builds an evaluator. Zero threshold fields fall back to the
// defaults.
func NewEvaluator(th Thresholds) *Evaluator {
	return &Evaluator{th: th.orDefaults()}
}

// Classify runs every rule independently over the sample.
func (e *Evaluator) Classify(sample *models.Sample) (Classification, error) {
	if sample == nil {
		return Classification{}, &models.ValidationError{Field: "sample", Reason: "sample is required"}
	}

	var c Classification

	c.Urgent = sample.Severity == models.SeverityCritical ||
		sample.Severity == models.SeverityHigh ||
		sample.Fault != nil

	c.PerformanceImpact = sample.Severity == models.SeverityMedium ||
		(sample.Type == models.SampleTypeEngine && sample.Severity == models.SeverityLow)

	if sample.TirePressure != nil {
		c.TireImbalance = e.tireImbalance(sample.TirePressure.Readings())
	}

	if sample.CabinGas != nil {
		c.ToxicGas = sample.CabinGas.ConcentrationPpm > e.th.GasPpm
	}

	if acc := sample.Acceleration; acc != nil {
		if acc.LateralG != nil && math.Abs(*acc.LateralG) > e.th.HarshG {
			c.HarshDriving = true
		}
		if acc.LongitudinalG != nil && math.Abs(*acc.LongitudinalG) > e.th.HarshG {
			c.HarshDriving = true
		}
	}

	return c, nil
}

// tireImbalance flags any out-of-band reading or a spread above the limit
// across the present wheels.
func (e *Evaluator) tireImbalance(readings []float64) bool {
	if len(readings) == 0 {
		return false
	}
	min, max := readings[0], readings[0]
	for _, psi := range readings {
		if psi < e.th.TireMinPSI || psi > e.th.TireMaxPSI {
			return true
		}
		if psi < min {
			min = psi
		}
		if psi > max {
			max = psi
		}
	}
	return max-min > e.th.TireSpreadPSI
}
