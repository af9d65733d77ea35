package domain

import "encoding/json"

// RiskLevel is the five-tier grade used by the lightweight classification
// path.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskModerate
	RiskHigh
	RiskVeryHigh
	RiskExtreme
)

func (r RiskLevel) String() string {
	switch r {
	case RiskModerate:
		return "Moderate"
	case RiskHigh:
		return "High"
	case RiskVeryHigh:
		return "Very High"
	case RiskExtreme:
		return "Extreme"
	default:
		return "Low"
	}
}

func (r RiskLevel) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// ClassifyRisk buckets a fire occurrence probability into five even tiers of
// width 0.2. The index clamps at the top so a probability of exactly 1.0
// lands in Extreme rather than past the end of the scale; probabilities
// below 0 clamp to Low.
func ClassifyRisk(probability float64) RiskLevel {
	if probability < 0 {
		return RiskLow
	}
	idx := int(probability * 5)
	if idx > int(RiskExtreme) {
		idx = int(RiskExtreme)
	}
	return RiskLevel(idx)
}
