package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ThreatLevel is the overall four-level threat grade.
type ThreatLevel int

const (
	ThreatLow ThreatLevel = iota
	ThreatModerate
	ThreatHigh
	ThreatExtreme
)

func (t ThreatLevel) String() string {
	switch t {
	case ThreatModerate:
		return "MODERATE"
	case ThreatHigh:
		return "HIGH"
	case ThreatExtreme:
		return "EXTREME"
	default:
		return "LOW"
	}
}

func (t ThreatLevel) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// Threat level decision thresholds on the expected threat score. These are
// decision logic, not calibration: the level cutoffs are fixed alongside the
// class overrides below.
const (
	extremeThreatScore  = 0.7
	highThreatScore     = 0.5
	moderateThreatScore = 0.3
)

// Concern flag thresholds, fixed with the flags they gate.
const (
	crownConcernScore = 60
	spottingConcernKm = 2
	rapidSpreadHours  = 2
)

// Concern flag texts, in evaluation order.
const (
	ConcernCrownFire   = "High crown fire potential"
	ConcernSpotting    = "Long-range spotting risk"
	ConcernRapidSpread = "Rapid fire spread"
	ConcernSuppression = "Difficult suppression conditions"
)

// ThreatAssessment is the terminal output of the threat pipeline.
type ThreatAssessment struct {
	ThreatLevel         ThreatLevel `json:"threat_level"`
	ExpectedThreatScore float64     `json:"expected_threat_score"`
	KeyConcerns         []string    `json:"key_concerns"`
	Summary             string      `json:"summary"`
}

// AssessThreat turns fire behavior metrics into an overall assessment.
//
// The level decision runs top-down, first match wins: a severity class can
// force a level even when the numeric score sits below every threshold, so
// the most severe conditions are checked first.
func AssessThreat(m FireBehaviorMetrics) ThreatAssessment {
	var level ThreatLevel
	switch {
	case m.ExpectedThreat > extremeThreatScore || m.SeverityClass == SeverityExtreme:
		level = ThreatExtreme
	case m.ExpectedThreat > highThreatScore || m.SeverityClass == SeverityHigh:
		level = ThreatHigh
	case m.ExpectedThreat > moderateThreatScore || m.SeverityClass == SeverityModerate:
		level = ThreatModerate
	default:
		level = ThreatLow
	}

	// Concerns are independent flags appended in fixed evaluation order.
	var concerns []string
	if m.CrownFireScore > crownConcernScore {
		concerns = append(concerns, ConcernCrownFire)
	}
	if m.SpottingDistanceKm > spottingConcernKm {
		concerns = append(concerns, ConcernSpotting)
	}
	if m.TimeToBurnHours < rapidSpreadHours {
		concerns = append(concerns, ConcernRapidSpread)
	}
	if m.Containment == ContainHard || m.Containment == ContainVeryDifficult {
		concerns = append(concerns, ConcernSuppression)
	}

	summary := fmt.Sprintf("%s wildfire threat with %s severity and %s crown fire potential",
		level,
		strings.ToLower(m.SeverityClass.String()),
		strings.ToLower(m.CrownFireClass.String()),
	)

	return ThreatAssessment{
		ThreatLevel:         level,
		ExpectedThreatScore: m.ExpectedThreat,
		KeyConcerns:         concerns,
		Summary:             summary,
	}
}
