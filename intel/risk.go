package intel

import "math"

// RiskLevel is a discrete level of risk score.
type RiskLevel string

// Risk levels. Thresholds are: low < 0.4 <= medium < 0.7 <= high.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// AnonymityLevel is an estimation of how well the real user is hidden
// behind the address.
type AnonymityLevel string

// Anonymity levels.
const (
	AnonymityNone     AnonymityLevel = "none"
	AnonymityLow      AnonymityLevel = "low"
	AnonymityMedium   AnonymityLevel = "medium"
	AnonymityHigh     AnonymityLevel = "high"
	AnonymityVeryHigh AnonymityLevel = "very_high"
)

const (
	weightTor           = 0.50
	weightVPN           = 0.35
	weightProxy         = 0.40
	weightHosting       = 0.25
	weightSuspiciousASN = 0.30

	thresholdHigh   = 0.7
	thresholdMedium = 0.4
)

// RiskVerdict is a result of scoring of the feature bag.
type RiskVerdict struct {
	Score          float64        `json:"risk_score"`
	Level          RiskLevel      `json:"risk_level"`
	Category       string         `json:"risk_category"`
	AnonymityLevel AnonymityLevel `json:"anonymity_level"`
}

// Percent returns a score scaled to 0..100.
func (r RiskVerdict) Percent() int {
	return int(math.Round(r.Score * 100))
}

// IsMalicious is true for scores strictly above high threshold.
func (r RiskVerdict) IsMalicious() bool {
	return r.Score > thresholdHigh
}

// Score combines features into a single risk score with a fixed weighted
// sum clamped to [0, 1].
func Score(features FeatureBag) RiskVerdict {
	score := 0.0

	if features.IsTor {
		score += weightTor
	}

	if features.VPNDetected {
		score += weightVPN
	}

	if features.IsProxy {
		score += weightProxy
	}

	if features.IsHosting {
		score += weightHosting
	}

	if features.HasFactor(FactorSuspiciousASN) {
		score += weightSuspiciousASN
	}

	score = math.Max(0, math.Min(score, 1.0))
	level := riskLevel(score)

	return RiskVerdict{
		Score:          score,
		Level:          level,
		Category:       string(level) + "_risk",
		AnonymityLevel: anonymityLevel(features),
	}
}

func riskLevel(score float64) RiskLevel {
	switch {
	case score >= thresholdHigh:
		return RiskHigh
	case score >= thresholdMedium:
		return RiskMedium
	}

	return RiskLow
}

func anonymityLevel(features FeatureBag) AnonymityLevel {
	switch {
	case features.IsTor:
		return AnonymityVeryHigh
	case features.VPNDetected:
		return AnonymityHigh
	case features.IsProxy:
		return AnonymityMedium
	case features.IsHosting:
		return AnonymityLow
	}

	return AnonymityNone
}
