package risk

// Rule-based scoring constants. These are behavior-parity constants carried
// over from the trained pipeline's fallback; do not re-tune them.
const (
	// RiskThreshold is the probability at or above which HasRisk is true.
	RiskThreshold = 0.30
	// noEvidenceProbability is returned when no risk factor fired at all.
	noEvidenceProbability = 0.15
	// probabilityFloor / probabilityCeil clamp the score once at least one
	// risk factor contributed.
	probabilityFloor = 0.10
	probabilityCeil  = 0.95
)

// RuleScore is the deterministic fallback risk function used whenever the
// trained model is unavailable or fails. It reacts only to actually extracted
// values: imputed defaults never feed the scorer. Contributions are additive
// and independent. The 100-140 glucose band contributes weight but does not
// count as a risk factor for the no-evidence floor.
func RuleScore(fs FeatureSet) (hasRisk bool, probability float64) {
	score := 0.0
	riskFactors := 0

	if glucose, ok := fs.Get(FeatureGlucose); ok {
		switch {
		case glucose >= 200:
			score += 0.4
			riskFactors++
		case glucose >= 140:
			score += 0.3
			riskFactors++
		case glucose >= 100:
			score += 0.1
		}
	}

	if bmi, ok := fs.Get(FeatureBMI); ok {
		switch {
		case bmi >= 30:
			score += 0.2
			riskFactors++
		case bmi >= 25:
			score += 0.1
			riskFactors++
		}
	}

	if age, ok := fs.Get(FeatureAge); ok && age >= 45 {
		score += 0.1
		riskFactors++
	}

	if bp, ok := fs.Get(FeatureBloodPressure); ok && bp >= 140 {
		score += 0.1
		riskFactors++
	}

	if _, ok := fs.Get(FeaturePedigree); ok {
		score += 0.1
		riskFactors++
	}

	if riskFactors > 0 {
		probability = clampFloat(score, probabilityFloor, probabilityCeil)
	} else {
		probability = noEvidenceProbability
	}

	return probability >= RiskThreshold, probability
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
