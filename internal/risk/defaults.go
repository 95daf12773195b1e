package risk

// DefaultValues returns the population-median fallback for every feature,
// used to fill the model input vector where extraction found nothing.
// These constants are part of the assessment's reproducibility contract:
// they mirror the medians of the training dataset and must stay frozen.
func DefaultValues() [FeatureCount]float64 {
	return [FeatureCount]float64{
		FeaturePregnancies:   3.0,
		FeatureGlucose:       120.0,
		FeatureBloodPressure: 72.0,
		FeatureSkinThickness: 23.0,
		FeatureInsulin:       30.5,
		FeatureBMI:           32.0,
		FeaturePedigree:      0.3725,
		FeatureAge:           29.0,
	}
}
