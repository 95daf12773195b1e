package risk

// FeatureCount is the fixed width of the clinical feature vector.
const FeatureCount = 8

// Feature identifies one of the clinical inputs to the risk model.
type Feature int

const (
	FeaturePregnancies Feature = iota
	FeatureGlucose
	FeatureBloodPressure
	FeatureSkinThickness
	FeatureInsulin
	FeatureBMI
	FeaturePedigree
	FeatureAge
)

var featureNames = [FeatureCount]string{
	"pregnancies",
	"glucose",
	"blood_pressure",
	"skin_thickness",
	"insulin",
	"bmi",
	"pedigree",
	"age",
}

// String returns the wire name of the feature.
func (f Feature) String() string {
	if f < 0 || int(f) >= FeatureCount {
		return "unknown"
	}
	return featureNames[f]
}

// FeatureSet holds the optional extracted value for every clinical feature.
// A nil field means the value could not be parsed from the conversation;
// values that are present have already passed the per-feature plausibility
// range, so consumers never need to re-validate them.
type FeatureSet struct {
	Pregnancies   *float64 `json:"pregnancies"`
	Glucose       *float64 `json:"glucose"`
	BloodPressure *float64 `json:"blood_pressure"`
	SkinThickness *float64 `json:"skin_thickness"`
	Insulin       *float64 `json:"insulin"`
	BMI           *float64 `json:"bmi"`
	Pedigree      *float64 `json:"pedigree"`
	Age           *float64 `json:"age"`
}

// Get returns the value for the given feature and whether it is present.
func (fs *FeatureSet) Get(f Feature) (float64, bool) {
	p := fs.ptr(f)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// Set stores a value for the given feature.
func (fs *FeatureSet) Set(f Feature, v float64) {
	if p := fs.ptr(f); p != nil {
		*p = &v
	}
}

func (fs *FeatureSet) ptr(f Feature) **float64 {
	switch f {
	case FeaturePregnancies:
		return &fs.Pregnancies
	case FeatureGlucose:
		return &fs.Glucose
	case FeatureBloodPressure:
		return &fs.BloodPressure
	case FeatureSkinThickness:
		return &fs.SkinThickness
	case FeatureInsulin:
		return &fs.Insulin
	case FeatureBMI:
		return &fs.BMI
	case FeaturePedigree:
		return &fs.Pedigree
	case FeatureAge:
		return &fs.Age
	default:
		return nil
	}
}

// ExtractedCount reports how many features carry an actual extracted value.
// The assessment message uses this as its confidence signal.
func (fs *FeatureSet) ExtractedCount() int {
	n := 0
	for f := Feature(0); f < FeatureCount; f++ {
		if _, ok := fs.Get(f); ok {
			n++
		}
	}
	return n
}

// Vector builds the model input vector in canonical feature order,
// substituting the imputed default wherever a feature is absent.
func (fs *FeatureSet) Vector(defaults [FeatureCount]float64) [FeatureCount]float64 {
	var vec [FeatureCount]float64
	for f := Feature(0); f < FeatureCount; f++ {
		if v, ok := fs.Get(f); ok {
			vec[f] = v
		} else {
			vec[f] = defaults[f]
		}
	}
	return vec
}
