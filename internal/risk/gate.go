package risk

import "strings"

// Keyword sets for the topic relevance gate. The gate is a cheap substring
// prefilter that decides whether a message is worth the full assessment path
// at all; it looks only at the current message, never at history.
var (
	diseaseKeywords = []string{
		"diabetes", "diabetic", "blood sugar", "glucose", "insulin",
		"sugar level", "high glucose", "diabetes symptoms", "diabetes risk",
		"pregestational", "gestational diabetes", "type 1", "type 2",
		"thirsty", "frequent urination", "weight loss", "blurred vision",
	}

	clinicalValueKeywords = []string{
		"glucose", "blood sugar", "bmi", "blood pressure", "bp",
		"age", "pregnancy", "pregnancies", "insulin",
	}
)

// IsEligible reports whether the message mentions either a disease/symptom
// term or a bare clinical value term. Case-insensitive substring membership.
func IsEligible(message string) bool {
	lower := strings.ToLower(message)
	return containsAny(lower, diseaseKeywords) || containsAny(lower, clinicalValueKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
