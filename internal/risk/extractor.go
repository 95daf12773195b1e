package risk

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// historyWindow caps how many trailing history entries feed the search corpus.
const historyWindow = 10

// pedigreeScore is the fixed hereditary-risk value assigned when any
// family-history keyword appears in the corpus. There is no reliable numeric
// phrasing for the pedigree function in natural language.
const pedigreeScore = 0.5

var familyKeywords = []string{
	"family history",
	"mother",
	"father",
	"sibling",
	"parent",
	"diabetes in family",
}

// featureMatcher pairs the ordered pattern list for one feature with its
// plausibility range. The first pattern whose capture falls inside the range
// wins; an out-of-range capture is a non-match, never clamped.
type featureMatcher struct {
	feature  Feature
	min, max float64
	patterns []*regexp.Regexp
}

var matchers = []featureMatcher{
	{
		feature: FeatureGlucose, min: 50, max: 500,
		patterns: compileAll(
			`glucose[:\s]+is[:\s]+(\d+(?:\.\d+)?)`,
			`glucose[:\s]+(\d+(?:\.\d+)?)`,
			`blood sugar[:\s]+is[:\s]+(\d+(?:\.\d+)?)`,
			`blood sugar[:\s]+(\d+(?:\.\d+)?)`,
			`sugar level[:\s]+is[:\s]+(\d+(?:\.\d+)?)`,
			`sugar level[:\s]+(\d+(?:\.\d+)?)`,
			`(\d+(?:\.\d+)?)\s*mg/dl`,
			`glucose of (\d+(?:\.\d+)?)`,
		),
	},
	{
		feature: FeatureBloodPressure, min: 50, max: 200,
		patterns: compileAll(
			`blood pressure[:\s]+(\d+)`,
			`bp[:\s]+(\d+)`,
			`(\d+)\s*/\s*\d+\s*mmhg`,
			`pressure is (\d+)`,
		),
	},
	{
		feature: FeatureBMI, min: 10, max: 50,
		patterns: compileAll(
			`bmi[:\s]+is[:\s]+(\d+(?:\.\d+)?)`,
			`bmi[:\s]+(\d+(?:\.\d+)?)`,
			`body mass index[:\s]+is[:\s]+(\d+(?:\.\d+)?)`,
			`body mass index[:\s]+(\d+(?:\.\d+)?)`,
			`(\d+(?:\.\d+)?)\s*bmi`,
			`bmi of (\d+(?:\.\d+)?)`,
		),
	},
	{
		feature: FeatureAge, min: 1, max: 120,
		patterns: compileAll(
			`age[:\s]+is[:\s]+(\d+)`,
			`age[:\s]+(\d+)`,
			`(\d+)\s*years?\s*old`,
			`i am (\d+)`,
			`i'm (\d+)`,
			`aged (\d+)`,
			`age of (\d+)`,
		),
	},
	{
		feature: FeaturePregnancies, min: 0, max: 20,
		patterns: compileAll(
			`pregnanc(?:y|ies)[:\s]+(\d+)`,
			`(\d+)\s*pregnanc(?:y|ies)`,
			`given birth (\d+)`,
		),
	},
	{
		feature: FeatureInsulin, min: 0, max: 1000,
		patterns: compileAll(
			`insulin level[:\s]+(\d+(?:\.\d+)?)`,
			`insulin[:\s]+(\d+(?:\.\d+)?)`,
			`(\d+(?:\.\d+)?)\s*mu/l`,
		),
	},
	{
		feature: FeatureSkinThickness, min: 0, max: 100,
		patterns: compileAll(
			`skin thickness[:\s]+(\d+(?:\.\d+)?)`,
			`triceps[:\s]+(\d+(?:\.\d+)?)`,
			`thickness[:\s]+(\d+(?:\.\d+)?)`,
		),
	},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// Extract parses the current message plus the trailing history window into a
// FeatureSet. It is a pure function: no state, same inputs same output.
// Absent features are a normal outcome, not an error.
func Extract(text string, history []*schema.Message) FeatureSet {
	corpus := buildCorpus(text, history)

	var fs FeatureSet
	for _, m := range matchers {
		if v, ok := m.match(corpus); ok {
			fs.Set(m.feature, v)
		}
	}
	if hasFamilyHistory(corpus) {
		fs.Set(FeaturePedigree, pedigreeScore)
	}
	return fs
}

// buildCorpus flattens the message and up to the last historyWindow entries
// into one lowercase search string. Ordering inside the corpus is irrelevant
// to matching, so entries are appended as stored.
func buildCorpus(text string, history []*schema.Message) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(text))

	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, msg := range history[start:] {
		if msg == nil || msg.Content == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(msg.Content))
	}
	return b.String()
}

func (m featureMatcher) match(corpus string) (float64, bool) {
	for _, re := range m.patterns {
		groups := re.FindStringSubmatch(corpus)
		if groups == nil {
			continue
		}
		v, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			continue
		}
		if v < m.min || v > m.max {
			// implausible capture: keep trying later patterns
			continue
		}
		return v, true
	}
	return 0, false
}

func hasFamilyHistory(corpus string) bool {
	for _, kw := range familyKeywords {
		if strings.Contains(corpus, kw) {
			return true
		}
	}
	return false
}
