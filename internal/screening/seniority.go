package screening

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	TierSenior = "senior"
	TierMid    = "mid"
	TierJunior = "junior"

	maxExperienceYears = 20.0
)

// Duration mentions like "3 years", "18 months", "5+ yrs". The plus form is
// a separate pattern because "+" blocks the plain years match.
var (
	yearsRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)
	monthsRe    = regexp.MustCompile(`(\d+)\s*months?`)
	plusYearsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\+\s*years?`)
)

// YearsOfExperience sums every duration mention in the text, months divided
// by twelve, capped at twenty years.
func YearsOfExperience(text string) float64 {
	lower := strings.ToLower(text)
	years := 0.0
	for _, m := range yearsRe.FindAllStringSubmatch(lower, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			years += v
		}
	}
	for _, m := range plusYearsRe.FindAllStringSubmatch(lower, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			years += v
		}
	}
	for _, m := range monthsRe.FindAllStringSubmatch(lower, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			years += v / 12
		}
	}
	if years > maxExperienceYears {
		years = maxExperienceYears
	}
	return years
}

// SeniorityTier infers the candidate tier from title keywords, checked
// senior before mid before junior. With no keyword hit it falls back to
// years-of-experience thresholds.
func SeniorityTier(text string, rs *Ruleset) string {
	lower := strings.ToLower(text)
	if containsAny(lower, rs.SeniorKeywords) {
		return TierSenior
	}
	if containsAny(lower, rs.MidKeywords) {
		return TierMid
	}
	if containsAny(lower, rs.JuniorKeywords) {
		return TierJunior
	}
	years := YearsOfExperience(lower)
	switch {
	case years >= 5:
		return TierSenior
	case years >= 2:
		return TierMid
	default:
		return TierJunior
	}
}

// seniorityCompat scores the candidate tier against the job's stated
// requirement. No stated requirement, or any pairing outside the table,
// scores 1.0.
func seniorityCompat(required, candidate string) float64 {
	required = strings.ToLower(strings.TrimSpace(required))
	switch {
	case required == "":
		return 1.0
	case required == TierSenior && candidate != TierSenior:
		return 0.3
	case required == TierMid && candidate == TierJunior:
		return 0.5
	case required == TierJunior && candidate == TierSenior:
		// Overqualified but still relevant.
		return 0.7
	default:
		return 1.0
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
