package screening

import (
	"regexp"
	"sort"
	"strings"
)

// Tokens may carry dots, pluses, hashes and slashes so names like "next.js",
// "c++" and "ci/cd" survive tokenization.
var skillTokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9.+#/-]+\b`)

// ExtractSkills tokenizes text, lowercases, resolves aliases and keeps only
// tokens in the controlled vocabulary. The result is sorted and de-duplicated.
func ExtractSkills(text string, rs *Ruleset) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	known := rs.skillSet()
	seen := map[string]bool{}
	for _, tok := range skillTokenRe.FindAllString(text, -1) {
		norm := strings.ToLower(tok)
		if alias, ok := rs.Aliases[norm]; ok {
			norm = alias
		}
		if known[norm] {
			seen[norm] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// matchSkills splits the JD skill list into the part the resume covers and
// the part it misses, preserving the JD list's order.
func matchSkills(jdSkills, resumeSkills []string) (matching, missing []string) {
	have := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		have[s] = true
	}
	for _, s := range jdSkills {
		if have[s] {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matching, missing
}

// domainOverlap reports the ruleset domain keywords present in each text and
// their intersection, in ruleset order.
func domainOverlap(jdText, resumeText string, rs *Ruleset) (jd, overlap []string) {
	jdLower := strings.ToLower(jdText)
	resumeLower := strings.ToLower(resumeText)
	for _, kw := range rs.DomainKeywords {
		inJD := strings.Contains(jdLower, kw)
		if inJD {
			jd = append(jd, kw)
		}
		if inJD && strings.Contains(resumeLower, kw) {
			overlap = append(overlap, kw)
		}
	}
	return jd, overlap
}
