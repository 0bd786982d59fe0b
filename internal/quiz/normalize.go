package quiz

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeSpec puts every text field in NFC and trims surrounding
// whitespace, so banks written on different systems display identically.
// Interior whitespace of solutions is kept.
func normalizeSpec(spec bankSpec) bankSpec {
	out := bankSpec{Tiers: make([]tierSpec, len(spec.Tiers))}
	for i, ts := range spec.Tiers {
		nt := tierSpec{
			Name:      strings.TrimSpace(ts.Name),
			Label:     normalizeText(ts.Label),
			Questions: make([]Question, len(ts.Questions)),
		}
		for j, q := range ts.Questions {
			nt.Questions[j] = Question{
				Prompt:   normalizeText(q.Prompt),
				Summary:  normalizeText(q.Summary),
				Solution: normalizeText(q.Solution),
				Hint:     normalizeText(q.Hint),
			}
		}
		out.Tiers[i] = nt
	}
	return out
}

func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
