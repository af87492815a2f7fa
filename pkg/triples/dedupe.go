package triples

import "github.com/dd0wney/cluso-guidelines/pkg/guideline"

// Dedupe returns ts without repeated (subject, predicate, object) triples,
// keeping the first occurrence of each.
func Dedupe(ts []guideline.Triple) []guideline.Triple {
	seen := make(map[guideline.Triple]struct{}, len(ts))
	out := make([]guideline.Triple, 0, len(ts))
	for _, t := range ts {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
