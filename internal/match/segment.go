package match

import "sort"

// dedupSegments sorts candidate segments by score descending, breaking ties
// by longer duration then lower pos1, and greedily keeps a segment only if
// it doesn't overlap an already-accepted segment on either fingerprint's
// axis. The result is re-sorted by pos1 for a stable, readable ordering.
func dedupSegments(segments []MatcherSegment) []MatcherSegment {
	ordered := make([]MatcherSegment, len(segments))
	copy(ordered, segments)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		return a.Pos1 < b.Pos1
	})

	var accepted []MatcherSegment
	for _, s := range ordered {
		conflict := false
		for _, acc := range accepted {
			if intervalsOverlap(s.Pos1, s.Duration, acc.Pos1, acc.Duration) ||
				intervalsOverlap(s.Pos2, s.Duration, acc.Pos2, acc.Duration) {
				conflict = true
				break
			}
		}
		if !conflict {
			accepted = append(accepted, s)
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Pos1 < accepted[j].Pos1 })
	return accepted
}

func intervalsOverlap(start1, len1, start2, len2 int) bool {
	end1 := start1 + len1
	end2 := start2 + len2
	return start1 < end2 && start2 < end1
}
