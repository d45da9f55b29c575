package career

import "sort"

// CategoryScores holds the per-category average answer score for one student.
// Categories with no answers score zero.
type CategoryScores map[string]float64

// ScoreCategories averages answer scores per interest category. Answers whose
// question carries an unknown category are skipped.
func ScoreCategories(answers []Answer, questions []Question) CategoryScores {
	byID := make(map[int]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	sums := make(map[string]float64, len(Categories))
	counts := make(map[string]int, len(Categories))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || !ValidCategory(q.Category) {
			continue
		}
		sums[q.Category] += float64(a.Score)
		counts[q.Category]++
	}

	scores := make(CategoryScores, len(Categories))
	for _, cat := range Categories {
		if counts[cat] > 0 {
			scores[cat] = sums[cat] / float64(counts[cat])
		} else {
			scores[cat] = 0
		}
	}
	return scores
}

// Rank returns the top two categories with a positive score, highest first.
// Equal scores keep the fixed declaration order of Categories.
func Rank(scores CategoryScores) []string {
	ranked := make([]string, 0, len(Categories))
	for _, cat := range Categories {
		if scores[cat] > 0 {
			ranked = append(ranked, cat)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	if len(ranked) > 2 {
		ranked = ranked[:2]
	}
	return ranked
}

// interested returns all categories whose average answer score exceeds the
// interest threshold, highest first, ties in declaration order.
func interested(scores CategoryScores) []string {
	const threshold = 3

	out := make([]string, 0, len(Categories))
	for _, cat := range Categories {
		if scores[cat] > threshold {
			out = append(out, cat)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}
