package retrieval

import "math"

// Candidate is a passage together with its embedding, as fetched from the
// vector index before re-ranking.
type Candidate struct {
	Passage Passage
	Vector  []float32
}

// Cosine returns the cosine similarity of a and b, 0 when either is empty,
// zero-length or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MMR re-ranks candidates by maximal marginal relevance. The most relevant
// candidate is taken first; every further pick maximises
// lambda*relevance - (1-lambda)*maxSimilarityToSelected.
// lambda=1 is pure relevance order, lambda=0 is pure diversity.
// The returned passages carry their query relevance as Score.
func MMR(query []float32, candidates []Candidate, k int, lambda float64) []Passage {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}
	lambda = math.Max(0, math.Min(1, lambda))

	relevance := make([]float64, len(candidates))
	for i, c := range candidates {
		relevance[i] = Cosine(query, c.Vector)
	}

	// maxSim[i] tracks the highest similarity of candidate i to anything selected.
	maxSim := make([]float64, len(candidates))
	for i := range maxSim {
		maxSim[i] = math.Inf(-1)
	}
	used := make([]bool, len(candidates))
	selected := make([]Passage, 0, k)

	for len(selected) < k {
		best, bestScore := -1, math.Inf(-1)
		for i := range candidates {
			if used[i] {
				continue
			}
			score := relevance[i]
			if len(selected) > 0 {
				score = lambda*relevance[i] - (1-lambda)*maxSim[i]
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}

		used[best] = true
		p := candidates[best].Passage
		p.Score = relevance[best]
		selected = append(selected, p)

		for i := range candidates {
			if used[i] {
				continue
			}
			if s := Cosine(candidates[i].Vector, candidates[best].Vector); s > maxSim[i] {
				maxSim[i] = s
			}
		}
	}

	return selected
}
