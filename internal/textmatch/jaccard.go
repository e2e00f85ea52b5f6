package textmatch

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	inter := 0

	for tok := range small {
		if large.Has(tok) {
			inter++
		}
	}

	union := len(a) + len(b) - inter

	return float64(inter) / float64(union)
}

// Similarity tokenizes both descriptions and returns their Jaccard similarity.
func Similarity(a, b string) float64 {
	return Jaccard(Tokens(a), Tokens(b))
}
