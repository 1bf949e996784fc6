package semantic

// damerauLevenshtein computes the Damerau-Levenshtein edit distance between
// a and b (insertions, deletions, substitutions, and adjacent
// transpositions each cost 1). Adapted from the plain-Levenshtein dynamic
// program in `_examples/termfx-morfx/internal/core/fuzzy.go`
// (levenshteinDistance's row-by-row matrix fill), extended with the
// transposition case the spec's "Damerau-Levenshtein" wording specifically
// asks for and the source function does not have.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := d[i-2][j-2] + cost; t < d[i][j] {
					d[i][j] = t
				}
			}
		}
	}
	return d[la][lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// suggestThreshold bounds how different a candidate name may be from the
// misspelled one before it stops being offered as a fix-hint; beyond this
// distance two names have too little in common to be a typo of one another.
const suggestThreshold = 2

// suggestName finds the closest candidate to name by Damerau-Levenshtein
// distance, for the "undefined name" diagnostic's fix suggestion (spec
// §4.4/§4.8).
func suggestName(name string, candidates []string) (string, bool) {
	best := ""
	bestDist := suggestThreshold + 1
	for _, c := range candidates {
		if c == name {
			continue
		}
		dist := damerauLevenshtein(name, c)
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best, bestDist <= suggestThreshold
}
