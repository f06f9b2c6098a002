package marker

// Levenshtein computes the classical unweighted edit distance between a and
// b. spec.md §4.C/§4.D call for plain Levenshtein distance with no
// weighting; no suitable third-party library for this exact, fully
// specified algorithm was found in the retrieved corpus (see DESIGN.md), so
// it is implemented directly.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// NearestSheet returns the valid sheet closest to candidate by Levenshtein
// distance, provided that distance is <= maxDist. ok is false if no sheet is
// within range or ValidSheets is empty.
func NearestSheet(pc ProjectContext, candidate string, maxDist int) (sheet string, dist int, ok bool) {
	best := -1
	var bestSheet string
	for _, s := range pc.SheetNames() {
		d := Levenshtein(candidate, s)
		if best == -1 || d < best {
			best = d
			bestSheet = s
		}
	}
	if best == -1 || best > maxDist {
		return "", 0, false
	}
	return bestSheet, best, true
}
