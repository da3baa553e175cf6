package correlate

// sequenceRatio returns a similarity measure in [0,1] between two rune
// sequences: 2*M / (len(a)+len(b)), where M is the total length of the
// longest matching blocks (Ratcliff/Obershelp). Two empty sequences are
// identical, so the ratio is 1.
//
// The directed block matcher breaks ties by position in its first
// argument, so M can differ between orientations. The ratio takes the
// larger M of the two, making it independent of argument order.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	m := matchingTotal(ra, rb, 0, len(ra), 0, len(rb))
	if rm := matchingTotal(rb, ra, 0, len(rb), 0, len(ra)); rm > m {
		m = rm
	}
	return 2.0 * float64(m) / float64(total)
}

// matchingTotal sums the lengths of all matching blocks within
// a[alo:ahi] and b[blo:bhi] by recursing around the longest match.
func matchingTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a, b, alo, i, blo, j) +
		matchingTotal(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest block where a[i:i+size] == b[j:j+size]
// within the given bounds. Ties resolve to the earliest position in a,
// then the earliest in b.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
