package pp20

// match is a back-reference found by the dictionary. offset is the wire value:
// the distance to the source minus one.
type match struct {
	offset int
	length int
}

// dictionary maps every byte value to the positions where it was seen, oldest first.
type dictionary struct {
	buckets [256][]int32
	windows [4]int
	limit   int // candidates examined per lookup
}

func newDictionary(eff Efficiency, limit int) *dictionary {
	return &dictionary{windows: eff.windows(), limit: limit}
}

// index records that data[pos] == b.
func (d *dictionary) index(b byte, pos int) {
	d.buckets[b] = append(d.buckets[b], int32(pos)) //nolint:gosec // positions fit 24 bits
}

// findLongestMatch returns the longest earlier occurrence of the bytes at pos.
// Candidates are visited nearest first, so on equal lengths the smaller offset
// is kept. The scan ends once a candidate lies beyond the window of the level a
// longer match would need, or after limit candidates.
func (d *dictionary) findLongestMatch(data []byte, pos int) (match, bool) {
	remaining := len(data) - pos
	if remaining < minMatchLength {
		return match{}, false
	}

	bucket := d.buckets[data[pos]]
	best := match{length: 1}
	for k := len(bucket) - 1; k >= 0 && len(bucket)-k <= d.limit; k-- {
		cand := int(bucket[k])
		dist := pos - cand
		if dist > d.windows[levelFor(best.length+1)] {
			break
		}

		if data[cand+best.length] != data[pos+best.length] {
			continue
		}

		n := 1
		for n < remaining && data[cand+n] == data[pos+n] {
			n++
		}
		if n > best.length {
			best = match{offset: dist - 1, length: n}
			if n == remaining {
				break
			}
		}
	}

	if best.length < minMatchLength {
		return match{}, false
	}
	return best, true
}
