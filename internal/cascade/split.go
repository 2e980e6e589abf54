package cascade

// Split is how the three cards of one trigger fall across the categories.
type Split struct {
	Primary   uint32
	Toggle    uint32
	Secondary uint32
	Filler    uint32
}

// Splits calls fn for every split of DrawSize cards that p can supply, in
// ascending (Primary, Toggle, Secondary) order. ways is the number of
// distinct card sets that produce the split; it is never zero.
func Splits(p Pool, fn func(s Split, ways uint64)) {
	bounds := p.bounds()
	var counts [numCategories + 1]uint32
	compose(bounds[:], counts[:], 0, DrawSize, func(c []uint32) {
		ways := uint64(1)
		for i, n := range c {
			ways *= Binomial(uint64(bounds[i]), uint64(n))
		}
		fn(Split{Primary: c[0], Toggle: c[1], Secondary: c[2], Filler: c[3]}, ways)
	})
}

// compose emits every vector with counts[i] <= bounds[i] for i >= idx whose
// entries sum to remaining. The last slot absorbs whatever is left, or the
// prefix is dropped when it cannot.
func compose(bounds, counts []uint32, idx int, remaining uint32, emit func([]uint32)) {
	last := len(bounds) - 1
	if idx == last {
		if remaining > bounds[last] {
			return
		}
		counts[last] = remaining
		emit(counts)
		return
	}
	for n := uint32(0); n <= min(remaining, bounds[idx]); n++ {
		counts[idx] = n
		compose(bounds, counts, idx+1, remaining-n, emit)
	}
}
