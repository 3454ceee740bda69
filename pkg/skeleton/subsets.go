package skeleton

// eachSubset calls fn for every subset of set with exactly k elements, in
// lexicographic order of positions. It stops early when fn returns true and
// reports whether it did. The slice passed to fn is reused between calls.
func eachSubset(set []int, k int, fn func([]int) bool) bool {
	n := len(set)
	if k < 0 || k > n {
		return false
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	sub := make([]int, k)
	for {
		for i, j := range idx {
			sub[i] = set[j]
		}
		if fn(sub) {
			return true
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return false
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// eachSubsetUpTo calls eachSubset for sizes 0..maxSize in increasing order.
// A negative maxSize means no bound.
func eachSubsetUpTo(set []int, maxSize int, fn func([]int) bool) bool {
	if maxSize < 0 || maxSize > len(set) {
		maxSize = len(set)
	}
	for k := 0; k <= maxSize; k++ {
		if eachSubset(set, k, fn) {
			return true
		}
	}
	return false
}

// minus returns the elements of set not in drop, preserving order.
func minus(set []int, drop ...int) []int {
	out := make([]int, 0, len(set))
outer:
	for _, v := range set {
		for _, d := range drop {
			if v == d {
				continue outer
			}
		}
		out = append(out, v)
	}
	return out
}
