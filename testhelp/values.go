package testhelp

import "github.com/zeebo/mwc"

var valRng = mwc.Rand()

// Values returns n distinct non-negative values in random order, drawn from a
// range wide enough to leave headroom for decrease-key targets.
func Values(n int) []int64 {
	seen := make(map[int64]struct{}, n)
	out := make([]int64, 0, n)
	for len(out) < n {
		v := int64(valRng.Uint64() % uint64(100*n+1))
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
