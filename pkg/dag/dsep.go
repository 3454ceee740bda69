package dag

import "fmt"

// DSeparated reports whether x and y are d-separated given z.
//
// x, y and every member of z must be nodes of d; an index outside 0..n-1
// panics with an error wrapping [ErrInvalidNode]. A node is never separated
// from itself. CI queries keep x and y out of z; if either appears there the
// query is degenerate and DSeparated reports true.
//
// It uses the reachability formulation ("Bayes ball"): a trail from x is
// followed through the graph, passing a non-collider only when it is not in
// z and a collider only when it is in z or has a descendant in z. x and y are
// d-separated iff y is not reachable. Runs in O(N+E).
func (d *DAG) DSeparated(x, y int, z []int) bool {
	d.mustNode(x)
	d.mustNode(y)
	for _, v := range z {
		d.mustNode(v)
	}
	if x == y {
		return false
	}
	inZ := make([]bool, d.n)
	for _, v := range z {
		inZ[v] = true
	}
	if inZ[x] || inZ[y] {
		return true
	}

	// Z together with all its ancestors. A collider opens iff it is in this set.
	anc := make([]bool, d.n)
	stack := append([]int(nil), z...)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if anc[v] {
			continue
		}
		anc[v] = true
		stack = append(stack, d.parents[v]...)
	}

	type visit struct {
		v  int
		up bool // arrived from a child
	}
	seen := make(map[visit]bool)
	queue := []visit{{x, true}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		if cur.v == y {
			return false
		}
		if cur.up {
			if inZ[cur.v] {
				continue
			}
			for _, p := range d.parents[cur.v] {
				queue = append(queue, visit{p, true})
			}
			for _, c := range d.children[cur.v] {
				queue = append(queue, visit{c, false})
			}
			continue
		}
		if !inZ[cur.v] {
			for _, c := range d.children[cur.v] {
				queue = append(queue, visit{c, false})
			}
		}
		if anc[cur.v] {
			for _, p := range d.parents[cur.v] {
				queue = append(queue, visit{p, true})
			}
		}
	}
	return true
}

func (d *DAG) mustNode(v int) {
	if v < 0 || v >= d.n {
		panic(fmt.Errorf("%w: %d not in 0..%d", ErrInvalidNode, v, d.n-1))
	}
}
