package resolve

import (
	"fmt"
	"sort"
	"strings"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/registry"
)

// resolutionOrder returns root indices in the order roots must be resolved:
// every root comes after the root it inherits from. Among roots that are
// ready at the same time the lowest index goes first, so without base
// references the order is declaration order.
func resolutionOrder(reg *registry.Registry) ([]int, error) {
	roots := reg.Roots()

	var unknown []string

	order, stuck := topoSort(len(roots), func(i int) []int {
		if roots[i].Base == "" {
			return nil
		}

		idx, ok := reg.RootIndex(roots[i].Base)
		if !ok {
			unknown = append(unknown, fmt.Sprintf("%q (base of %q)", roots[i].Base, roots[i].ID))
			return nil
		}

		return []int{idx}
	})

	if len(unknown) > 0 {
		return nil, diagnostic.Configf("unknown base root %s", strings.Join(unknown, ", "))
	}

	if len(stuck) > 0 {
		ids := make([]string, 0, len(stuck))
		for _, i := range stuck {
			ids = append(ids, roots[i].ID)
		}

		return nil, diagnostic.Configf("base references form a cycle between roots %s", strings.Join(ids, ", "))
	}

	return order, nil
}

// topoSort orders nodes 0..n-1 so that every node follows the nodes depsFn
// yields for it. The result is deterministic: when several nodes are ready
// the smallest index is picked. Nodes that can never be ordered because they
// sit on or behind a cycle are returned as stuck, in index order.
func topoSort(n int, depsFn func(i int) []int) (order, stuck []int) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			stuck = append(stuck, i)
		}
	}

	return order, stuck
}
