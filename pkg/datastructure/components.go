package datastructure

// ConnectedComponents. label every vertex with the id of its connected component.
// ids are assigned 0, 1, ... in order of the smallest vertex index of each component.
func (g *Graph) ConnectedComponents() ([]int, int) {
	n := g.NumberOfVertices()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	numComponents := 0
	stack := make([]Index, 0, 64)
	for root := 0; root < n; root++ {
		if labels[root] != -1 {
			continue
		}

		labels[root] = numComponents
		stack = append(stack[:0], Index(root))
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, v := range g.GetNeighbors(u) {
				if labels[v] == -1 {
					labels[v] = numComponents
					stack = append(stack, v)
				}
			}
		}
		numComponents++
	}
	return labels, numComponents
}

// SameComponent. true if a path between u and v exists.
func (g *Graph) SameComponent(u, v Index) bool {
	if int(u) >= g.NumberOfVertices() || int(v) >= g.NumberOfVertices() {
		return false
	}
	labels, _ := g.ConnectedComponents()
	return labels[u] == labels[v]
}
