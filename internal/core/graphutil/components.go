// Package graphutil holds the generic connected-component grouper shared by
// the wallet-transaction extractor and content-similarity clustering.
package graphutil

// Components returns the maximal connected components of the undirected
// graph described by edges, restricted to the given node set. Nodes absent
// from the node list are ignored even when edges mention them. Traversal is
// an iterative depth-first search with an explicit stack so large inputs
// cannot blow the call stack. Singletons are included; callers filter by size.
func Components(nodes []string, edges [][2]string) [][]string {
	inSet := make(map[string]bool, len(nodes))
	adj := make(map[string][]string)
	for _, n := range nodes {
		inSet[n] = true
	}
	for _, e := range edges {
		if !inSet[e[0]] || !inSet[e[1]] {
			continue
		}
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}

	visited := make(map[string]bool, len(nodes))
	var components [][]string

	for _, start := range nodes {
		if visited[start] {
			continue
		}
		var component []string
		stack := []string{start}
		visited[start] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, u)
			for _, v := range adj[u] {
				if !visited[v] {
					visited[v] = true
					stack = append(stack, v)
				}
			}
		}
		components = append(components, component)
	}

	return components
}

// ComponentsBySimilarity builds the edge set from a pairwise similarity
// function, keeping edges where sim(i,j) >= threshold, then extracts
// components. The similarity function is called once per unordered pair.
func ComponentsBySimilarity(nodes []string, sim func(a, b string) float64, threshold float64) [][]string {
	var edges [][2]string
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if sim(nodes[i], nodes[j]) >= threshold {
				edges = append(edges, [2]string{nodes[i], nodes[j]})
			}
		}
	}
	return Components(nodes, edges)
}
