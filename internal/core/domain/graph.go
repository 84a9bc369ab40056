package domain

// GraphNode is a node in the presentational knowledge graph.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// GraphEdge connects two nodes by id.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphDescription is the derived, output-only graph handed to the
// visualisation layer.
type GraphDescription struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Node looks up a node by id.
func (g *GraphDescription) Node(id string) (GraphNode, bool) {
	if g == nil {
		return GraphNode{}, false
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// Labels returns node labels in order.
func (g *GraphDescription) Labels() []string {
	if g == nil {
		return nil
	}
	labels := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		labels[i] = n.Label
	}
	return labels
}
