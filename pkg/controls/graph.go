package controls

import "fmt"

// NodeKind is the role of a node in the control-wiring graph.
type NodeKind string

const (
	KindSensor     NodeKind = "sensor"
	KindController NodeKind = "controller"
	KindActuator   NodeKind = "actuator"
)

// Node is one interactive node of the live control graph. Ref is the
// id of the backing record entry; X and Y are canvas coordinates.
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	Ref  int      `json:"ref"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
}

// Edge is one directed signal wire.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the live editable control graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// SensorNodeID returns the graph node id for a sensor record.
func SensorNodeID(id int) string { return fmt.Sprintf("sensor-%d", id) }

// ControllerNodeID returns the graph node id for a controller record.
func ControllerNodeID(id int) string { return fmt.Sprintf("controller-%d", id) }

// ActuatorNodeID returns the graph node id for an actuator record.
func ActuatorNodeID(id int) string { return fmt.Sprintf("actuator-%d", id) }

// FindNode returns a pointer to the node with the given id.
func (g *Graph) FindNode(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// HasEdge reports whether the exact directed edge exists.
func (g *Graph) HasEdge(from, to string) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// PathExists reports whether a directed path leads from one node to
// another over the current edges, by depth-first search.
func (g *Graph) PathExists(from, to string) bool {
	if from == to {
		return true
	}
	visited := make(map[string]bool, len(g.Nodes))
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, e := range g.Edges {
			if e.From != cur {
				continue
			}
			if e.To == to {
				return true
			}
			if !visited[e.To] {
				stack = append(stack, e.To)
			}
		}
	}
	return false
}

// clone returns a deep copy of the graph.
func (g *Graph) clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}
