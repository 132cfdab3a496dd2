package sim

// Node is one circle in the simulation. Identity fields are fixed at
// construction; position and velocity are written only by Simulation.
type Node struct {
	id     string
	name   string
	theme  string
	tag    string
	radius float64
	index  int

	x, y   float64
	vx, vy float64
}

// NewNode creates a node at (x, y) with zero velocity.
func NewNode(id, name, theme, tag string, radius, x, y float64) *Node {
	return &Node{
		id:     id,
		name:   name,
		theme:  theme,
		tag:    tag,
		radius: radius,
		x:      x,
		y:      y,
	}
}

func (n *Node) ID() string      { return n.id }
func (n *Node) Name() string    { return n.name }
func (n *Node) Theme() string   { return n.theme }
func (n *Node) Tag() string     { return n.tag }
func (n *Node) Radius() float64 { return n.radius }

// Index is the node's position in the simulation's node slice.
func (n *Node) Index() int { return n.index }

func (n *Node) X() float64  { return n.x }
func (n *Node) Y() float64  { return n.y }
func (n *Node) VX() float64 { return n.vx }
func (n *Node) VY() float64 { return n.vy }
