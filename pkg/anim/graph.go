package anim

import (
	"slices"
	"time"

	"github.com/matzehuels/cardtable/pkg/errors"
)

// NodeID indexes a node within its [Graph].
type NodeID int

// Step describes one node added to a graph.
type Step struct {
	// Elements is the group the node writes to. A nil group makes the node
	// a pure delay.
	Elements ElementGroup
	// Start params are applied instantly once every predecessor resolves.
	Start Targets
	// End params are reached by an eased transition started at the same
	// instant as Start is applied.
	End Targets
	// Ease defaults to DefaultEase.
	Ease Ease
	// Duration is both the transition length and the minimum time the node
	// occupies in the graph.
	Duration time.Duration
	// After lists predecessor nodes from the same graph.
	After []Node
	// Label names the node in graph renderings and logs.
	Label string
}

// Graph is an arena of animation nodes bound to a single loop.
type Graph struct {
	loop  *Loop
	nodes []*node
}

type node struct {
	id        NodeID
	label     string
	elements  ElementGroup
	start     []Params
	end       []Params
	ease      Ease
	duration  time.Duration
	preds     []NodeID
	callbacks []func()
	signal    *Signal
	resolved  bool
	startedAt time.Duration
}

// NewGraph creates an empty graph whose nodes run on loop.
func NewGraph(loop *Loop) *Graph {
	return &Graph{loop: loop}
}

// Loop returns the loop the graph schedules on.
func (g *Graph) Loop() *Loop { return g.loop }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) Node { return Node{g: g, id: id} }

// Nodes returns every node in creation order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i := range g.nodes {
		out[i] = Node{g: g, id: NodeID(i)}
	}
	return out
}

// Add validates s and appends it as a new node. Per-item targets whose
// length differs from the group's Len are rejected here, before any element
// is touched.
func (g *Graph) Add(s Step) (Node, error) {
	if s.Duration < 0 {
		return Node{}, errors.New(errors.ErrCodeInvalidInput, "negative duration %s", s.Duration)
	}
	n := &node{
		label:    s.Label,
		elements: s.Elements,
		ease:     s.Ease.orDefault(),
		duration: s.Duration,
	}
	if s.Elements == nil {
		if !s.Start.IsZero() || !s.End.IsZero() {
			return Node{}, errors.New(errors.ErrCodeInvalidInput, "params given without an element group")
		}
	} else {
		size := s.Elements.Len()
		var err error
		if n.start, err = s.Start.Resolve(size); err != nil {
			return Node{}, errors.Wrap(errors.ErrCodeCardinalityMismatch, err, "start params")
		}
		if n.end, err = s.End.Resolve(size); err != nil {
			return Node{}, errors.Wrap(errors.ErrCodeCardinalityMismatch, err, "end params")
		}
	}
	for _, p := range s.After {
		if p.g != g {
			return Node{}, errors.New(errors.ErrCodeInvalidInput, "predecessor belongs to another graph")
		}
		if !slices.Contains(n.preds, p.id) {
			n.preds = append(n.preds, p.id)
		}
	}
	return g.push(n), nil
}

// Delay adds a node with no visual effect that occupies d once every node
// in after has resolved.
func (g *Graph) Delay(d time.Duration, after ...Node) Node {
	n, err := g.Add(Step{Duration: max(d, 0), After: after, Label: "delay"})
	if err != nil {
		// Only reachable with nodes from a foreign graph.
		panic(err)
	}
	return n
}

func (g *Graph) push(n *node) Node {
	n.id = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return Node{g: g, id: n.id}
}

// Node is a handle to a node in a graph. The zero value is invalid.
type Node struct {
	g  *Graph
	id NodeID
}

func (n Node) get() *node { return n.g.nodes[n.id] }

// ID returns the node's arena index.
func (n Node) ID() NodeID { return n.id }

// Valid reports whether n refers to a node.
func (n Node) Valid() bool { return n.g != nil }

// Label returns the node's label.
func (n Node) Label() string { return n.get().label }

// Duration returns the time the node occupies.
func (n Node) Duration() time.Duration { return n.get().duration }

// Ease returns the node's easing curve.
func (n Node) Ease() Ease { return n.get().ease }

// Elements returns the node's group, nil for delays.
func (n Node) Elements() ElementGroup { return n.get().elements }

// IsDelay reports whether the node has no visual effect.
func (n Node) IsDelay() bool {
	nd := n.get()
	return nd.elements == nil || (nd.start == nil && nd.end == nil)
}

// Predecessors returns the nodes n waits for.
func (n Node) Predecessors() []Node {
	nd := n.get()
	out := make([]Node, len(nd.preds))
	for i, id := range nd.preds {
		out[i] = Node{g: n.g, id: id}
	}
	return out
}

// Resolved reports whether the node has completed.
func (n Node) Resolved() bool { return n.get().resolved }

// StartedAt returns the virtual time at which the node's predecessors all
// resolved. It is meaningful only once the node has started.
func (n Node) StartedAt() time.Duration { return n.get().startedAt }

// Animate schedules n and, recursively, every predecessor it depends on.
// A node fires at most once; repeated calls return the same signal. The
// signal resolves after all predecessors have resolved and both the node's
// transition and its duration have elapsed.
//
// Edges added with FollowedBy after a node has been animated do not affect it.
func (n Node) Animate() *Signal {
	nd := n.get()
	if nd.signal != nil {
		return nd.signal
	}
	loop := n.g.loop
	nd.signal = loop.NewSignal()

	waits := make([]*Signal, 0, len(nd.preds))
	for _, id := range nd.preds {
		waits = append(waits, Node{g: n.g, id: id}.Animate())
	}
	loop.All(waits...).Then(func() { n.g.fire(nd) })
	return nd.signal
}

func (g *Graph) fire(nd *node) {
	nd.startedAt = g.loop.Now()
	var transition *Signal
	if nd.elements != nil {
		if nd.start != nil {
			nd.elements.Apply(nd.start)
		}
		if nd.end != nil {
			transition = nd.elements.Transition(nd.end, nd.ease, nd.duration)
		}
	}
	g.loop.All(transition, g.loop.Timer(nd.duration)).Then(func() {
		nd.resolved = true
		callbacks := nd.callbacks
		nd.callbacks = nil
		for _, fn := range callbacks {
			fn()
		}
		nd.signal.Resolve()
	})
}

// AddCallback runs fn once n resolves. Callbacks run in attachment order
// before dependents are released. If n has already resolved, fn runs now.
func (n Node) AddCallback(fn func()) {
	nd := n.get()
	if nd.resolved {
		fn()
		return
	}
	nd.callbacks = append(nd.callbacks, fn)
}

// ContinueOption overrides a property inherited by ContinueTo.
type ContinueOption func(*Step)

// WithEase overrides the inherited ease.
func WithEase(e Ease) ContinueOption {
	return func(s *Step) { s.Ease = e }
}

// WithDuration overrides the inherited duration.
func WithDuration(d time.Duration) ContinueOption {
	return func(s *Step) { s.Duration = d }
}

// WithLabel names the continued node.
func WithLabel(label string) ContinueOption {
	return func(s *Step) { s.Label = label }
}

// ContinueTo adds a node that transitions n's elements to end once n has
// resolved, inheriting n's ease and duration unless overridden.
func (n Node) ContinueTo(end Targets, opts ...ContinueOption) (Node, error) {
	nd := n.get()
	s := Step{
		Elements: nd.elements,
		End:      end,
		Ease:     nd.ease,
		Duration: nd.duration,
		After:    []Node{n},
		Label:    nd.label,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return n.g.Add(s)
}

// FollowedBy makes next wait for n and returns next. It fails if next
// already precedes n, directly or transitively.
func (n Node) FollowedBy(next Node) (Node, error) {
	if n.g != next.g {
		return Node{}, errors.New(errors.ErrCodeInvalidInput, "nodes belong to different graphs")
	}
	if n.id == next.id || n.g.reaches(next.id, n.id) {
		return Node{}, errors.New(errors.ErrCodeCycle,
			"node %d cannot follow node %d: cycle", next.id, n.id)
	}
	nd := next.get()
	if !slices.Contains(nd.preds, n.id) {
		nd.preds = append(nd.preds, n.id)
	}
	return next, nil
}

// reaches reports whether from is a transitive predecessor of to.
func (g *Graph) reaches(from, to NodeID) bool {
	seen := make(map[NodeID]bool)
	stack := []NodeID{to}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range g.nodes[id].preds {
			if p == from {
				return true
			}
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return false
}
