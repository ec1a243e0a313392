package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// AutoAddress requests placement directly after the previous node.
const AutoAddress int64 = -1

// Node errors.
var (
	ErrHasParent      = errors.New("node already has a parent")
	ErrNilNode        = errors.New("nil node")
	ErrNotChild       = errors.New("node is not a child of this group")
	ErrNotRoot        = errors.New("resolution must start at the root group")
	ErrAddressOverlap = errors.New("desired address lies before the next free address")
	ErrInvalidAddress = errors.New("invalid desired address")
)

// Node is a member of the address map: either a *Group or a *Leaf.
//
// Addresses are bit addresses. Before resolution Address and End return -1.
type Node interface {
	// Label returns the node's name.
	Label() string

	// Parent returns the enclosing group, or nil for the root.
	Parent() *Group

	// DesiredAddress returns the requested placement or AutoAddress.
	DesiredAddress() int64

	// Address returns the resolved start address.
	Address() int64

	// End returns the address following the node's last descendant.
	End() int64

	// TotalBits returns the node's own size plus the sizes of all descendants.
	// Padding created by desired addresses is not included.
	TotalBits() uint64

	// Path returns the labels from below the root down to this node,
	// joined with "/".
	Path() string

	base() *nodeBase
}

type nodeBase struct {
	label   string
	parent  *Group
	desired int64
	address int64
	end     int64
	total   uint64
}

func (b *nodeBase) Label() string         { return b.label }
func (b *nodeBase) Parent() *Group        { return b.parent }
func (b *nodeBase) DesiredAddress() int64 { return b.desired }
func (b *nodeBase) Address() int64        { return b.address }
func (b *nodeBase) End() int64            { return b.end }
func (b *nodeBase) TotalBits() uint64     { return b.total }
func (b *nodeBase) base() *nodeBase       { return b }

func (b *nodeBase) Path() string {
	var parts []string
	for n := b; n.parent != nil; n = &n.parent.nodeBase {
		parts = append(parts, n.label)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// NodeOption configures a node at construction.
type NodeOption func(*nodeBase)

// WithAddress requests an explicit absolute bit address.
func WithAddress(addr int64) NodeOption {
	return func(b *nodeBase) {
		b.desired = addr
	}
}

func newBase(label string, opts []NodeOption) nodeBase {
	b := nodeBase{
		label:   label,
		desired: AutoAddress,
		address: -1,
		end:     -1,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Change describes a value change of a leaf.
type Change struct {
	Leaf *Leaf
	Old  int32
	New  int32
}

// Group is a named node holding an ordered list of children.
//
// Structural edits (Add, Remove) are meant for map construction and are not
// safe for concurrent use. They keep TotalBits current on every ancestor and
// mark the map unresolved.
type Group struct {
	nodeBase

	children []Node

	// resolved is only meaningful on the root.
	resolved bool

	obsMu     sync.Mutex
	observers map[int]func(Change)
	nextObs   int
}

// NewGroup creates an empty group.
func NewGroup(label string, opts ...NodeOption) *Group {
	return &Group{
		nodeBase:  newBase(label, opts),
		observers: make(map[int]func(Change)),
	}
}

// Add appends children in order.
func (g *Group) Add(children ...Node) error {
	for _, c := range children {
		if c == nil || isNilNode(c) {
			return fmt.Errorf("%w: in group %q", ErrNilNode, g.label)
		}
		if c.Parent() != nil {
			return fmt.Errorf("%w: %q", ErrHasParent, c.Label())
		}
		if cg, ok := c.(*Group); ok && cg.isAncestorOf(g) {
			return fmt.Errorf("%w: %q would contain itself", ErrHasParent, c.Label())
		}
	}
	for _, c := range children {
		c.base().parent = g
		g.children = append(g.children, c)
		g.grow(int64(c.TotalBits()))
	}
	g.invalidate()
	return nil
}

// Remove detaches child from the group.
func (g *Group) Remove(child Node) error {
	for i, c := range g.children {
		if c != child {
			continue
		}
		g.children = append(g.children[:i], g.children[i+1:]...)
		g.grow(-int64(c.TotalBits()))
		g.invalidate()
		c.base().parent = nil
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotChild, child.Label())
}

func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Group:
		return v == nil
	case *Leaf:
		return v == nil
	}
	return false
}

func (g *Group) isAncestorOf(n *Group) bool {
	for p := n; p != nil; p = p.parent {
		if p == g {
			return true
		}
	}
	return false
}

// grow adds delta bits to g and every ancestor.
func (g *Group) grow(delta int64) {
	for n := g; n != nil; n = n.parent {
		n.total = uint64(int64(n.total) + delta)
	}
}

func (g *Group) invalidate() {
	g.Root().resolved = false
}

// Root returns the topmost ancestor.
func (g *Group) Root() *Group {
	n := g
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Resolved reports whether the map containing g has current addresses.
func (g *Group) Resolved() bool {
	return g.Root().resolved
}

// Children returns the children in map order.
func (g *Group) Children() []Node {
	out := make([]Node, len(g.children))
	copy(out, g.children)
	return out
}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// Child returns the child with the given label.
func (g *Group) Child(label string) (Node, bool) {
	for _, c := range g.children {
		if c.Label() == label {
			return c, true
		}
	}
	return nil, false
}

// Observe registers fn for value changes of any leaf below g.
func (g *Group) Observe(fn func(Change)) (cancel func()) {
	g.obsMu.Lock()
	id := g.nextObs
	g.nextObs++
	g.observers[id] = fn
	g.obsMu.Unlock()

	return func() {
		g.obsMu.Lock()
		delete(g.observers, id)
		g.obsMu.Unlock()
	}
}

func (g *Group) emit(c Change) {
	g.obsMu.Lock()
	fns := make([]func(Change), 0, len(g.observers))
	for _, fn := range g.observers {
		fns = append(fns, fn)
	}
	g.obsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Leaf is a named parameter owning exactly one Contents cell.
type Leaf struct {
	nodeBase
	contents *Contents
}

// NewLeaf creates a leaf around c. A Contents can belong to one leaf only.
func NewLeaf(label string, c *Contents, opts ...NodeOption) (*Leaf, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrContentsRequired, label)
	}

	l := &Leaf{nodeBase: newBase(label, opts), contents: c}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner != nil {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyAttached, label)
	}
	c.owner = l
	l.total = uint64(c.bitSize)
	return l, nil
}

// Contents returns the leaf's value cell.
func (l *Leaf) Contents() *Contents { return l.contents }

// Root returns the topmost group, or nil for a detached leaf.
func (l *Leaf) Root() *Group {
	if l.parent == nil {
		return nil
	}
	return l.parent.Root()
}

func (l *Leaf) resized(old, new uint8) {
	l.total = uint64(new)
	if l.parent != nil {
		l.parent.grow(int64(new) - int64(old))
		l.parent.invalidate()
	}
}

func (l *Leaf) changed(old, new int32) {
	c := Change{Leaf: l, Old: old, New: new}
	for g := l.parent; g != nil; g = g.parent {
		g.emit(c)
	}
}

// Walk visits n and its descendants in pre-order. Returning a non-nil error
// from fn stops the walk.
func Walk(n Node, fn func(n Node, depth int) error) error {
	return walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) error) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	if g, ok := n.(*Group); ok {
		for _, c := range g.children {
			if err := walk(c, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Leaves returns every leaf below n in map order.
func Leaves(n Node) []*Leaf {
	var out []*Leaf
	_ = Walk(n, func(n Node, _ int) error {
		if l, ok := n.(*Leaf); ok {
			out = append(out, l)
		}
		return nil
	})
	return out
}
