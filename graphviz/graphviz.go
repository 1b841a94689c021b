// Package graphviz renders automata in the Graphviz DOT language.
//
// Start states are octagons and accept states are doubled. Edges between
// the same two states are merged into one edge whose label lists every
// character, negated characters prefixed with ^. NFA epsilon edges are
// labeled eps.
package graphviz

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/dfa"
	"github.com/coregx/dfaregex/nfa"
)

// EpsilonLabel is the label of NFA epsilon edges.
const EpsilonLabel = "eps"

// Graph is a directed graph ready to be written as DOT.
type Graph struct {
	nodes []string
	edges []string
}

func (g *Graph) addNode(id int, start, accept bool) {
	shape := "ellipse"
	switch {
	case start && accept:
		shape = "doubleoctagon"
	case start:
		shape = "octagon"
	case accept:
		shape = "doublecircle"
	}
	g.nodes = append(g.nodes, fmt.Sprintf("\ts%d [shape=%s];\n", id, shape))
}

func (g *Graph) addEdge(from, to int, label string) {
	g.edges = append(g.edges, fmt.Sprintf("\ts%d -> s%d [label=\"%s\"];\n", from, to, escape(label)))
}

// edgeSet merges the labels of parallel edges leaving one state, keeping
// targets in first-seen order.
type edgeSet struct {
	targets []int
	labels  map[int][]string
}

func (e *edgeSet) add(to int, label string) {
	if e.labels == nil {
		e.labels = make(map[int][]string)
	}
	if _, ok := e.labels[to]; !ok {
		e.targets = append(e.targets, to)
	}
	e.labels[to] = append(e.labels[to], label)
}

func (e *edgeSet) flush(g *Graph, from int) {
	for _, to := range e.targets {
		g.addEdge(from, to, strings.Join(e.labels[to], ","))
	}
	e.targets = e.targets[:0]
	clear(e.labels)
}

// FromDFA builds the graph of d.
func FromDFA(d *dfa.DFA) *Graph {
	g := &Graph{}
	var edges edgeSet
	it := d.Iter()
	for id, s, ok := it.Next(); ok; id, s, ok = it.Next() {
		from := int(id)
		g.addNode(from, id == d.Start(), s.IsAccept())
		for _, t := range s.Transitions() {
			edges.add(int(t.Next), char.Glyph(t.Key, false))
		}
		edges.flush(g, from)
	}
	return g
}

// FromNFA builds the graph of n, including states unreachable from the
// start state.
func FromNFA(n *nfa.NFA) *Graph {
	g := &Graph{}
	var edges edgeSet
	for it, id := n.Iter(), 0; it.HasNext(); id++ {
		s := it.Next()
		g.addNode(id, nfa.StateID(id) == n.Start(), s.IsAccept())
		switch s.Kind() {
		case nfa.StateLiteral:
			ch, next := s.Literal()
			edges.add(int(next), char.Glyph(ch, false))
		case nfa.StateEpsilon:
			next1, next2 := s.Epsilon()
			edges.add(int(next1), EpsilonLabel)
			if next2 != nfa.InvalidState {
				edges.add(int(next2), EpsilonLabel)
			}
		}
		edges.flush(g, id)
	}
	return g
}

// WriteTo writes the graph as a DOT digraph named name. The title is shown
// at the top of the drawing.
func (g *Graph) WriteTo(w io.Writer, name, title string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n\trankdir=LR;\n", strconv.Quote(name))
	for _, s := range g.nodes {
		b.WriteString(s)
	}
	for _, s := range g.edges {
		b.WriteString(s)
	}
	fmt.Fprintf(&b, "\tlabelloc=\"t\";\n\tlabel=\"%s\";\n}\n", escape(title))
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the DOT text of a graph named "automaton".
func (g *Graph) String() string {
	var b strings.Builder
	_ = g.WriteTo(&b, "automaton", "")
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
}
