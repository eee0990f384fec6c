package diff

import (
	"strings"

	"github.com/jonwraymond/deepfreeze/fingerprint"
)

// Location is one side of a divergence: the path of labels from the root of
// that side's tree down to the diverging node, plus the node at each step.
// Locations are immutable; the walk extends them copy-on-append so sibling
// branches never alias.
type Location struct {
	labels []string
	nodes  []fingerprint.Node
}

func rootLocation(label string, n fingerprint.Node) Location {
	return Location{labels: []string{label}, nodes: []fingerprint.Node{n}}
}

// push extends the path one step down.
func (l Location) push(label string, n fingerprint.Node) Location {
	labels := make([]string, len(l.labels)+1)
	copy(labels, l.labels)
	labels[len(l.labels)] = label

	nodes := make([]fingerprint.Node, len(l.nodes)+1)
	copy(nodes, l.nodes)
	nodes[len(l.nodes)] = n

	return Location{labels: labels, nodes: nodes}
}

// retail swaps the node at the tail without changing the path, used when an
// order-erased mapping is reinterpreted as a keyed composite.
func (l Location) retail(n fingerprint.Node) Location {
	nodes := make([]fingerprint.Node, len(l.nodes))
	copy(nodes, l.nodes)
	nodes[len(nodes)-1] = n
	return Location{labels: l.labels, nodes: nodes}
}

// Labels returns a copy of the path labels, root first.
func (l Location) Labels() []string {
	out := make([]string, len(l.labels))
	copy(out, l.labels)
	return out
}

// Node returns the node at the end of the path.
func (l Location) Node() fingerprint.Node {
	return l.nodes[len(l.nodes)-1]
}

// Path renders the full path, root label included, as one expression such
// as `a[4].keys()`.
func (l Location) Path() string {
	return strings.Join(l.labels, "")
}

func (l Location) String() string {
	return l.Path() + " == " + l.Node().String()
}
