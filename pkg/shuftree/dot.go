package shuftree

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	perrors "github.com/gllmflndn/palm/pkg/errors"
)

// ToDOT returns a Graphviz DOT representation of the tree structure.
//
// The DOT format can be rendered with Graphviz tools (dot, neato, etc.) or
// programmatically with RenderSVG. The output is a complete DOT digraph with
// styling suitable for documentation and debugging.
//
// Node representation:
//   - free branches: labeled "free", ellipse shape
//   - fixed branches: labeled "fixed", box shape
//   - leaves: labeled with their observation indices, rounded box shape
//
// The labels parameter maps observation index i (1-based) to labels[i-1].
// Pass nil to show raw indices. The labels slice is not modified.
func (t *Tree) ToDOT(labels []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph shuftree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	writeDOTNode(&buf, t.root, 0, labels)

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *node, id int, labels []string) int {
	nodeID := fmt.Sprintf("n%d", id)
	next := id + 1

	switch n.kind {
	case leafNode:
		fmt.Fprintf(buf, "  %s [label=%q, shape=box, style=\"filled,rounded\"];\n", nodeID, leafLabel(n, labels))

	case freeBranch:
		fmt.Fprintf(buf, "  %s [label=\"free\", shape=ellipse];\n", nodeID)
		for _, c := range n.children {
			fmt.Fprintf(buf, "  %s -> n%d;\n", nodeID, next)
			next = writeDOTNode(buf, c, next, labels)
		}

	case fixedBranch:
		fmt.Fprintf(buf, "  %s [label=\"fixed\", shape=box];\n", nodeID)
		for _, c := range n.children {
			fmt.Fprintf(buf, "  %s -> n%d;\n", nodeID, next)
			next = writeDOTNode(buf, c, next, labels)
		}
	}

	return next
}

func leafLabel(n *node, labels []string) string {
	out := ""
	for i, idx := range n.indices {
		if i > 0 {
			out += " "
		}
		if idx >= 1 && idx <= len(labels) {
			out += labels[idx-1]
		} else {
			out += fmt.Sprintf("%d", idx)
		}
	}
	return out
}

// RenderSVG renders the tree structure as an SVG image.
//
// RenderSVG generates a DOT representation via ToDOT, then uses Graphviz to
// render it to SVG format. The returned bytes are a complete SVG document
// suitable for embedding in HTML or saving to a file.
//
// The labels parameter is passed to ToDOT and works identically. Pass nil for
// raw observation indices.
func (t *Tree) RenderSVG(labels []string) ([]byte, error) {
	dot := t.ToDOT(labels)

	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), g, graphviz.SVG, &buf); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "render")
	}
	return buf.Bytes(), nil
}
