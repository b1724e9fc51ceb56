// Package ast wraps the tree-sitter parse tree in the shape the semantic
// core expects: a node cursor with is_null/type_name/named_child/
// child_by_field_name/text/parent, plus a SourceText the walker can
// index into. The core never talks to *sitter.Node directly — every
// other package goes through this one.
package ast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// SourceText is the file content a Node's byte ranges are relative to.
type SourceText []byte

// FileID is the index of a file within the Store's file-path arena.
// Defined here, rather than in package store, so that Symbol (which
// needs to carry one) does not have to import store.
type FileID int

// NoFileID is the sentinel for "no file" (e.g. synthesized builtin
// symbols registered against a virtual placeholder file still get a
// real FileID — this sentinel is only for values that never touched
// a file arena at all).
const NoFileID FileID = -1

// Len returns the number of bytes in the source.
func (s SourceText) Len() int { return len(s) }

// Node is a cursor into a tree-sitter parse tree. The zero Node is null.
type Node struct {
	inner *sitter.Node
}

// NewNode wraps a *sitter.Node. Passing nil yields a null Node.
func NewNode(n *sitter.Node) Node {
	return Node{inner: n}
}

// IsNull reports whether the node is absent — the result of a missing
// required child, an out-of-range index, or a nil root.
func (n Node) IsNull() bool {
	return n.inner == nil
}

// TypeName is the tree-sitter grammar tag for this node (e.g.
// "pointer_type", "call_expression"). Empty for a null node.
func (n Node) TypeName() string {
	if n.inner == nil {
		return ""
	}
	return n.inner.Type()
}

// StartByte returns the node's start offset in the source.
func (n Node) StartByte() uint32 {
	if n.inner == nil {
		return 0
	}
	return n.inner.StartByte()
}

// EndByte returns the node's end offset in the source.
func (n Node) EndByte() uint32 {
	if n.inner == nil {
		return 0
	}
	return n.inner.EndByte()
}

// Range returns the node's byte and row/column extent.
func (n Node) Range() Range {
	if n.inner == nil {
		return Range{}
	}
	r := n.inner.Range()
	return Range{
		StartByte:  r.StartByte,
		EndByte:    r.EndByte,
		StartPoint: Point{Row: r.StartPoint.Row, Column: r.StartPoint.Column},
		EndPoint:   Point{Row: r.EndPoint.Row, Column: r.EndPoint.Column},
	}
}

// NamedChildCount returns the number of named children.
func (n Node) NamedChildCount() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.NamedChildCount())
}

// NamedChild returns the i-th named child, or a null Node if i is out of range.
func (n Node) NamedChild(i int) Node {
	if n.inner == nil || i < 0 || i >= n.NamedChildCount() {
		return Node{}
	}
	return Node{inner: n.inner.NamedChild(i)}
}

// ChildByFieldName returns the child bound to the given grammar field,
// or a null Node if the field is absent on this node.
func (n Node) ChildByFieldName(name string) Node {
	if n.inner == nil {
		return Node{}
	}
	return Node{inner: n.inner.ChildByFieldName(name)}
}

// Parent returns the enclosing node, or a null Node at the tree root.
func (n Node) Parent() Node {
	if n.inner == nil {
		return Node{}
	}
	return Node{inner: n.inner.Parent()}
}

// Text returns the source slice covered by this node's byte range.
func (n Node) Text(src SourceText) string {
	if n.inner == nil {
		return ""
	}
	start, end := n.inner.StartByte(), n.inner.EndByte()
	if int(end) > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

// Equal reports whether two Node cursors refer to the same tree-sitter node.
func (n Node) Equal(other Node) bool {
	return n.inner == other.inner
}
