// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package tree implements the node structure behind a jtable.Model.
//
// Nodes live in an Arena and are addressed by stable integer IDs. Each node
// is one of four kinds:
//
//	Kind    | Represents                   | Children
//	------- | ---------------------------- | ------------------------------
//	Scalar  | null, Boolean, number, string | none
//	Array   | a JSON array                 | one per element, in order
//	Object  | a JSON object                | one per array/object member
//	Wrapper | a synthetic root             | exactly one Object
//
// The scalar members of an object are not children: they are kept in a
// separate name-keyed table on the Object node, and are shown by the model
// in named columns. A member name is held by either the child table or the
// scalar table of its object, never both.
//
// Parent links are plain IDs used only for lookup. A child belongs to
// exactly one parent, and only that parent registers or deregisters it.
package tree

import (
	"fmt"
	"slices"

	"github.com/creachadair/jtable/value"
)

// An ID identifies a node within an Arena. The zero ID is None.
type ID int

// None is the ID of no node.
const None ID = 0

// A Kind describes the variant of a node.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota // not a node, or a released node
	Scalar              // a null, Boolean, number, or string
	Array               // a JSON array
	Object              // a JSON object
	Wrapper             // a synthetic root holding one Object
)

var kindStr = [...]string{
	Invalid: "invalid",
	Scalar:  "scalar",
	Array:   "array",
	Object:  "object",
	Wrapper: "wrapper",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// IsList reports whether nodes of kind k can have children.
func (k Kind) IsList() bool { return k == Array || k == Object || k == Wrapper }

type node struct {
	kind   Kind
	parent ID

	scalar value.Value // Scalar

	children []ID       // Array, Object, Wrapper
	pos      map[ID]int // child → position in children

	names   map[ID]string          // Object: child → member name
	byName  map[string]ID          // Object: member name → child
	scalars map[string]value.Value // Object: member name → named scalar
	order   []string               // Object: member names in output order
}

// An Arena holds the nodes of a single document tree.
type Arena struct {
	nodes []node // nodes[None] is a placeholder and is never used
	root  ID
}

func newArena() *Arena { return &Arena{nodes: make([]node, 1)} }

// FromArray constructs a tree whose root is an Array node for arr.
func FromArray(arr value.Array) *Arena {
	a := newArena()
	a.root = a.newList(arr, None)
	return a
}

// FromObject constructs a tree whose root represents obj. If obj has any
// scalar members, its Object node is wrapped in a Wrapper node, so that the
// object itself occupies a row under the root and its scalars can be shown.
// Otherwise the Object node is the root.
func FromObject(obj value.Object) *Arena {
	a := newArena()
	id := a.newNamedList(obj, None)
	if a.NamedScalarCount(id) > 0 {
		id = a.wrap(id)
	}
	a.root = id
	return a
}

// Root returns the ID of the root node.
func (a *Arena) Root() ID { return a.root }

// Len reports the number of live nodes in a.
func (a *Arena) Len() int {
	var n int
	for _, nd := range a.nodes[1:] {
		if nd.kind != Invalid {
			n++
		}
	}
	return n
}

func (a *Arena) get(id ID) *node {
	if id <= None || int(id) >= len(a.nodes) || a.nodes[id].kind == Invalid {
		return nil
	}
	return &a.nodes[id]
}

func (a *Arena) alloc(kind Kind, parent ID) ID {
	nd := node{kind: kind, parent: parent}
	if kind.IsList() {
		nd.pos = make(map[ID]int)
	}
	if kind == Object {
		nd.names = make(map[ID]string)
		nd.byName = make(map[string]ID)
		nd.scalars = make(map[string]value.Value)
	}
	a.nodes = append(a.nodes, nd)
	return ID(len(a.nodes) - 1)
}

// newNode constructs a subtree for v under parent. Values other than arrays
// and objects become Scalar nodes; a nil or non-scalar leaf is stored as null.
func (a *Arena) newNode(v value.Value, parent ID) ID {
	switch t := v.(type) {
	case value.Array:
		return a.newList(t, parent)
	case value.Object:
		return a.newNamedList(t, parent)
	}
	id := a.alloc(Scalar, parent)
	a.nodes[id].scalar = scalarOf(v)
	return id
}

func (a *Arena) newList(arr value.Array, parent ID) ID {
	id := a.alloc(Array, parent)
	for _, elt := range arr {
		a.registerChild(id, a.newNode(elt, id))
	}
	return id
}

func (a *Arena) newNamedList(obj value.Object, parent ID) ID {
	id := a.alloc(Object, parent)
	for _, m := range obj {
		if m == nil {
			continue
		}
		existed := a.removeMember(id, m.Key)
		if isContainer(m.Value) {
			child := a.newNode(m.Value, id)
			a.registerChild(id, child)
			nd := &a.nodes[id]
			nd.names[child] = m.Key
			nd.byName[m.Key] = child
		} else {
			a.nodes[id].scalars[m.Key] = scalarOf(m.Value)
		}
		if !existed {
			a.nodes[id].order = append(a.nodes[id].order, m.Key)
		}
	}
	return id
}

// removeMember discards the member of object id with the given name, if
// there is one, and reports whether it existed. The member keeps its place
// in the output order.
func (a *Arena) removeMember(id ID, name string) bool {
	nd := a.get(id)
	if child, ok := nd.byName[name]; ok {
		a.deregisterChild(id, child)
		return true
	}
	if _, ok := nd.scalars[name]; ok {
		delete(nd.scalars, name)
		return true
	}
	return false
}

func (a *Arena) wrap(inner ID) ID {
	w := a.alloc(Wrapper, None)
	a.setParent(inner, w)
	a.registerChild(w, inner)
	return w
}

// setParent makes parent the parent of id. The caller must update the
// registration of id separately.
func (a *Arena) setParent(id, parent ID) {
	if p := a.get(parent); p == nil || !p.kind.IsList() {
		panic(fmt.Sprintf("tree: node %d cannot be a parent", parent))
	}
	a.get(id).parent = parent
}

// registerChild adds child to the end of the children of parent.
// Only the parent of child may register it.
func (a *Arena) registerChild(parent, child ID) {
	p, c := a.get(parent), a.get(child)
	if p == nil || c == nil || c.parent != parent {
		panic("tree: only a parent can register its own child")
	}
	if _, ok := p.pos[child]; ok {
		panic(fmt.Sprintf("tree: node %d is already registered", child))
	}
	p.pos[child] = len(p.children)
	p.children = append(p.children, child)
}

// deregisterChild removes child from the children of parent, updates the
// positions of the children after it, and releases the subtree of child.
// Only the parent of child may deregister it.
func (a *Arena) deregisterChild(parent, child ID) {
	p, c := a.get(parent), a.get(child)
	if p == nil || c == nil || c.parent != parent {
		panic("tree: only a parent can deregister its own child")
	}
	i, ok := p.pos[child]
	if !ok {
		panic(fmt.Sprintf("tree: node %d is not registered", child))
	}
	delete(p.pos, child)
	p.children = slices.Delete(p.children, i, i+1)
	for ; i < len(p.children); i++ {
		p.pos[p.children[i]] = i
	}
	if name, ok := p.names[child]; ok {
		delete(p.names, child)
		delete(p.byName, name)
	}
	a.release(child)
}

// release discards id and its entire subtree.
func (a *Arena) release(id ID) {
	nd := a.get(id)
	if nd == nil {
		return
	}
	kids := nd.children
	a.nodes[id] = node{}
	for _, kid := range kids {
		a.release(kid)
	}
}

// Kind reports the kind of node id, or Invalid if id is not a node of a.
func (a *Arena) Kind(id ID) Kind {
	if nd := a.get(id); nd != nil {
		return nd.kind
	}
	return Invalid
}

// Parent returns the parent of id, or None if id is the root or invalid.
func (a *Arena) Parent(id ID) ID {
	if nd := a.get(id); nd != nil {
		return nd.parent
	}
	return None
}

// ChildCount reports the number of children of id. Scalar nodes have none.
func (a *Arena) ChildCount(id ID) int {
	if nd := a.get(id); nd != nil {
		return len(nd.children)
	}
	return 0
}

// ChildAt returns the child of id at position i, or None if i is out of
// range or id has no children.
func (a *Arena) ChildAt(id ID, i int) ID {
	nd := a.get(id)
	if nd == nil || i < 0 || i >= len(nd.children) {
		return None
	}
	return nd.children[i]
}

// ChildPosition returns the position of child among the children of
// parent, or -1 if child does not belong to parent.
func (a *Arena) ChildPosition(parent, child ID) int {
	if nd := a.get(parent); nd != nil {
		if i, ok := nd.pos[child]; ok {
			return i
		}
	}
	return -1
}

// ChildName returns the member name under which child is held by the
// Object node parent.
func (a *Arena) ChildName(parent, child ID) (string, bool) {
	if nd := a.get(parent); nd != nil && nd.kind == Object {
		name, ok := nd.names[child]
		return name, ok
	}
	return "", false
}

// NamedScalar returns the scalar member of Object node id with the given
// name. It reports false if id is not an object, or if it has no scalar
// member with that name.
func (a *Arena) NamedScalar(id ID, name string) (value.Value, bool) {
	if nd := a.get(id); nd != nil && nd.kind == Object {
		v, ok := nd.scalars[name]
		return v, ok
	}
	return nil, false
}

// NamedScalarCount reports the number of scalar members of Object node id.
func (a *Arena) NamedScalarCount(id ID) int {
	if nd := a.get(id); nd != nil {
		return len(nd.scalars)
	}
	return 0
}

// A Member is the result of looking up an object member by name. Exactly
// one of Child and Scalar is set for a member that exists.
type Member struct {
	Child  ID          // the node of an array or object member
	Scalar value.Value // the value of a scalar member
}

// Lookup finds the member of Object node id with the given name, whether it
// is a structural child or a named scalar.
func (a *Arena) Lookup(id ID, name string) (Member, bool) {
	nd := a.get(id)
	if nd == nil || nd.kind != Object {
		return Member{}, false
	}
	if child, ok := nd.byName[name]; ok {
		return Member{Child: child}, true
	}
	if v, ok := nd.scalars[name]; ok {
		return Member{Scalar: v}, true
	}
	return Member{}, false
}

// SetScalar replaces the value of Scalar node id with v. It reports false
// without change if id is not a Scalar node or v is not a scalar.
func (a *Arena) SetScalar(id ID, v value.Value) bool {
	nd := a.get(id)
	if nd == nil || nd.kind != Scalar || !value.IsScalar(v) {
		return false
	}
	nd.scalar = v
	return true
}

// SetNamedScalar adds or replaces the scalar member name of Object node id.
// It reports false without change if id is not an Object node, v is not a
// scalar, or name is held by an array or object member. A new member is
// placed after the existing ones.
func (a *Arena) SetNamedScalar(id ID, name string, v value.Value) bool {
	nd := a.get(id)
	if nd == nil || nd.kind != Object || !value.IsScalar(v) {
		return false
	}
	if _, ok := nd.byName[name]; ok {
		return false
	}
	if _, ok := nd.scalars[name]; !ok {
		nd.order = append(nd.order, name)
	}
	nd.scalars[name] = v
	return true
}

// Value returns the JSON value represented by id and its descendants, or
// nil if id is not a node of a. A Wrapper node has the value of its child.
func (a *Arena) Value(id ID) value.Value {
	nd := a.get(id)
	if nd == nil {
		return nil
	}
	switch nd.kind {
	case Scalar:
		return nd.scalar
	case Array:
		out := make(value.Array, len(nd.children))
		for i, kid := range nd.children {
			out[i] = a.Value(kid)
		}
		return out
	case Wrapper:
		if len(nd.children) == 0 {
			return nil
		}
		return a.Value(nd.children[0])
	case Object:
		out := make(value.Object, 0, len(nd.order))
		for _, name := range nd.order {
			if kid, ok := nd.byName[name]; ok {
				out = append(out, &value.Member{Key: name, Value: a.Value(kid)})
			} else if v, ok := nd.scalars[name]; ok {
				out = append(out, &value.Member{Key: name, Value: v})
			}
		}
		return out
	}
	return nil
}

func isContainer(v value.Value) bool {
	switch v.(type) {
	case value.Array, value.Object:
		return true
	}
	return false
}

func scalarOf(v value.Value) value.Value {
	if value.IsScalar(v) {
		return v
	}
	return value.Null{}
}
