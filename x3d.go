package dynamo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultX3DNamespace is the prefix joined to a DEF name to form the id of a
// node that has no explicit id.
const DefaultX3DNamespace = "__"

// X3DOptions controls how LoadX3D assigns node ids.
type X3DOptions struct {
	// Namespace is prefixed to DEF names. Empty means DefaultX3DNamespace.
	Namespace string
	// KeepDEF disables DEF to id mapping; nodes without an id get generated
	// ids instead.
	KeepDEF bool
}

func (o X3DOptions) namespace() string {
	if o.Namespace == "" {
		return DefaultX3DNamespace
	}
	return o.Namespace
}

// ResolveOptions returns the ResolveOptions matching the id scheme of o, so
// group parent and root names can be written as DEF names.
func (o X3DOptions) ResolveOptions() ResolveOptions {
	if o.KeepDEF {
		return ResolveOptions{}
	}
	return ResolveOptions{Namespace: o.namespace()}
}

// LoadX3D reads an X3D document into a Scene rooted at its <Scene> element.
// Documents without one are rooted at their top element. Every XML attribute
// is kept in raw form; an element's id comes from its id attribute, then from
// its DEF name, else it is generated.
func LoadX3D(r io.Reader, opts X3DOptions) (*Scene, error) {
	dec := xml.NewDecoder(r)
	var (
		top, root *Node
		stack     []*Node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse x3d: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			n := x3dNode(el, opts)
			if len(stack) == 0 {
				if top != nil {
					return nil, fmt.Errorf("parse x3d: multiple top-level elements")
				}
				top = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
				n.Parent = parent
			}
			if root == nil && el.Name.Local == RootType {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if top == nil {
		return nil, fmt.Errorf("parse x3d: empty document")
	}
	if root == nil {
		root = top
	}
	if root.Parent != nil {
		root.Parent.removeChildByPtr(root)
		root.Parent = nil
	}
	return NewSceneWithRoot(root), nil
}

// LoadX3DFile reads an X3D document from path.
func LoadX3DFile(path string, opts X3DOptions) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadX3D(f, opts)
}

func x3dNode(el xml.StartElement, opts X3DOptions) *Node {
	var id, def string
	for _, a := range el.Attr {
		switch a.Name.Local {
		case "id":
			id = a.Value
		case "DEF":
			def = a.Value
		}
	}
	if id == "" && def != "" && !opts.KeepDEF {
		id = opts.namespace() + def
	}
	n := NewNode(id, el.Name.Local)
	for _, a := range el.Attr {
		if a.Name.Local == "id" {
			continue
		}
		n.SetAttr(a.Name.Local, a.Value)
	}
	return n
}
