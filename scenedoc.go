package dynamo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeDoc is the document form of a scene node. Attribute values are written
// in attribute syntax ("1 0 0", "true", "0.5").
type NodeDoc struct {
	ID       string            `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string            `json:"type,omitempty" yaml:"type,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []NodeDoc         `json:"children,omitempty" yaml:"children,omitempty"`
}

func (d NodeDoc) build() *Node {
	typ := d.Type
	if typ == "" {
		typ = "Transform"
	}
	n := NewNode(d.ID, typ)
	for _, name := range sortedKeys(d.Attrs) {
		n.SetAttr(name, d.Attrs[name])
	}
	for _, c := range d.Children {
		child := c.build()
		child.Parent = n
		n.children = append(n.children, child)
	}
	return n
}

func docOf(n *Node) NodeDoc {
	d := NodeDoc{ID: n.ID, Type: n.Type}
	if n.anonymous {
		d.ID = ""
	}
	if len(n.attrs) > 0 {
		d.Attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			d.Attrs[k] = v
		}
	}
	for _, c := range n.children {
		d.Children = append(d.Children, docOf(c))
	}
	return d
}

// Doc returns the document form of the scene's tree.
func (s *Scene) Doc() NodeDoc {
	return docOf(s.root)
}

// LoadSceneJSON builds a scene from a JSON node document. A root without a
// type becomes a RootType node.
func LoadSceneJSON(data []byte) (*Scene, error) {
	var d NodeDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return sceneFromDoc(d), nil
}

// LoadSceneYAML builds a scene from a YAML node document.
func LoadSceneYAML(data []byte) (*Scene, error) {
	var d NodeDoc
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return sceneFromDoc(d), nil
}

func sceneFromDoc(d NodeDoc) *Scene {
	if d.Type == "" {
		d.Type = RootType
	}
	if d.ID == "" {
		d.ID = "root"
	}
	return NewSceneWithRoot(d.build())
}

// LoadSceneFile reads a scene from disk: .x3d and .xml files as X3D, .yaml
// and .yml as YAML node documents and everything else as JSON.
func LoadSceneFile(path string, opts X3DOptions) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".x3d", ".xml":
		return LoadX3D(bytes.NewReader(data), opts)
	case ".yaml", ".yml":
		return LoadSceneYAML(data)
	default:
		return LoadSceneJSON(data)
	}
}
