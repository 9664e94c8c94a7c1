package dynamo

import (
	"slices"
	"strings"
	"testing"
)

func TestLoadX3DFile(t *testing.T) {
	s, err := LoadX3DFile("testdata/house.x3d", X3DOptions{})
	if err != nil {
		t.Fatalf("LoadX3DFile: %v", err)
	}
	if s.Root().Type != "Scene" {
		t.Errorf("root type = %q, want Scene", s.Root().Type)
	}
	if s.Root().Parent != nil {
		t.Error("scene root still has a parent")
	}
	for _, id := range []string{"__door", "__doorPanel", "__lights", "__lamp1", "__lamp2", "__sign", "fan"} {
		if !s.Has(id) {
			t.Errorf("missing node %q", id)
		}
	}
	// <head> sits outside <Scene> and is not part of the tree.
	s.Walk(func(n *Node) bool {
		if n.Type == "head" || n.Type == "meta" {
			t.Errorf("found %s node in scene", n.Type)
		}
		return true
	})
	if got, want := s.ChildIDs("__lights"), []string{"__lamp1", "__lamp2", "__sign"}; !slices.Equal(got, want) {
		t.Errorf("ChildIDs(__lights) = %v, want %v", got, want)
	}
	if raw, _ := s.RawAttribute("__door", "DEF"); raw != "door" {
		t.Errorf("DEF = %q, want door", raw)
	}
	if _, ok := s.RawAttribute("fan", "id"); ok {
		t.Error("id should not be kept as an attribute")
	}
	if v, ok := s.Attribute("fan", "rotation"); !ok || !v.Equal(Tuple(0, 0, 1, 0.5)) {
		t.Errorf("fan rotation = %v %v", v, ok)
	}
}

func TestLoadX3DOptions(t *testing.T) {
	doc := `<X3D><Scene><Transform DEF="box"/></Scene></X3D>`

	s, err := LoadX3D(strings.NewReader(doc), X3DOptions{Namespace: "ns_"})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Has("ns_box") {
		t.Error("custom namespace not applied")
	}

	opts := X3DOptions{KeepDEF: true}
	s, err = LoadX3D(strings.NewReader(doc), opts)
	if err != nil {
		t.Fatal(err)
	}
	box := s.Root().ChildAt(0)
	if !strings.HasPrefix(box.ID, "node#") || !s.Anonymous(box.ID) {
		t.Errorf("ID = %q, want generated", box.ID)
	}
	if opts.ResolveOptions().Namespace != "" {
		t.Error("KeepDEF should resolve without a namespace")
	}
	if (X3DOptions{}).ResolveOptions().Namespace != DefaultX3DNamespace {
		t.Error("default ResolveOptions should use DefaultX3DNamespace")
	}
}

func TestLoadX3DWithoutSceneElement(t *testing.T) {
	s, err := LoadX3D(strings.NewReader(`<Group id="top"><Shape id="s"/></Group>`), X3DOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if s.RootID() != "top" {
		t.Errorf("RootID() = %q, want top", s.RootID())
	}
}

func TestLoadX3DErrors(t *testing.T) {
	for _, doc := range []string{
		"",
		"<X3D><Scene>",
		"<a/><b/>",
	} {
		if _, err := LoadX3D(strings.NewReader(doc), X3DOptions{}); err == nil {
			t.Errorf("LoadX3D(%q) succeeded, want error", doc)
		}
	}
}

func TestX3DEngineIntegration(t *testing.T) {
	opts := X3DOptions{}
	s, err := LoadX3D(strings.NewReader(`
<X3D><Scene>
  <Group DEF="row">
    <Transform DEF="item1" translation="0 1 0"/>
    <Transform DEF="item2" translation="0 2 0"/>
  </Group>
</Scene></X3D>`), opts)
	if err != nil {
		t.Fatal(err)
	}
	spec := mustSpecYAML(t, `
groups:
  items: {parent: row, match: ^item}
states:
  up:
    state: [{group: items, field: translation, value: [0, 10, 0]}]
`)
	eng, err := New(spec, s, opts.ResolveOptions())
	if err != nil {
		t.Fatal(err)
	}
	eng.SetLogger(quietLogger)
	if err := eng.SetState("up"); err != nil {
		t.Fatal(err)
	}
	if raw, _ := s.RawAttribute("__item2", "translation"); raw != "0 12 0" {
		t.Errorf("item2 translation = %q, want 0 12 0", raw)
	}
}
