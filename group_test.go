package dynamo

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// newGroupScene builds:
//
//	root
//	├── door (DEF door)
//	│   └── knob (DEF doorKnob)
//	├── lights (DEF lights)
//	│   ├── light1        no DEF
//	│   ├── a (DEF lampA)
//	│   └── b (DEF other)
//	└── c (label lampC)
func newGroupScene() *Scene {
	s := NewScene()
	door := NewNode("door", "Transform")
	door.SetAttr("DEF", "door")
	door.SetAttr("translation", "0 0 0")
	door.SetAttr("rotation", "0 0 0 0")
	door.SetAttr("center", "1,1,1")
	knob := NewNode("knob", "Shape")
	knob.SetAttr("DEF", "doorKnob")
	door.AddChild(knob)

	lights := NewNode("lights", "Group")
	lights.SetAttr("DEF", "lights")
	lights.AddChild(NewNode("light1", "PointLight"))
	a := NewNode("a", "PointLight")
	a.SetAttr("DEF", "lampA")
	a.SetAttr("meanvalue", "0.5")
	a.SetAttr("render", "true")
	lights.AddChild(a)
	b := NewNode("b", "PointLight")
	b.SetAttr("DEF", "other")
	lights.AddChild(b)

	c := NewNode("c", "Transform")
	c.SetAttr("label", "lampC")

	s.Root().AddChild(door)
	s.Root().AddChild(lights)
	s.Root().AddChild(c)
	return s
}

func mustSpecYAML(t *testing.T, doc string) *Spec {
	t.Helper()
	spec, err := LoadSpecYAML([]byte(doc))
	if err != nil {
		t.Fatalf("LoadSpecYAML: %v", err)
	}
	return spec
}

func mustResolve(t *testing.T, spec *Spec, s *Scene, opts ResolveOptions) *GroupTable {
	t.Helper()
	gt, err := ResolveGroups(spec, s, s, opts)
	if err != nil {
		t.Fatalf("ResolveGroups: %v", err)
	}
	return gt
}

func members(t *testing.T, gt *GroupTable, name string) []string {
	t.Helper()
	ids, ok := gt.Members(name)
	if !ok {
		t.Fatalf("group %q not resolved", name)
	}
	return ids
}

func TestResolveGroupsParent(t *testing.T) {
	spec := mustSpecYAML(t, `
groups:
  lamps: {parent: lights, match: ^lamp}
  others: {parent: lights, match: ^lamp, modifier: NOT}
`)
	gt := mustResolve(t, spec, newGroupScene(), ResolveOptions{})

	if got, want := members(t, gt, "lamps"), []string{"a"}; !slices.Equal(got, want) {
		t.Errorf("lamps = %v, want %v", got, want)
	}
	// light1 has neither a matching id nor a DEF, so it is dropped even under NOT.
	if got, want := members(t, gt, "others"), []string{"b"}; !slices.Equal(got, want) {
		t.Errorf("others = %v, want %v", got, want)
	}
}

func TestResolveGroupsIDMatchesFirst(t *testing.T) {
	spec := mustSpecYAML(t, `
groups:
  lit: {parent: lights, match: ^light}
`)
	gt := mustResolve(t, spec, newGroupScene(), ResolveOptions{})
	if got, want := members(t, gt, "lit"), []string{"light1"}; !slices.Equal(got, want) {
		t.Errorf("lit = %v, want %v", got, want)
	}
}

func TestResolveGroupsRootStopsAtMatch(t *testing.T) {
	spec := mustSpecYAML(t, `
groups:
  doors: {match: door}
`)
	gt := mustResolve(t, spec, newGroupScene(), ResolveOptions{})
	// knob (DEF doorKnob) also matches but lives under a matched node.
	if got, want := members(t, gt, "doors"), []string{"door"}; !slices.Equal(got, want) {
		t.Errorf("doors = %v, want %v", got, want)
	}
}

func TestResolveGroupsRootNot(t *testing.T) {
	spec := mustSpecYAML(t, `
groups:
  notLamps: {root: lights, match: ^lights$, modifier: NOT}
  lightsOnly: {root: lights, match: ^(lights|lamp)}
`)
	gt := mustResolve(t, spec, newGroupScene(), ResolveOptions{})
	// lights matches by id and is therefore excluded; its children are then
	// visited and all three are taken, light1 included as a non-match.
	if got, want := members(t, gt, "notLamps"), []string{"light1", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("notLamps = %v, want %v", got, want)
	}
	if got, want := members(t, gt, "lightsOnly"), []string{"lights"}; !slices.Equal(got, want) {
		t.Errorf("lightsOnly = %v, want %v", got, want)
	}
}

func TestResolveGroupsSkipsGeneratedIDs(t *testing.T) {
	s := NewScene()
	p := NewNode("p", "Group")
	plain := NewNode("", "Shape")
	named := NewNode("", "PointLight")
	named.SetAttr("DEF", "lamp2")
	p.AddChild(plain)
	p.AddChild(named)
	p.AddChild(NewNode("x1", "Shape"))
	s.Root().AddChild(p)

	spec := mustSpecYAML(t, `
groups:
  digits: {parent: p, match: '\d'}
  hashes: {parent: p, match: '#'}
`)
	gt := mustResolve(t, spec, s, ResolveOptions{})
	// plain only has a generated id and no DEF, so it is dropped.
	if got, want := members(t, gt, "digits"), []string{named.ID, "x1"}; !slices.Equal(got, want) {
		t.Errorf("digits = %v, want %v", got, want)
	}
	if got := members(t, gt, "hashes"); len(got) != 0 {
		t.Errorf("hashes = %v, want none", got)
	}
}

func TestResolveGroupsAnonymousX3DRoot(t *testing.T) {
	doc := `<X3D><Scene><Transform DEF="Wheel"/><Transform><Shape/></Transform></Scene></X3D>`
	opts := X3DOptions{}
	s, err := LoadX3D(strings.NewReader(doc), opts)
	if err != nil {
		t.Fatal(err)
	}
	spec := mustSpecYAML(t, `
groups:
  ds: {match: d}
  wheels: {match: ^Wheel$}
`)
	gt := mustResolve(t, spec, s, opts.ResolveOptions())
	if got := members(t, gt, "ds"); len(got) != 0 {
		t.Errorf("ds = %v, want none", got)
	}
	if got, want := members(t, gt, "wheels"), []string{"__Wheel"}; !slices.Equal(got, want) {
		t.Errorf("wheels = %v, want %v", got, want)
	}
}

func TestResolveGroupsCustomAttribute(t *testing.T) {
	spec := mustSpecYAML(t, `
groups:
  labelled: {match: ^lamp, attribute: label}
`)
	gt := mustResolve(t, spec, newGroupScene(), ResolveOptions{})
	if got, want := members(t, gt, "labelled"), []string{"c"}; !slices.Equal(got, want) {
		t.Errorf("labelled = %v, want %v", got, want)
	}
}

func TestResolveGroupsNamespace(t *testing.T) {
	s := NewScene()
	parent := NewNode("__lights", "Group")
	l := NewNode("__lamp", "PointLight")
	l.SetAttr("DEF", "lamp")
	parent.AddChild(l)
	s.Root().AddChild(parent)

	spec := mustSpecYAML(t, `
groups:
  lamps: {parent: lights, match: ^lamp$}
`)
	gt := mustResolve(t, spec, s, ResolveOptions{Namespace: "__"})
	if got, want := members(t, gt, "lamps"), []string{"__lamp"}; !slices.Equal(got, want) {
		t.Errorf("lamps = %v, want %v", got, want)
	}
}

func TestResolveGroupsMissingRoot(t *testing.T) {
	for _, doc := range []string{
		"groups:\n  g: {parent: nowhere, match: x}\n",
		"groups:\n  g: {root: nowhere, match: x}\n",
	} {
		spec := mustSpecYAML(t, doc)
		s := newGroupScene()
		if _, err := ResolveGroups(spec, s, s, ResolveOptions{}); !errors.Is(err, ErrMissingRoot) {
			t.Errorf("err = %v, want ErrMissingRoot", err)
		}
	}
}

func TestResolveGroupsSaveState(t *testing.T) {
	spec := mustSpecYAML(t, `
groups:
  doors: {match: ^door$}
  all: {parent: lights, match: .}
states:
  s:
    state:
      - {group: doors, field: translation, value: [1, 0, 0]}
      - {group: doors, field: rotation, value: [0, 1, 0, 1]}
      - {group: doors, field: center, value: [0, 0, 0]}
      - {group: all, field: meanvalue, value: 1}
      - {id: c, field: render, value: false}
`)
	gt := mustResolve(t, spec, newGroupScene(), ResolveOptions{})

	if v, ok := gt.Saved("door", "translation"); !ok || !v.Equal(Tuple(0, 0, 0)) {
		t.Errorf("door translation = %v %v, want 0 0 0", v, ok)
	}
	if v, ok := gt.Saved("door", "center"); !ok || !v.Equal(Tuple(1, 1, 1)) {
		t.Errorf("door center = %v %v, want 1 1 1", v, ok)
	}
	if _, ok := gt.Saved("door", "rotation"); ok {
		t.Error("zero-axis rotation should not be captured")
	}
	if v, ok := gt.Saved("a", "meanvalue"); !ok || !v.Equal(Number(0.5)) {
		t.Errorf("a meanvalue = %v %v, want 0.5", v, ok)
	}
	// render is set by a state, so it is captured for group members.
	if v, ok := gt.Saved("a", "render"); !ok || !v.Equal(Bool(true)) {
		t.Errorf("a render = %v %v, want true", v, ok)
	}
	if _, ok := gt.Saved("b", "meanvalue"); ok {
		t.Error("b has no meanvalue attribute")
	}
	// c is only addressed by id.
	if _, ok := gt.Saved("c", "render"); ok {
		t.Error("id-only nodes carry no save-state")
	}
}

func TestGroupTableManual(t *testing.T) {
	gt := NewGroupTable()
	gt.Add("g", "x", "y")
	gt.Add("g", "z")
	v := Tuple(1, 2)
	gt.Save("x", "translation", v)
	v.Tuple[0] = 9

	if got, want := members(t, gt, "g"), []string{"x", "y", "z"}; !slices.Equal(got, want) {
		t.Errorf("members = %v, want %v", got, want)
	}
	if got, _ := gt.Saved("x", "translation"); !got.Equal(Tuple(1, 2)) {
		t.Errorf("saved = %v, want 1 2", got)
	}
	if got, want := gt.Names(), []string{"g"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
