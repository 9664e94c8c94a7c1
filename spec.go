package dynamo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModifierNot inverts a group's match result.
const ModifierNot = "NOT"

// Spec is the root animation document. It is immutable once loaded.
type Spec struct {
	States     map[string]*State        `json:"states" yaml:"states"`
	Groups     map[string]*GroupDef     `json:"groups,omitempty" yaml:"groups,omitempty"`
	Animations map[string]*AnimationDef `json:"animations,omitempty" yaml:"animations,omitempty"`

	fields []string
}

// State is a named, ordered list of keyframes.
type State struct {
	Name      string     `json:"-" yaml:"-"`
	Keyframes []Keyframe `json:"state" yaml:"state"`
}

// Keyframe assigns Value to Field on a single node (ID) or on every member of
// a group (Group). Exactly one of ID and Group is set.
type Keyframe struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
	Field string `json:"field" yaml:"field"`
	Value Value  `json:"value" yaml:"value"`
}

// GroupDef is a pattern rule selecting scene nodes.
//
// With Parent set, only the direct children of that node are tested. Otherwise
// the subtree below Root (or the scene root) is walked; matched nodes are
// collected and their subtrees are not searched further.
type GroupDef struct {
	Name      string `json:"-" yaml:"-"`
	Parent    string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Root      string `json:"root,omitempty" yaml:"root,omitempty"`
	Match     string `json:"match" yaml:"match"`
	Modifier  string `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`

	expr *regexp.Regexp
}

// Step is one timed transition of an animation. Dur is in seconds.
type Step struct {
	From string  `json:"from" yaml:"from"`
	To   string  `json:"to" yaml:"to"`
	Dur  float64 `json:"dur" yaml:"dur"`
}

// AnimationDef is a named sequence of steps. A nil Cycle means cyclic.
type AnimationDef struct {
	Name     string `json:"-" yaml:"-"`
	Sequence []Step `json:"sequence" yaml:"sequence"`
	Cycle    *Flag  `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

// Cyclic reports whether the animation restarts after its last step.
func (a *AnimationDef) Cyclic() bool {
	return a.Cycle == nil || bool(*a.Cycle)
}

// Flag is a boolean that also accepts the strings "true" and "false".
type Flag bool

// UnmarshalJSON accepts true, false, "true" or "false".
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return f.set(raw)
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return f.set(raw)
}

func (f *Flag) set(raw any) error {
	switch x := raw.(type) {
	case bool:
		*f = Flag(x)
		return nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			*f = true
			return nil
		case "false":
			*f = false
			return nil
		}
	}
	return fmt.Errorf("%w: flag wants a boolean, got %v", ErrInvalidSpec, raw)
}

// LoadSpec parses a JSON spec document and validates it.
func LoadSpec(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSpecYAML parses a YAML spec document and validates it.
func LoadSpecYAML(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSpecFile reads a spec from disk. Files ending in .yaml or .yml are read
// as YAML, everything else as JSON.
func LoadSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadSpecYAML(data)
	default:
		return LoadSpec(data)
	}
}

// init names every entry, validates cross references and computes the set of
// fields used by any state.
func (s *Spec) init() error {
	if s.States == nil {
		s.States = map[string]*State{}
	}
	if s.Groups == nil {
		s.Groups = map[string]*GroupDef{}
	}
	if s.Animations == nil {
		s.Animations = map[string]*AnimationDef{}
	}

	var errs []error
	for name, g := range s.Groups {
		if g == nil {
			errs = append(errs, fmt.Errorf("group %q: empty definition", name))
			continue
		}
		g.Name = name
		if err := g.compile(); err != nil {
			errs = append(errs, err)
		}
	}

	seen := make(map[string]struct{})
	for _, name := range sortedKeys(s.States) {
		st := s.States[name]
		if st == nil {
			errs = append(errs, fmt.Errorf("state %q: empty definition", name))
			continue
		}
		st.Name = name
		for i, kf := range st.Keyframes {
			if err := s.checkKeyframe(kf); err != nil {
				errs = append(errs, fmt.Errorf("state %q keyframe %d: %w", name, i, err))
				continue
			}
			seen[kf.Field] = struct{}{}
		}
	}

	for name, a := range s.Animations {
		if a == nil {
			errs = append(errs, fmt.Errorf("animation %q: empty definition", name))
			continue
		}
		a.Name = name
		if len(a.Sequence) == 0 {
			errs = append(errs, fmt.Errorf("animation %q: empty sequence", name))
		}
		for i, step := range a.Sequence {
			if _, ok := s.States[step.From]; !ok {
				errs = append(errs, fmt.Errorf("animation %q step %d: %w %q", name, i, ErrUnknownState, step.From))
			}
			if _, ok := s.States[step.To]; !ok {
				errs = append(errs, fmt.Errorf("animation %q step %d: %w %q", name, i, ErrUnknownState, step.To))
			}
			if step.Dur <= 0 {
				errs = append(errs, fmt.Errorf("animation %q step %d: dur must be positive, got %v", name, i, step.Dur))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, errors.Join(errs...))
	}

	s.fields = make([]string, 0, len(seen))
	for f := range seen {
		s.fields = append(s.fields, f)
	}
	sort.Strings(s.fields)
	return nil
}

func (s *Spec) checkKeyframe(kf Keyframe) error {
	switch {
	case kf.Field == "":
		return errors.New("missing field")
	case kf.ID == "" && kf.Group == "":
		return errors.New("needs an id or a group")
	case kf.ID != "" && kf.Group != "":
		return fmt.Errorf("sets both id %q and group %q", kf.ID, kf.Group)
	case kf.Value.Kind == KindNone:
		return fmt.Errorf("field %q has no value", kf.Field)
	}
	if kf.Group != "" {
		if _, ok := s.Groups[kf.Group]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownGroup, kf.Group)
		}
	}
	return nil
}

func (g *GroupDef) compile() error {
	if g.Match == "" {
		return fmt.Errorf("group %q: no pattern match", g.Name)
	}
	if g.Parent != "" && g.Root != "" {
		return fmt.Errorf("group %q: parent and root are exclusive", g.Name)
	}
	if g.Modifier != "" && g.Modifier != ModifierNot {
		return fmt.Errorf("group %q: unknown modifier %q", g.Name, g.Modifier)
	}
	expr, err := regexp.Compile(g.Match)
	if err != nil {
		return fmt.Errorf("group %q: %w", g.Name, err)
	}
	g.expr = expr
	return nil
}

// Fields returns the sorted set of field names assigned by any state. The
// returned slice MUST NOT be mutated.
func (s *Spec) Fields() []string {
	return s.fields
}

// StateNames returns the state names in sorted order.
func (s *Spec) StateNames() []string {
	return sortedKeys(s.States)
}

// GroupNames returns the group names in sorted order.
func (s *Spec) GroupNames() []string {
	return sortedKeys(s.Groups)
}

// AnimationNames returns the animation names in sorted order.
func (s *Spec) AnimationNames() []string {
	return sortedKeys(s.Animations)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
