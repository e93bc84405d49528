package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	herrors "github.com/vango-dev/hybrids/internal/errors"
)

// FragmentTarget is the move target that means a new detached fragment.
const FragmentTarget = "#fragment"

// Fixture is a parsed scenario file.
type Fixture struct {
	// Name describes the scenario. It defaults to the file name.
	Name string `yaml:"name"`

	// Definitions maps tags to their properties.
	Definitions map[string]map[string]PropertySpec `yaml:"definitions"`

	// Tree lists the elements mounted into the document before the steps.
	Tree []*NodeSpec `yaml:"tree"`

	// Steps run in order after the tree is mounted.
	Steps []*Step `yaml:"-"`

	path string
}

// PropertySpec declares one property. Exactly one of Computed and Parent
// may be set; otherwise the property is a plain value.
type PropertySpec struct {
	Value    any        `yaml:"value"`
	Computed string     `yaml:"computed"`
	Parent   ParentSpec `yaml:"parent"`

	template *template
}

// ParentSpec is a parent match: one tag, or a list of tags any of which
// matches.
type ParentSpec struct {
	Tags []string
}

// UnmarshalYAML accepts a scalar tag or a sequence of tags.
func (p *ParentSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		p.Tags = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		return node.Decode(&p.Tags)
	}
	return fmt.Errorf("line %d: parent must be a tag or a list of tags", node.Line)
}

// NodeSpec describes an element of the initial tree.
type NodeSpec struct {
	Tag      string      `yaml:"tag"`
	ID       string      `yaml:"id"`
	Children []*NodeSpec `yaml:"children"`
	Shadow   []*NodeSpec `yaml:"shadow"`
	Line     int         `yaml:"-"`
}

// UnmarshalYAML records the line of the node.
func (n *NodeSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain NodeSpec
	if err := node.Decode((*plain)(n)); err != nil {
		return err
	}
	n.Line = node.Line
	return nil
}

// Step is one scenario step. Exactly one operation is set.
type Step struct {
	Set    *SetStep    `yaml:"set"`
	Remove *TargetStep `yaml:"remove"`
	Append *MoveStep   `yaml:"append"`
	Move   *MoveStep   `yaml:"move"`
	Tick   bool        `yaml:"tick"`
	Expect *ExpectStep `yaml:"expect"`

	// Line is the line of the step in the scenario file.
	Line int `yaml:"-"`
}

// SetStep writes a property.
type SetStep struct {
	ID       string `yaml:"id"`
	Property string `yaml:"property"`
	Value    any    `yaml:"value"`
}

// TargetStep names an element.
type TargetStep struct {
	ID string `yaml:"id"`
}

// MoveStep inserts an element under another. An empty To appends to the
// document; FragmentTarget moves into a new detached fragment.
type MoveStep struct {
	ID string `yaml:"id"`
	To string `yaml:"to"`
}

// ExpectStep asserts the state of an element. Value and Parent are only
// checked when present; a null Parent expects no link.
type ExpectStep struct {
	ID       string    `yaml:"id"`
	Property string    `yaml:"property"`
	Value    yaml.Node `yaml:"value"`
	Parent   yaml.Node `yaml:"parent"`
	Events   *int      `yaml:"events"`
}

// Op returns the name of the step's operation.
func (s *Step) Op() string {
	switch {
	case s.Set != nil:
		return "set"
	case s.Remove != nil:
		return "remove"
	case s.Append != nil:
		return "append"
	case s.Move != nil:
		return "move"
	case s.Tick:
		return "tick"
	case s.Expect != nil:
		return "expect"
	}
	return ""
}

func (s *Step) opCount() int {
	n := 0
	for _, set := range []bool{s.Set != nil, s.Remove != nil, s.Append != nil, s.Move != nil, s.Tick, s.Expect != nil} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and parses a scenario file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, herrors.New("E140").WithDetail(path).Wrap(err)
	}
	return Parse(path, data)
}

// Parse parses a scenario. path is used for error locations and may name
// a file that does not exist.
func Parse(path string, data []byte) (*Fixture, error) {
	var doc struct {
		Fixture `yaml:",inline"`
		Steps   []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, herrors.New("E140").WithDetail(path).Wrap(err)
	}

	fx := doc.Fixture
	fx.path = path
	if fx.Name == "" {
		fx.Name = path
	}
	for i := range doc.Steps {
		node := &doc.Steps[i]
		step := &Step{}
		if err := node.Decode(step); err != nil {
			return nil, fx.errorAt(node.Line, node.Column).WithDetailf("step %d", i+1).Wrap(err)
		}
		step.Line = node.Line
		if step.opCount() != 1 {
			return nil, fx.errorAt(node.Line, node.Column).
				WithDetailf("step %d must have exactly one of set, remove, append, move, tick, expect", i+1)
		}
		fx.Steps = append(fx.Steps, step)
	}

	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Path returns the file the fixture was parsed from.
func (fx *Fixture) Path() string {
	return fx.path
}

func (fx *Fixture) validate() error {
	for tag, props := range fx.Definitions {
		for name, p := range props {
			if p.Computed != "" && len(p.Parent.Tags) > 0 {
				return herrors.New("E140").WithDetailf("%s.%s is both computed and parent", tag, name)
			}
			if p.Computed != "" {
				tpl, err := parseTemplate(p.Computed)
				if err != nil {
					return herrors.New("E140").WithDetailf("%s.%s", tag, name).Wrap(err)
				}
				p.template = tpl
				props[name] = p
			}
		}
	}

	ids := make(map[string]bool)
	var walk func([]*NodeSpec) error
	walk = func(nodes []*NodeSpec) error {
		for _, n := range nodes {
			if n.Tag == "" {
				return fx.errorAt(n.Line, 0).WithDetail("tree node without tag")
			}
			if n.ID != "" {
				if ids[n.ID] {
					return fx.errorAt(n.Line, 0).WithDetailf("duplicate id %q", n.ID)
				}
				ids[n.ID] = true
			}
			if err := walk(n.Shadow); err != nil {
				return err
			}
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(fx.Tree); err != nil {
		return err
	}

	for i, s := range fx.Steps {
		var refs []string
		switch {
		case s.Set != nil:
			refs = []string{s.Set.ID}
		case s.Remove != nil:
			refs = []string{s.Remove.ID}
		case s.Append != nil:
			refs = []string{s.Append.ID, s.Append.To}
		case s.Move != nil:
			refs = []string{s.Move.ID, s.Move.To}
		case s.Expect != nil:
			refs = []string{s.Expect.ID}
		}
		for j, id := range refs {
			if j > 0 && (id == "" || id == FragmentTarget) {
				continue
			}
			if !ids[id] {
				return fx.errorAt(s.Line, 0).WithDetailf("step %d (%s) references unknown id %q", i+1, s.Op(), id)
			}
		}
	}
	return nil
}

// errorAt returns an E140 error located in the fixture file.
func (fx *Fixture) errorAt(line, column int) *herrors.HybridError {
	return herrors.New("E140").WithLocation(fx.path, line, column)
}
