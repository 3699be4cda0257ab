package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arthur-debert/aitk/pkg/jsondoc"
	"github.com/arthur-debert/aitk/pkg/types"
	"gopkg.in/yaml.v3"
)

// YAMLReader reads environment.yaml:
//
//	skills:
//	  - name: review
//	    install: yes
//	hooks:
//	  - name: guard.py
//	    install: yes
//	    event: PreToolUse
//	    matcher: Bash
//	settings:
//	  hooks:
//	    PreToolUse:
//	      - hooks: [{type: command, command: python3 ~/.claude/hooks/guard.py}]
type YAMLReader struct{}

type yamlItem struct {
	Name    string      `yaml:"name"`
	Install yamlInstall `yaml:"install"`
	Event   string      `yaml:"event"`
	Matcher string      `yaml:"matcher"`
}

// yamlInstall accepts booleans as well as the markdown "yes ..." wording,
// since YAML 1.2 reads a bare yes as a string
type yamlInstall bool

func (y *yamlInstall) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		*y = yamlInstall(b)
		return nil
	}
	*y = yamlInstall(installFlag(value.Value) || strings.EqualFold(strings.TrimSpace(value.Value), "true"))
	return nil
}

type yamlManifest struct {
	Skills   []yamlItem `yaml:"skills"`
	Hooks    []yamlItem `yaml:"hooks"`
	Settings struct {
		Hooks yaml.Node `yaml:"hooks"`
	} `yaml:"settings"`
}

func (YAMLReader) Read(src []byte) (*types.Manifest, error) {
	var doc yamlManifest
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}

	m := &types.Manifest{}
	for _, it := range doc.Skills {
		if it.Name == "" {
			continue
		}
		m.Skills = append(m.Skills, types.DeclaredItem{Name: it.Name, Install: bool(it.Install)})
	}
	for _, it := range doc.Hooks {
		if it.Name == "" {
			continue
		}
		m.Hooks = append(m.Hooks, types.DeclaredItem{
			Name:    it.Name,
			Install: bool(it.Install),
			Event:   it.Event,
			Matcher: it.Matcher,
		})
	}

	if doc.Settings.Hooks.Kind != 0 {
		raw, err := nodeToJSON(&doc.Settings.Hooks)
		if err != nil {
			return nil, fmt.Errorf("settings.hooks: %w", err)
		}
		hooks, err := jsondoc.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("settings.hooks must be a mapping of event to list: %w", err)
		}
		m.ExpectedHooks = expectedFromObject(hooks)
	}

	return m, nil
}

// nodeToJSON converts a YAML node to JSON keeping mapping order
func nodeToJSON(n *yaml.Node) (json.RawMessage, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return json.RawMessage("null"), nil
		}
		return nodeToJSON(n.Content[0])
	case yaml.AliasNode:
		return nodeToJSON(n.Alias)
	case yaml.MappingNode:
		obj := jsondoc.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := nodeToJSON(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, value)
		}
		return obj.MarshalJSON()
	case yaml.SequenceNode:
		items := make([]json.RawMessage, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := nodeToJSON(c)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return jsondoc.Marshal(items)
	default:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return jsondoc.Marshal(v)
	}
}
