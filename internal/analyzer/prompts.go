package analyzer

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptSpec struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type prompt struct {
	system string
	user   *template.Template
}

// Prompts holds the compiled template for each stage.
type Prompts struct {
	Timeline prompt
	Evidence prompt
	Report   prompt
}

// LoadPrompts compiles the embedded prompt file.
func LoadPrompts() (*Prompts, error) {
	return ParsePrompts(promptsYAML)
}

func ParsePrompts(data []byte) (*Prompts, error) {
	var specs map[string]promptSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	var p Prompts
	for name, dst := range map[string]*prompt{
		"timeline": &p.Timeline,
		"evidence": &p.Evidence,
		"report":   &p.Report,
	} {
		spec, ok := specs[name]
		if !ok || strings.TrimSpace(spec.User) == "" {
			return nil, fmt.Errorf("prompt %q missing", name)
		}
		t, err := template.New(name).Option("missingkey=zero").Parse(spec.User)
		if err != nil {
			return nil, fmt.Errorf("%s user template parse: %w", name, err)
		}
		*dst = prompt{system: strings.TrimSpace(spec.System), user: t}
	}

	return &p, nil
}

// render fills the user template with the JSON-encoded input.
func (p prompt) render(data string) (system, user string, err error) {
	var b bytes.Buffer
	if err := p.user.Execute(&b, struct{ Data string }{Data: data}); err != nil {
		return "", "", err
	}
	return p.system, strings.TrimSpace(b.String()), nil
}
