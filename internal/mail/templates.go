package mail

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
)

// Template names.
const (
	TemplateWelcome = "welcome"
	TemplateForgot  = "forgot"
	TemplateReset   = "reset"
)

//go:embed templates.toml
var defaultTemplates string

// TemplateData is the data available to every mail template.
type TemplateData struct {
	Username string
	Email    string
	BaseURL  string
	Token    string
}

type templateSource struct {
	Subject string `toml:"subject"`
	Body    string `toml:"body"`
}

type compiled struct {
	subject *template.Template
	body    *template.Template
}

// Templates holds the parsed mail templates.
type Templates struct {
	byName map[string]compiled
}

// LoadTemplates reads templates from path, or the built-in set when path is empty.
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return ParseTemplates(defaultTemplates)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mail templates: %w", err)
	}
	return ParseTemplates(string(b))
}

// ParseTemplates parses a TOML document with one table per template.
// The welcome, forgot and reset templates are required.
func ParseTemplates(doc string) (*Templates, error) {
	var raw map[string]templateSource
	if _, err := toml.Decode(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode mail templates: %w", err)
	}

	t := &Templates{byName: make(map[string]compiled, len(raw))}
	for name, src := range raw {
		subject, err := template.New(name + ".subject").Option("missingkey=error").Parse(src.Subject)
		if err != nil {
			return nil, fmt.Errorf("parse %s subject: %w", name, err)
		}
		body, err := template.New(name + ".body").Option("missingkey=error").Parse(src.Body)
		if err != nil {
			return nil, fmt.Errorf("parse %s body: %w", name, err)
		}
		t.byName[name] = compiled{subject: subject, body: body}
	}

	for _, name := range []string{TemplateWelcome, TemplateForgot, TemplateReset} {
		if _, ok := t.byName[name]; !ok {
			return nil, fmt.Errorf("mail template %q is missing", name)
		}
	}
	return t, nil
}

// Render executes the named template.
func (t *Templates) Render(name string, data TemplateData) (subject, body string, err error) {
	c, ok := t.byName[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", name)
	}

	var sb strings.Builder
	if err := c.subject.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(sb.String())

	sb.Reset()
	if err := c.body.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}
	return subject, sb.String(), nil
}
