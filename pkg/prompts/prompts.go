// Package prompts renders the generator prompts from a YAML template library.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Template names of the default library.
const (
	AnalyzeSchool       = "analyze_school"
	AnalyzeVocational   = "analyze_vocational"
	AnalyzeUniversity   = "analyze_university"
	AnalyzeProgram      = "analyze_program"
	CompareSchools      = "compare_schools"
	CompareVocational   = "compare_vocational"
	CompareUniversities = "compare_universities"
	ComparePrograms     = "compare_programs"
	FollowUp            = "follow_up"
	ChartData           = "chart_data"
)

// Builtin lists the templates the bot renders.
func Builtin() []string {
	return []string{
		AnalyzeSchool, AnalyzeVocational, AnalyzeUniversity, AnalyzeProgram,
		CompareSchools, CompareVocational, CompareUniversities, ComparePrograms,
		FollowUp, ChartData,
	}
}

//go:embed templates.yaml
var defaultTemplates []byte

// Data is the input of every template. Templates use the fields they need.
type Data struct {
	// Subject is the institute, programme or list of institutes under review.
	Subject string `json:"subject,omitempty"`
	// Others lists the institutes Subject is compared with.
	Others string `json:"others,omitempty"`
	// Aspect is the review aspect or standard.
	Aspect string `json:"aspect,omitempty"`
	// Scope names a whole sector ("All Government Schools").
	Scope string `json:"scope,omitempty"`
	// Governorate restricts a comparison to one governorate.
	Governorate string `json:"governorate,omitempty"`

	AllGovernment bool `json:"all_government,omitempty"`
	AllPrivate    bool `json:"all_private,omitempty"`

	// Question is a free-text question.
	Question string `json:"question,omitempty"`
	// Text is an earlier answer to extract chart data from.
	Text string `json:"text,omitempty"`
}

// Template is one named entry of the library file.
type Template struct {
	Description string `yaml:"description"`
	Text        string `yaml:"text"`
}

type file struct {
	Templates map[string]Template `yaml:"templates"`
}

// Library holds parsed templates.
type Library struct {
	defs   map[string]Template
	parsed map[string]*template.Template
}

// Default returns the library embedded in the binary. It panics if the embedded file is invalid.
func Default() *Library {
	lib, err := Load(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("prompts: embedded templates: %v", err))
	}
	return lib
}

// LoadFile reads a library from a YAML file.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt templates: %w", err)
	}
	return Load(data)
}

// Load parses a library from YAML.
func Load(data []byte) (*Library, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("no templates defined")
	}

	lib := &Library{
		defs:   f.Templates,
		parsed: make(map[string]*template.Template, len(f.Templates)),
	}
	for name, def := range f.Templates {
		if strings.TrimSpace(def.Text) == "" {
			return nil, fmt.Errorf("template %s: empty text", name)
		}
		t, err := template.New(name).Option("missingkey=error").Parse(def.Text)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		lib.parsed[name] = t
	}
	return lib, nil
}

// Render executes the named template.
func (l *Library) Render(name string, data Data) (string, error) {
	t, ok := l.parsed[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}
	return sb.String(), nil
}

// Has reports whether the library defines name.
func (l *Library) Has(name string) bool {
	_, ok := l.parsed[name]
	return ok
}

// Describe returns the description of name.
func (l *Library) Describe(name string) string {
	return l.defs[name].Description
}

// Names lists the template names in lexical order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.parsed))
	for name := range l.parsed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
