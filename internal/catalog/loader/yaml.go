package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlFile mirrors the YAML match file layout.
type yamlFile struct {
	Matches    []yamlMatch `yaml:"matches"`
	GlobalVars []yamlVar   `yaml:"global_vars"`
}

type yamlMatch struct {
	Trigger         string    `yaml:"trigger"`
	Triggers        []string  `yaml:"triggers"`
	Regex           string    `yaml:"regex"`
	Replace         string    `yaml:"replace"`
	Word            bool      `yaml:"word"`
	LeftWord        bool      `yaml:"left_word"`
	RightWord       bool      `yaml:"right_word"`
	PropagateCase   bool      `yaml:"propagate_case"`
	CaseInsensitive bool      `yaml:"case_insensitive"`
	UppercaseStyle  string    `yaml:"uppercase_style"`
	Priority        int       `yaml:"priority"`
	Label           string    `yaml:"label"`
	Vars            []yamlVar `yaml:"vars"`
}

type yamlVar struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Params     map[string]any `yaml:"params"`
	InjectVars *bool          `yaml:"inject_vars"`
	DependsOn  []string       `yaml:"depends_on"`
	OnFailure  string         `yaml:"on_failure"`
}

func parseYAML(data []byte) (*fileContent, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	file := &fileContent{}
	for _, m := range yf.Matches {
		file.matches = append(file.matches, matchDef{
			trigger:         m.Trigger,
			triggers:        m.Triggers,
			regex:           m.Regex,
			replace:         m.Replace,
			word:            m.Word,
			leftWord:        m.LeftWord,
			rightWord:       m.RightWord,
			propagateCase:   m.PropagateCase,
			caseInsensitive: m.CaseInsensitive,
			uppercaseStyle:  m.UppercaseStyle,
			priority:        m.Priority,
			label:           m.Label,
			vars:            yamlVars(m.Vars),
		})
	}
	file.globals = yamlVars(yf.GlobalVars)
	return file, nil
}

func yamlVars(in []yamlVar) []varDef {
	if len(in) == 0 {
		return nil
	}
	out := make([]varDef, 0, len(in))
	for _, v := range in {
		out = append(out, varDef{
			name:      v.Name,
			kind:      v.Type,
			params:    v.Params,
			inject:    v.InjectVars,
			dependsOn: v.DependsOn,
			policy:    v.OnFailure,
		})
	}
	return out
}
