package loader

import (
	"github.com/tidwall/gjson"
)

func parseJSON(data []byte) (*fileContent, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformed
	}

	root := gjson.ParseBytes(data)
	file := &fileContent{}
	root.Get("matches").ForEach(func(_, m gjson.Result) bool {
		file.matches = append(file.matches, matchDef{
			trigger:         m.Get("trigger").String(),
			triggers:        jsonStrings(m.Get("triggers")),
			regex:           m.Get("regex").String(),
			replace:         m.Get("replace").String(),
			word:            m.Get("word").Bool(),
			leftWord:        m.Get("left_word").Bool(),
			rightWord:       m.Get("right_word").Bool(),
			propagateCase:   m.Get("propagate_case").Bool(),
			caseInsensitive: m.Get("case_insensitive").Bool(),
			uppercaseStyle:  m.Get("uppercase_style").String(),
			priority:        int(m.Get("priority").Int()),
			label:           m.Get("label").String(),
			vars:            jsonVars(m.Get("vars")),
		})
		return true
	})
	file.globals = jsonVars(root.Get("global_vars"))
	return file, nil
}

func jsonVars(list gjson.Result) []varDef {
	var out []varDef
	list.ForEach(func(_, v gjson.Result) bool {
		def := varDef{
			name:      v.Get("name").String(),
			kind:      v.Get("type").String(),
			dependsOn: jsonStrings(v.Get("depends_on")),
			policy:    v.Get("on_failure").String(),
		}
		if params, ok := v.Get("params").Value().(map[string]any); ok {
			def.params = params
		}
		if inject := v.Get("inject_vars"); inject.Exists() {
			b := inject.Bool()
			def.inject = &b
		}
		out = append(out, def)
		return true
	})
	return out
}

func jsonStrings(list gjson.Result) []string {
	var out []string
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}
