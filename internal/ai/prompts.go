package ai

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompts/cv_system.tmpl
var cvSystemPromptRaw string

//go:embed prompts/cv_user.tmpl
var cvUserPromptRaw string

//go:embed prompts/cover_system.tmpl
var coverSystemPromptRaw string

//go:embed prompts/cover_user.tmpl
var coverUserPromptRaw string

var promptFuncs = template.FuncMap{"upper": strings.ToUpper}

// Prompt templates, parsed once at package init.
var (
	CVSystemTemplate    = template.Must(template.New("cv_system").Funcs(promptFuncs).Parse(cvSystemPromptRaw))
	CVUserTemplate      = template.Must(template.New("cv_user").Funcs(promptFuncs).Parse(cvUserPromptRaw))
	CoverSystemTemplate = template.Must(template.New("cover_system").Funcs(promptFuncs).Parse(coverSystemPromptRaw))
	CoverUserTemplate   = template.Must(template.New("cover_user").Funcs(promptFuncs).Parse(coverUserPromptRaw))
)

// render executes tmpl and drops the file's trailing newline.
func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
