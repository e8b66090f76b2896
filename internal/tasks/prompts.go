package tasks

import (
	_ "embed"
	"strings"
)

// Prompt templates live next to the code that fills them. Placeholders use
// the {{NAME}} convention and are replaced verbatim, never interpreted.

//go:embed prompts/tech_skills.md
var techSkillsPrompt string

//go:embed prompts/soft_skills.md
var softSkillsPrompt string

//go:embed prompts/contact_info.md
var contactInfoPrompt string

//go:embed prompts/match_analysis.md
var matchAnalysisPrompt string

func buildDocumentPrompt(template, document string) string {
	return strings.ReplaceAll(template, "{{DOCUMENT}}", document)
}

func buildMatchPrompt(template, candidate, posting string) string {
	prompt := strings.ReplaceAll(template, "{{RESUME}}", candidate)
	return strings.ReplaceAll(prompt, "{{POSTING}}", posting)
}
