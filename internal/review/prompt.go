package review

import (
	"bytes"
	"encoding/json"

	"resume-builder/internal/llm"
)

const promptPreamble = "You are an expert resume optimizer. Improve all sections of the resume " +
	"below — summary, skills, experience, education, projects, certifications, " +
	"languages, and more. Make it ATS-friendly, action-oriented, and quantifiable.\n\n" +
	"Ensure the output strictly follows the JSON schema. " +
	"Give overall_score between 90–100. Resume data:\n\n"

func buildPrompt(content map[string]any) (string, error) {
	if content == nil {
		content = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(content); err != nil {
		return "", err
	}
	return promptPreamble + string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

var analysisFields = []string{
	"improved_summary",
	"optimized_skills",
	"optimized_experience",
	"optimized_education",
	"optimized_projects",
	"optimized_certifications",
	"optimized_languages",
	"suggestions",
	"overall_score",
	"confidence",
	"details",
}

func stringList(desc string) *llm.Schema {
	return &llm.Schema{Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}, Description: desc}
}

func objectList(desc string) *llm.Schema {
	return &llm.Schema{Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeObject}, Description: desc}
}

// ResponseSchema is the structured output every review must follow.
func ResponseSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"improved_summary":         {Type: llm.TypeString},
			"optimized_skills":         stringList(""),
			"optimized_experience":     objectList("Improved work experience entries with achievements and impact."),
			"optimized_education":      objectList("Enhanced education section with degree, institution, achievements, etc."),
			"optimized_projects":       objectList("Polished project details highlighting technologies and outcomes."),
			"optimized_certifications": objectList("Professional certifications with issuing org and date."),
			"optimized_languages":      stringList("Languages improved or standardized."),
			"suggestions":              stringList(""),
			"overall_score":            {Type: llm.TypeNumber},
			"confidence":               {Type: llm.TypeNumber},
			"details":                  {Type: llm.TypeString},
		},
		Required: append([]string(nil), analysisFields...),
	}
}
