// Package llm - extractor.go builds structured-extraction prompts from a field schema.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object an extraction prompt asks for.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "KeywordExtraction")
	Description string        // Task preamble placed before the output structure
	Fields      []SchemaField // Expected output fields
	Example     string        // Optional example output, copied verbatim
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the user prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")

	if schema.Example != "" {
		sb.WriteString("\nExample:\n")
		sb.WriteString(schema.Example)
		sb.WriteString("\n")
	}

	return sb.String()
}

const keywordTypeHint = `[{"term": "string", "importance": 0-100, "category": "hard"|"soft", "requirementLevel": "required"|"preferred"|"optional", "context": "string"}]`

// KeywordExtractionSchema returns the output structure for ATS keyword extraction.
// description is the task preamble, typically loaded from the prompt files.
func KeywordExtractionSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "KeywordExtraction",
		Description: description,
		Fields: []SchemaField{
			{
				Name:        "hardSkills",
				Type:        keywordTypeHint,
				Description: "tools, languages, frameworks, platforms, methodologies; one short term each",
				Required:    true,
			},
			{
				Name:        "softSkills",
				Type:        keywordTypeHint,
				Description: "interpersonal and behavioral skills such as communication or leadership",
				Required:    true,
			},
			{
				Name:        "experienceRequirements",
				Type:        `[{"skill": "string", "years": integer, "isMinimum": boolean}]`,
				Description: "years-of-experience requirements; isMinimum is true for \"N+\" or \"at least N\"",
				Required:    false,
			},
			{
				Name:        "certifications",
				Type:        `["string"]`,
				Description: "named certifications or licenses",
				Required:    false,
			},
		},
		Example: `{"hardSkills": [{"term": "React", "importance": 95, "category": "hard", "requirementLevel": "required", "context": "5+ years React experience"}], "softSkills": [{"term": "communication", "importance": 85, "category": "soft", "requirementLevel": "required"}], "experienceRequirements": [{"skill": "React", "years": 5, "isMinimum": true}], "certifications": ["AWS Certified"]}`,
	}
}
