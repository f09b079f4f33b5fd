// Package schemas embeds the JSON Schemas for the keyword-extraction wire contract.
package schemas

import "embed"

// Schema file names
const (
	ExtractionResult   = "keyword_extraction_result.schema.json"
	ExtractionResponse = "keyword_extraction_response.schema.json"
	ExtractionRequest  = "keyword_extraction_request.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the raw bytes of the named schema.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists every embedded schema file.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
