package prompts

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Embedded(t *testing.T) {
	prompt, err := Get(KeywordExtractionFile, KeySystem)
	require.NoError(t, err)
	assert.Contains(t, prompt, "ATS")
	assert.Contains(t, prompt, "JSON")
}

func TestLibrary_Errors(t *testing.T) {
	lib := NewLibrary(fstest.MapFS{
		"broken.json": {Data: []byte("{not json")},
		"ok.json":     {Data: []byte(`{"a": "alpha"}`)},
	})

	tests := []struct {
		name    string
		file    string
		key     string
		wantErr string
	}{
		{"missing file", "nope.json", "a", "read prompt file"},
		{"invalid json", "broken.json", "a", "parse prompt file"},
		{"missing key", "ok.json", "b", "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Get(tt.file, tt.key)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLibrary_ParsesOnce(t *testing.T) {
	fsys := fstest.MapFS{"p.json": {Data: []byte(`{"k": "first"}`)}}
	lib := NewLibrary(fsys)

	got, err := lib.Get("p.json", "k")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	fsys["p.json"] = &fstest.MapFile{Data: []byte(`{"k": "second"}`)}
	got, err = lib.Get("p.json", "k")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestKeywordExtraction(t *testing.T) {
	system, task, err := KeywordExtraction()
	require.NoError(t, err)
	assert.Contains(t, system, "hard skill")
	assert.Contains(t, task, "job description")
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		expected string
	}{
		{
			name:     "replaces placeholders",
			template: "Extract keywords from {{.Title}} at {{.Company}}",
			data:     map[string]string{"Title": "SRE", "Company": "Acme"},
			expected: "Extract keywords from SRE at Acme",
		},
		{
			name:     "no placeholders",
			template: "plain",
			data:     map[string]string{"Key": "Value"},
			expected: "plain",
		},
		{
			name:     "missing data leaves placeholder",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			expected: "Hello {{.Name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.template, tt.data))
		})
	}
}
