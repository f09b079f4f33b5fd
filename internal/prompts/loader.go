// Package prompts holds the LLM prompt templates, embedded as flat JSON
// objects of key -> text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

const (
	KeywordExtractionFile = "keyword_extraction.json"
	KeySystem             = "system"
	KeyTask               = "task"
)

//go:embed *.json
var embedded embed.FS

// Library reads prompt files from an fs.FS, parsing each file once.
type Library struct {
	fsys fs.FS

	mu    sync.Mutex
	files map[string]map[string]string
}

// NewLibrary returns a Library over fsys.
func NewLibrary(fsys fs.FS) *Library {
	return &Library{fsys: fsys, files: make(map[string]map[string]string)}
}

var builtin = NewLibrary(embedded)

// Get returns the prompt stored under key in filename.
func (l *Library) Get(filename, key string) (string, error) {
	entries, err := l.file(filename)
	if err != nil {
		return "", err
	}
	text, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", key, filename)
	}
	return text, nil
}

func (l *Library) file(filename string) (map[string]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entries, ok := l.files[filename]; ok {
		return entries, nil
	}
	data, err := fs.ReadFile(l.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("read prompt file %s: %w", filename, err)
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse prompt file %s: %w", filename, err)
	}
	l.files[filename] = entries
	return entries, nil
}

// Get reads from the embedded prompt files.
func Get(filename, key string) (string, error) {
	return builtin.Get(filename, key)
}

// KeywordExtraction returns the system instruction and the task preamble
// sent with every job description.
func KeywordExtraction() (system, task string, err error) {
	if system, err = Get(KeywordExtractionFile, KeySystem); err != nil {
		return "", "", err
	}
	if task, err = Get(KeywordExtractionFile, KeyTask); err != nil {
		return "", "", err
	}
	return system, task, nil
}

// Format fills {{.Key}} placeholders. Unknown placeholders are left alone.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{{."+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
