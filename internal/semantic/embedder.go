package semantic

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// DefaultHashDimensions is the vector size of the hashing embedder.
const DefaultHashDimensions = 512

// Embedder turns texts into fixed-size vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedderFunc adapts a function to Embedder.
type EmbedderFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Embed implements Embedder.
func (f EmbedderFunc) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// Loader loads an embedding model, reporting progress as it goes.
type Loader func(ctx context.Context, progress func(LoadingProgress)) (Embedder, error)

// StaticLoader returns a Loader that hands back an already-constructed embedder.
func StaticLoader(e Embedder) Loader {
	return func(_ context.Context, progress func(LoadingProgress)) (Embedder, error) {
		progress(LoadingProgress{File: "remote", Progress: 100})
		return e, nil
	}
}

// HashLoader returns a Loader for a HashEmbedder with the given dimensions.
func HashLoader(dims int) Loader {
	return func(_ context.Context, progress func(LoadingProgress)) (Embedder, error) {
		progress(LoadingProgress{File: "hashing", Progress: 100, Loaded: int64(dims), Total: int64(dims)})
		return NewHashEmbedder(dims), nil
	}
}

// HashEmbedder is a local embedder using feature hashing over word unigrams
// and character trigrams. It needs no model files and is deterministic.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder returns a hashing embedder; non-positive dims use the default.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashEmbedder{dims: dims}
}

// Embed implements Embedder. Each vector is L2-normalized.
func (h *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.embed(text)
	}
	return out, nil
}

func (h *HashEmbedder) embed(text string) []float32 {
	vec := make([]float32, h.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	for _, w := range words {
		h.add(vec, "w:"+w, 1)
		padded := []rune("^" + w + "$")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(vec, "t:"+string(padded[i:i+3]), 0.5)
		}
	}
	normalizeL2(vec)
	return vec
}

func (h *HashEmbedder) add(vec []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	idx := int(sum % uint64(h.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func normalizeL2(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
}

// Cosine returns the cosine similarity of a and b, or 0 when either vector
// is zero or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
