package confidence

import (
	"math"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// Embedding is a dense vector produced by an out-of-scope embedding
// provider. The provider call itself is an external collaborator; this
// package only consumes already-computed vectors.
type Embedding []float64

// CosineSimilarity returns the cosine similarity of a and b, or 0 if
// either vector has zero magnitude or they differ in length.
func CosineSimilarity(a, b Embedding) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// semanticScore maps the mean pairwise cosine similarity of embeddings
// onto a 0..100 confidence scale (spec.md §4.4).
func semanticScore(embeddings []Embedding) float64 {
	if len(embeddings) < 2 {
		return 100
	}
	var sum float64
	var pairs int
	for i := 0; i < len(embeddings); i++ {
		for j := i + 1; j < len(embeddings); j++ {
			// Cosine similarity ranges [-1,1]; map to [0,1] before scaling.
			sim := (CosineSimilarity(embeddings[i], embeddings[j]) + 1) / 2
			sum += sim
			pairs++
		}
	}
	if pairs == 0 {
		return 100
	}
	return 100 * sum / float64(pairs)
}

// HybridResult is the outcome of confidence scoring, tagging which method
// produced the final value (spec.md §4.4).
type HybridResult struct {
	Confidence int
	Method     models.ConfidenceMethod
}

// Score computes confidence for texts, using the hybrid formula when
// semanticEnabled is true, embeddingKeyConfigured is true, and a
// corresponding embedding is supplied for every text; otherwise it falls
// back to plain Jaccard (spec.md §4.4).
func Score(texts []string, embeddings []Embedding, semanticEnabled, embeddingKeyConfigured bool) HybridResult {
	jaccard := TokenOverlapConfidence(texts)

	if !semanticEnabled || !embeddingKeyConfigured || len(embeddings) != len(texts) || len(texts) == 0 {
		return HybridResult{Confidence: jaccard, Method: models.MethodJaccard}
	}

	semantic := semanticScore(embeddings)
	final := int(math.Round(0.3*float64(jaccard) + 0.7*semantic))
	return HybridResult{Confidence: final, Method: models.MethodHybrid}
}
