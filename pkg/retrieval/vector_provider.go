package retrieval

import (
	"context"
	"fmt"

	"enterprise-assistant-be/pkg/embedding"
)

// Index is the nearest-neighbour lookup behind VectorProvider. Results must
// carry their stored vectors so that MMR can compare candidates.
type Index interface {
	Nearest(ctx context.Context, vector []float32, limit int, threshold float64) ([]Candidate, error)
}

type VectorConfig struct {
	FetchK    int      // candidates pulled from the index
	Lambda    *float64 // MMR trade-off in [0,1]; nil means DefaultLambda
	Threshold float64  // minimum cosine similarity
}

const (
	DefaultFetchK = 20
	DefaultLambda = 0.5
)

// VectorProvider embeds the query, fetches FetchK neighbours and returns a
// diverse subset chosen by MMR.
type VectorProvider struct {
	embedder embedding.EmbeddingProvider
	index    Index
	fetchK   int
	lambda   float64
	minSim   float64
}

var _ Provider = (*VectorProvider)(nil)

func NewVectorProvider(embedder embedding.EmbeddingProvider, index Index, cfg VectorConfig) *VectorProvider {
	p := &VectorProvider{
		embedder: embedder,
		index:    index,
		fetchK:   cfg.FetchK,
		lambda:   DefaultLambda,
		minSim:   cfg.Threshold,
	}
	if p.fetchK <= 0 {
		p.fetchK = DefaultFetchK
	}
	if cfg.Lambda != nil && *cfg.Lambda >= 0 && *cfg.Lambda <= 1 {
		p.lambda = *cfg.Lambda
	}
	return p
}

func (p *VectorProvider) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if p == nil || p.embedder == nil || p.index == nil {
		return nil, ErrUnavailable
	}

	vector, err := p.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	fetchK := max(p.fetchK, k)

	candidates, err := p.index.Nearest(ctx, vector, fetchK, p.minSim)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	return MMR(vector, candidates, k, p.lambda), nil
}
