package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/repository/specification"
	"enterprise-assistant-be/internal/repository/unitofwork"
	"enterprise-assistant-be/pkg/retrieval"
)

type IDocumentService interface {
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	Stats(ctx context.Context, sourceId string) (*dto.DocumentStatsResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, log logger.ILogger) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// Ingest queues the document; chunking and embedding happen in the consumer.
func (s *documentService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	sourceId := strings.TrimSpace(req.SourceId)
	if sourceId == "" {
		return nil, fmt.Errorf("%w: source_id is required", ErrInvalidInput)
	}

	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{
		SourceId: sourceId,
		Pages:    req.Pages,
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("queue document: %w", err)
	}

	s.logger.Info(logger.ModuleIngest, "Document queued", map[string]interface{}{
		"source_id": sourceId,
		"pages":     len(req.Pages),
	})

	return &dto.IngestDocumentResponse{
		SourceId: sourceId,
		Pages:    len(req.Pages),
		Queued:   true,
	}, nil
}

func (s *documentService) Stats(ctx context.Context, sourceId string) (*dto.DocumentStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if sourceId != "" {
		specs = append(specs, specification.BySourceID{SourceID: sourceId})
	}

	count, err := uow.DocumentChunkRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentStatsResponse{SourceId: sourceId, Chunks: count}, nil
}

// documentIndex serves vector lookups for retrieval from the chunk table.
type documentIndex struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ retrieval.Index = (*documentIndex)(nil)

func NewDocumentIndex(uowFactory unitofwork.RepositoryFactory) retrieval.Index {
	return &documentIndex{uowFactory: uowFactory}
}

func (i *documentIndex) Nearest(ctx context.Context, vector []float32, limit int, threshold float64) ([]retrieval.Candidate, error) {
	uow := i.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, vector, limit, threshold)
	if err != nil {
		return nil, err
	}

	candidates := make([]retrieval.Candidate, 0, len(scored))
	for _, sc := range scored {
		if sc == nil || sc.Chunk == nil {
			continue
		}
		candidates = append(candidates, retrieval.Candidate{
			Passage: retrieval.Passage{
				Text:     sc.Chunk.Content,
				SourceID: sc.Chunk.SourceId,
				Page:     sc.Chunk.Page,
				Score:    sc.Similarity,
			},
			Vector: sc.Chunk.EmbeddingValue,
		})
	}
	return candidates, nil
}
