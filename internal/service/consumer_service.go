package service

import (
	"context"
	"encoding/json"
	"time"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/entity"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/repository/unitofwork"
	"enterprise-assistant-be/pkg/embedding"
	"enterprise-assistant-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type ChunkingConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	chunking          ChunkingConfig
	logger            logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	chunking ChunkingConfig,
	log logger.ILogger,
) IConsumerService {
	if chunking.ChunkSize <= 0 {
		chunking.ChunkSize = 350
	}
	if chunking.ChunkOverlap < 0 {
		chunking.ChunkOverlap = 0
	}
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunking:          chunking,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage replaces every stored chunk of the document in one
// transaction, so a re-ingested document never mixes old and new chunks.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(logger.ModuleIngest, "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	cs.logger.Info(logger.ModuleIngest, "Processing document", map[string]interface{}{
		"source_id": payload.SourceId,
		"pages":     len(payload.Pages),
	})

	var chunks []*entity.DocumentChunk
	chunkIndex := 0
	for _, page := range payload.Pages {
		for _, text := range utils.SplitText(page.Text, cs.chunking.ChunkSize, cs.chunking.ChunkOverlap) {
			vector, err := cs.embeddingProvider.Generate(ctx, text, embedding.TaskRetrievalDocument)
			if err != nil {
				cs.logger.Error(logger.ModuleIngest, "Failed to embed chunk", map[string]interface{}{
					"source_id":   payload.SourceId,
					"chunk_index": chunkIndex,
					"error":       err.Error(),
				})
				msg.Nack()
				return
			}

			metadata := map[string]interface{}{"source": payload.SourceId}
			if page.Page != nil {
				metadata["page"] = *page.Page
			}

			chunks = append(chunks, &entity.DocumentChunk{
				Id:             uuid.New(),
				SourceId:       payload.SourceId,
				Page:           page.Page,
				ChunkIndex:     chunkIndex,
				Content:        text,
				EmbeddingValue: vector,
				Metadata:       metadata,
				CreatedAt:      time.Now(),
			})
			chunkIndex++
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error(logger.ModuleIngest, "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteBySourceId(ctx, payload.SourceId); err != nil {
		cs.logger.Error(logger.ModuleIngest, "Failed to delete old chunks", map[string]interface{}{
			"source_id": payload.SourceId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	if len(chunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
			cs.logger.Error(logger.ModuleIngest, "Failed to store chunks", map[string]interface{}{
				"source_id": payload.SourceId,
				"error":     err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error(logger.ModuleIngest, "Failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info(logger.ModuleIngest, "Document indexed", map[string]interface{}{
		"source_id": payload.SourceId,
		"chunks":    len(chunks),
	})
	msg.Ack()
}
