package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/model"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/repository/unitofwork"
	"enterprise-assistant-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

type fixedEmbedder struct {
	mu    sync.Mutex
	tasks []string
}

func (f *fixedEmbedder) Generate(_ context.Context, _ string, taskType string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, taskType)
	return []float32{1, 0, 0}, nil
}

func TestDocumentIngestion_ChunksAndReplacesPerSource(t *testing.T) {
	db, err := database.NewSQLiteDB(":memory:", gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.DocumentChunk{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	factory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	embedder := &fixedEmbedder{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	consumer := NewConsumerService(pubSub, "ingest", factory, embedder, ChunkingConfig{ChunkSize: 100, ChunkOverlap: 20}, log)
	require.NoError(t, consumer.Consume(ctx))

	docs := NewDocumentService(factory, NewPublisherService("ingest", pubSub), log)

	one, two := 1, 2
	res, err := docs.Ingest(ctx, &dto.IngestDocumentRequest{
		SourceId: "handbook.pdf",
		Pages: []dto.DocumentPageDTO{
			{Page: &one, Text: strings.Repeat("Leave requests go to HR. ", 10)},
			{Page: &two, Text: "VPN access needs a ticket."},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Queued)

	chunkCount := func() int64 {
		stats, err := docs.Stats(ctx, "handbook.pdf")
		if err != nil {
			return -1
		}
		return stats.Chunks
	}
	assert.Eventually(t, func() bool { return chunkCount() > 2 }, 2*time.Second, 10*time.Millisecond)

	// Re-ingesting the same source replaces its chunks.
	_, err = docs.Ingest(ctx, &dto.IngestDocumentRequest{
		SourceId: "handbook.pdf",
		Pages:    []dto.DocumentPageDTO{{Page: &one, Text: "Short page."}},
	})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return chunkCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	embedder.mu.Lock()
	defer embedder.mu.Unlock()
	for _, task := range embedder.tasks {
		assert.Equal(t, "RETRIEVAL_DOCUMENT", task)
	}
}

func TestDocumentService_RejectsBlankSource(t *testing.T) {
	docs := NewDocumentService(nil, nil, logger.NewNopLogger())

	_, err := docs.Ingest(context.Background(), &dto.IngestDocumentRequest{SourceId: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
