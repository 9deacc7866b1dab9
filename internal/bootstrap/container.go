package bootstrap

import (
	"context"
	"fmt"
	"time"

	"enterprise-assistant-be/internal/config"
	"enterprise-assistant-be/internal/controller"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/pkg/mailer"
	"enterprise-assistant-be/internal/repository/contract"
	"enterprise-assistant-be/internal/repository/memory"
	"enterprise-assistant-be/internal/repository/redisstore"
	"enterprise-assistant-be/internal/repository/unitofwork"
	"enterprise-assistant-be/internal/service"
	"enterprise-assistant-be/internal/websocket"
	"enterprise-assistant-be/pkg/assistant/action"
	"enterprise-assistant-be/pkg/assistant/answer"
	"enterprise-assistant-be/pkg/assistant/classifier"
	"enterprise-assistant-be/pkg/assistant/conversation"
	"enterprise-assistant-be/pkg/assistant/prompts"
	"enterprise-assistant-be/pkg/database"
	"enterprise-assistant-be/pkg/embedding"
	"enterprise-assistant-be/pkg/embedding/jina"
	"enterprise-assistant-be/pkg/events"
	"enterprise-assistant-be/pkg/llm/factory"
	pktNats "enterprise-assistant-be/pkg/nats"
	"enterprise-assistant-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AssistantController controller.IAssistantController
	RecordController    controller.IRecordController
	DocumentController  controller.IDocumentController
	LogController       controller.ILogController
	HealthController    controller.IHealthController

	// Background workers, started by cmd/rest
	ConsumerService   service.IConsumerService
	EventRelayService *service.EventRelayService
	WebSocketHub      *websocket.Hub

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	wsLogger := logger.NewIsolatedLogger(cfg.App.WSLogFilePath)
	c := &Container{Logger: sysLogger}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		sysLogger,
	)

	catalog := prompts.Default()
	if cfg.Assistant.PromptsFile != "" {
		loaded, err := prompts.LoadFile(cfg.Assistant.PromptsFile)
		if err != nil {
			return nil, fmt.Errorf("load prompts: %w", err)
		}
		catalog = loaded
	}

	// 2. Model providers
	embeddingProvider, err := newEmbeddingProvider(cfg)
	if err != nil {
		return nil, err
	}
	sysLogger.Info(logger.ModuleAssistant, "Embedding provider ready", map[string]interface{}{"provider": cfg.Ai.EmbeddingProvider})

	llmKey := cfg.Keys.LLM
	if llmKey == "" && cfg.Ai.LLMProvider == "gemini" {
		llmKey = cfg.Keys.GoogleGemini
	}
	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" && cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL,
		APIKey:   llmKey,
	})
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	sysLogger.Info(logger.ModuleAssistant, "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 3. Infrastructure: Redis, NATS, ingestion queue
	var rdb redis.UniversalClient
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			sysLogger.Warn(logger.ModuleSession, "Redis unreachable", map[string]interface{}{"error": err.Error()})
		}
		rdb = client
		c.closers = append(c.closers, func() { client.Close() })
	}

	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		if natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger); err != nil {
			sysLogger.Warn(logger.ModuleEvents, "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		if natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, wsLogger); err != nil {
			sysLogger.Warn(logger.ModuleEvents, "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 4. Sessions
	var sessions contract.SessionRepository
	switch cfg.App.SessionBackend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
		}
		sessions = redisstore.NewSessionRepository(rdb, cfg.App.SessionTTL, turnBudget(cfg.Assistant))
	default:
		sessions = memory.NewSessionRepository(cfg.App.SessionTTL, cfg.App.SessionTTL/2)
	}

	// 5. Dashboard fan-out. With NATS the relay feeds the hub; without it
	// the executor publishes to the hub directly.
	hub := websocket.NewHub(rdb, wsLogger)
	c.WebSocketHub = hub

	var eventPublisher events.Publisher = hub
	if natsPub != nil {
		eventPublisher = natsPub
		if natsSub != nil {
			c.EventRelayService = service.NewEventRelayService(natsSub, hub, wsLogger)
		}
	}

	// 6. Assistant pipeline
	recordService := service.NewRecordService(uowFactory)

	executor := action.NewExecutor(recordService, emailService, eventPublisher, action.Config{
		HRMailbox:    cfg.SMTP.HRMailbox,
		StoreTimeout: cfg.Assistant.StoreTimeout,
		MailTimeout:  cfg.Assistant.MailTimeout,
	}, sysLogger)

	var retriever retrieval.Provider
	if db.Dialector.Name() == database.DriverPostgres {
		retriever = retrieval.NewVectorProvider(embeddingProvider, service.NewDocumentIndex(uowFactory), retrieval.VectorConfig{
			FetchK:    cfg.Assistant.FetchK,
			Lambda:    &cfg.Assistant.MMRLambda,
			Threshold: cfg.Assistant.MinSimilarity,
		})
	} else {
		sysLogger.Warn(logger.ModuleAnswer, "Vector search needs postgres; answers will report the knowledge base as unavailable", nil)
	}

	synthesizer := answer.New(retriever, llmProvider, catalog, answer.Config{
		K:                cfg.Assistant.RetrievalK,
		TopN:             cfg.Assistant.TopN,
		PassageCharLimit: cfg.Assistant.PassageCharLimit,
		RetrievalTimeout: cfg.Assistant.RetrievalTimeout,
		LLMTimeout:       cfg.Assistant.LLMTimeout,
		Citation:         answer.CitationStyle(cfg.Assistant.CitationStyle),
	}, sysLogger)

	turns := conversation.NewController(
		classifier.New(llmProvider, catalog, cfg.Assistant.ClassifyTimeout, sysLogger),
		synthesizer,
		executor,
		catalog,
		sysLogger,
	)

	assistantService := service.NewAssistantService(sessions, turns, service.AssistantServiceConfig{
		LockTimeout:      cfg.Assistant.LockTimeout,
		MaxMessageLength: cfg.Assistant.MaxMessageLength,
	}, sysLogger)

	// 7. Documents and logs
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
		service.ChunkingConfig{ChunkSize: cfg.Assistant.ChunkSize, ChunkOverlap: cfg.Assistant.ChunkOverlap},
		sysLogger,
	)
	documentService := service.NewDocumentService(uowFactory, publisherService, sysLogger)
	logService := service.NewLogService(sysLogger)

	// 8. Controllers
	c.AssistantController = controller.NewAssistantController(assistantService, cfg.App.JWTSecret, turnBudget(cfg.Assistant), sysLogger)
	c.RecordController = controller.NewRecordController(recordService, hub, cfg.App.JWTSecret)
	c.DocumentController = controller.NewDocumentController(documentService, cfg.App.JWTSecret)
	c.LogController = controller.NewLogController(logService, cfg.App.JWTSecret)
	c.HealthController = controller.NewHealthController(healthChecks(db, rdb))

	return c, nil
}

// Close releases connections opened by NewContainer, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	if cfg.Ai.EmbeddingProvider == "jina" {
		return jina.NewJinaProvider(cfg.Keys.Jina), nil
	}
	return embedding.NewProvider(cfg.Ai.EmbeddingProvider, cfg.Keys.GoogleGemini, cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
}

func healthChecks(db *gorm.DB, rdb redis.UniversalClient) map[string]controller.HealthCheck {
	checks := map[string]controller.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

// turnBudget bounds one whole turn: lock wait plus every external call.
func turnBudget(a config.AssistantConfig) time.Duration {
	return a.LockTimeout + a.ClassifyTimeout + a.RetrievalTimeout + a.LLMTimeout + a.StoreTimeout + a.MailTimeout
}
