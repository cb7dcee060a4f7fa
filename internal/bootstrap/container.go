package bootstrap

import (
	"context"
	"log"
	"time"

	"specialist-match-be/internal/config"
	"specialist-match-be/internal/controller"
	"specialist-match-be/internal/pkg/logger"
	"specialist-match-be/internal/repository/memory"
	"specialist-match-be/internal/repository/unitofwork"
	"specialist-match-be/internal/service"
	"specialist-match-be/pkg/dialog"
	"specialist-match-be/pkg/embedding"
	"specialist-match-be/pkg/embedding/jina"
	"specialist-match-be/pkg/events"
	"specialist-match-be/pkg/llm/factory"
	"specialist-match-be/pkg/match/rank"
	"specialist-match-be/pkg/match/search"
	"specialist-match-be/pkg/question"

	pktNats "specialist-match-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SpecialistController controller.ISpecialistController
	MatchingController   controller.IMatchingController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for the reindex command
	EmbeddingService service.IEmbeddingService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory conversation storage
	sessionRepo := memory.NewSessionRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis (question cache backend)
	var questionCache question.Cache
	if cfg.App.QuestionCacheBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		questionCache = question.NewRedisCache(rdb)
		log.Printf("[INFO] Using Question Cache: REDIS")
	} else {
		questionCache = question.NewLocalCache()
		log.Printf("[INFO] Using Question Cache: MEMORY")
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.ProfileUpdatedTopic, pubSub)
	embeddingService := service.NewEmbeddingService(
		uowFactory,
		embeddingProvider,
		time.Duration(cfg.Ai.ReindexDelayMs)*time.Millisecond,
		log.Default(),
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ProfileUpdatedTopic,
		embeddingService,
	)

	specialistService := service.NewSpecialistService(uowFactory, publisherService, natsPub, sysLogger)

	// Conversation pipeline
	analyzer := dialog.NewAnalyzer(log.Default())
	generator := question.NewGenerator(llmProvider, questionCache, log.Default())
	orchestrator := search.NewOrchestrator(embeddingProvider, log.Default())
	fusion := rank.NewFusion(log.Default())

	var reranker *rank.Reranker
	if cfg.Ai.RerankEnabled {
		reranker = rank.NewReranker(llmProvider, log.Default())
		log.Printf("[INFO] Generative re-rank: ENABLED")
	}

	matchingService := service.NewMatchingService(
		sessionRepo,
		uowFactory,
		analyzer,
		generator,
		orchestrator,
		fusion,
		reranker,
		log.Default(),
	)

	// Cross-instance profile updates re-embed through NATS; the local
	// gochannel path already covers writes made by this instance.
	if natsSub != nil {
		subscribeProfileEvents(natsSub, embeddingService)
	}

	return &Container{
		SpecialistController: controller.NewSpecialistController(specialistService, embeddingService),
		MatchingController:   controller.NewMatchingController(matchingService),

		ConsumerService:  consumerService,
		EmbeddingService: embeddingService,
	}
}

func subscribeProfileEvents(sub *pktNats.Subscriber, embeddingService service.IEmbeddingService) {
	handler := func(ctx context.Context, event events.Event) error {
		raw, ok := event.Payload()["specialist_id"].(string)
		if !ok {
			log.Printf("[WARN] Profile event without specialist_id, skipping")
			return nil
		}
		specialistId, err := uuid.Parse(raw)
		if err != nil {
			log.Printf("[WARN] Profile event with bad specialist_id %q, skipping", raw)
			return nil
		}
		return embeddingService.EmbedSpecialist(ctx, specialistId)
	}

	for _, eventType := range []string{events.SpecialistProfileUpdated, events.SpecialistProfileDeleted} {
		subject := "events." + eventType
		if err := sub.Subscribe(subject, "embedding-worker-"+eventType, handler); err != nil {
			log.Printf("[WARN] Failed to subscribe to %s: %v", subject, err)
		}
	}
}
