package bootstrap

import (
	"context"
	"fmt"

	"paperqa_backend/config"
	"paperqa_backend/models"
	"paperqa_backend/pkg/logging"
	"paperqa_backend/platform/cache"
	"paperqa_backend/platform/database"
	"paperqa_backend/platform/events"
	"paperqa_backend/platform/extract"
	"paperqa_backend/platform/llm"
	"paperqa_backend/platform/redis"
	"paperqa_backend/platform/storage"
	"paperqa_backend/platform/vectorstore"
)

type Infrastructure struct {
	DB             *database.DB
	Redis          *redis.Service
	Storage        *storage.Service
	ChunkStore     vectorstore.Store
	SummaryStore   vectorstore.Store
	LLM            *llm.Client
	Extractor      *extract.Extractor
	EventPublisher *events.EventPublisher
	EventLog       *events.EventLog
	MetadataCache  *cache.MetadataCache
	AnswerCache    *cache.TTLCache[models.CachedAnswer]
	Memory         *cache.MemoryStore
}

func NewInfrastructure(cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{}

	// database
	db, err := database.InitPostgres(cfg)
	if err != nil {
		return nil, err
	}
	infra.DB = db
	if err := infra.DB.AutoMigrate(); err != nil {
		return nil, err
	}

	// redis services
	redisService, err := redis.InitRedis(cfg)
	if err != nil {
		logging.Logger.Error("fail Initializing Redis", "error", err)
		return nil, err
	}
	infra.Redis = redisService

	// storage services
	storageService, err := storage.InitStorageService(cfg)
	if err != nil {
		logging.Logger.Error("fail Initializing Bucket", "error", err)
		return nil, err
	}
	infra.Storage = storageService

	// vector stores
	if err := infra.initVectorStores(cfg); err != nil {
		logging.Logger.Error("fail Initializing vector store", "error", err)
		return nil, err
	}

	// gemini client
	llmClient, err := llm.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.LLMModel, cfg.MaxTokens)
	if err != nil {
		logging.Logger.Error("fail Initializing Gemini client", "error", err)
		return nil, err
	}
	infra.LLM = llmClient

	// pdf extraction
	if err := extract.CheckAvailable(); err != nil {
		logging.Logger.Warn("pdftotext not found on PATH", "hint", extract.InstallInstructions())
	}
	infra.Extractor = extract.New()

	// event publisher + in-memory log of recent events
	infra.EventPublisher = events.NewEventPublisher(redisService.Rdb)
	infra.EventLog = events.NewEventLog(64)

	// caches
	infra.MetadataCache = cache.InitMetadataCache(cfg.MetadataCacheTTL)
	infra.AnswerCache = cache.NewTTLCache[models.CachedAnswer](cfg.CacheCapacity, cfg.CacheTTL)
	infra.Memory = cache.NewMemoryStore(cfg.MemoryCapacity, cfg.MemoryTTL, cfg.MemoryMaxTurns)

	return infra, nil
}

func (infra *Infrastructure) initVectorStores(cfg *config.Config) error {
	switch cfg.VectorBackend {
	case "chromem":
		db, err := vectorstore.InitChromem(cfg.ChromemPath)
		if err != nil {
			return err
		}
		chunkStore, err := vectorstore.NewChromemStore(db, cfg.ChunkCollection)
		if err != nil {
			return err
		}
		summaryStore, err := vectorstore.NewChromemStore(db, cfg.SummaryCollection)
		if err != nil {
			return err
		}
		infra.ChunkStore = chunkStore
		infra.SummaryStore = summaryStore
	case "pgvector":
		chunkStore, err := vectorstore.NewPgvectorStore(infra.DB.GetDatabase(), cfg.ChunkCollection)
		if err != nil {
			return err
		}
		summaryStore, err := vectorstore.NewPgvectorStore(infra.DB.GetDatabase(), cfg.SummaryCollection)
		if err != nil {
			return err
		}
		infra.ChunkStore = chunkStore
		infra.SummaryStore = summaryStore
	default:
		return fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
	return nil
}

func (infra *Infrastructure) Shutdown() error {
	if err := infra.LLM.Close(); err != nil {
		logging.Logger.Error("fail closing gemini client", "error", err)
		return err
	}
	if err := infra.DB.Close(); err != nil {
		logging.Logger.Error("fail closing database", "error", err)
		return err
	}
	if err := infra.Redis.Close(); err != nil {
		logging.Logger.Error("fail closing redis", "error", err)
		return err
	}
	return nil
}
