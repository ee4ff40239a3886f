package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HttpPort string

	// S3/MinIO
	BucketEndpoint  string
	BucketAccessID  string
	BucketAccessKey string
	BucketName      string
	BucketRegion    string
	UseSSL          bool   // MinIO: false, S3: true
	StorageType     string // "minio" or "s3"

	// Redis
	RedisURL      string
	RedisPassword string

	// Postgres
	Host     string
	User     string
	Password string
	DBName   string
	Port     string

	// Vector store
	VectorBackend     string // "chromem" or "pgvector"
	ChromemPath       string
	ChunkCollection   string
	SummaryCollection string
	EmbedSummary      bool

	// Summarization: "full" summarizes the extracted text (truncated),
	// "first_page" summarizes only the first page.
	SummaryStrategy string

	// Gemini
	GeminiAPIKey   string
	EmbeddingModel string
	LLMModel       string
	MaxTokens      int32

	// Upload
	MaxFileSize int64

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Caching
	CacheCapacity    int
	CacheTTL         time.Duration
	MemoryCapacity   int
	MemoryTTL        time.Duration
	MemoryMaxTurns   int
	MetadataCacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		HttpPort:          os.Getenv("PORT"),
		BucketEndpoint:    os.Getenv("BUCKET_ENDPOINT"),
		BucketAccessID:    os.Getenv("BUCKET_ACCESS_ID"),
		BucketAccessKey:   os.Getenv("BUCKET_ACCESS_KEY"),
		BucketName:        os.Getenv("BUCKET_NAME"),
		BucketRegion:      os.Getenv("BUCKET_REGION"),
		UseSSL:            os.Getenv("BUCKET_USE_SSL") == "true",
		StorageType:       envOr("STORAGE_TYPE", "minio"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		Host:              os.Getenv("PG_HOST"),
		User:              os.Getenv("PG_USER"),
		Password:          os.Getenv("PG_PASSWORD"),
		DBName:            os.Getenv("PG_DB"),
		Port:              os.Getenv("PG_PORT"),
		VectorBackend:     envOr("VECTOR_BACKEND", "chromem"),
		ChromemPath:       envOr("CHROMEM_PATH", "./data/chromem"),
		ChunkCollection:   envOr("CHUNK_COLLECTION", "paper_chunks"),
		SummaryCollection: envOr("SUMMARY_COLLECTION", "paper_summaries"),
		EmbedSummary:      os.Getenv("EMBED_SUMMARY") == "true",
		SummaryStrategy:   envOr("SUMMARY_STRATEGY", "full"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		EmbeddingModel:    envOr("EMBEDDING_MODEL", "text-embedding-004"),
		LLMModel:          envOr("LLM_MODEL", "gemini-1.5-flash"),
		MaxTokens:         int32(envInt("MAX_TOKENS", 400)),
		MaxFileSize:       50 * 1024 * 1024,
		ChunkSize:         envInt("CHUNK_SIZE", 1000),
		ChunkOverlap:      envInt("CHUNK_OVERLAP", 200),
		CacheCapacity:     envInt("CACHE_CAPACITY", 256),
		CacheTTL:          time.Duration(envInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		MemoryCapacity:    envInt("MEMORY_CAPACITY", 256),
		MemoryTTL:         time.Duration(envInt("MEMORY_TTL_SECONDS", 86400)) * time.Second,
		MemoryMaxTurns:    envInt("MEMORY_MAX_MESSAGES", 10),
		MetadataCacheTTL:  5 * time.Minute,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
