package bootstrap

import (
	"paperqa_backend/config"
	"paperqa_backend/services"
)

type Services struct {
	DocService     *services.DocumentService
	RAGService     *services.RAGService
	SummaryService *services.SummaryService
}

func NewServices(cfg *config.Config, repos *Repositories, infra *Infrastructure) *Services {
	res := &Services{}

	summaryService := services.NewSummaryService(infra.LLM)
	res.SummaryService = summaryService

	docService := services.NewDocumentService(
		cfg,
		repos.DocumentRepository,
		infra.ChunkStore,
		infra.SummaryStore,
		infra.Extractor,
		infra.LLM,
		summaryService,
		infra.Storage,
		infra.EventPublisher,
		infra.MetadataCache,
		infra.AnswerCache,
	)
	res.DocService = docService

	ragService := services.NewRAGService(
		repos.DocumentRepository,
		infra.ChunkStore,
		infra.LLM,
		infra.LLM,
		infra.AnswerCache,
		infra.Memory,
	)
	res.RAGService = ragService

	return res
}
