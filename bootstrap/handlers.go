package bootstrap

import "paperqa_backend/handlers"

type Handlers struct {
	DocHandler    *handlers.DocumentHandler
	QAHandler     *handlers.QAHandler
	HealthHandler *handlers.HealthHandler
}

func NewHandlers(services *Services, infra *Infrastructure) *Handlers {
	res := &Handlers{}
	res.DocHandler = handlers.NewDocumentHandler(services.DocService)
	res.QAHandler = handlers.NewQAHandler(services.RAGService)
	res.HealthHandler = handlers.NewHealthHandler(infra.DB, infra.ChunkStore, infra.EventLog)
	return res
}
