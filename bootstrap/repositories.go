package bootstrap

import (
	"paperqa_backend/platform/database"
	"paperqa_backend/repository"
)

type Repositories struct {
	DocumentRepository repository.DocumentRepository
}

func NewRepositories(db *database.DB) *Repositories {
	sqlDB := db.GetDatabase()
	return &Repositories{
		DocumentRepository: repository.NewDocumentRepository(sqlDB),
	}
}
