package app

import (
	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/repos"
)

type Repos struct {
	Standard    repos.StandardRepo
	Test        repos.TestRepo
	Circuit     repos.CircuitRepo
	Certificate repos.CertificateRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Standard:    repos.NewStandardRepo(db, log),
		Test:        repos.NewTestRepo(db, log),
		Circuit:     repos.NewCircuitRepo(db, log),
		Certificate: repos.NewCertificateRepo(db, log),
	}
}
