//go:build wireinject
// +build wireinject

package business

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/business/delivery/http"
	"github.com/tair/retail-settlement/internal/business/domain"
	"github.com/tair/retail-settlement/internal/business/repository"
)

// ProvideBusinessRepository provides the business repository
func ProvideBusinessRepository(db *gorm.DB) domain.BusinessRepository {
	return repository.NewGormBusinessRepository(db)
}

// ProvideLocationRepository provides the location repository
func ProvideLocationRepository(db *gorm.DB) domain.LocationRepository {
	return repository.NewGormLocationRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideBusinessRepository,
	ProvideLocationRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.BusinessHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewBusinessHandler,
	)
	return nil, nil
}
