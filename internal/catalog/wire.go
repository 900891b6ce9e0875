//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/catalog/delivery/http"
	"github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/internal/catalog/repository"
)

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepository(db)
}

// ProvideVariantRepository provides the variant repository
func ProvideVariantRepository(db *gorm.DB) domain.VariantRepository {
	return repository.NewGormVariantRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideVariantRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, stock domain.StockReader) (*http.CatalogHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewCatalogHandler,
	)
	return nil, nil
}
