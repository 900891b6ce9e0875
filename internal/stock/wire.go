//go:build wireinject
// +build wireinject

package stock

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/stock/delivery/http"
	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/internal/stock/repository"
	"github.com/tair/retail-settlement/kafka"
)

// ProvideStockRepository provides the stock repository
func ProvideStockRepository(db *gorm.DB) domain.StockRepository {
	return repository.NewGormStockRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideStockRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, notifier domain.ActivationNotifier, publisher *kafka.Publisher) (*http.StockHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewStockHandler,
	)
	return nil, nil
}
