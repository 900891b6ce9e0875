//go:build wireinject
// +build wireinject

package sale

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	businessdomain "github.com/tair/retail-settlement/internal/business/domain"
	catalogdomain "github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/internal/sale/delivery/http"
	"github.com/tair/retail-settlement/internal/sale/document"
	"github.com/tair/retail-settlement/internal/sale/domain"
	"github.com/tair/retail-settlement/internal/sale/repository"
	"github.com/tair/retail-settlement/internal/sale/usecase/command"
	stockdomain "github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
)

// ProvideReceiptRepository provides the receipt repository
func ProvideReceiptRepository(db *gorm.DB) domain.ReceiptRepository {
	return repository.NewGormReceiptRepository(db)
}

// ProvidePaymentMethodRepository provides the payment method repository
func ProvidePaymentMethodRepository(db *gorm.DB) domain.PaymentMethodRepository {
	return repository.NewGormPaymentMethodRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideReceiptRepository,
	ProvidePaymentMethodRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	businesses businessdomain.BusinessRepository,
	locations command.LocationFinder,
	products catalogdomain.ProductRepository,
	variants catalogdomain.VariantRepository,
	stock stockdomain.StockRepository,
	recomputer domain.ActivationRecomputer,
	publisher *kafka.Publisher,
	documents document.Builder,
) (*http.SaleHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewSaleHandler,
	)
	return nil, nil
}
