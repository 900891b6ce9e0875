package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/stock/domain"
)

var tracer = otel.Tracer("stock-repository")

// GormStockRepositoryWithTracing wraps GormStockRepository with tracing
type GormStockRepositoryWithTracing struct {
	*GormStockRepository
}

// NewGormStockRepositoryWithTracing creates a new repository with tracing
func NewGormStockRepositoryWithTracing(db *gorm.DB) *GormStockRepositoryWithTracing {
	return &GormStockRepositoryWithTracing{
		GormStockRepository: NewGormStockRepository(db),
	}
}

// ReserveWithContext reserves stock with tracing
func (r *GormStockRepositoryWithTracing) ReserveWithContext(ctx context.Context, variantID, locationID uint, qty int) (*domain.Stock, error) {
	_, span := tracer.Start(ctx, "repository.Reserve",
		trace.WithAttributes(
			attribute.Int("stock.variant_id", int(variantID)),
			attribute.Int("stock.location_id", int(locationID)),
			attribute.Int("stock.quantity", qty),
		),
	)
	defer span.End()

	stock, err := r.GormStockRepository.Reserve(variantID, locationID, qty)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("stock.reserved_quantity", stock.ReservedQuantity))
	return stock, nil
}

// AvailableQuantityWithContext computes availability with tracing
func (r *GormStockRepositoryWithTracing) AvailableQuantityWithContext(ctx context.Context, variantID, locationID uint) (int, error) {
	_, span := tracer.Start(ctx, "repository.AvailableQuantity",
		trace.WithAttributes(
			attribute.Int("stock.variant_id", int(variantID)),
			attribute.Int("stock.location_id", int(locationID)),
		),
	)
	defer span.End()

	available, err := r.GormStockRepository.AvailableQuantity(variantID, locationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int("stock.available", available))
	return available, nil
}

// RecordDefectWithContext records a defect with tracing
func (r *GormStockRepositoryWithTracing) RecordDefectWithContext(ctx context.Context, stockID uint, qty int, reason string) (*domain.Defect, error) {
	_, span := tracer.Start(ctx, "repository.RecordDefect",
		trace.WithAttributes(
			attribute.Int("stock.id", int(stockID)),
			attribute.Int("defect.quantity", qty),
			attribute.String("defect.reason", reason),
		),
	)
	defer span.End()

	defect, err := r.GormStockRepository.RecordDefect(stockID, qty, reason)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("defect.id", int(defect.ID)))
	return defect, nil
}
