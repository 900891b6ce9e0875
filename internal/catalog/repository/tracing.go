package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// GormProductRepositoryWithTracing wraps GormProductRepository with tracing
type GormProductRepositoryWithTracing struct {
	*GormProductRepository
}

// NewGormProductRepositoryWithTracing creates a new repository with tracing
func NewGormProductRepositoryWithTracing(db *gorm.DB) *GormProductRepositoryWithTracing {
	return &GormProductRepositoryWithTracing{
		GormProductRepository: NewGormProductRepository(db),
	}
}

// FindByIDWithContext finds a product with tracing
func (r *GormProductRepositoryWithTracing) FindByIDWithContext(ctx context.Context, id uint) (*domain.Product, error) {
	_, span := tracer.Start(ctx, "repository.FindProductByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.GormProductRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Bool("product.is_active", product.IsActive))
	return product, nil
}

// SetActiveWithContext flips the purchasable flag with tracing
func (r *GormProductRepositoryWithTracing) SetActiveWithContext(ctx context.Context, id uint, active bool) error {
	_, span := tracer.Start(ctx, "repository.SetProductActive",
		trace.WithAttributes(
			attribute.Int("product.id", int(id)),
			attribute.Bool("product.is_active", active),
		),
	)
	defer span.End()

	if err := r.GormProductRepository.SetActive(id, active); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
