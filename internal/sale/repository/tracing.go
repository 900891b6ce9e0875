package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/sale/domain"
)

var tracer = otel.Tracer("sale-repository")

// GormReceiptRepositoryWithTracing wraps GormReceiptRepository with tracing
type GormReceiptRepositoryWithTracing struct {
	*GormReceiptRepository
}

// NewGormReceiptRepositoryWithTracing creates a new repository with tracing
func NewGormReceiptRepositoryWithTracing(db *gorm.DB) *GormReceiptRepositoryWithTracing {
	return &GormReceiptRepositoryWithTracing{
		GormReceiptRepository: NewGormReceiptRepository(db),
	}
}

// CommitWithContext settles a receipt with tracing
func (r *GormReceiptRepositoryWithTracing) CommitWithContext(ctx context.Context, receipt *domain.Receipt, lines []domain.Sale) error {
	_, span := tracer.Start(ctx, "repository.CommitReceipt",
		trace.WithAttributes(
			attribute.Int("receipt.business_id", int(receipt.BusinessID)),
			attribute.Int("receipt.line_count", len(lines)),
		),
	)
	defer span.End()

	if err := r.GormReceiptRepository.Commit(receipt, lines); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(
		attribute.String("receipt.number", receipt.Number),
		attribute.String("receipt.total", receipt.TotalAmount.String()),
	)
	return nil
}

// FindByNumberWithContext looks a receipt up with tracing
func (r *GormReceiptRepositoryWithTracing) FindByNumberWithContext(ctx context.Context, number string) (*domain.Receipt, error) {
	_, span := tracer.Start(ctx, "repository.FindReceiptByNumber",
		trace.WithAttributes(attribute.String("receipt.number", number)),
	)
	defer span.End()

	receipt, err := r.GormReceiptRepository.FindByNumber(number)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return receipt, nil
}
