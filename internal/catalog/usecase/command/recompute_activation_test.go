package command

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tair/retail-settlement/internal/catalog/domain"
)

type fakeProductRepository struct {
	products   map[uint]*domain.Product
	nextID     uint
	setActives int
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uint]*domain.Product), nextID: 1}
}

func (f *fakeProductRepository) Create(p *domain.Product) error {
	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepository) FindByID(id uint) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepository) FindByBusiness(businessID uint, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.BusinessID == businessID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepository) Update(p *domain.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepository) Delete(id uint) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepository) SetActive(id uint, active bool) error {
	p, ok := f.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsActive = active
	f.setActives++
	return nil
}

func (f *fakeProductRepository) CountActive() (int64, error) {
	var count int64
	for _, p := range f.products {
		if p.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeVariantRepository struct {
	variants map[uint]*domain.Variant
	nextID   uint
}

func newFakeVariantRepository() *fakeVariantRepository {
	return &fakeVariantRepository{variants: make(map[uint]*domain.Variant), nextID: 1}
}

func (f *fakeVariantRepository) Create(v *domain.Variant) error {
	for _, existing := range f.variants {
		if existing.SKU == v.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	v.ID = f.nextID
	f.nextID++
	f.variants[v.ID] = v
	return nil
}

func (f *fakeVariantRepository) FindByID(id uint) (*domain.Variant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, domain.ErrVariantNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVariantRepository) FindBySKU(sku string) (*domain.Variant, error) {
	for _, v := range f.variants {
		if v.SKU == sku {
			copied := *v
			return &copied, nil
		}
	}
	return nil, domain.ErrVariantNotFound
}

func (f *fakeVariantRepository) FindByBarcode(barcode string) (*domain.Variant, error) {
	for _, v := range f.variants {
		if v.Barcode == barcode {
			copied := *v
			return &copied, nil
		}
	}
	return nil, domain.ErrVariantNotFound
}

func (f *fakeVariantRepository) FindByProduct(productID uint) ([]domain.Variant, error) {
	var out []domain.Variant
	for _, v := range f.variants {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVariantRepository) Update(v *domain.Variant) error {
	f.variants[v.ID] = v
	return nil
}

func (f *fakeVariantRepository) Delete(id uint) error {
	if _, ok := f.variants[id]; !ok {
		return domain.ErrVariantNotFound
	}
	delete(f.variants, id)
	return nil
}

// fakeStockReader maps variant ID to total availability
type fakeStockReader struct {
	available map[uint]int
}

func (f *fakeStockReader) TotalAvailableByVariant(variantID uint) (int, error) {
	return f.available[variantID], nil
}

func setupCatalog(t *testing.T) (*fakeProductRepository, *fakeVariantRepository, *fakeStockReader, *RecomputeActivationHandler) {
	t.Helper()
	products := newFakeProductRepository()
	variants := newFakeVariantRepository()
	stock := &fakeStockReader{available: make(map[uint]int)}
	handler := NewRecomputeActivationHandler(products, variants, stock)
	return products, variants, stock, handler
}

func addVariant(t *testing.T, variants *fakeVariantRepository, productID uint, sku string, showThis bool) *domain.Variant {
	t.Helper()
	v := &domain.Variant{
		ProductID: productID,
		SKU:       sku,
		Price:     decimal.NewFromInt(100),
		ShowThis:  showThis,
	}
	if err := variants.Create(v); err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return v
}

func TestRecomputeActivation(t *testing.T) {
	products, variants, stock, handler := setupCatalog(t)

	product := &domain.Product{BusinessID: 1, Name: "Shirt"}
	if err := products.Create(product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	visible := addVariant(t, variants, product.ID, "SHIRT-M", true)
	hidden := addVariant(t, variants, product.ID, "SHIRT-L", false)

	// hidden variant has stock, visible one does not -> inactive
	stock.available[hidden.ID] = 5
	active, err := handler.Handle(RecomputeActivationCommand{ProductID: product.ID})
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if active {
		t.Error("product should be inactive when only hidden variants have stock")
	}

	// visible variant gains stock -> active
	stock.available[visible.ID] = 1
	active, err = handler.Handle(RecomputeActivationCommand{ProductID: product.ID})
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !active {
		t.Error("product should be active when a visible variant has stock")
	}

	// stock drains -> inactive again
	stock.available[visible.ID] = 0
	active, err = handler.Handle(RecomputeActivationCommand{ProductID: product.ID})
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if active {
		t.Error("product should deactivate once visible stock drains")
	}
}

func TestRecomputeActivationIdempotent(t *testing.T) {
	products, variants, stock, handler := setupCatalog(t)

	product := &domain.Product{BusinessID: 1, Name: "Mug"}
	if err := products.Create(product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	v := addVariant(t, variants, product.ID, "MUG-1", true)
	stock.available[v.ID] = 3

	for i := 0; i < 3; i++ {
		active, err := handler.Handle(RecomputeActivationCommand{ProductID: product.ID})
		if err != nil {
			t.Fatalf("recompute %d: %v", i, err)
		}
		if !active {
			t.Fatalf("recompute %d: product should stay active", i)
		}
	}

	// only the first run should have written anything
	if products.setActives != 1 {
		t.Errorf("SetActive called %d times, want 1", products.setActives)
	}
}

func TestRecomputeActivationUnknownProduct(t *testing.T) {
	_, _, _, handler := setupCatalog(t)

	_, err := handler.Handle(RecomputeActivationCommand{ProductID: 42})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestVariantAvailabilityChanged(t *testing.T) {
	products, variants, stock, handler := setupCatalog(t)

	product := &domain.Product{BusinessID: 1, Name: "Cap"}
	if err := products.Create(product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	v := addVariant(t, variants, product.ID, "CAP-1", true)
	stock.available[v.ID] = 2

	if err := handler.VariantAvailabilityChanged(v.ID); err != nil {
		t.Fatalf("notify: %v", err)
	}

	current, err := products.FindByID(product.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !current.IsActive {
		t.Error("product should be active after availability notification")
	}
}

func TestUpdateVariantVisibilityTriggersRecompute(t *testing.T) {
	products, variants, stock, recompute := setupCatalog(t)
	handler := NewUpdateVariantHandler(variants, recompute)

	product := &domain.Product{BusinessID: 1, Name: "Socks"}
	if err := products.Create(product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	v := addVariant(t, variants, product.ID, "SOCKS-1", true)
	stock.available[v.ID] = 4

	// establish active state
	if _, err := recompute.Handle(RecomputeActivationCommand{ProductID: product.ID}); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	hide := false
	if _, err := handler.Handle(UpdateVariantCommand{VariantID: v.ID, ShowThis: &hide}); err != nil {
		t.Fatalf("update: %v", err)
	}

	current, err := products.FindByID(product.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if current.IsActive {
		t.Error("hiding the only stocked variant should deactivate the product")
	}
}

func TestCreateVariantValidation(t *testing.T) {
	products, variants, _, recompute := setupCatalog(t)
	handler := NewCreateVariantHandler(products, variants, recompute)

	product := &domain.Product{BusinessID: 1, Name: "Hat"}
	if err := products.Create(product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err := handler.Handle(CreateVariantCommand{ProductID: product.ID, SKU: "HAT-1", Price: decimal.NewFromInt(-1)})
	if err == nil {
		t.Error("expected error for negative price")
	}

	_, err = handler.Handle(CreateVariantCommand{
		ProductID:       product.ID,
		SKU:             "HAT-1",
		Price:           decimal.NewFromInt(10),
		DiscountPercent: decimal.NewFromInt(150),
	})
	if err == nil {
		t.Error("expected error for discount percent above 100")
	}

	if _, err := handler.Handle(CreateVariantCommand{ProductID: product.ID, SKU: "HAT-1", Price: decimal.NewFromInt(10), ShowThis: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = handler.Handle(CreateVariantCommand{ProductID: product.ID, SKU: "HAT-1", Price: decimal.NewFromInt(10)})
	if !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Errorf("expected ErrDuplicateSKU, got %v", err)
	}
}
