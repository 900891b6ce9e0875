package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	businessdomain "github.com/tair/retail-settlement/internal/business/domain"
	catalogdomain "github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/internal/sale/document"
	"github.com/tair/retail-settlement/internal/sale/domain"
	stockdomain "github.com/tair/retail-settlement/internal/stock/domain"
)

type stockKey struct {
	variantID  uint
	locationID uint
}

// saleStore is the shared in-memory state behind the fakes. Commit
// validates every line before mutating anything, matching the
// all-or-nothing contract of the persistent implementation.
type saleStore struct {
	mu            sync.Mutex
	stocks        map[stockKey]*stockdomain.Stock
	receipts      map[uint]*domain.Receipt
	numbers       map[string]bool
	methods       map[uint]*domain.PaymentMethod
	businesses    map[uint]*businessdomain.Business
	locations     map[uint]*businessdomain.Location
	products      map[uint]*catalogdomain.Product
	variants      map[uint]*catalogdomain.Variant
	nextReceiptID uint
	collisions    int
}

func newSaleStore() *saleStore {
	return &saleStore{
		stocks:     make(map[stockKey]*stockdomain.Stock),
		receipts:   make(map[uint]*domain.Receipt),
		numbers:    make(map[string]bool),
		methods:    make(map[uint]*domain.PaymentMethod),
		businesses: make(map[uint]*businessdomain.Business),
		locations:  make(map[uint]*businessdomain.Location),
		products:   make(map[uint]*catalogdomain.Product),
		variants:   make(map[uint]*catalogdomain.Variant),
	}
}

type fakeReceiptRepository struct{ store *saleStore }

func (f *fakeReceiptRepository) Commit(receipt *domain.Receipt, lines []domain.Sale) error {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		return domain.ErrEmptyReceipt
	}

	if s.collisions > 0 || s.numbers[receipt.Number] {
		if s.collisions > 0 {
			s.collisions--
		}
		return domain.ErrReceiptNumberCollision
	}

	for i, line := range lines {
		stock, ok := s.stocks[stockKey{line.VariantID, line.LocationID}]
		if !ok || !stock.AvailableForSale || stock.AvailableQuantity() < line.Quantity {
			available := 0
			if ok && stock.AvailableForSale {
				available = stock.AvailableQuantity()
			}
			return &stockdomain.InsufficientStockError{
				VariantID:  line.VariantID,
				LocationID: line.LocationID,
				Requested:  line.Quantity,
				Available:  available,
				LineIndex:  i,
			}
		}
	}

	for _, line := range lines {
		s.stocks[stockKey{line.VariantID, line.LocationID}].Quantity -= line.Quantity
	}

	s.nextReceiptID++
	receipt.ID = s.nextReceiptID
	for i := range lines {
		lines[i].ReceiptID = receipt.ID
	}
	receipt.Sales = lines
	stored := *receipt
	s.receipts[receipt.ID] = &stored
	s.numbers[receipt.Number] = true
	return nil
}

func (f *fakeReceiptRepository) FindByID(id uint) (*domain.Receipt, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	r, ok := f.store.receipts[id]
	if !ok {
		return nil, domain.ErrReceiptNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReceiptRepository) FindByNumber(number string) (*domain.Receipt, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, r := range f.store.receipts {
		if r.Number == number {
			copied := *r
			return &copied, nil
		}
	}
	return nil, domain.ErrReceiptNotFound
}

func (f *fakeReceiptRepository) FindAll(filter domain.ReceiptFilter) ([]domain.Receipt, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []domain.Receipt
	for _, r := range f.store.receipts {
		if filter.BusinessID != 0 && r.BusinessID != filter.BusinessID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReceiptRepository) Delete(id uint) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.receipts[id]; !ok {
		return domain.ErrReceiptNotFound
	}
	delete(f.store.receipts, id)
	return nil
}

type fakeMethodRepository struct{ store *saleStore }

func (f *fakeMethodRepository) Create(m *domain.PaymentMethod) error {
	m.ID = uint(len(f.store.methods) + 1)
	f.store.methods[m.ID] = m
	return nil
}

func (f *fakeMethodRepository) FindByID(id uint) (*domain.PaymentMethod, error) {
	m, ok := f.store.methods[id]
	if !ok {
		return nil, domain.ErrPaymentMethodNotFound
	}
	return m, nil
}

func (f *fakeMethodRepository) FindAll(activeOnly bool) ([]domain.PaymentMethod, error) {
	var out []domain.PaymentMethod
	for _, m := range f.store.methods {
		if activeOnly && !m.IsActive {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

type fakeBusinessRepository struct{ store *saleStore }

func (f *fakeBusinessRepository) Create(b *businessdomain.Business) error {
	b.ID = uint(len(f.store.businesses) + 1)
	f.store.businesses[b.ID] = b
	return nil
}

func (f *fakeBusinessRepository) FindByID(id uint) (*businessdomain.Business, error) {
	b, ok := f.store.businesses[id]
	if !ok {
		return nil, businessdomain.ErrBusinessNotFound
	}
	return b, nil
}

func (f *fakeBusinessRepository) FindBySlug(slug string) (*businessdomain.Business, error) {
	for _, b := range f.store.businesses {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, businessdomain.ErrBusinessNotFound
}

func (f *fakeBusinessRepository) FindAll(limit, offset int) ([]businessdomain.Business, error) {
	return nil, nil
}

func (f *fakeBusinessRepository) Update(b *businessdomain.Business) error { return nil }

func (f *fakeBusinessRepository) Delete(id uint) error { return nil }

type fakeLocationFinder struct{ store *saleStore }

func (f *fakeLocationFinder) FindByID(id uint) (*businessdomain.Location, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	l, ok := f.store.locations[id]
	if !ok {
		return nil, businessdomain.ErrLocationNotFound
	}
	return l, nil
}

type fakeCatalogRepository struct{ store *saleStore }

func (f *fakeCatalogRepository) Create(p *catalogdomain.Product) error {
	p.ID = uint(len(f.store.products) + 1)
	f.store.products[p.ID] = p
	return nil
}

func (f *fakeCatalogRepository) FindByID(id uint) (*catalogdomain.Product, error) {
	p, ok := f.store.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalogRepository) FindAll(limit, offset int) ([]catalogdomain.Product, error) {
	return nil, nil
}

func (f *fakeCatalogRepository) FindByBusiness(businessID uint, limit, offset int) ([]catalogdomain.Product, error) {
	return nil, nil
}

func (f *fakeCatalogRepository) Update(p *catalogdomain.Product) error { return nil }

func (f *fakeCatalogRepository) Delete(id uint) error { return nil }

func (f *fakeCatalogRepository) SetActive(id uint, active bool) error { return nil }

func (f *fakeCatalogRepository) CountActive() (int64, error) { return 0, nil }

type fakeVariantCatalog struct{ store *saleStore }

func (f *fakeVariantCatalog) Create(v *catalogdomain.Variant) error {
	v.ID = uint(len(f.store.variants) + 1)
	f.store.variants[v.ID] = v
	return nil
}

func (f *fakeVariantCatalog) FindByID(id uint) (*catalogdomain.Variant, error) {
	v, ok := f.store.variants[id]
	if !ok {
		return nil, catalogdomain.ErrVariantNotFound
	}
	return v, nil
}

func (f *fakeVariantCatalog) FindBySKU(sku string) (*catalogdomain.Variant, error) {
	return nil, catalogdomain.ErrVariantNotFound
}

func (f *fakeVariantCatalog) FindByBarcode(barcode string) (*catalogdomain.Variant, error) {
	return nil, catalogdomain.ErrVariantNotFound
}

func (f *fakeVariantCatalog) FindByProduct(productID uint) ([]catalogdomain.Variant, error) {
	return nil, nil
}

func (f *fakeVariantCatalog) Update(v *catalogdomain.Variant) error { return nil }

func (f *fakeVariantCatalog) Delete(id uint) error { return nil }

type fakeSaleStockRepository struct{ store *saleStore }

func (f *fakeSaleStockRepository) Create(s *stockdomain.Stock) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s.ID = uint(len(f.store.stocks) + 1)
	f.store.stocks[stockKey{s.VariantID, s.LocationID}] = s
	return nil
}

func (f *fakeSaleStockRepository) FindByID(id uint) (*stockdomain.Stock, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, s := range f.store.stocks {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, stockdomain.ErrNoStockRecord
}

func (f *fakeSaleStockRepository) FindByVariantAndLocation(variantID, locationID uint) (*stockdomain.Stock, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.stocks[stockKey{variantID, locationID}]
	if !ok {
		return nil, stockdomain.ErrNoStockRecord
	}
	return s, nil
}

func (f *fakeSaleStockRepository) FindByVariant(variantID uint) ([]stockdomain.Stock, error) {
	return nil, nil
}

func (f *fakeSaleStockRepository) FindByLocation(locationID uint, limit, offset int) ([]stockdomain.Stock, error) {
	return nil, nil
}

func (f *fakeSaleStockRepository) AvailableQuantity(variantID, locationID uint) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.stocks[stockKey{variantID, locationID}]
	if !ok {
		return 0, stockdomain.ErrNoStockRecord
	}
	return s.AvailableQuantity(), nil
}

func (f *fakeSaleStockRepository) TotalAvailableByVariant(variantID uint) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	total := 0
	for _, s := range f.store.stocks {
		if s.VariantID == variantID {
			total += s.AvailableQuantity()
		}
	}
	return total, nil
}

func (f *fakeSaleStockRepository) Reserve(variantID, locationID uint, qty int) (*stockdomain.Stock, error) {
	return nil, nil
}

func (f *fakeSaleStockRepository) ReleaseReservation(variantID, locationID uint, qty int) (*stockdomain.Stock, error) {
	return nil, nil
}

func (f *fakeSaleStockRepository) AdjustQuantity(stockID uint, delta int) (*stockdomain.Stock, error) {
	return nil, nil
}

func (f *fakeSaleStockRepository) RecordDefect(stockID uint, qty int, reason string) (*stockdomain.Defect, error) {
	return nil, nil
}

func (f *fakeSaleStockRepository) RemoveDefect(defectID uint) (*stockdomain.Stock, error) {
	return nil, nil
}

type recordingRecomputer struct {
	mu    sync.Mutex
	calls []uint
}

func (r *recordingRecomputer) VariantAvailabilityChanged(variantID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, variantID)
	return nil
}

type recordingBuilder struct {
	mu        sync.Mutex
	snapshots []*document.ReceiptSnapshot
}

func (b *recordingBuilder) Build(ctx context.Context, snapshot *document.ReceiptSnapshot) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, snapshot)
	return "/tmp/" + snapshot.Number + ".html", nil
}

type saleFixture struct {
	store      *saleStore
	handler    *CommitSaleHandler
	recomputer *recordingRecomputer
	builder    *recordingBuilder
	business   *businessdomain.Business
	method     *domain.PaymentMethod
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	store := newSaleStore()
	recomputer := &recordingRecomputer{}
	builder := &recordingBuilder{}

	businesses := &fakeBusinessRepository{store}
	methods := &fakeMethodRepository{store}

	business := &businessdomain.Business{Name: "Corner Store", Slug: "corner-store"}
	if err := businesses.Create(business); err != nil {
		t.Fatalf("create business: %v", err)
	}

	method := &domain.PaymentMethod{Code: "cash", Name: "Cash", IsActive: true}
	if err := methods.Create(method); err != nil {
		t.Fatalf("create payment method: %v", err)
	}

	store.locations[1] = &businessdomain.Location{
		ID:           1,
		BusinessID:   business.ID,
		Name:         "Main",
		IsSalesPoint: true,
	}

	handler := NewCommitSaleHandler(
		&fakeReceiptRepository{store},
		methods,
		businesses,
		&fakeLocationFinder{store},
		&fakeCatalogRepository{store},
		&fakeVariantCatalog{store},
		&fakeSaleStockRepository{store},
		recomputer,
		nil,
		builder,
	)

	return &saleFixture{
		store:      store,
		handler:    handler,
		recomputer: recomputer,
		builder:    builder,
		business:   business,
		method:     method,
	}
}

// seedVariant creates a product, a variant and a stock row in one step
func (fx *saleFixture) seedVariant(t *testing.T, businessID uint, sku, price, discountPercent string, qty int, locationID uint) *catalogdomain.Variant {
	t.Helper()

	products := &fakeCatalogRepository{fx.store}
	variants := &fakeVariantCatalog{fx.store}
	stocks := &fakeSaleStockRepository{fx.store}

	product := &catalogdomain.Product{BusinessID: businessID, Name: "Product " + sku}
	if err := products.Create(product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	variant := &catalogdomain.Variant{
		ProductID:       product.ID,
		SKU:             sku,
		Name:            "Variant " + sku,
		Price:           dec(t, price),
		DiscountPercent: dec(t, discountPercent),
		ShowThis:        true,
	}
	if err := variants.Create(variant); err != nil {
		t.Fatalf("create variant: %v", err)
	}

	if _, ok := fx.store.locations[locationID]; !ok {
		fx.store.locations[locationID] = &businessdomain.Location{
			ID:           locationID,
			BusinessID:   businessID,
			Name:         "Location",
			IsSalesPoint: true,
		}
	}

	if err := stocks.Create(&stockdomain.Stock{
		VariantID:        variant.ID,
		LocationID:       locationID,
		Quantity:         qty,
		AvailableForSale: true,
	}); err != nil {
		t.Fatalf("create stock: %v", err)
	}

	return variant
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func (fx *saleFixture) availability(t *testing.T, variantID, locationID uint) int {
	t.Helper()
	available, err := (&fakeSaleStockRepository{fx.store}).AvailableQuantity(variantID, locationID)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	return available
}

func TestCommitSale(t *testing.T) {
	fx := newSaleFixture(t)
	variant := fx.seedVariant(t, fx.business.ID, "TEE-1", "100", "10", 10, 1)

	receipt, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines: []CommitSaleLine{{
			VariantID:       variant.ID,
			LocationID:      1,
			Quantity:        3,
			DiscountPercent: dec(t, "10"),
		}},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	// unit 90 after 10% variant discount, 3 units 270, line 10% -> 243
	if !receipt.TotalAmount.Equal(dec(t, "243")) {
		t.Errorf("total = %s, want 243", receipt.TotalAmount)
	}

	if !strings.HasPrefix(receipt.Number, "CHK-") || len(receipt.Number) != 12 {
		t.Errorf("receipt number %q should be CHK- plus 8 hex chars", receipt.Number)
	}

	if got := fx.availability(t, variant.ID, 1); got != 7 {
		t.Errorf("availability after commit = %d, want 7", got)
	}

	if len(receipt.Sales) != 1 {
		t.Fatalf("receipt has %d lines, want 1", len(receipt.Sales))
	}
	if !receipt.Sales[0].PricePerUnit.Equal(dec(t, "90")) {
		t.Errorf("frozen unit price = %s, want 90", receipt.Sales[0].PricePerUnit)
	}

	if len(fx.recomputer.calls) != 1 || fx.recomputer.calls[0] != variant.ID {
		t.Errorf("recomputer calls = %v, want [%d]", fx.recomputer.calls, variant.ID)
	}

	if len(fx.builder.snapshots) != 1 {
		t.Fatalf("builder called %d times, want 1", len(fx.builder.snapshots))
	}
	snapshot := fx.builder.snapshots[0]
	if snapshot.BusinessName != "Corner Store" || snapshot.PaymentMethod != "Cash" {
		t.Errorf("snapshot header = %q/%q, want Corner Store/Cash", snapshot.BusinessName, snapshot.PaymentMethod)
	}
}

func TestCommitSaleReceiptDiscount(t *testing.T) {
	fx := newSaleFixture(t)
	variant := fx.seedVariant(t, fx.business.ID, "TEE-2", "100", "0", 10, 1)

	receipt, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		DiscountPercent: dec(t, "10"),
		DiscountAmount:  dec(t, "20"),
		Lines: []CommitSaleLine{{
			VariantID:  variant.ID,
			LocationID: 1,
			Quantity:   5,
		}},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	// lines sum to 500; minus 10 percent then minus 20 -> 430
	if !receipt.TotalAmount.Equal(dec(t, "430")) {
		t.Errorf("total = %s, want 430", receipt.TotalAmount)
	}
}

func TestCommitSaleFixedLineDiscount(t *testing.T) {
	fx := newSaleFixture(t)
	variant := fx.seedVariant(t, fx.business.ID, "TEE-9", "100", "0", 10, 1)

	receipt, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines: []CommitSaleLine{{
			VariantID:      variant.ID,
			LocationID:     1,
			Quantity:       2,
			DiscountAmount: dec(t, "10"),
		}},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	// 10 comes off every unit, not off the line: (100 - 10) * 2 = 180
	if !receipt.TotalAmount.Equal(dec(t, "180")) {
		t.Errorf("total = %s, want 180", receipt.TotalAmount)
	}
	if len(receipt.Sales) != 1 {
		t.Fatalf("receipt has %d lines, want 1", len(receipt.Sales))
	}
	if !receipt.Sales[0].TotalPrice.Equal(dec(t, "180")) {
		t.Errorf("line total = %s, want 180", receipt.Sales[0].TotalPrice)
	}
}

func TestCommitSaleAllOrNothing(t *testing.T) {
	fx := newSaleFixture(t)
	first := fx.seedVariant(t, fx.business.ID, "TEE-3", "50", "0", 10, 1)
	second := fx.seedVariant(t, fx.business.ID, "TEE-4", "80", "0", 2, 1)

	_, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines: []CommitSaleLine{
			{VariantID: first.ID, LocationID: 1, Quantity: 4},
			{VariantID: second.ID, LocationID: 1, Quantity: 5},
		},
	})

	var insufficient *stockdomain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.VariantID != second.ID {
		t.Errorf("failing variant = %d, want %d", insufficient.VariantID, second.ID)
	}
	if insufficient.LineIndex != 1 {
		t.Errorf("failing line index = %d, want 1", insufficient.LineIndex)
	}

	// the passing line must not have been applied
	if got := fx.availability(t, first.ID, 1); got != 10 {
		t.Errorf("first variant availability = %d, want untouched 10", got)
	}
	if got := fx.availability(t, second.ID, 1); got != 2 {
		t.Errorf("second variant availability = %d, want untouched 2", got)
	}

	if len(fx.store.receipts) != 0 {
		t.Errorf("%d receipts persisted, want 0", len(fx.store.receipts))
	}
	if len(fx.builder.snapshots) != 0 {
		t.Errorf("document built for a failed settlement")
	}
}

func TestCommitSaleCrossBusiness(t *testing.T) {
	fx := newSaleFixture(t)

	other := &businessdomain.Business{Name: "Other Shop", Slug: "other-shop"}
	if err := (&fakeBusinessRepository{fx.store}).Create(other); err != nil {
		t.Fatalf("create business: %v", err)
	}
	foreign := fx.seedVariant(t, other.ID, "FOREIGN-1", "10", "0", 5, 1)

	_, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines: []CommitSaleLine{{
			VariantID:  foreign.ID,
			LocationID: 1,
			Quantity:   1,
		}},
	})

	var crossBusiness *domain.CrossBusinessError
	if !errors.As(err, &crossBusiness) {
		t.Fatalf("expected CrossBusinessError, got %v", err)
	}
	if got := fx.availability(t, foreign.ID, 1); got != 5 {
		t.Errorf("stock touched on rejected settlement: %d", got)
	}
}

func TestCommitSaleForeignLocation(t *testing.T) {
	fx := newSaleFixture(t)
	variant := fx.seedVariant(t, fx.business.ID, "TEE-8", "10", "0", 5, 1)

	other := &businessdomain.Business{Name: "Other Shop", Slug: "other-shop"}
	if err := (&fakeBusinessRepository{fx.store}).Create(other); err != nil {
		t.Fatalf("create business: %v", err)
	}
	fx.store.locations[9] = &businessdomain.Location{
		ID:           9,
		BusinessID:   other.ID,
		Name:         "Foreign",
		IsSalesPoint: true,
	}

	_, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines: []CommitSaleLine{{
			VariantID:  variant.ID,
			LocationID: 9,
			Quantity:   1,
		}},
	})

	var crossBusiness *domain.CrossBusinessError
	if !errors.As(err, &crossBusiness) {
		t.Fatalf("expected CrossBusinessError, got %v", err)
	}
	if crossBusiness.LocationID != 9 {
		t.Errorf("error location = %d, want 9", crossBusiness.LocationID)
	}
}

func TestCommitSaleNumberCollisionRetry(t *testing.T) {
	fx := newSaleFixture(t)
	variant := fx.seedVariant(t, fx.business.ID, "TEE-5", "10", "0", 10, 1)

	fx.store.collisions = 2
	receipt, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines:           []CommitSaleLine{{VariantID: variant.ID, LocationID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("commit should survive two collisions: %v", err)
	}
	if receipt.Number == "" {
		t.Error("receipt number not assigned")
	}

	fx.store.collisions = 3
	_, err = fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines:           []CommitSaleLine{{VariantID: variant.ID, LocationID: 1, Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrReceiptNumberCollision) {
		t.Errorf("expected ErrReceiptNumberCollision after exhausting retries, got %v", err)
	}
}

func TestCommitSaleConcurrentLastUnit(t *testing.T) {
	fx := newSaleFixture(t)
	variant := fx.seedVariant(t, fx.business.ID, "TEE-6", "25", "0", 1, 1)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
				BusinessID:      fx.business.ID,
				PaymentMethodID: fx.method.ID,
				Lines:           []CommitSaleLine{{VariantID: variant.ID, LocationID: 1, Quantity: 1}},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, failures := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var insufficient *stockdomain.InsufficientStockError
		if !errors.As(err, &insufficient) {
			t.Fatalf("unexpected error: %v", err)
		}
		failures++
	}

	if successes != 1 || failures != 1 {
		t.Errorf("got %d successes and %d failures, want exactly one of each", successes, failures)
	}
	if got := fx.availability(t, variant.ID, 1); got != 0 {
		t.Errorf("availability = %d, want 0", got)
	}
}

func TestCommitSaleValidation(t *testing.T) {
	fx := newSaleFixture(t)
	variant := fx.seedVariant(t, fx.business.ID, "TEE-7", "10", "0", 10, 1)

	_, err := fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
	})
	if !errors.Is(err, domain.ErrEmptyReceipt) {
		t.Errorf("expected ErrEmptyReceipt, got %v", err)
	}

	_, err = fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: fx.method.ID,
		Lines:           []CommitSaleLine{{VariantID: variant.ID, LocationID: 1, Quantity: 0}},
	})
	if !errors.Is(err, stockdomain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}

	inactive := &domain.PaymentMethod{Code: "card", Name: "Card", IsActive: false}
	if err := (&fakeMethodRepository{fx.store}).Create(inactive); err != nil {
		t.Fatalf("create method: %v", err)
	}
	_, err = fx.handler.Handle(context.Background(), CommitSaleCommand{
		BusinessID:      fx.business.ID,
		PaymentMethodID: inactive.ID,
		Lines:           []CommitSaleLine{{VariantID: variant.ID, LocationID: 1, Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrInactivePaymentMethod) {
		t.Errorf("expected ErrInactivePaymentMethod, got %v", err)
	}
}
