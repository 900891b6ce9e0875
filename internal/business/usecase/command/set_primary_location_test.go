package command

import (
	"errors"
	"testing"

	"github.com/tair/retail-settlement/internal/business/domain"
)

// fakeLocationRepository mirrors the persistent repository's invariant:
// marking a location primary demotes its siblings in the same step.
type fakeLocationRepository struct {
	locations map[uint]*domain.Location
	nextID    uint
}

func newFakeLocationRepository() *fakeLocationRepository {
	return &fakeLocationRepository{locations: make(map[uint]*domain.Location), nextID: 1}
}

func (f *fakeLocationRepository) Create(l *domain.Location) error {
	l.ID = f.nextID
	f.nextID++
	f.locations[l.ID] = l
	if l.IsPrimary {
		f.demoteSiblings(l.BusinessID, l.ID)
	}
	return nil
}

func (f *fakeLocationRepository) FindByID(id uint) (*domain.Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLocationRepository) FindByBusiness(businessID uint) ([]domain.Location, error) {
	var out []domain.Location
	for _, l := range f.locations {
		if l.BusinessID == businessID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLocationRepository) Update(l *domain.Location) error {
	f.locations[l.ID] = l
	if l.IsPrimary {
		f.demoteSiblings(l.BusinessID, l.ID)
	}
	return nil
}

func (f *fakeLocationRepository) Delete(id uint) error {
	delete(f.locations, id)
	return nil
}

func (f *fakeLocationRepository) SetPrimary(businessID, locationID uint) error {
	l, ok := f.locations[locationID]
	if !ok || l.BusinessID != businessID {
		return domain.ErrLocationNotFound
	}
	l.IsPrimary = true
	f.demoteSiblings(businessID, locationID)
	return nil
}

func (f *fakeLocationRepository) demoteSiblings(businessID, keepID uint) {
	for _, l := range f.locations {
		if l.BusinessID == businessID && l.ID != keepID {
			l.IsPrimary = false
		}
	}
}

func (f *fakeLocationRepository) primaryCount(businessID uint) int {
	count := 0
	for _, l := range f.locations {
		if l.BusinessID == businessID && l.IsPrimary {
			count++
		}
	}
	return count
}

func TestSetPrimaryLocation(t *testing.T) {
	repo := newFakeLocationRepository()
	create := NewCreateLocationHandler(repo)
	setPrimary := NewSetPrimaryLocationHandler(repo)

	first, err := create.Handle(CreateLocationCommand{BusinessID: 1, Name: "Main", IsSalesPoint: true, IsPrimary: true})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := create.Handle(CreateLocationCommand{BusinessID: 1, Name: "Warehouse", IsWarehouse: true})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if err := setPrimary.Handle(SetPrimaryLocationCommand{BusinessID: 1, LocationID: second.ID}); err != nil {
		t.Fatalf("set primary: %v", err)
	}

	if repo.primaryCount(1) != 1 {
		t.Errorf("business has %d primary locations, want 1", repo.primaryCount(1))
	}

	demoted, err := repo.FindByID(first.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if demoted.IsPrimary {
		t.Error("previous primary location should be demoted")
	}
}

func TestSetPrimaryLocationWrongBusiness(t *testing.T) {
	repo := newFakeLocationRepository()
	create := NewCreateLocationHandler(repo)
	setPrimary := NewSetPrimaryLocationHandler(repo)

	loc, err := create.Handle(CreateLocationCommand{BusinessID: 1, Name: "Main", IsSalesPoint: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = setPrimary.Handle(SetPrimaryLocationCommand{BusinessID: 2, LocationID: loc.ID})
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestCreateLocationRequiresRole(t *testing.T) {
	repo := newFakeLocationRepository()
	create := NewCreateLocationHandler(repo)

	if _, err := create.Handle(CreateLocationCommand{BusinessID: 1, Name: "Nowhere"}); err == nil {
		t.Error("expected error when location is neither warehouse nor sales point")
	}
}
