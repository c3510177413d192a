package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	testhelpers "github.com/polkiloo/marketplace/internal/test"
)

func TestProductUseCaseCreate(t *testing.T) {
	uc := NewProductUseCase(testhelpers.NewProductRepositoryStub())
	ctx := context.Background()
	seller := model.Principal{ID: 3, Role: model.RoleSeller, Active: true}

	p, err := uc.Create(ctx, seller, CreateProductInput{Title: "  Kettle ", Price: 1299, Stock: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 || p.SellerID != 3 || p.Title != "Kettle" {
		t.Fatalf("unexpected product %+v", p)
	}

	buyer := model.Principal{ID: 4, Role: model.RoleBuyer, Active: true}
	if _, err := uc.Create(ctx, buyer, CreateProductInput{Title: "x", Price: 1}); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	for _, in := range []CreateProductInput{{Title: " "}, {Title: "x", Price: -1}, {Title: "x", Stock: -1}} {
		if _, err := uc.Create(ctx, seller, in); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
}

func TestProductUseCaseLookupAndList(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub(
		model.Product{ID: 1, SellerID: 10, Title: "A", Price: 100},
		model.Product{ID: 2, SellerID: 11, Title: "B", Price: 200},
	)
	uc := NewProductUseCase(repo)
	ctx := context.Background()

	if _, err := uc.Lookup(ctx, 99); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Lookup(ctx, -1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}

	seller := int64(11)
	items, err := uc.List(ctx, &seller)
	if err != nil || len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected filtered list %v, %v", items, err)
	}
	all, err := uc.List(ctx, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("unexpected list %v, %v", all, err)
	}

	repo.Err = errors.New("boom")
	if _, err := uc.Lookup(ctx, 1); !errors.Is(err, domainErrors.ErrService) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestProductUseCaseUpdate(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub(model.Product{ID: 1, SellerID: 10, Title: "Kettle", Price: 1299, Stock: 4})
	uc := NewProductUseCase(repo)
	ctx := context.Background()
	owner := model.Principal{ID: 10, Role: model.RoleSeller, Active: true}
	other := model.Principal{ID: 11, Role: model.RoleSeller, Active: true}

	price := int64(1599)
	title := " Kettle XL "
	p, err := uc.Update(ctx, owner, 1, UpdateProductInput{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Title != "Kettle XL" || p.Price != 1599 || p.Stock != 4 {
		t.Fatalf("unexpected product %+v", p)
	}

	if _, err := uc.Update(ctx, other, 1, UpdateProductInput{Price: &price}); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign seller, got %v", err)
	}
	buyer := model.Principal{ID: 12, Role: model.RoleBuyer, Active: true}
	if _, err := uc.Update(ctx, buyer, 1, UpdateProductInput{Price: &price}); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for buyer, got %v", err)
	}
	if _, err := uc.Update(ctx, owner, 99, UpdateProductInput{Price: &price}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	negative := int64(-1)
	blank := "  "
	for _, in := range []UpdateProductInput{{Price: &negative}, {Title: &blank}} {
		if _, err := uc.Update(ctx, owner, 1, in); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
	if stored, _ := repo.GetByID(ctx, 1); stored.Price != 1599 {
		t.Fatalf("rejected updates must not be stored, got price %d", stored.Price)
	}
}

func TestProductUseCaseDelete(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub(
		model.Product{ID: 1, SellerID: 10, Title: "Kettle"},
		model.Product{ID: 2, SellerID: 10, Title: "Teapot"},
	)
	repo.Ordered = map[int64]bool{2: true}
	uc := NewProductUseCase(repo)
	ctx := context.Background()
	owner := model.Principal{ID: 10, Role: model.RoleSeller, Active: true}

	if err := uc.Delete(ctx, model.Principal{ID: 11, Role: model.RoleSeller, Active: true}, 1); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := uc.Delete(ctx, owner, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.Lookup(ctx, 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected deleted product to be gone, got %v", err)
	}
	if err := uc.Delete(ctx, owner, 2); !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict for ordered product, got %v", err)
	}
}
