package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
)

func seedProduct(t *testing.T, svc Service, input CreateProductInput) *ProductDTO {
	t.Helper()
	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return created
}

func TestCreateAndGetProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	created := seedProduct(t, svc, CreateProductInput{
		Name:        "Pizza Margherita",
		Description: "Molho de tomate, mussarela e manjericão",
		PriceCents:  4590,
		Category:    "Pizzas",
		Popular:     true,
		Available:   true,
	})

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Pizza Margherita" || int(got.Price) != 4590 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestCreateUnavailableProductStaysUnavailable(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	created := seedProduct(t, svc, CreateProductInput{
		Name:       "Pizza Quatro Queijos",
		Category:   "Pizzas",
		PriceCents: 5290,
		Available:  false,
	})
	if created.Available {
		t.Fatal("expected created product to be unavailable")
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Available {
		t.Fatal("expected stored product to stay unavailable")
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	cases := []CreateProductInput{
		{Name: "", Category: "Pizzas", PriceCents: 100},
		{Name: "X", Category: "", PriceCents: 100},
		{Name: "X", Category: "Pizzas", PriceCents: -1},
	}
	for _, input := range cases {
		_, err := svc.Create(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestStorefrontGroupsByCategoryAndHidesUnavailable(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	seedProduct(t, svc, CreateProductInput{Name: "Pizza Margherita", Category: "Pizzas", PriceCents: 4590, Available: true})
	seedProduct(t, svc, CreateProductInput{Name: "Coca-Cola 2L", Category: "Bebidas", PriceCents: 850, Available: true})
	seedProduct(t, svc, CreateProductInput{Name: "Brownie", Category: "Sobremesas", PriceCents: 1590, Available: false})

	categories, err := svc.Storefront(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	for _, category := range categories {
		if category.Name == "Sobremesas" {
			t.Fatal("expected unavailable-only category to be hidden")
		}
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	created := seedProduct(t, svc, CreateProductInput{Name: "Hambúrguer", Category: "Hambúrgueres", PriceCents: 3290, Available: true})

	price := 3490
	popular := true
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductInput{
		PriceCents: &price,
		Popular:    &popular,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int(updated.Price) != 3490 || !updated.Popular {
		t.Fatalf("unexpected product after update: %+v", updated)
	}
	if updated.Name != "Hambúrguer" {
		t.Fatalf("expected untouched name, got %q", updated.Name)
	}
}

func TestUpdateRejectsBlankName(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	created := seedProduct(t, svc, CreateProductInput{Name: "Suco", Category: "Bebidas", PriceCents: 790, Available: true})

	blank := "  "
	_, err := svc.Update(context.Background(), created.ID, UpdateProductInput{Name: &blank})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToggleAvailability(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	created := seedProduct(t, svc, CreateProductInput{Name: "Batata Frita", Category: "Acompanhamentos", PriceCents: 1890, Available: true})

	toggled, err := svc.ToggleAvailability(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toggled.Available {
		t.Fatal("expected product unavailable after toggle")
	}

	toggled, err = svc.ToggleAvailability(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toggled.Available {
		t.Fatal("expected product available after second toggle")
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	seedProduct(t, svc, CreateProductInput{Name: "A", Category: "Pizzas", PriceCents: 100, Available: true, Popular: true})
	seedProduct(t, svc, CreateProductInput{Name: "B", Category: "Pizzas", PriceCents: 100, Available: true})
	seedProduct(t, svc, CreateProductInput{Name: "C", Category: "Pizzas", PriceCents: 100, Available: false})

	counts, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts.Total != 3 || counts.Available != 2 || counts.Unavailable != 1 || counts.Popular != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
