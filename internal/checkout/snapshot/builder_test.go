package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
)

type stubProducts struct {
	products map[uuid.UUID]*models.Product
	calls    int
	err      error
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products[id], nil
}

type stubColors struct {
	colors []models.Color
	calls  int
	err    error
}

func (s *stubColors) FindByIDs(context.Context, []uuid.UUID) ([]models.Color, error) {
	s.calls++
	return s.colors, s.err
}

type stubQualities struct {
	quality *models.Quality
	calls   int
	err     error
}

func (s *stubQualities) FindByID(context.Context, uuid.UUID) (*models.Quality, error) {
	s.calls++
	return s.quality, s.err
}

type fixture struct {
	products  *stubProducts
	colors    *stubColors
	qualities *stubQualities
	builder   *Builder
	product   *models.Product
	colorID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	colorID := uuid.New()
	qualityID := uuid.New()
	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Camiseta Furia",
		Price:     decimal.NewFromInt(100),
		Active:    true,
		QualityID: qualityID,
		Variants: []models.ProductVariant{
			{VariantID: "black", ColorID: colorID, Images: []string{"https://cdn.example/black.jpg"}},
		},
	}
	f := &fixture{
		products:  &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}},
		colors:    &stubColors{colors: []models.Color{{ID: colorID, Name: "Negro", HexCode: "#000000"}}},
		qualities: &stubQualities{quality: &models.Quality{ID: qualityID, Name: "Premium"}},
		product:   product,
		colorID:   colorID,
	}
	builder, err := NewBuilder(f.products, f.colors, f.qualities, nil)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	f.builder = builder
	return f
}

func (f *fixture) item(qty int, discount int64) models.CartItem {
	return models.CartItem{
		ProductID: f.product.ID,
		VariantID: "black",
		Size:      "M",
		Quantity:  qty,
		Discount:  decimal.NewFromInt(discount),
	}
}

func TestBuildComputesTotals(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	snap, err := f.builder.Build(context.Background(), []models.CartItem{f.item(2, 10)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !snap.Subtotal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("subtotal = %s", snap.Subtotal)
	}
	if !snap.DiscountTotal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("discount total = %s", snap.DiscountTotal)
	}
	if !snap.Total.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("total = %s", snap.Total)
	}
	if got := snap.AmountInCents(); got != 18000 {
		t.Fatalf("amount in cents = %d", got)
	}

	line := snap.Items[0]
	if !line.LineTotal.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("line total = %s", line.LineTotal)
	}
	if line.ColorName != "Negro" || line.ColorHex != "#000000" {
		t.Fatalf("unexpected color %q %q", line.ColorName, line.ColorHex)
	}
	if line.QualityName != "Premium" || line.ImageURL != "https://cdn.example/black.jpg" || line.Size != "M" {
		t.Fatalf("unexpected display data %+v", line)
	}
}

func TestBuildBatchesDisplayLookups(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	snap, err := f.builder.Build(context.Background(), []models.CartItem{f.item(1, 0), f.item(3, 5)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if f.colors.calls != 1 || f.qualities.calls != 1 || f.products.calls != 1 {
		t.Fatalf("expected single lookups, got colors=%d qualities=%d products=%d", f.colors.calls, f.qualities.calls, f.products.calls)
	}
	// 1*100 + 3*(100-5)
	if !snap.Total.Equal(decimal.NewFromInt(385)) {
		t.Fatalf("total = %s", snap.Total)
	}
	if !snap.Subtotal.Sub(snap.DiscountTotal).Equal(snap.Total) {
		t.Fatalf("subtotal - discount != total")
	}
	if snap.ItemCount() != 4 {
		t.Fatalf("item count = %d", snap.ItemCount())
	}
}

func TestBuildToleratesDisplayLookupFailures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.colors.err = errors.New("colors down")
	f.qualities.err = errors.New("qualities down")

	snap, err := f.builder.Build(context.Background(), []models.CartItem{f.item(1, 0)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if snap.Items[0].ColorName != "" || snap.Items[0].QualityName != "" {
		t.Fatalf("expected empty display data, got %+v", snap.Items[0])
	}
	if !snap.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("total = %s", snap.Total)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		setup func(f *fixture) []models.CartItem
		code  pkgerrors.Code
	}{
		{
			name:  "empty cart",
			setup: func(*fixture) []models.CartItem { return nil },
			code:  pkgerrors.CodeEmptyCart,
		},
		{
			name: "missing product",
			setup: func(f *fixture) []models.CartItem {
				item := f.item(1, 0)
				item.ProductID = uuid.New()
				return []models.CartItem{item}
			},
			code: pkgerrors.CodeNotFound,
		},
		{
			name: "inactive product",
			setup: func(f *fixture) []models.CartItem {
				f.product.Active = false
				return []models.CartItem{f.item(1, 0)}
			},
			code: pkgerrors.CodeProductUnavailable,
		},
		{
			name: "missing variant",
			setup: func(f *fixture) []models.CartItem {
				item := f.item(1, 0)
				item.VariantID = "white"
				return []models.CartItem{item}
			},
			code: pkgerrors.CodeNotFound,
		},
		{
			name:  "zero quantity",
			setup: func(f *fixture) []models.CartItem { return []models.CartItem{f.item(0, 0)} },
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "negative discount",
			setup: func(f *fixture) []models.CartItem { return []models.CartItem{f.item(1, -1)} },
			code:  pkgerrors.CodeValidation,
		},
		{
			name: "product lookup failure",
			setup: func(f *fixture) []models.CartItem {
				f.products.err = errors.New("db down")
				return []models.CartItem{f.item(1, 0)}
			},
			code: pkgerrors.CodeInternal,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			snap, err := f.builder.Build(context.Background(), tc.setup(f))
			if snap != nil {
				t.Fatalf("expected no snapshot")
			}
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}
