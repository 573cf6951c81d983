// Package snapshot prices a session cart against the live catalog and freezes
// the result for an order.
package snapshot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

// ProductReader returns (nil, nil) for a missing product.
type ProductReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type ColorReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Color, error)
}

type QualityReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quality, error)
}

// Builder turns cart items into a CartSnapshot. It never writes.
type Builder struct {
	products  ProductReader
	colors    ColorReader
	qualities QualityReader
	logg      *logger.Logger
}

func NewBuilder(products ProductReader, colors ColorReader, qualities QualityReader, logg *logger.Logger) (*Builder, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if colors == nil {
		return nil, fmt.Errorf("color reader required")
	}
	if qualities == nil {
		return nil, fmt.Errorf("quality reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Builder{products: products, colors: colors, qualities: qualities, logg: logg}, nil
}

type pricedItem struct {
	item    models.CartItem
	product *models.Product
	variant *models.ProductVariant
}

// Build prices every item with the current product price and the discount
// stored on the cart item. Any monetary problem fails the whole build.
func (b *Builder) Build(ctx context.Context, items []models.CartItem) (*types.CartSnapshot, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	priced := make([]pricedItem, 0, len(items))
	products := make(map[uuid.UUID]*models.Product, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"product_id": item.ProductID, "quantity": item.Quantity})
		}
		if item.Discount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}

		product, ok := products[item.ProductID]
		if !ok {
			var err error
			product, err = b.products.FindByID(ctx, item.ProductID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			products[item.ProductID] = product
		}
		if product == nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", item.ProductID)
		}
		if !product.Active {
			return nil, pkgerrors.Newf(pkgerrors.CodeProductUnavailable, "product %q is not available", product.Name).
				WithDetails(map[string]any{"product_id": product.ID})
		}
		variant := product.Variant(item.VariantID)
		if variant == nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "variant %s not found for product %q", item.VariantID, product.Name)
		}
		priced = append(priced, pricedItem{item: item, product: product, variant: variant})
	}

	colors := b.loadColors(ctx, priced)
	qualities := make(map[uuid.UUID]string)

	snapshot := &types.CartSnapshot{
		Items:         make([]types.CartLine, 0, len(priced)),
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		Total:         decimal.Zero,
	}
	for _, p := range priced {
		qty := decimal.NewFromInt(int64(p.item.Quantity))
		price := p.product.Price
		discount := p.item.Discount

		line := types.CartLine{
			ProductID:    p.product.ID,
			VariantID:    p.variant.VariantID,
			Size:         p.item.Size,
			Quantity:     p.item.Quantity,
			UnitPrice:    price,
			UnitDiscount: discount,
			LineTotal:    price.Sub(discount).Mul(qty),
			ProductName:  p.product.Name,
			QualityName:  b.qualityName(ctx, qualities, p.product.QualityID),
		}
		if color, ok := colors[p.variant.ColorID]; ok {
			line.ColorName = color.Name
			line.ColorHex = color.HexCode
		}
		if len(p.variant.Images) > 0 {
			line.ImageURL = p.variant.Images[0]
		}

		snapshot.Items = append(snapshot.Items, line)
		snapshot.Subtotal = snapshot.Subtotal.Add(price.Mul(qty))
		snapshot.DiscountTotal = snapshot.DiscountTotal.Add(discount.Mul(qty))
		snapshot.Total = snapshot.Total.Add(line.LineTotal)
	}
	return snapshot, nil
}

func (b *Builder) loadColors(ctx context.Context, priced []pricedItem) map[uuid.UUID]models.Color {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(priced))
	for _, p := range priced {
		if p.variant.ColorID == uuid.Nil {
			continue
		}
		if _, ok := seen[p.variant.ColorID]; ok {
			continue
		}
		seen[p.variant.ColorID] = struct{}{}
		ids = append(ids, p.variant.ColorID)
	}

	out := make(map[uuid.UUID]models.Color, len(ids))
	if len(ids) == 0 {
		return out
	}
	colors, err := b.colors.FindByIDs(ctx, ids)
	if err != nil {
		b.logg.Warn(b.logg.WithField(ctx, "error", err.Error()), "color lookup failed; snapshot lines keep empty color")
		return out
	}
	for _, c := range colors {
		out[c.ID] = c
	}
	return out
}

func (b *Builder) qualityName(ctx context.Context, cache map[uuid.UUID]string, id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	if name, ok := cache[id]; ok {
		return name
	}
	name := ""
	quality, err := b.qualities.FindByID(ctx, id)
	switch {
	case err != nil:
		b.logg.Warn(b.logg.WithField(ctx, "quality_id", id.String()), "quality lookup failed")
	case quality != nil:
		name = quality.Name
	}
	cache[id] = name
	return name
}
