package matching

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BatchRequest is the payload of a bulk import match.
type BatchRequest struct {
	Products              []ImportProduct `json:"products" validate:"required,min=1"`
	ExistingBrands        []Entity        `json:"existingBrands"`
	ExistingCategories    []Entity        `json:"existingCategories"`
	ExistingSubcategories []Entity        `json:"existingSubcategories"`
}

// ProductMatch holds the three attribute decisions for one product.
type ProductMatch struct {
	Product          ImportProduct `json:"product"`
	BrandMatch       MatchResult   `json:"brandMatch"`
	CategoryMatch    MatchResult   `json:"categoryMatch"`
	SubcategoryMatch MatchResult   `json:"subcategoryMatch"`
}

// FullyMatched reports whether every attribute the product carries resolved
// to an existing entity.
func (p ProductMatch) FullyMatched() bool {
	for _, res := range []MatchResult{p.BrandMatch, p.CategoryMatch, p.SubcategoryMatch} {
		if res.ShouldCreate {
			return false
		}
	}
	return p.BrandMatch.Matched || p.CategoryMatch.Matched || p.SubcategoryMatch.Matched
}

// Summary counts the entities a batch would create.
type Summary struct {
	Total                 int `json:"total"`
	BrandsToCreate        int `json:"brandsToCreate"`
	CategoriesToCreate    int `json:"categoriesToCreate"`
	SubcategoriesToCreate int `json:"subcategoriesToCreate"`
	FullyMatched          int `json:"fullyMatched"`
}

// BatchResult is the per-product outcome plus the batch summary.
type BatchResult struct {
	Results []ProductMatch `json:"results"`
	Summary Summary        `json:"summary"`
}

// MatchBatch matches brand, category and subcategory of every product in
// order. It only fails when ctx is done before the batch completes.
func (m *Matcher) MatchBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	ctx, span := otel.Tracer("matching").Start(ctx, "matching.MatchBatch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("match.products", len(req.Products)),
		attribute.Int("match.brands", len(req.ExistingBrands)),
		attribute.Int("match.categories", len(req.ExistingCategories)),
		attribute.Int("match.subcategories", len(req.ExistingSubcategories)),
	)

	out := BatchResult{Results: make([]ProductMatch, 0, len(req.Products))}
	for _, product := range req.Products {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return BatchResult{}, err
		}
		pm := ProductMatch{
			Product:          product,
			BrandMatch:       m.MatchLocally(product.Brand, req.ExistingBrands, ItemBrand),
			CategoryMatch:    m.MatchLocally(product.Category, req.ExistingCategories, ItemCategory),
			SubcategoryMatch: m.MatchLocally(product.SubCategory, req.ExistingSubcategories, ItemSubcategory),
		}
		out.Results = append(out.Results, pm)
		out.Summary.tally(pm)
	}

	span.SetAttributes(attribute.Int("match.fully_matched", out.Summary.FullyMatched))
	return out, nil
}

func (s *Summary) tally(pm ProductMatch) {
	s.Total++
	if pm.BrandMatch.ShouldCreate {
		s.BrandsToCreate++
	}
	if pm.CategoryMatch.ShouldCreate {
		s.CategoriesToCreate++
	}
	if pm.SubcategoryMatch.ShouldCreate {
		s.SubcategoriesToCreate++
	}
	if pm.FullyMatched() {
		s.FullyMatched++
	}
}
