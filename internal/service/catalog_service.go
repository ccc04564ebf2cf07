package service

import (
	"context"
	"errors"

	"github.com/GestharPDV/gesthar-pdv/internal/domerr"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"
	"github.com/GestharPDV/gesthar-pdv/internal/sku"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages the product catalog: lookup tables, products and
// their sellable variations. Names are standardized before persisting and
// SKUs are generated from the product, color and size names.
type CatalogService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.LookupResponse, error)
	ListCategories(ctx context.Context) ([]dto.LookupResponse, error)
	CreateColor(ctx context.Context, req dto.CreateColorRequest) (*dto.LookupResponse, error)
	ListColors(ctx context.Context) ([]dto.LookupResponse, error)
	CreateSize(ctx context.Context, req dto.CreateSizeRequest) (*dto.LookupResponse, error)
	ListSizes(ctx context.Context) ([]dto.LookupResponse, error)
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.LookupResponse, error)
	ListSuppliers(ctx context.Context) ([]dto.LookupResponse, error)

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	ReactivateProduct(ctx context.Context, id uuid.UUID) error

	CreateVariation(ctx context.Context, req dto.CreateVariationRequest) (*dto.VariationResponse, error)
	PriceCheck(ctx context.Context, skuCode string) (*dto.PriceCheckResponse, error)
}

type catalogService struct {
	catalog    repository.CatalogRepository
	products   repository.ProductRepository
	variations repository.VariationRepository
}

func NewCatalogService(
	catalog repository.CatalogRepository,
	products repository.ProductRepository,
	variations repository.VariationRepository,
) CatalogService {
	return &catalogService{catalog: catalog, products: products, variations: variations}
}

// ── Lookup tables ─────────────────────────────────────────────────────────────

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.LookupResponse, error) {
	category := &model.Category{
		Name:        sku.StandardizeName(req.Name),
		Description: req.Description,
	}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return &dto.LookupResponse{ID: category.ID.String(), Name: category.Name}, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.LookupResponse, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LookupResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.LookupResponse{ID: c.ID.String(), Name: c.Name})
	}
	return out, nil
}

func (s *catalogService) CreateColor(ctx context.Context, req dto.CreateColorRequest) (*dto.LookupResponse, error) {
	color := &model.Color{Name: sku.StandardizeName(req.Name)}
	if err := s.catalog.CreateColor(ctx, color); err != nil {
		return nil, err
	}
	return &dto.LookupResponse{ID: color.ID.String(), Name: color.Name}, nil
}

func (s *catalogService) ListColors(ctx context.Context) ([]dto.LookupResponse, error) {
	colors, err := s.catalog.ListColors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LookupResponse, 0, len(colors))
	for _, c := range colors {
		out = append(out, dto.LookupResponse{ID: c.ID.String(), Name: c.Name})
	}
	return out, nil
}

func (s *catalogService) CreateSize(ctx context.Context, req dto.CreateSizeRequest) (*dto.LookupResponse, error) {
	size := &model.Size{
		Name: sku.StandardizeName(req.Name),
		Code: req.Code,
	}
	if err := s.catalog.CreateSize(ctx, size); err != nil {
		return nil, err
	}
	return &dto.LookupResponse{ID: size.ID.String(), Name: size.Name, Code: size.Code}, nil
}

func (s *catalogService) ListSizes(ctx context.Context) ([]dto.LookupResponse, error) {
	sizes, err := s.catalog.ListSizes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LookupResponse, 0, len(sizes))
	for _, sz := range sizes {
		out = append(out, dto.LookupResponse{ID: sz.ID.String(), Name: sz.Name, Code: sz.Code})
	}
	return out, nil
}

func (s *catalogService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.LookupResponse, error) {
	supplier := &model.Supplier{Name: sku.StandardizeName(req.Name)}
	if err := s.catalog.CreateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	return &dto.LookupResponse{ID: supplier.ID.String(), Name: supplier.Name}, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]dto.LookupResponse, error) {
	suppliers, err := s.catalog.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LookupResponse, 0, len(suppliers))
	for _, sp := range suppliers {
		out = append(out, dto.LookupResponse{ID: sp.ID.String(), Name: sp.Name})
	}
	return out, nil
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}
	if _, err := s.catalog.FindCategoryByID(ctx, categoryID); err != nil {
		return nil, domerr.ErrNotFound
	}
	if _, err := s.catalog.FindSupplierByID(ctx, supplierID); err != nil {
		return nil, domerr.ErrNotFound
	}

	product := &model.Product{
		Name:         sku.StandardizeName(req.Name),
		Description:  req.Description,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		CategoryID:   categoryID,
		SupplierID:   supplierID,
		Active:       true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrNotFound
		}
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		product.Name = sku.StandardizeName(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, domerr.ErrNotFound
		}
		if _, err := s.catalog.FindCategoryByID(ctx, categoryID); err != nil {
			return nil, domerr.ErrNotFound
		}
		product.CategoryID = categoryID
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, domerr.ErrNotFound
		}
		if _, err := s.catalog.FindSupplierByID(ctx, supplierID); err != nil {
			return nil, domerr.ErrNotFound
		}
		product.SupplierID = supplierID
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domerr.ErrNotFound
		}
		return err
	}
	return s.products.SoftDelete(ctx, id)
}

func (s *catalogService) ReactivateProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domerr.ErrNotFound
		}
		return err
	}
	return s.products.Reactivate(ctx, id)
}

// ── Variations ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateVariation(ctx context.Context, req dto.CreateVariationRequest) (*dto.VariationResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}
	colorID, err := uuid.Parse(req.ColorID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}
	sizeID, err := uuid.Parse(req.SizeID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}
	color, err := s.catalog.FindColorByID(ctx, colorID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}
	size, err := s.catalog.FindSizeByID(ctx, sizeID)
	if err != nil {
		return nil, domerr.ErrNotFound
	}

	variation := &model.ProductVariation{
		SKU:          sku.Generate(product.Name, color.Name, size.Code),
		ProductID:    productID,
		ColorID:      colorID,
		SizeID:       sizeID,
		MinimumStock: req.MinimumStock,
	}
	if err := s.variations.Create(ctx, variation); err != nil {
		return nil, err
	}

	return &dto.VariationResponse{
		ID:           variation.ID.String(),
		SKU:          variation.SKU,
		Stock:        variation.Stock,
		MinimumStock: variation.MinimumStock,
		Color:        color.Name,
		Size:         size.Name,
	}, nil
}

// PriceCheck resolves a SKU to its current price and availability.
/// Read-only: no side effects, safe to serve without authentication.
func (s *catalogService) PriceCheck(ctx context.Context, skuCode string) (*dto.PriceCheckResponse, error) {
	variation, err := s.variations.FindBySKU(ctx, skuCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrVariationNotFound
		}
		return nil, err
	}

	resp := &dto.PriceCheckResponse{
		SKU:   variation.SKU,
		Stock: variation.Stock,
	}
	if variation.Product != nil {
		resp.Product = variation.Product.Name
		resp.SellingPrice = variation.Product.SellingPrice
	}
	if variation.Color != nil {
		resp.Color = variation.Color.Name
	}
	if variation.Size != nil {
		resp.Size = variation.Size.Name
	}
	return resp, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	variations := make([]dto.VariationResponse, 0, len(p.Variations))
	for _, v := range p.Variations {
		colorName := ""
		sizeName := ""
		if v.Color != nil {
			colorName = v.Color.Name
		}
		if v.Size != nil {
			sizeName = v.Size.Name
		}
		variations = append(variations, dto.VariationResponse{
			ID:           v.ID.String(),
			SKU:          v.SKU,
			Stock:        v.Stock,
			MinimumStock: v.MinimumStock,
			Color:        colorName,
			Size:         sizeName,
		})
	}

	categoryName := ""
	supplierName := ""
	if p.Category != nil {
		categoryName = p.Category.Name
	}
	if p.Supplier != nil {
		supplierName = p.Supplier.Name
	}

	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		ProfitMargin: p.ProfitMargin(),
		Category:     categoryName,
		Supplier:     supplierName,
		TotalStock:   p.TotalStock(),
		Active:       p.Active,
		Variations:   variations,
	}
}
