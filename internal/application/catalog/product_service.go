package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	storage     ImageStorage
	publisher   shared.EventPublisher
}

// NewProductService creates a new ProductService. storage may be nil when
// object storage is disabled.
func NewProductService(productRepo catalog.ProductRepository, storage ImageStorage, publisher shared.EventPublisher) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storage:     storage,
		publisher:   publisher,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(product.Name, req.Description, product.Price); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != "" {
		product.SetImageURL(req.ImageURL)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetActive retrieves a product visible on the storefront
func (s *ProductService) GetActive(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.ErrNotFound
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// ListActive lists products visible on the storefront
func (s *ProductService) ListActive(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	filter.Status = string(catalog.ProductStatusActive)
	return s.List(ctx, filter)
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, description, price := product.Name, product.Description, product.Price
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Price != nil {
		price = *req.Price
	}
	if err := product.Update(name, description, price); err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		product.SetImageURL(strings.TrimSpace(*req.ImageURL))
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// UpdateStatus activates or deactivates a product
func (s *ProductService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch catalog.ProductStatus(req.Status) {
	case catalog.ProductStatusActive:
		err = product.Activate()
	case catalog.ProductStatusInactive:
		err = product.Deactivate()
	default:
		err = shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown product status %q", req.Status))
	}
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a signed delta to the stock of a product
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.AdjustStock(req.Delta); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("stock adjusted",
		zap.String("product_id", id.String()),
		zap.String("sku", product.SKU),
		zap.Int("delta", req.Delta),
		zap.Int("stock", product.Stock),
		zap.String("reason", req.Reason),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// CreateImageUploadURL issues a presigned upload for a new product image and
// points the product at the object URL the upload will create
func (s *ProductService) CreateImageUploadURL(ctx context.Context, id uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	ext, ok := imageExtensions[req.ContentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", fmt.Sprintf("Unsupported image type %q", req.ContentType))
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s.%s", product.ID, uuid.NewString(), ext)
	ticket, err := s.storage.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, err
	}

	product.SetImageURL(ticket.ObjectURL)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadTicket: *ticket,
		Product:      ToProductResponse(product),
	}, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if err := shared.PublishAndClear(ctx, s.publisher, product); err != nil {
		logger.L(ctx).Warn("failed to publish product events", zap.Error(err))
	}
}

func toDomainFilter(filter ProductListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}
