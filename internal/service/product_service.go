package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// ProductService manages the menu.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// ProductInput describes a product payload.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Active      bool
}

// NewProductService constructs the service.
func NewProductService(products repository.ProductRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, dispatcher: dispatcher}
}

// CreateProduct validates and persists a menu item.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		Active:      input.Active,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publishChange(ctx, product.ID, "created")
	return product, nil
}

// UpdateProduct replaces a product's fields.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Category = strings.TrimSpace(input.Category)
	product.Price = input.Price
	product.Active = input.Active
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publishChange(ctx, product.ID, "updated")
	return product, nil
}

// GetProduct fetches one product.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns the full menu.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return err
	}
	s.publishChange(ctx, id, "deleted")
	return nil
}

// ToggleProduct flips a product's availability.
func (s *ProductService) ToggleProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Active = !product.Active
	if err := s.products.SetActive(ctx, id, product.Active); err != nil {
		return nil, err
	}
	s.publishChange(ctx, id, "toggled")
	return product, nil
}

func (s *ProductService) publishChange(ctx context.Context, id int64, action string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventProductChanged,
		Timestamp: time.Now(),
		Payload:   events.ProductChangedPayload{ProductID: id, Action: action},
	})
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("product name is required", nil)
	}
	if input.Price < 0 {
		return apperrors.NewValidationError("price cannot be negative", nil)
	}
	return nil
}
