package service

import (
	"context"
	"errors"
	"fmt"

	"textile-backend/internal/model"
	"textile-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	ListCustomers(ctx context.Context, search string, page, limit int) ([]model.Customer, int64, error)
	UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
		Notes:   req.Notes,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", ErrValidation)
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context, search string, page, limit int) ([]model.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.customerRepo.List(ctx, search, page, limit)
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*model.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	customer.City = req.City
	customer.Notes = req.Notes

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, customer.ID)
}
