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

type VendorRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
	IsActive      *bool  `json:"is_active"`
}

type VendorService interface {
	CreateVendor(ctx context.Context, req VendorRequest) (*model.Vendor, error)
	GetVendor(ctx context.Context, id string) (*model.Vendor, error)
	ListVendors(ctx context.Context, search string, page, limit int) ([]model.Vendor, int64, error)
	UpdateVendor(ctx context.Context, id string, req VendorRequest) (*model.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
}

type vendorService struct {
	vendorRepo repository.VendorRepository
}

func NewVendorService(vendorRepo repository.VendorRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo}
}

func (s *vendorService) CreateVendor(ctx context.Context, req VendorRequest) (*model.Vendor, error) {
	vendor := &model.Vendor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Notes:         req.Notes,
		IsActive:      true,
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}
	return vendor, nil
}

func (s *vendorService) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vendor id", ErrValidation)
	}
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vendor", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return vendor, nil
}

func (s *vendorService) ListVendors(ctx context.Context, search string, page, limit int) ([]model.Vendor, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.vendorRepo.List(ctx, search, page, limit)
}

func (s *vendorService) UpdateVendor(ctx context.Context, id string, req VendorRequest) (*model.Vendor, error) {
	vendor, err := s.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}

	vendor.Name = req.Name
	vendor.ContactPerson = req.ContactPerson
	vendor.Phone = req.Phone
	vendor.Email = req.Email
	vendor.Address = req.Address
	vendor.Notes = req.Notes
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return vendor, nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, id string) error {
	vendor, err := s.GetVendor(ctx, id)
	if err != nil {
		return err
	}
	return s.vendorRepo.Delete(ctx, vendor.ID)
}
