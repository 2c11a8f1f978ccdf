package db

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantRepository manages tenant registration. Authentication against
// the stored API key belongs to the boundary layer, not this package.
type TenantRepository interface {
	Create(ctx context.Context, name string) (*Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
}

// tenantRepository implements TenantRepository using GORM
type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// Create registers a tenant with a generated UUID and API key
func (r *tenantRepository) Create(ctx context.Context, name string) (*Tenant, error) {
	key, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	tenant := &Tenant{
		ID:     uuid.NewString(),
		Name:   name,
		APIKey: key,
	}
	if err := r.db.WithContext(ctx).Create(tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAPIKey
		}
		return nil, err
	}
	return tenant, nil
}

// GetByID retrieves a tenant by its UUID
func (r *tenantRepository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	var tenant Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByAPIKey retrieves a tenant by its API key
func (r *tenantRepository) GetByAPIKey(ctx context.Context, apiKey string) (*Tenant, error) {
	var tenant Tenant
	err := r.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// List retrieves all tenants ordered by creation time
func (r *tenantRepository) List(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&tenants).Error
	return tenants, err
}

// generateAPIKey returns a 32-byte random key, hex encoded with an
// "el_" prefix so keys are recognizable in logs and configs
func generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return "el_" + hex.EncodeToString(bytes), nil
}
