// Package db implements the admin profile store on GORM/Postgres.
package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hrms/internal/admin/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewWithDB(gdb)
}

// NewWithDB wraps an already-open gorm handle. Tests use it with SQLite.
func NewWithDB(gdb *gorm.DB) (*Repository, error) {
	if err := gdb.AutoMigrate(&models.Admin{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: gdb}, nil
}

func (r *Repository) Create(ctx context.Context, admin *models.Admin) error {
	result := r.db.WithContext(ctx).Create(admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.ErrDuplicateField
		}
		return result.Error
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*models.Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByAuthID(ctx context.Context, authID int64) (*models.Admin, error) {
	return r.first(ctx, "auth_id = ?", authID)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *Repository) first(ctx context.Context, query string, args ...interface{}) (*models.Admin, error) {
	var admin models.Admin
	result := r.db.WithContext(ctx).First(&admin, append([]interface{}{query}, args...)...)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, result.Error
	}
	return &admin, nil
}

func (r *Repository) Update(ctx context.Context, admin *models.Admin) error {
	result := r.db.WithContext(ctx).Save(admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.ErrDuplicateField
		}
		return result.Error
	}
	return nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *Repository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone_number = ?", phone)
}

func (r *Repository) ExistsByIdentityNumber(ctx context.Context, identityNumber string) (bool, error) {
	return r.exists(ctx, "identity_number = ?", identityNumber)
}

func (r *Repository) ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error) {
	return r.exists(ctx, "email = ? AND id <> ?", email, id)
}

func (r *Repository) ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error) {
	return r.exists(ctx, "phone_number = ? AND id <> ?", phone, id)
}

func (r *Repository) ExistsOtherByIdentityNumber(ctx context.Context, identityNumber string, id int64) (bool, error) {
	return r.exists(ctx, "identity_number = ? AND id <> ?", identityNumber, id)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where(query, args...).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	result := r.db.WithContext(ctx).
		Where("status = ?", messages.StatusActive).
		Find(&admins)
	return admins, result.Error
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
