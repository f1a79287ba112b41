// Package db implements the guest profile store on GORM/Postgres.
package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hrms/internal/guest/models"
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
	if err := gdb.AutoMigrate(&models.Guest{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: gdb}, nil
}

func (r *Repository) Create(ctx context.Context, guest *models.Guest) error {
	result := r.db.WithContext(ctx).Create(guest)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.ErrDuplicateField
		}
		return result.Error
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*models.Guest, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByAuthID(ctx context.Context, authID int64) (*models.Guest, error) {
	return r.first(ctx, "auth_id = ?", authID)
}

func (r *Repository) first(ctx context.Context, query string, args ...interface{}) (*models.Guest, error) {
	var guest models.Guest
	result := r.db.WithContext(ctx).First(&guest, append([]interface{}{query}, args...)...)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, result.Error
	}
	return &guest, nil
}

func (r *Repository) Update(ctx context.Context, guest *models.Guest) error {
	result := r.db.WithContext(ctx).Save(guest)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.ErrDuplicateField
		}
		return result.Error
	}
	return nil
}

// ExistsOtherByEmail reports whether another guest already uses the email.
func (r *Repository) ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error) {
	return r.exists(ctx, "email = ? AND id <> ?", email, id)
}

func (r *Repository) ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error) {
	return r.exists(ctx, "phone_number = ? AND id <> ?", phone, id)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Guest{}).
		Where(query, args...).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	result := r.db.WithContext(ctx).
		Where("status = ?", messages.StatusActive).
		Find(&guests)
	return guests, result.Error
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
