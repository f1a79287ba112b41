// Package service implements the user directory: a cross-role aggregate fed
// by the registration fan-out and queried for staffing summaries.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/user/models"
)

// Repository is the user directory store interface.
type Repository interface {
	Create(ctx context.Context, user *models.UserInfo) error
	GetByAuthID(ctx context.Context, authID int64) (*models.UserInfo, error)
	GetByUsername(ctx context.Context, username string) (*models.UserInfo, error)
	Update(ctx context.Context, user *models.UserInfo) error
	CountByRole(ctx context.Context, role messages.Role) (int64, error)
	ListByRole(ctx context.Context, role messages.Role) ([]models.UserInfo, error)
}

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("user_service")}
}

// HandleGuestRegistered derives a directory entry from a guest registration.
// Redelivery finds the existing entry and is a no-op.
func (s *Service) HandleGuestRegistered(ctx context.Context, env messaging.Envelope) error {
	var msg messages.GuestRegistered
	if err := env.Decode(&msg); err != nil {
		return err
	}
	return s.createOnce(ctx, &models.UserInfo{
		AuthID:      msg.AuthID,
		Name:        msg.Name,
		Surname:     msg.Surname,
		Email:       msg.Email,
		PhoneNumber: msg.PhoneNumber,
		Role:        msg.Role,
		Gender:      msg.Gender,
		Status:      messages.StatusPending,
	})
}

// HandleCompanyRegistered derives a directory entry from a company
// registration.
func (s *Service) HandleCompanyRegistered(ctx context.Context, env messaging.Envelope) error {
	var msg messages.CompanyRegistered
	if err := env.Decode(&msg); err != nil {
		return err
	}
	return s.createOnce(ctx, &models.UserInfo{
		AuthID:      msg.AuthID,
		Name:        msg.Name,
		Surname:     msg.Surname,
		Email:       msg.Email,
		PhoneNumber: msg.PhoneNumber,
		Role:        msg.Role,
		Gender:      msg.Gender,
		Status:      messages.StatusPending,
	})
}

func (s *Service) createOnce(ctx context.Context, user *models.UserInfo) error {
	if _, err := s.repo.GetByAuthID(ctx, user.AuthID); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user entry: %w", err)
	}
	return nil
}

// InsertEmployee adds a roster entry directly, deduplicated on username.
func (s *Service) InsertEmployee(ctx context.Context, insert *models.EmployeeInsert) (*models.UserInfo, error) {
	if _, err := s.repo.GetByUsername(ctx, insert.Username); err == nil {
		return nil, fmt.Errorf("%w: username %s", errs.ErrDuplicateField, insert.Username)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	user := &models.UserInfo{
		Username:    insert.Username,
		Name:        insert.Name,
		Surname:     insert.Surname,
		Email:       insert.Email,
		PhoneNumber: insert.PhoneNumber,
		Role:        messages.RoleEmployee,
		Gender:      insert.Gender,
		Status:      messages.StatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}
	return user, nil
}

// UpdateProfileInfo applies the non-nil fields of the update to the entry
// with the given auth correlation.
func (s *Service) UpdateProfileInfo(ctx context.Context, update *models.ProfileInfoUpdate) (*models.UserInfo, error) {
	user, err := s.repo.GetByAuthID(ctx, update.AuthID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Surname != nil {
		user.Surname = *update.Surname
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.PhoneNumber != nil {
		user.PhoneNumber = *update.PhoneNumber
	}
	if update.Gender != nil {
		user.Gender = *update.Gender
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user entry: %w", err)
	}
	return user, nil
}

func (s *Service) FindByAuthID(ctx context.Context, authID int64) (*models.UserInfo, error) {
	return s.repo.GetByAuthID(ctx, authID)
}

// HeadCount sums the staffed roles. Guests are visitors, not staff.
func (s *Service) HeadCount(ctx context.Context) (*models.HeadCount, error) {
	employees, err := s.repo.CountByRole(ctx, messages.RoleEmployee)
	if err != nil {
		return nil, err
	}
	managers, err := s.repo.CountByRole(ctx, messages.RoleManager)
	if err != nil {
		return nil, err
	}
	return &models.HeadCount{
		Employees: employees,
		Managers:  managers,
		Total:     employees + managers,
	}, nil
}

// EmployeeRoster lists the employee directory entries.
func (s *Service) EmployeeRoster(ctx context.Context) ([]models.UserInfo, error) {
	return s.repo.ListByRole(ctx, messages.RoleEmployee)
}
