// Package service implements the manager profile logic, including both
// sides of the company correlation: it consumes the company-assigned id and
// replies with its own so the two aggregates end up referencing each other.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/manager/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/passwords"
)

// Repository is the manager store interface.
type Repository interface {
	Create(ctx context.Context, manager *models.Manager) error
	Get(ctx context.Context, id int64) (*models.Manager, error)
	GetByAuthID(ctx context.Context, authID int64) (*models.Manager, error)
	GetByCompanyID(ctx context.Context, companyID string) (*models.Manager, error)
	GetByCompanyName(ctx context.Context, companyName string) (*models.Manager, error)
	Update(ctx context.Context, manager *models.Manager) error
	ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error)
	ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error)
	ExistsOtherByIdentityNumber(ctx context.Context, identityNumber string, id int64) (bool, error)
	ExistsByCompanyName(ctx context.Context, companyName string) (bool, error)
	ListActive(ctx context.Context) ([]models.Manager, error)
	ListActiveByCompanyName(ctx context.Context, companyName string) ([]models.Manager, error)
}

type Service struct {
	repo   Repository
	bus    messaging.Publisher
	logger *zap.Logger
}

func New(repo Repository, bus messaging.Publisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger.Named("manager_service")}
}

// HandleCompanyRegistered creates the manager profile from a company
// registration consumed from auth. Redelivery is a no-op.
func (s *Service) HandleCompanyRegistered(ctx context.Context, env messaging.Envelope) error {
	var msg messages.CompanyRegistered
	if err := env.Decode(&msg); err != nil {
		return err
	}

	if _, err := s.repo.GetByAuthID(ctx, msg.AuthID); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	manager := &models.Manager{
		AuthID:         msg.AuthID,
		Email:          msg.Email,
		PhoneNumber:    msg.PhoneNumber,
		IdentityNumber: msg.IdentityNumber,
		Name:           msg.Name,
		Surname:        msg.Surname,
		PasswordHash:   msg.PasswordHash,
		Address:        msg.Address,
		CompanyName:    msg.CompanyName,
		DateOfBirth:    msg.DateOfBirth,
		Status:         messages.StatusPending,
		Role:           messages.RoleManager,
		Gender:         msg.Gender,
	}
	if err := s.repo.Create(ctx, manager); err != nil {
		return fmt.Errorf("failed to create manager profile: %w", err)
	}
	return nil
}

// HandleSetCompanyID adopts the id of the company this manager created and
// replies with the manager's own id so the company can reference it back.
// A repeated delivery re-sends the reply but changes nothing locally.
func (s *Service) HandleSetCompanyID(ctx context.Context, env messaging.Envelope) error {
	var msg messages.SetCompanyID
	if err := env.Decode(&msg); err != nil {
		return err
	}

	manager, err := s.repo.GetByCompanyName(ctx, msg.CompanyName)
	if err != nil {
		return err
	}
	if manager.CompanyID != msg.CompanyID {
		manager.CompanyID = msg.CompanyID
		if err := s.repo.Update(ctx, manager); err != nil {
			return fmt.Errorf("failed to set company id: %w", err)
		}
	}

	s.publish(messages.TopicCompanySetManagerID, msg.CompanyName, messages.KindSetManagerID, messages.SetManagerID{
		ManagerID:   manager.ID,
		CompanyName: msg.CompanyName,
	})
	return nil
}

// HandleActivate mirrors account activation onto the profile.
func (s *Service) HandleActivate(ctx context.Context, env messaging.Envelope) error {
	var msg messages.ActivateStatus
	if err := env.Decode(&msg); err != nil {
		return err
	}

	manager, err := s.repo.GetByAuthID(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	switch manager.Status {
	case messages.StatusActive:
		return nil
	case messages.StatusDeleted:
		return errs.ErrAlreadyDeleted
	}
	manager.Status = messages.StatusActive
	return s.repo.Update(ctx, manager)
}

// HandlePasswordReset stores the propagated password hash.
func (s *Service) HandlePasswordReset(ctx context.Context, env messaging.Envelope) error {
	var msg messages.PasswordReset
	if err := env.Decode(&msg); err != nil {
		return err
	}

	manager, err := s.repo.GetByAuthID(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	manager.PasswordHash = msg.PasswordHash
	return s.repo.Update(ctx, manager)
}

// SoftUpdate applies the non-nil fields and mirrors the change to auth.
func (s *Service) SoftUpdate(ctx context.Context, update *models.ManagerUpdate) (*models.Manager, error) {
	manager, err := s.repo.Get(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	if manager.Status == messages.StatusDeleted {
		return nil, errs.ErrAlreadyDeleted
	}

	if update.Email != nil && *update.Email != manager.Email {
		taken, err := s.repo.ExistsOtherByEmail(ctx, *update.Email, manager.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email %s", errs.ErrDuplicateField, *update.Email)
		}
		manager.Email = *update.Email
	}
	if update.PhoneNumber != nil && *update.PhoneNumber != manager.PhoneNumber {
		taken, err := s.repo.ExistsOtherByPhoneNumber(ctx, *update.PhoneNumber, manager.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, *update.PhoneNumber)
		}
		manager.PhoneNumber = *update.PhoneNumber
	}
	if update.IdentityNumber != nil && *update.IdentityNumber != manager.IdentityNumber {
		taken, err := s.repo.ExistsOtherByIdentityNumber(ctx, *update.IdentityNumber, manager.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: identity number %s", errs.ErrDuplicateField, *update.IdentityNumber)
		}
		manager.IdentityNumber = *update.IdentityNumber
	}
	if update.Name != nil {
		manager.Name = *update.Name
	}
	if update.Surname != nil {
		manager.Surname = *update.Surname
	}
	if update.Address != nil {
		manager.Address = *update.Address
	}
	if update.CompanyName != nil {
		manager.CompanyName = *update.CompanyName
	}
	if update.Title != nil {
		manager.Title = *update.Title
	}
	if update.Salary != nil {
		manager.Salary = *update.Salary
	}
	if update.Photo != nil {
		manager.Photo = *update.Photo
	}
	if update.DateOfBirth != nil {
		manager.DateOfBirth = *update.DateOfBirth
	}
	if update.Gender != nil {
		manager.Gender = *update.Gender
	}
	if update.Password != nil {
		hash, err := passwords.Hash(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		manager.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, manager); err != nil {
		return nil, fmt.Errorf("failed to update manager: %w", err)
	}

	s.publish(messages.TopicAuthUpdate, manager.Email, messages.KindAuthUpdated, messages.AuthUpdated{
		AuthID:      manager.AuthID,
		Name:        manager.Name,
		Surname:     manager.Surname,
		Email:       manager.Email,
		PhoneNumber: manager.PhoneNumber,
	})
	return manager, nil
}

// SoftDelete marks the profile DELETED and mirrors the deletion to auth.
func (s *Service) SoftDelete(ctx context.Context, id int64) (string, error) {
	manager, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if manager.Status == messages.StatusDeleted {
		return "", errs.ErrAlreadyDeleted
	}
	manager.Status = messages.StatusDeleted
	if err := s.repo.Update(ctx, manager); err != nil {
		return "", fmt.Errorf("failed to delete manager: %w", err)
	}

	s.publish(messages.TopicAuthDelete, manager.Email, messages.KindAuthDeleted, messages.AuthDeleted{
		AuthID: manager.AuthID,
		Status: manager.Status,
	})
	return fmt.Sprintf("%s %s has been deleted", manager.Name, manager.Surname), nil
}

func (s *Service) FindAll(ctx context.Context) ([]models.Manager, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) FindByID(ctx context.Context, id int64) (*models.Manager, error) {
	manager, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return requireActive(manager)
}

func (s *Service) FindByAuthID(ctx context.Context, authID int64) (*models.Manager, error) {
	manager, err := s.repo.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}
	return requireActive(manager)
}

func (s *Service) FindByCompanyID(ctx context.Context, companyID string) (*models.Manager, error) {
	manager, err := s.repo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return requireActive(manager)
}

// FindByCompanyName lists the active managers of a company.
func (s *Service) FindByCompanyName(ctx context.Context, companyName string) ([]models.Manager, error) {
	exists, err := s.repo.ExistsByCompanyName(ctx, companyName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: company %s", errs.ErrNotFound, companyName)
	}
	return s.repo.ListActiveByCompanyName(ctx, companyName)
}

func requireActive(manager *models.Manager) (*models.Manager, error) {
	if manager.Status != messages.StatusActive {
		return nil, errs.ErrAccountNotActive
	}
	return manager, nil
}

func (s *Service) publish(topic, key, kind string, payload interface{}) {
	env, err := messaging.NewEnvelope(kind, payload)
	if err != nil {
		s.logger.Error("failed to build envelope",
			zap.Error(err),
			zap.String("kind", kind),
		)
		return
	}
	s.bus.Publish(topic, key, env)
}
