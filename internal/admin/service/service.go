// Package service implements the admin profile logic. Admins are provisioned
// profile-first like employees, but supply their own password and receive no
// welcome mail.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/admin/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/passwords"
)

// Repository is the admin store interface.
type Repository interface {
	Create(ctx context.Context, admin *models.Admin) error
	Get(ctx context.Context, id int64) (*models.Admin, error)
	GetByAuthID(ctx context.Context, authID int64) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
	ExistsByIdentityNumber(ctx context.Context, identityNumber string) (bool, error)
	ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error)
	ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error)
	ExistsOtherByIdentityNumber(ctx context.Context, identityNumber string, id int64) (bool, error)
	ListActive(ctx context.Context) ([]models.Admin, error)
}

type Service struct {
	repo   Repository
	bus    messaging.Publisher
	logger *zap.Logger
}

func New(repo Repository, bus messaging.Publisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger.Named("admin_service")}
}

// Save provisions an admin and asks auth to create the matching identity.
// The profile is ACTIVE from the start; provisioned accounts skip activation.
func (s *Service) Save(ctx context.Context, save *models.AdminSave) (*models.Admin, error) {
	if err := s.checkUnique(ctx, save.Email, save.PhoneNumber, save.IdentityNumber); err != nil {
		return nil, err
	}

	hash, err := passwords.Hash(save.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Email:          save.Email,
		PhoneNumber:    save.PhoneNumber,
		IdentityNumber: save.IdentityNumber,
		Name:           save.Name,
		Surname:        save.Surname,
		PasswordHash:   hash,
		Address:        save.Address,
		DateOfBirth:    save.DateOfBirth,
		Status:         messages.StatusActive,
		Role:           messages.RoleAdmin,
		Gender:         save.Gender,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.publish(messages.TopicAdminSave, admin.Email, messages.KindAdminSaved, messages.AdminSaved{
		Name:           admin.Name,
		Surname:        admin.Surname,
		Email:          admin.Email,
		PasswordHash:   admin.PasswordHash,
		PhoneNumber:    admin.PhoneNumber,
		IdentityNumber: admin.IdentityNumber,
		Role:           admin.Role,
		Gender:         admin.Gender,
	})
	return admin, nil
}

// HandleSetAuthID back-fills the identity correlation. The profile is looked
// up by email; redelivery with the id already set is a no-op.
func (s *Service) HandleSetAuthID(ctx context.Context, env messaging.Envelope) error {
	var msg messages.SetAuthID
	if err := env.Decode(&msg); err != nil {
		return err
	}

	admin, err := s.repo.GetByEmail(ctx, msg.Email)
	if err != nil {
		return err
	}
	if admin.AuthID == msg.AuthID {
		return nil
	}
	admin.AuthID = msg.AuthID
	return s.repo.Update(ctx, admin)
}

// HandlePasswordReset stores the propagated password hash.
func (s *Service) HandlePasswordReset(ctx context.Context, env messaging.Envelope) error {
	var msg messages.PasswordReset
	if err := env.Decode(&msg); err != nil {
		return err
	}

	admin, err := s.repo.GetByAuthID(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	admin.PasswordHash = msg.PasswordHash
	return s.repo.Update(ctx, admin)
}

// SoftUpdate applies the non-nil fields of the update and mirrors the change
// to auth.
func (s *Service) SoftUpdate(ctx context.Context, update *models.AdminUpdate) (*models.Admin, error) {
	admin, err := s.repo.Get(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	if admin.Status == messages.StatusDeleted {
		return nil, errs.ErrAlreadyDeleted
	}

	if update.Email != nil && *update.Email != admin.Email {
		taken, err := s.repo.ExistsOtherByEmail(ctx, *update.Email, admin.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email %s", errs.ErrDuplicateField, *update.Email)
		}
		admin.Email = *update.Email
	}
	if update.PhoneNumber != nil && *update.PhoneNumber != admin.PhoneNumber {
		taken, err := s.repo.ExistsOtherByPhoneNumber(ctx, *update.PhoneNumber, admin.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, *update.PhoneNumber)
		}
		admin.PhoneNumber = *update.PhoneNumber
	}
	if update.IdentityNumber != nil && *update.IdentityNumber != admin.IdentityNumber {
		taken, err := s.repo.ExistsOtherByIdentityNumber(ctx, *update.IdentityNumber, admin.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: identity number %s", errs.ErrDuplicateField, *update.IdentityNumber)
		}
		admin.IdentityNumber = *update.IdentityNumber
	}
	if update.Name != nil {
		admin.Name = *update.Name
	}
	if update.Surname != nil {
		admin.Surname = *update.Surname
	}
	if update.Address != nil {
		admin.Address = *update.Address
	}
	if update.DateOfBirth != nil {
		admin.DateOfBirth = *update.DateOfBirth
	}
	if update.Gender != nil {
		admin.Gender = *update.Gender
	}
	if update.Password != nil {
		hash, err := passwords.Hash(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		admin.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}

	s.publish(messages.TopicAuthUpdate, admin.Email, messages.KindAuthUpdated, messages.AuthUpdated{
		AuthID:      admin.AuthID,
		Name:        admin.Name,
		Surname:     admin.Surname,
		Email:       admin.Email,
		PhoneNumber: admin.PhoneNumber,
	})
	return admin, nil
}

// SoftDelete marks the profile DELETED and mirrors the deletion to auth.
func (s *Service) SoftDelete(ctx context.Context, id int64) (string, error) {
	admin, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if admin.Status == messages.StatusDeleted {
		return "", errs.ErrAlreadyDeleted
	}
	admin.Status = messages.StatusDeleted
	if err := s.repo.Update(ctx, admin); err != nil {
		return "", fmt.Errorf("failed to delete admin: %w", err)
	}

	s.publish(messages.TopicAuthDelete, admin.Email, messages.KindAuthDeleted, messages.AuthDeleted{
		AuthID: admin.AuthID,
		Status: admin.Status,
	})
	return fmt.Sprintf("%s %s has been deleted", admin.Name, admin.Surname), nil
}

func (s *Service) FindAll(ctx context.Context) ([]models.Admin, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	admin, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return requireActive(admin)
}

func (s *Service) FindByAuthID(ctx context.Context, authID int64) (*models.Admin, error) {
	admin, err := s.repo.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}
	return requireActive(admin)
}

func (s *Service) checkUnique(ctx context.Context, email, phone, identityNumber string) error {
	taken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email %s", errs.ErrDuplicateField, email)
	}
	taken, err = s.repo.ExistsByPhoneNumber(ctx, phone)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, phone)
	}
	taken, err = s.repo.ExistsByIdentityNumber(ctx, identityNumber)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: identity number %s", errs.ErrDuplicateField, identityNumber)
	}
	return nil
}

func requireActive(admin *models.Admin) (*models.Admin, error) {
	if admin.Status != messages.StatusActive {
		return nil, errs.ErrAccountNotActive
	}
	return admin, nil
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
