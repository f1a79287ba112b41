// Package service implements the guest profile logic: the consumers that
// derive and maintain the profile from auth's messages, and the local CRUD
// surface that mirrors its changes back to auth.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/guest/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/passwords"
)

// Repository is the guest store interface.
type Repository interface {
	Create(ctx context.Context, guest *models.Guest) error
	Get(ctx context.Context, id int64) (*models.Guest, error)
	GetByAuthID(ctx context.Context, authID int64) (*models.Guest, error)
	Update(ctx context.Context, guest *models.Guest) error
	ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error)
	ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error)
	ListActive(ctx context.Context) ([]models.Guest, error)
}

type Service struct {
	repo   Repository
	bus    messaging.Publisher
	logger *zap.Logger
}

func New(repo Repository, bus messaging.Publisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger.Named("guest_service")}
}

// HandleRegistered creates the profile for a registration consumed from
// auth. Redelivery finds the existing profile and is a no-op.
func (s *Service) HandleRegistered(ctx context.Context, env messaging.Envelope) error {
	var msg messages.GuestRegistered
	if err := env.Decode(&msg); err != nil {
		return err
	}

	if _, err := s.repo.GetByAuthID(ctx, msg.AuthID); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	guest := &models.Guest{
		AuthID:       msg.AuthID,
		Email:        msg.Email,
		PhoneNumber:  msg.PhoneNumber,
		Name:         msg.Name,
		Surname:      msg.Surname,
		PasswordHash: msg.PasswordHash,
		Status:       messages.StatusPending,
		Role:         messages.RoleGuest,
		Gender:       msg.Gender,
	}
	if err := s.repo.Create(ctx, guest); err != nil {
		return fmt.Errorf("failed to create guest profile: %w", err)
	}
	return nil
}

// HandleActivate mirrors account activation onto the profile.
func (s *Service) HandleActivate(ctx context.Context, env messaging.Envelope) error {
	var msg messages.ActivateStatus
	if err := env.Decode(&msg); err != nil {
		return err
	}

	guest, err := s.repo.GetByAuthID(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	switch guest.Status {
	case messages.StatusActive:
		return nil
	case messages.StatusDeleted:
		return errs.ErrAlreadyDeleted
	}
	guest.Status = messages.StatusActive
	return s.repo.Update(ctx, guest)
}

// HandlePasswordReset stores the propagated password hash.
func (s *Service) HandlePasswordReset(ctx context.Context, env messaging.Envelope) error {
	var msg messages.PasswordReset
	if err := env.Decode(&msg); err != nil {
		return err
	}

	guest, err := s.repo.GetByAuthID(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	guest.PasswordHash = msg.PasswordHash
	return s.repo.Update(ctx, guest)
}

// SoftUpdate applies the non-nil fields of the update, keeps untouched
// fields as they are and mirrors the change to auth.
func (s *Service) SoftUpdate(ctx context.Context, update *models.GuestUpdate) (*models.Guest, error) {
	guest, err := s.repo.Get(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	if guest.Status == messages.StatusDeleted {
		return nil, errs.ErrAlreadyDeleted
	}

	if update.Email != nil && *update.Email != guest.Email {
		taken, err := s.repo.ExistsOtherByEmail(ctx, *update.Email, guest.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email %s", errs.ErrDuplicateField, *update.Email)
		}
		guest.Email = *update.Email
	}
	if update.PhoneNumber != nil && *update.PhoneNumber != guest.PhoneNumber {
		taken, err := s.repo.ExistsOtherByPhoneNumber(ctx, *update.PhoneNumber, guest.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, *update.PhoneNumber)
		}
		guest.PhoneNumber = *update.PhoneNumber
	}
	if update.Name != nil {
		guest.Name = *update.Name
	}
	if update.Surname != nil {
		guest.Surname = *update.Surname
	}
	if update.Gender != nil {
		guest.Gender = *update.Gender
	}
	if update.Password != nil {
		hash, err := passwords.Hash(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		guest.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, guest); err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}

	s.publish(messages.TopicAuthUpdate, guest.Email, messages.KindAuthUpdated, messages.AuthUpdated{
		AuthID:      guest.AuthID,
		Name:        guest.Name,
		Surname:     guest.Surname,
		Email:       guest.Email,
		PhoneNumber: guest.PhoneNumber,
	})
	return guest, nil
}

// SoftDelete marks the profile DELETED and mirrors the deletion to auth.
func (s *Service) SoftDelete(ctx context.Context, id int64) (string, error) {
	guest, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if guest.Status == messages.StatusDeleted {
		return "", errs.ErrAlreadyDeleted
	}
	guest.Status = messages.StatusDeleted
	if err := s.repo.Update(ctx, guest); err != nil {
		return "", fmt.Errorf("failed to delete guest: %w", err)
	}

	s.publish(messages.TopicAuthDelete, guest.Email, messages.KindAuthDeleted, messages.AuthDeleted{
		AuthID: guest.AuthID,
		Status: guest.Status,
	})
	return fmt.Sprintf("%s %s has been deleted", guest.Name, guest.Surname), nil
}

func (s *Service) FindAll(ctx context.Context) ([]models.Guest, error) {
	return s.repo.ListActive(ctx)
}

// FindByID returns the guest only when ACTIVE; PENDING and BANNED records
// are rejected, DELETED reads report not found through the same gate.
func (s *Service) FindByID(ctx context.Context, id int64) (*models.Guest, error) {
	guest, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return requireActive(guest)
}

func (s *Service) FindByAuthID(ctx context.Context, authID int64) (*models.Guest, error) {
	guest, err := s.repo.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}
	return requireActive(guest)
}

func requireActive(guest *models.Guest) (*models.Guest, error) {
	if guest.Status != messages.StatusActive {
		return nil, errs.ErrAccountNotActive
	}
	return guest, nil
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
