// Package service implements the identity business logic: registration,
// the account lifecycle state machine, login, password resets, and the
// consumers that keep the identity store consistent with the profile
// services.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/auth/models"
	"hrms/internal/pkg/codes"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/passwords"
	"hrms/internal/pkg/token"
)

// Repository is the identity store interface.
type Repository interface {
	Create(ctx context.Context, identity *models.Identity) error
	Get(ctx context.Context, id int64) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	Update(ctx context.Context, identity *models.Identity) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
	ExistsByIdentityNumber(ctx context.Context, identityNumber string) (bool, error)
	ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error)
	ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error)
	ListActive(ctx context.Context) ([]models.Identity, error)
}

// Service orchestrates identity writes and the resulting message fan-out.
type Service struct {
	repo          Repository
	bus           messaging.Publisher
	tokens        *token.Manager
	activationURL string
	logger        *zap.Logger

	// Role registries replace role if/else chains: adding a role is a new
	// entry here, not an edit of every dispatch site.
	activateTopics map[messages.Role]string
	resetTopics    map[messages.Role]string
}

func New(repo Repository, bus messaging.Publisher, tokens *token.Manager, activationURL string, logger *zap.Logger) *Service {
	return &Service{
		repo:          repo,
		bus:           bus,
		tokens:        tokens,
		activationURL: activationURL,
		logger:        logger.Named("auth_service"),
		activateTopics: map[messages.Role]string{
			messages.RoleGuest:   messages.TopicGuestActivate,
			messages.RoleManager: messages.TopicManagerActivate,
		},
		resetTopics: map[messages.Role]string{
			messages.RoleGuest:    messages.TopicGuestForgotPassword,
			messages.RoleEmployee: messages.TopicEmployeeForgotPassword,
			messages.RoleManager:  messages.TopicManagerForgotPassword,
		},
	}
}

// GuestRegister creates a PENDING guest identity, fans the registration out
// to the guest and user services, and sends the activation mail.
func (s *Service) GuestRegister(ctx context.Context, reg models.GuestRegistration) (*models.Identity, error) {
	if reg.Email == "" || reg.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", errs.ErrInvalidInput)
	}
	if err := s.checkUnique(ctx, reg.Email, reg.PhoneNumber, ""); err != nil {
		return nil, err
	}

	hash, err := passwords.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &models.Identity{
		Email:        reg.Email,
		PhoneNumber:  reg.PhoneNumber,
		PasswordHash: hash,
		Name:         reg.Name,
		Surname:      reg.Surname,
		Role:         messages.RoleGuest,
		Status:       messages.StatusPending,
		Gender:       reg.Gender,
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	s.publish(messages.TopicGuestRegister, identity.Email, messages.KindGuestRegistered, messages.GuestRegistered{
		AuthID:       identity.ID,
		Name:         identity.Name,
		Surname:      identity.Surname,
		Email:        identity.Email,
		PasswordHash: identity.PasswordHash,
		PhoneNumber:  identity.PhoneNumber,
		Gender:       identity.Gender,
		Role:         identity.Role,
	})

	s.sendActivationMail(identity)
	return identity, nil
}

// CompanyRegister creates a PENDING manager identity and fans the
// registration out to the manager and user services.
func (s *Service) CompanyRegister(ctx context.Context, reg models.CompanyRegistration) (*models.Identity, error) {
	if reg.Email == "" || reg.Password == "" || reg.CompanyName == "" {
		return nil, fmt.Errorf("%w: email, password and company name required", errs.ErrInvalidInput)
	}
	if err := s.checkUnique(ctx, reg.Email, reg.PhoneNumber, reg.IdentityNumber); err != nil {
		return nil, err
	}

	hash, err := passwords.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &models.Identity{
		Email:          reg.Email,
		PhoneNumber:    reg.PhoneNumber,
		IdentityNumber: reg.IdentityNumber,
		PasswordHash:   hash,
		Name:           reg.Name,
		Surname:        reg.Surname,
		Role:           messages.RoleManager,
		Status:         messages.StatusPending,
		Gender:         reg.Gender,
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	s.publish(messages.TopicCompanyRegister, identity.Email, messages.KindCompanyRegistered, messages.CompanyRegistered{
		AuthID:         identity.ID,
		Name:           identity.Name,
		Surname:        identity.Surname,
		Email:          identity.Email,
		PasswordHash:   identity.PasswordHash,
		PhoneNumber:    identity.PhoneNumber,
		IdentityNumber: identity.IdentityNumber,
		Address:        reg.Address,
		DateOfBirth:    reg.DateOfBirth,
		CompanyName:    reg.CompanyName,
		Gender:         identity.Gender,
		Role:           identity.Role,
	})

	s.sendActivationMail(identity)
	return identity, nil
}

// sendActivationMail issues the activation token and hands the link to the
// mail service. Best effort: a failure is logged, registration still
// succeeds.
func (s *Service) sendActivationMail(identity *models.Identity) {
	activation, err := s.tokens.Activation(identity.ID, string(identity.Role))
	if err != nil {
		s.logger.Error("failed to create activation token",
			zap.Error(err),
			zap.Int64("auth_id", identity.ID),
		)
		return
	}
	link := fmt.Sprintf("%s?token=%s", s.activationURL, activation)
	s.publish(messages.TopicMailActivation, identity.Email, messages.KindActivationMail, messages.ActivationMail{
		Email:          identity.Email,
		ActivationLink: link,
	})
}

// ActivateByToken drives the lifecycle state machine. PENDING flips to
// ACTIVE and fans out to the owning profile service; ACTIVE is idempotent
// and never re-publishes; BANNED and DELETED reject.
func (s *Service) ActivateByToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Kind != token.KindActivation {
		return "", fmt.Errorf("%w: not an activation token", errs.ErrInvalidToken)
	}

	identity, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		return "", err
	}

	switch identity.Status {
	case messages.StatusActive:
		return "account is already active", nil
	case messages.StatusBanned:
		return "", errs.ErrAccountBanned
	case messages.StatusDeleted:
		return "", errs.ErrAlreadyDeleted
	case messages.StatusPending:
		identity.Status = messages.StatusActive
		if err := s.repo.Update(ctx, identity); err != nil {
			return "", fmt.Errorf("failed to activate identity: %w", err)
		}
		if topic, ok := s.activateTopics[identity.Role]; ok {
			s.publish(topic, identity.Email, messages.KindActivateStatus, messages.ActivateStatus{
				AuthID: identity.ID,
			})
		}
		return "account activated successfully", nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", errs.ErrInvalidInput, identity.Status)
	}
}

// Login authenticates by email and password and returns a session token
// carrying id, role and an anti-replay code.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	identity, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !passwords.Matches(identity.PasswordHash, password) {
		return nil, errs.ErrInvalidCredentials
	}
	switch identity.Status {
	case messages.StatusBanned:
		return nil, errs.ErrAccountBanned
	case messages.StatusActive:
	default:
		return nil, errs.ErrAccountNotActive
	}

	session, err := s.tokens.Session(identity.ID, string(identity.Role), codes.NewSessionCode())
	if err != nil {
		return nil, err
	}
	return &models.LoginResult{ID: identity.ID, Token: session, Role: identity.Role}, nil
}

// ForgotPassword stores a freshly generated password and fans the reset out:
// the hash to the owning profile service, the plaintext to mail.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	identity, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	topic, ok := s.resetTopics[identity.Role]
	if !ok && identity.Role != messages.RoleAdmin {
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidRole, identity.Role)
	}

	plain := codes.NewPassword()
	hash, err := passwords.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	identity.PasswordHash = hash
	if err := s.repo.Update(ctx, identity); err != nil {
		return "", fmt.Errorf("failed to store new password: %w", err)
	}

	if ok {
		s.publish(topic, identity.Email, messages.KindPasswordReset, messages.PasswordReset{
			AuthID:       identity.ID,
			PasswordHash: hash,
		})
	}
	s.publish(messages.TopicMailForgotPassword, identity.Email, messages.KindPasswordResetMail, messages.PasswordResetMail{
		Email:    identity.Email,
		Password: plain,
	})

	return "password reset successful, the new password has been emailed", nil
}

// FindAll returns the active identities.
func (s *Service) FindAll(ctx context.Context) ([]models.Identity, error) {
	return s.repo.ListActive(ctx)
}

// FindByID returns one identity regardless of status; DELETED is reported
// as not found.
func (s *Service) FindByID(ctx context.Context, id int64) (*models.Identity, error) {
	identity, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Status == messages.StatusDeleted {
		return nil, errs.ErrNotFound
	}
	return identity, nil
}

// SoftDelete marks the identity DELETED. DELETED is terminal.
func (s *Service) SoftDelete(ctx context.Context, id int64) (string, error) {
	identity, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if identity.Status == messages.StatusDeleted {
		return "", errs.ErrAlreadyDeleted
	}
	identity.Status = messages.StatusDeleted
	if err := s.repo.Update(ctx, identity); err != nil {
		return "", fmt.Errorf("failed to delete identity: %w", err)
	}
	return fmt.Sprintf("%s %s has been deleted", identity.Name, identity.Surname), nil
}

// HandleEmployeeCreated consumes an employee provisioning request: it
// creates an ACTIVE identity and replies with the assigned id so the
// employee profile can back-fill its correlation key.
func (s *Service) HandleEmployeeCreated(ctx context.Context, env messaging.Envelope) error {
	var msg messages.EmployeeCreated
	if err := env.Decode(&msg); err != nil {
		return err
	}
	return s.createProvisioned(ctx, provisioned{
		name:           msg.Name,
		surname:        msg.Surname,
		email:          msg.Email,
		passwordHash:   msg.PasswordHash,
		phoneNumber:    msg.PhoneNumber,
		identityNumber: msg.IdentityNumber,
		role:           messages.RoleEmployee,
		gender:         msg.Gender,
		replyTopic:     messages.TopicEmployeeSetAuthID,
	})
}

// HandleAdminSaved is the admin twin of HandleEmployeeCreated.
func (s *Service) HandleAdminSaved(ctx context.Context, env messaging.Envelope) error {
	var msg messages.AdminSaved
	if err := env.Decode(&msg); err != nil {
		return err
	}
	return s.createProvisioned(ctx, provisioned{
		name:           msg.Name,
		surname:        msg.Surname,
		email:          msg.Email,
		passwordHash:   msg.PasswordHash,
		phoneNumber:    msg.PhoneNumber,
		identityNumber: msg.IdentityNumber,
		role:           messages.RoleAdmin,
		gender:         msg.Gender,
		replyTopic:     messages.TopicAdminSetAuthID,
	})
}

type provisioned struct {
	name           string
	surname        string
	email          string
	passwordHash   string
	phoneNumber    string
	identityNumber string
	role           messages.Role
	gender         messages.Gender
	replyTopic     string
}

func (s *Service) createProvisioned(ctx context.Context, p provisioned) error {
	// Redelivery of the same provisioning message must not create a second
	// identity; reply with the existing id instead.
	if existing, err := s.repo.GetByEmail(ctx, p.email); err == nil {
		s.replySetAuthID(p.replyTopic, existing.Email, existing.ID)
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	if err := s.checkUnique(ctx, p.email, p.phoneNumber, p.identityNumber); err != nil {
		return err
	}

	identity := &models.Identity{
		Email:          p.email,
		PhoneNumber:    p.phoneNumber,
		IdentityNumber: p.identityNumber,
		PasswordHash:   p.passwordHash,
		Name:           p.name,
		Surname:        p.surname,
		Role:           p.role,
		// Provisioned accounts skip the activation flow; the welcome mail
		// already announces them as ready to use.
		Status: messages.StatusActive,
		Gender: p.gender,
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		return fmt.Errorf("failed to create provisioned identity: %w", err)
	}

	s.replySetAuthID(p.replyTopic, identity.Email, identity.ID)
	return nil
}

func (s *Service) replySetAuthID(topic, email string, authID int64) {
	s.publish(topic, email, messages.KindSetAuthID, messages.SetAuthID{
		Email:  email,
		AuthID: authID,
	})
}

// HandleAuthUpdated keeps the denormalized identity copy consistent after a
// profile partial update.
func (s *Service) HandleAuthUpdated(ctx context.Context, env messaging.Envelope) error {
	var msg messages.AuthUpdated
	if err := env.Decode(&msg); err != nil {
		return err
	}

	identity, err := s.repo.Get(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	if identity.Status == messages.StatusDeleted {
		return errs.ErrAlreadyDeleted
	}

	if msg.Email != "" && msg.Email != identity.Email {
		taken, err := s.repo.ExistsOtherByEmail(ctx, msg.Email, identity.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: email %s", errs.ErrDuplicateField, msg.Email)
		}
		identity.Email = msg.Email
	}
	if msg.PhoneNumber != "" && msg.PhoneNumber != identity.PhoneNumber {
		taken, err := s.repo.ExistsOtherByPhoneNumber(ctx, msg.PhoneNumber, identity.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, msg.PhoneNumber)
		}
		identity.PhoneNumber = msg.PhoneNumber
	}
	if msg.Name != "" {
		identity.Name = msg.Name
	}
	if msg.Surname != "" {
		identity.Surname = msg.Surname
	}

	return s.repo.Update(ctx, identity)
}

// HandleAuthDeleted mirrors a profile soft-delete. Already-deleted
// identities make redelivery a no-op.
func (s *Service) HandleAuthDeleted(ctx context.Context, env messaging.Envelope) error {
	var msg messages.AuthDeleted
	if err := env.Decode(&msg); err != nil {
		return err
	}

	identity, err := s.repo.Get(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	if identity.Status == messages.StatusDeleted {
		return nil
	}
	identity.Status = messages.StatusDeleted
	return s.repo.Update(ctx, identity)
}

func (s *Service) checkUnique(ctx context.Context, email, phone, identityNumber string) error {
	if email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: email %s", errs.ErrDuplicateField, email)
		}
	}
	if phone != "" {
		exists, err := s.repo.ExistsByPhoneNumber(ctx, phone)
		if err != nil {
			return fmt.Errorf("failed to check phone number: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, phone)
		}
	}
	if identityNumber != "" {
		exists, err := s.repo.ExistsByIdentityNumber(ctx, identityNumber)
		if err != nil {
			return fmt.Errorf("failed to check identity number: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: identity number %s", errs.ErrDuplicateField, identityNumber)
		}
	}
	return nil
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
