// Package service implements the employee profile logic. Unlike guests and
// managers, employees are provisioned profile-first: the record is created
// here and auth derives the identity from the published create model.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/employee/models"
	"hrms/internal/pkg/codes"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/passwords"
)

// Repository is the employee store interface.
type Repository interface {
	Create(ctx context.Context, employee *models.Employee) error
	Get(ctx context.Context, id int64) (*models.Employee, error)
	GetByAuthID(ctx context.Context, authID int64) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
	ExistsByIdentityNumber(ctx context.Context, identityNumber string) (bool, error)
	ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error)
	ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error)
	ExistsOtherByIdentityNumber(ctx context.Context, identityNumber string, id int64) (bool, error)
	ListActive(ctx context.Context) ([]models.Employee, error)
	ListActiveByCompanyName(ctx context.Context, companyName string) ([]models.Employee, error)
}

type Service struct {
	repo   Repository
	bus    messaging.Publisher
	logger *zap.Logger
}

func New(repo Repository, bus messaging.Publisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger.Named("employee_service")}
}

// Create provisions an employee with a generated password, asks auth to
// create the matching identity and mails the credentials to the employee's
// personal address. The profile is ACTIVE from the start; provisioned
// accounts skip activation.
func (s *Service) Create(ctx context.Context, create *models.EmployeeCreate) (*models.Employee, error) {
	if err := s.checkUnique(ctx, create.Email, create.PhoneNumber, create.IdentityNumber); err != nil {
		return nil, err
	}

	password := codes.NewPassword()
	hash, err := passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := &models.Employee{
		Email:          create.Email,
		PersonalEmail:  create.PersonalEmail,
		PhoneNumber:    create.PhoneNumber,
		IdentityNumber: create.IdentityNumber,
		Name:           create.Name,
		Surname:        create.Surname,
		PasswordHash:   hash,
		Address:        create.Address,
		CompanyName:    create.CompanyName,
		Title:          create.Title,
		Salary:         create.Salary,
		Photo:          create.Photo,
		DateOfBirth:    create.DateOfBirth,
		Status:         messages.StatusActive,
		Role:           messages.RoleEmployee,
		Gender:         create.Gender,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.publish(messages.TopicEmployeeCreate, employee.Email, messages.KindEmployeeCreated, messages.EmployeeCreated{
		Name:           employee.Name,
		Surname:        employee.Surname,
		Email:          employee.Email,
		PasswordHash:   employee.PasswordHash,
		PhoneNumber:    employee.PhoneNumber,
		IdentityNumber: employee.IdentityNumber,
		Role:           employee.Role,
		Gender:         employee.Gender,
	})
	s.publish(messages.TopicMailEmployeeWelcome, employee.Email, messages.KindEmployeeWelcomeMail, messages.EmployeeWelcomeMail{
		PersonalEmail: employee.PersonalEmail,
		Email:         employee.Email,
		Password:      password,
	})
	return employee, nil
}

// HandleSetAuthID back-fills the identity correlation. The profile is looked
// up by email; redelivery with the id already set is a no-op.
func (s *Service) HandleSetAuthID(ctx context.Context, env messaging.Envelope) error {
	var msg messages.SetAuthID
	if err := env.Decode(&msg); err != nil {
		return err
	}

	employee, err := s.repo.GetByEmail(ctx, msg.Email)
	if err != nil {
		return err
	}
	if employee.AuthID == msg.AuthID {
		return nil
	}
	employee.AuthID = msg.AuthID
	return s.repo.Update(ctx, employee)
}

// HandlePasswordReset stores the propagated password hash.
func (s *Service) HandlePasswordReset(ctx context.Context, env messaging.Envelope) error {
	var msg messages.PasswordReset
	if err := env.Decode(&msg); err != nil {
		return err
	}

	employee, err := s.repo.GetByAuthID(ctx, msg.AuthID)
	if err != nil {
		return err
	}
	employee.PasswordHash = msg.PasswordHash
	return s.repo.Update(ctx, employee)
}

// SoftUpdate applies the non-nil fields of the update and mirrors the change
// to auth.
func (s *Service) SoftUpdate(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	employee, err := s.repo.Get(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	if employee.Status == messages.StatusDeleted {
		return nil, errs.ErrAlreadyDeleted
	}

	if update.Email != nil && *update.Email != employee.Email {
		taken, err := s.repo.ExistsOtherByEmail(ctx, *update.Email, employee.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email %s", errs.ErrDuplicateField, *update.Email)
		}
		employee.Email = *update.Email
	}
	if update.PhoneNumber != nil && *update.PhoneNumber != employee.PhoneNumber {
		taken, err := s.repo.ExistsOtherByPhoneNumber(ctx, *update.PhoneNumber, employee.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, *update.PhoneNumber)
		}
		employee.PhoneNumber = *update.PhoneNumber
	}
	if update.IdentityNumber != nil && *update.IdentityNumber != employee.IdentityNumber {
		taken, err := s.repo.ExistsOtherByIdentityNumber(ctx, *update.IdentityNumber, employee.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: identity number %s", errs.ErrDuplicateField, *update.IdentityNumber)
		}
		employee.IdentityNumber = *update.IdentityNumber
	}
	if update.Name != nil {
		employee.Name = *update.Name
	}
	if update.Surname != nil {
		employee.Surname = *update.Surname
	}
	if update.PersonalEmail != nil {
		employee.PersonalEmail = *update.PersonalEmail
	}
	if update.Address != nil {
		employee.Address = *update.Address
	}
	if update.CompanyName != nil {
		employee.CompanyName = *update.CompanyName
	}
	if update.Title != nil {
		employee.Title = *update.Title
	}
	if update.Salary != nil {
		employee.Salary = *update.Salary
	}
	if update.Photo != nil {
		employee.Photo = *update.Photo
	}
	if update.DateOfBirth != nil {
		employee.DateOfBirth = *update.DateOfBirth
	}
	if update.Gender != nil {
		employee.Gender = *update.Gender
	}
	if update.Password != nil {
		hash, err := passwords.Hash(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		employee.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	s.publish(messages.TopicAuthUpdate, employee.Email, messages.KindAuthUpdated, messages.AuthUpdated{
		AuthID:      employee.AuthID,
		Name:        employee.Name,
		Surname:     employee.Surname,
		Email:       employee.Email,
		PhoneNumber: employee.PhoneNumber,
	})
	return employee, nil
}

// SoftDelete marks the profile DELETED and mirrors the deletion to auth.
func (s *Service) SoftDelete(ctx context.Context, id int64) (string, error) {
	employee, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if employee.Status == messages.StatusDeleted {
		return "", errs.ErrAlreadyDeleted
	}
	employee.Status = messages.StatusDeleted
	if err := s.repo.Update(ctx, employee); err != nil {
		return "", fmt.Errorf("failed to delete employee: %w", err)
	}

	s.publish(messages.TopicAuthDelete, employee.Email, messages.KindAuthDeleted, messages.AuthDeleted{
		AuthID: employee.AuthID,
		Status: employee.Status,
	})
	return fmt.Sprintf("%s %s has been deleted", employee.Name, employee.Surname), nil
}

func (s *Service) FindAll(ctx context.Context) ([]models.Employee, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return requireActive(employee)
}

func (s *Service) FindByAuthID(ctx context.Context, authID int64) (*models.Employee, error) {
	employee, err := s.repo.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}
	return requireActive(employee)
}

func (s *Service) FindByCompanyName(ctx context.Context, companyName string) ([]models.Employee, error) {
	return s.repo.ListActiveByCompanyName(ctx, companyName)
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

func requireActive(employee *models.Employee) (*models.Employee, error) {
	if employee.Status != messages.StatusActive {
		return nil, errs.ErrAccountNotActive
	}
	return employee, nil
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
