// Package service implements the company logic: the save path that announces
// a new company to the manager service, the consumer that adopts the
// manager's correlation back, and the local CRUD surface.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrms/internal/company/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
)

// Repository is the company store interface.
type Repository interface {
	Create(ctx context.Context, company *models.Company) error
	Get(ctx context.Context, id string) (*models.Company, error)
	GetByCompanyName(ctx context.Context, companyName string) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	ExistsByCompanyName(ctx context.Context, companyName string) (bool, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
	ExistsByInfoEmail(ctx context.Context, infoEmail string) (bool, error)
	ExistsOtherByCompanyName(ctx context.Context, companyName, id string) (bool, error)
	ExistsOtherByPhoneNumber(ctx context.Context, phone, id string) (bool, error)
	ExistsOtherByInfoEmail(ctx context.Context, infoEmail, id string) (bool, error)
	ListActive(ctx context.Context) ([]models.Company, error)
}

type Service struct {
	repo   Repository
	bus    messaging.Publisher
	logger *zap.Logger
}

func New(repo Repository, bus messaging.Publisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger.Named("company_service")}
}

// Save records a company and announces its id to the manager service, which
// answers with the manager correlation over the bus.
func (s *Service) Save(ctx context.Context, save *models.CompanySave) (*models.Company, error) {
	if err := s.checkUnique(ctx, save.CompanyName, save.PhoneNumber, save.InfoEmail); err != nil {
		return nil, err
	}

	company := &models.Company{
		CompanyName: save.CompanyName,
		PhoneNumber: save.PhoneNumber,
		InfoEmail:   save.InfoEmail,
		Address:     save.Address,
		Logo:        save.Logo,
		Revenue:     save.Revenue,
		Expense:     save.Expense,
		Salaries:    save.Salaries,
		Employees:   save.Employees,
		Shifts:      save.Shifts,
		Holidays:    save.Holidays,
		Status:      messages.StatusActive,
	}
	computeFinancials(company)

	if err := s.repo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.publish(messages.TopicManagerSetCompanyID, company.CompanyName, messages.KindSetCompanyID, messages.SetCompanyID{
		CompanyID:   company.ID.Hex(),
		CompanyName: company.CompanyName,
	})
	return company, nil
}

// HandleSetManagerID adopts the manager correlation the manager service
// hands back. Redelivery with the id already set is a no-op.
func (s *Service) HandleSetManagerID(ctx context.Context, env messaging.Envelope) error {
	var msg messages.SetManagerID
	if err := env.Decode(&msg); err != nil {
		return err
	}

	company, err := s.repo.GetByCompanyName(ctx, msg.CompanyName)
	if err != nil {
		return err
	}
	if company.ManagerID == msg.ManagerID {
		return nil
	}
	company.ManagerID = msg.ManagerID
	return s.repo.Update(ctx, company)
}

// SoftUpdate applies the non-nil fields of the update and recomputes the
// derived financials.
func (s *Service) SoftUpdate(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	company, err := s.repo.Get(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	if company.Status == messages.StatusDeleted {
		return nil, errs.ErrAlreadyDeleted
	}

	if update.CompanyName != nil && *update.CompanyName != company.CompanyName {
		taken, err := s.repo.ExistsOtherByCompanyName(ctx, *update.CompanyName, update.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: company name %s", errs.ErrDuplicateField, *update.CompanyName)
		}
		company.CompanyName = *update.CompanyName
	}
	if update.PhoneNumber != nil && *update.PhoneNumber != company.PhoneNumber {
		taken, err := s.repo.ExistsOtherByPhoneNumber(ctx, *update.PhoneNumber, update.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, *update.PhoneNumber)
		}
		company.PhoneNumber = *update.PhoneNumber
	}
	if update.InfoEmail != nil && *update.InfoEmail != company.InfoEmail {
		taken, err := s.repo.ExistsOtherByInfoEmail(ctx, *update.InfoEmail, update.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: info email %s", errs.ErrDuplicateField, *update.InfoEmail)
		}
		company.InfoEmail = *update.InfoEmail
	}
	if update.Address != nil {
		company.Address = *update.Address
	}
	if update.Logo != nil {
		company.Logo = *update.Logo
	}
	if update.Revenue != nil {
		company.Revenue = *update.Revenue
	}
	if update.Expense != nil {
		company.Expense = *update.Expense
	}
	if update.Salaries != nil {
		company.Salaries = *update.Salaries
	}
	if update.Employees != nil {
		company.Employees = *update.Employees
	}
	if update.Shifts != nil {
		company.Shifts = *update.Shifts
	}
	if update.Holidays != nil {
		company.Holidays = *update.Holidays
	}
	computeFinancials(company)

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// SoftDelete marks the company DELETED.
func (s *Service) SoftDelete(ctx context.Context, id string) (string, error) {
	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if company.Status == messages.StatusDeleted {
		return "", errs.ErrAlreadyDeleted
	}
	company.Status = messages.StatusDeleted
	if err := s.repo.Update(ctx, company); err != nil {
		return "", fmt.Errorf("failed to delete company: %w", err)
	}
	return fmt.Sprintf("%s has been deleted", company.CompanyName), nil
}

func (s *Service) FindAll(ctx context.Context) ([]models.Company, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.Status != messages.StatusActive {
		return nil, errs.ErrNotFound
	}
	return company, nil
}

func (s *Service) FindByCompanyName(ctx context.Context, companyName string) (*models.Company, error) {
	company, err := s.repo.GetByCompanyName(ctx, companyName)
	if err != nil {
		return nil, err
	}
	if company.Status != messages.StatusActive {
		return nil, errs.ErrNotFound
	}
	return company, nil
}

func (s *Service) checkUnique(ctx context.Context, companyName, phone, infoEmail string) error {
	taken, err := s.repo.ExistsByCompanyName(ctx, companyName)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: company name %s", errs.ErrDuplicateField, companyName)
	}
	taken, err = s.repo.ExistsByPhoneNumber(ctx, phone)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: phone number %s", errs.ErrDuplicateField, phone)
	}
	taken, err = s.repo.ExistsByInfoEmail(ctx, infoEmail)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: info email %s", errs.ErrDuplicateField, infoEmail)
	}
	return nil
}

// computeFinancials derives profit, loss and net income from the raw
// figures.
func computeFinancials(company *models.Company) {
	diff := company.Revenue - company.Expense
	company.Profit = 0
	company.Loss = 0
	if diff > 0 {
		company.Profit = diff
	} else {
		company.Loss = -diff
	}
	company.NetIncome = diff - company.Salaries
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
