package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"

	"hrms/internal/company/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
)

// MockRepository implements the Repository interface for testing.
type MockRepository struct {
	create                   func(context.Context, *models.Company) error
	get                      func(context.Context, string) (*models.Company, error)
	getByCompanyName         func(context.Context, string) (*models.Company, error)
	update                   func(context.Context, *models.Company) error
	existsByCompanyName      func(context.Context, string) (bool, error)
	existsByPhone            func(context.Context, string) (bool, error)
	existsByInfoEmail        func(context.Context, string) (bool, error)
	existsOtherByCompanyName func(context.Context, string, string) (bool, error)
	existsOtherByPhone       func(context.Context, string, string) (bool, error)
	existsOtherByInfoEmail   func(context.Context, string, string) (bool, error)
	listActive               func(context.Context) ([]models.Company, error)
}

func (m *MockRepository) Create(ctx context.Context, c *models.Company) error {
	return m.create(ctx, c)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*models.Company, error) {
	return m.get(ctx, id)
}

func (m *MockRepository) GetByCompanyName(ctx context.Context, name string) (*models.Company, error) {
	return m.getByCompanyName(ctx, name)
}

func (m *MockRepository) Update(ctx context.Context, c *models.Company) error {
	return m.update(ctx, c)
}

func (m *MockRepository) ExistsByCompanyName(ctx context.Context, name string) (bool, error) {
	return m.existsByCompanyName(ctx, name)
}

func (m *MockRepository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	return m.existsByPhone(ctx, phone)
}

func (m *MockRepository) ExistsByInfoEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByInfoEmail(ctx, email)
}

func (m *MockRepository) ExistsOtherByCompanyName(ctx context.Context, name, id string) (bool, error) {
	return m.existsOtherByCompanyName(ctx, name, id)
}

func (m *MockRepository) ExistsOtherByPhoneNumber(ctx context.Context, phone, id string) (bool, error) {
	return m.existsOtherByPhone(ctx, phone, id)
}

func (m *MockRepository) ExistsOtherByInfoEmail(ctx context.Context, email, id string) (bool, error) {
	return m.existsOtherByInfoEmail(ctx, email, id)
}

func (m *MockRepository) ListActive(ctx context.Context) ([]models.Company, error) {
	return m.listActive(ctx)
}

// MockPublisher records every published envelope.
type MockPublisher struct {
	published []struct {
		topic string
		env   messaging.Envelope
	}
}

func (m *MockPublisher) Publish(topic, _ string, env messaging.Envelope) {
	m.published = append(m.published, struct {
		topic string
		env   messaging.Envelope
	}{topic, env})
}

func noneExist(mr *MockRepository) {
	mr.existsByCompanyName = func(context.Context, string) (bool, error) { return false, nil }
	mr.existsByPhone = func(context.Context, string) (bool, error) { return false, nil }
	mr.existsByInfoEmail = func(context.Context, string) (bool, error) { return false, nil }
}

func TestSave(t *testing.T) {
	t.Run("creates active company and announces it to managers", func(t *testing.T) {
		oid := primitive.NewObjectID()
		repo := &MockRepository{
			create: func(_ context.Context, c *models.Company) error {
				c.ID = oid
				return nil
			},
		}
		noneExist(repo)
		bus := &MockPublisher{}
		svc := New(repo, bus, zaptest.NewLogger(t))

		company, err := svc.Save(context.Background(), &models.CompanySave{
			CompanyName: "Acme",
			PhoneNumber: "+15550100",
			InfoEmail:   "info@acme.com",
			Revenue:     1000,
			Expense:     400,
			Salaries:    200,
		})
		require.NoError(t, err)
		assert.Equal(t, messages.StatusActive, company.Status)
		assert.Equal(t, 600.0, company.Profit)
		assert.Zero(t, company.Loss)
		assert.Equal(t, 400.0, company.NetIncome)

		require.Len(t, bus.published, 1)
		assert.Equal(t, messages.TopicManagerSetCompanyID, bus.published[0].topic)

		var msg messages.SetCompanyID
		require.NoError(t, bus.published[0].env.Decode(&msg))
		assert.Equal(t, oid.Hex(), msg.CompanyID)
		assert.Equal(t, "Acme", msg.CompanyName)
	})

	t.Run("spending more than earned shows as loss", func(t *testing.T) {
		repo := &MockRepository{
			create: func(context.Context, *models.Company) error { return nil },
		}
		noneExist(repo)
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		company, err := svc.Save(context.Background(), &models.CompanySave{
			CompanyName: "Acme",
			Revenue:     300,
			Expense:     500,
			Salaries:    100,
		})
		require.NoError(t, err)
		assert.Zero(t, company.Profit)
		assert.Equal(t, 200.0, company.Loss)
		assert.Equal(t, -300.0, company.NetIncome)
	})

	t.Run("duplicate company name rejects", func(t *testing.T) {
		repo := &MockRepository{
			existsByCompanyName: func(context.Context, string) (bool, error) { return true, nil },
		}
		bus := &MockPublisher{}
		svc := New(repo, bus, zaptest.NewLogger(t))

		_, err := svc.Save(context.Background(), &models.CompanySave{CompanyName: "Acme"})
		assert.ErrorIs(t, err, errs.ErrDuplicateField)
		assert.Empty(t, bus.published)
	})
}

func TestHandleSetManagerID(t *testing.T) {
	t.Run("adopts the manager correlation", func(t *testing.T) {
		company := &models.Company{CompanyName: "Acme"}
		repo := &MockRepository{
			getByCompanyName: func(_ context.Context, name string) (*models.Company, error) {
				require.Equal(t, "Acme", name)
				return company, nil
			},
			update: func(context.Context, *models.Company) error { return nil },
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindSetManagerID, messages.SetManagerID{
			ManagerID:   3,
			CompanyName: "Acme",
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleSetManagerID(context.Background(), env))
		assert.Equal(t, int64(3), company.ManagerID)
	})

	t.Run("redelivery with the id already set is a no-op", func(t *testing.T) {
		updates := 0
		repo := &MockRepository{
			getByCompanyName: func(context.Context, string) (*models.Company, error) {
				return &models.Company{CompanyName: "Acme", ManagerID: 3}, nil
			},
			update: func(context.Context, *models.Company) error {
				updates++
				return nil
			},
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindSetManagerID, messages.SetManagerID{
			ManagerID:   3,
			CompanyName: "Acme",
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleSetManagerID(context.Background(), env))
		assert.Zero(t, updates)
	})
}

func TestSoftUpdateRecomputesFinancials(t *testing.T) {
	company := &models.Company{
		ID:          primitive.NewObjectID(),
		CompanyName: "Acme",
		Revenue:     1000,
		Expense:     400,
		Salaries:    200,
		Profit:      600,
		NetIncome:   400,
		Status:      messages.StatusActive,
	}
	repo := &MockRepository{
		get:    func(context.Context, string) (*models.Company, error) { return company, nil },
		update: func(context.Context, *models.Company) error { return nil },
	}
	svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

	expense := 1200.0
	updated, err := svc.SoftUpdate(context.Background(), &models.CompanyUpdate{
		ID:      company.ID.Hex(),
		Expense: &expense,
	})
	require.NoError(t, err)
	assert.Zero(t, updated.Profit)
	assert.Equal(t, 200.0, updated.Loss)
	assert.Equal(t, -400.0, updated.NetIncome)
}

func TestSoftDelete(t *testing.T) {
	company := &models.Company{CompanyName: "Acme", Status: messages.StatusActive}
	repo := &MockRepository{
		get:    func(context.Context, string) (*models.Company, error) { return company, nil },
		update: func(context.Context, *models.Company) error { return nil },
	}
	svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

	message, err := svc.SoftDelete(context.Background(), company.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Acme has been deleted", message)
	assert.Equal(t, messages.StatusDeleted, company.Status)

	_, err = svc.SoftDelete(context.Background(), company.ID.Hex())
	assert.ErrorIs(t, err, errs.ErrAlreadyDeleted)
}

func TestFindByIDRequiresActive(t *testing.T) {
	repo := &MockRepository{
		get: func(context.Context, string) (*models.Company, error) {
			return &models.Company{CompanyName: "Acme", Status: messages.StatusDeleted}, nil
		},
	}
	svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

	_, err := svc.FindByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
