package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hrms/internal/manager/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
)

// MockRepository implements the Repository interface for testing.
type MockRepository struct {
	create                func(context.Context, *models.Manager) error
	get                   func(context.Context, int64) (*models.Manager, error)
	getByAuthID           func(context.Context, int64) (*models.Manager, error)
	getByCompanyID        func(context.Context, string) (*models.Manager, error)
	getByCompanyName      func(context.Context, string) (*models.Manager, error)
	update                func(context.Context, *models.Manager) error
	existsOtherByEmail    func(context.Context, string, int64) (bool, error)
	existsOtherByPhone    func(context.Context, string, int64) (bool, error)
	existsOtherByIdentity func(context.Context, string, int64) (bool, error)
	existsByCompanyName   func(context.Context, string) (bool, error)
	listActive            func(context.Context) ([]models.Manager, error)
	listActiveByCompany   func(context.Context, string) ([]models.Manager, error)
}

func (m *MockRepository) Create(ctx context.Context, mg *models.Manager) error {
	return m.create(ctx, mg)
}

func (m *MockRepository) Get(ctx context.Context, id int64) (*models.Manager, error) {
	return m.get(ctx, id)
}

func (m *MockRepository) GetByAuthID(ctx context.Context, authID int64) (*models.Manager, error) {
	return m.getByAuthID(ctx, authID)
}

func (m *MockRepository) GetByCompanyID(ctx context.Context, id string) (*models.Manager, error) {
	return m.getByCompanyID(ctx, id)
}

func (m *MockRepository) GetByCompanyName(ctx context.Context, name string) (*models.Manager, error) {
	return m.getByCompanyName(ctx, name)
}

func (m *MockRepository) Update(ctx context.Context, mg *models.Manager) error {
	return m.update(ctx, mg)
}

func (m *MockRepository) ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error) {
	return m.existsOtherByEmail(ctx, email, id)
}

func (m *MockRepository) ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error) {
	return m.existsOtherByPhone(ctx, phone, id)
}

func (m *MockRepository) ExistsOtherByIdentityNumber(ctx context.Context, n string, id int64) (bool, error) {
	return m.existsOtherByIdentity(ctx, n, id)
}

func (m *MockRepository) ExistsByCompanyName(ctx context.Context, name string) (bool, error) {
	return m.existsByCompanyName(ctx, name)
}

func (m *MockRepository) ListActive(ctx context.Context) ([]models.Manager, error) {
	return m.listActive(ctx)
}

func (m *MockRepository) ListActiveByCompanyName(ctx context.Context, name string) ([]models.Manager, error) {
	return m.listActiveByCompany(ctx, name)
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

func TestHandleCompanyRegistered(t *testing.T) {
	t.Run("creates pending profile with company name", func(t *testing.T) {
		var created *models.Manager
		repo := &MockRepository{
			getByAuthID: func(context.Context, int64) (*models.Manager, error) {
				return nil, errs.ErrNotFound
			},
			create: func(_ context.Context, mg *models.Manager) error {
				created = mg
				return nil
			},
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindCompanyRegistered, messages.CompanyRegistered{
			AuthID:      11,
			Email:       "kim@example.com",
			CompanyName: "Acme",
			Role:        messages.RoleManager,
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleCompanyRegistered(context.Background(), env))

		require.NotNil(t, created)
		assert.Equal(t, int64(11), created.AuthID)
		assert.Equal(t, "Acme", created.CompanyName)
		assert.Equal(t, messages.StatusPending, created.Status)
		assert.Empty(t, created.CompanyID, "company id is back-filled later")
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		created := 0
		repo := &MockRepository{
			getByAuthID: func(context.Context, int64) (*models.Manager, error) {
				return &models.Manager{AuthID: 11}, nil
			},
			create: func(context.Context, *models.Manager) error {
				created++
				return nil
			},
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindCompanyRegistered, messages.CompanyRegistered{AuthID: 11})
		require.NoError(t, err)
		require.NoError(t, svc.HandleCompanyRegistered(context.Background(), env))
		assert.Zero(t, created)
	})
}

func TestHandleSetCompanyID(t *testing.T) {
	t.Run("adopts id and replies with manager id", func(t *testing.T) {
		manager := &models.Manager{ID: 3, CompanyName: "Acme", Status: messages.StatusActive}
		repo := &MockRepository{
			getByCompanyName: func(_ context.Context, name string) (*models.Manager, error) {
				require.Equal(t, "Acme", name)
				return manager, nil
			},
			update: func(context.Context, *models.Manager) error { return nil },
		}
		bus := &MockPublisher{}
		svc := New(repo, bus, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindSetCompanyID, messages.SetCompanyID{
			CompanyID:   "65f000000000000000000001",
			CompanyName: "Acme",
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleSetCompanyID(context.Background(), env))

		assert.Equal(t, "65f000000000000000000001", manager.CompanyID)
		require.Len(t, bus.published, 1)
		assert.Equal(t, messages.TopicCompanySetManagerID, bus.published[0].topic)
		var reply messages.SetManagerID
		require.NoError(t, bus.published[0].env.Decode(&reply))
		assert.Equal(t, int64(3), reply.ManagerID)
		assert.Equal(t, "Acme", reply.CompanyName)
	})

	t.Run("redelivery changes nothing locally but re-replies", func(t *testing.T) {
		manager := &models.Manager{ID: 3, CompanyName: "Acme", CompanyID: "65f000000000000000000001"}
		updates := 0
		repo := &MockRepository{
			getByCompanyName: func(context.Context, string) (*models.Manager, error) {
				return manager, nil
			},
			update: func(context.Context, *models.Manager) error {
				updates++
				return nil
			},
		}
		bus := &MockPublisher{}
		svc := New(repo, bus, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindSetCompanyID, messages.SetCompanyID{
			CompanyID:   "65f000000000000000000001",
			CompanyName: "Acme",
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleSetCompanyID(context.Background(), env))

		assert.Zero(t, updates)
		assert.Len(t, bus.published, 1, "the reply is re-sent for the company's own redelivery handling")
	})
}

func TestHandlePasswordReset(t *testing.T) {
	manager := &models.Manager{AuthID: 11, PasswordHash: "old-hash"}
	repo := &MockRepository{
		getByAuthID: func(context.Context, int64) (*models.Manager, error) { return manager, nil },
		update:      func(context.Context, *models.Manager) error { return nil },
	}
	svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

	env, err := messaging.NewEnvelope(messages.KindPasswordReset, messages.PasswordReset{
		AuthID:       11,
		PasswordHash: "new-hash",
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandlePasswordReset(context.Background(), env))
	assert.Equal(t, "new-hash", manager.PasswordHash)
}

func TestSoftUpdateMirrorsToAuth(t *testing.T) {
	manager := &models.Manager{
		ID:     3,
		AuthID: 11,
		Email:  "kim@example.com",
		Title:  "CEO",
		Status: messages.StatusActive,
	}
	repo := &MockRepository{
		get:    func(context.Context, int64) (*models.Manager, error) { return manager, nil },
		update: func(context.Context, *models.Manager) error { return nil },
	}
	bus := &MockPublisher{}
	svc := New(repo, bus, zaptest.NewLogger(t))

	title := "CTO"
	updated, err := svc.SoftUpdate(context.Background(), &models.ManagerUpdate{ID: 3, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "CTO", updated.Title)
	assert.Equal(t, "kim@example.com", updated.Email)

	require.Len(t, bus.published, 1)
	assert.Equal(t, messages.TopicAuthUpdate, bus.published[0].topic)
}

func TestFindByCompanyName(t *testing.T) {
	repo := &MockRepository{
		existsByCompanyName: func(context.Context, string) (bool, error) { return false, nil },
	}
	svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

	_, err := svc.FindByCompanyName(context.Background(), "Nowhere Inc")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
