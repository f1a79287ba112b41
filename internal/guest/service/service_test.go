package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hrms/internal/guest/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/passwords"
)

// MockRepository implements the Repository interface for testing.
type MockRepository struct {
	create             func(context.Context, *models.Guest) error
	get                func(context.Context, int64) (*models.Guest, error)
	getByAuthID        func(context.Context, int64) (*models.Guest, error)
	update             func(context.Context, *models.Guest) error
	existsOtherByEmail func(context.Context, string, int64) (bool, error)
	existsOtherByPhone func(context.Context, string, int64) (bool, error)
	listActive         func(context.Context) ([]models.Guest, error)
}

func (m *MockRepository) Create(ctx context.Context, g *models.Guest) error { return m.create(ctx, g) }

func (m *MockRepository) Get(ctx context.Context, id int64) (*models.Guest, error) {
	return m.get(ctx, id)
}

func (m *MockRepository) GetByAuthID(ctx context.Context, authID int64) (*models.Guest, error) {
	return m.getByAuthID(ctx, authID)
}

func (m *MockRepository) Update(ctx context.Context, g *models.Guest) error { return m.update(ctx, g) }

func (m *MockRepository) ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error) {
	return m.existsOtherByEmail(ctx, email, id)
}

func (m *MockRepository) ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error) {
	return m.existsOtherByPhone(ctx, phone, id)
}

func (m *MockRepository) ListActive(ctx context.Context) ([]models.Guest, error) {
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

func TestHandleRegistered(t *testing.T) {
	t.Run("creates pending profile", func(t *testing.T) {
		var created *models.Guest
		repo := &MockRepository{
			getByAuthID: func(context.Context, int64) (*models.Guest, error) {
				return nil, errs.ErrNotFound
			},
			create: func(_ context.Context, g *models.Guest) error {
				created = g
				return nil
			},
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindGuestRegistered, messages.GuestRegistered{
			AuthID: 7,
			Email:  "jamie@example.com",
			Name:   "Jamie",
			Role:   messages.RoleGuest,
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleRegistered(context.Background(), env))

		require.NotNil(t, created)
		assert.Equal(t, int64(7), created.AuthID)
		assert.Equal(t, messages.StatusPending, created.Status)
		assert.Equal(t, messages.RoleGuest, created.Role)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		created := 0
		repo := &MockRepository{
			getByAuthID: func(context.Context, int64) (*models.Guest, error) {
				return &models.Guest{AuthID: 7}, nil
			},
			create: func(context.Context, *models.Guest) error {
				created++
				return nil
			},
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		env, err := messaging.NewEnvelope(messages.KindGuestRegistered, messages.GuestRegistered{AuthID: 7})
		require.NoError(t, err)
		require.NoError(t, svc.HandleRegistered(context.Background(), env))
		assert.Zero(t, created)
	})
}

func TestHandleActivate(t *testing.T) {
	tests := []struct {
		name          string
		status        messages.Status
		expectedError error
		expectUpdate  bool
	}{
		{name: "pending flips to active", status: messages.StatusPending, expectUpdate: true},
		{name: "active is idempotent", status: messages.StatusActive},
		{name: "deleted rejects", status: messages.StatusDeleted, expectedError: errs.ErrAlreadyDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guest := &models.Guest{AuthID: 7, Status: tt.status}
			updates := 0
			repo := &MockRepository{
				getByAuthID: func(context.Context, int64) (*models.Guest, error) { return guest, nil },
				update: func(context.Context, *models.Guest) error {
					updates++
					return nil
				},
			}
			svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

			env, err := messaging.NewEnvelope(messages.KindActivateStatus, messages.ActivateStatus{AuthID: 7})
			require.NoError(t, err)

			err = svc.HandleActivate(context.Background(), env)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			if tt.expectUpdate {
				assert.Equal(t, 1, updates)
				assert.Equal(t, messages.StatusActive, guest.Status)
			} else {
				assert.Zero(t, updates)
			}
		})
	}
}

func TestSoftUpdate(t *testing.T) {
	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		guest := &models.Guest{
			ID:          1,
			AuthID:      7,
			Email:       "old@example.com",
			PhoneNumber: "+15550001",
			Name:        "Old",
			Surname:     "Name",
			Status:      messages.StatusActive,
		}
		repo := &MockRepository{
			get: func(context.Context, int64) (*models.Guest, error) { return guest, nil },
			existsOtherByEmail: func(context.Context, string, int64) (bool, error) {
				return false, nil
			},
			update: func(context.Context, *models.Guest) error { return nil },
		}
		bus := &MockPublisher{}
		svc := New(repo, bus, zaptest.NewLogger(t))

		email := "new@example.com"
		updated, err := svc.SoftUpdate(context.Background(), &models.GuestUpdate{ID: 1, Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.Email)
		assert.Equal(t, "Old", updated.Name, "untouched fields keep their values")
		assert.Equal(t, "+15550001", updated.PhoneNumber)

		require.Len(t, bus.published, 1)
		assert.Equal(t, messages.TopicAuthUpdate, bus.published[0].topic)
		var mirror messages.AuthUpdated
		require.NoError(t, bus.published[0].env.Decode(&mirror))
		assert.Equal(t, int64(7), mirror.AuthID)
		assert.Equal(t, "new@example.com", mirror.Email)
	})

	t.Run("duplicate email rejects", func(t *testing.T) {
		repo := &MockRepository{
			get: func(context.Context, int64) (*models.Guest, error) {
				return &models.Guest{ID: 1, Email: "old@example.com", Status: messages.StatusActive}, nil
			},
			existsOtherByEmail: func(context.Context, string, int64) (bool, error) {
				return true, nil
			},
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		email := "taken@example.com"
		_, err := svc.SoftUpdate(context.Background(), &models.GuestUpdate{ID: 1, Email: &email})
		assert.ErrorIs(t, err, errs.ErrDuplicateField)
	})

	t.Run("password update stores a hash", func(t *testing.T) {
		guest := &models.Guest{ID: 1, Status: messages.StatusActive}
		repo := &MockRepository{
			get:    func(context.Context, int64) (*models.Guest, error) { return guest, nil },
			update: func(context.Context, *models.Guest) error { return nil },
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		password := "new-password"
		updated, err := svc.SoftUpdate(context.Background(), &models.GuestUpdate{ID: 1, Password: &password})
		require.NoError(t, err)
		assert.True(t, passwords.Matches(updated.PasswordHash, password))
	})

	t.Run("deleted profile rejects", func(t *testing.T) {
		repo := &MockRepository{
			get: func(context.Context, int64) (*models.Guest, error) {
				return &models.Guest{ID: 1, Status: messages.StatusDeleted}, nil
			},
		}
		svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

		_, err := svc.SoftUpdate(context.Background(), &models.GuestUpdate{ID: 1})
		assert.ErrorIs(t, err, errs.ErrAlreadyDeleted)
	})
}

func TestSoftDelete(t *testing.T) {
	guest := &models.Guest{ID: 1, AuthID: 7, Name: "Jamie", Surname: "Doe", Status: messages.StatusActive}
	repo := &MockRepository{
		get:    func(context.Context, int64) (*models.Guest, error) { return guest, nil },
		update: func(context.Context, *models.Guest) error { return nil },
	}
	bus := &MockPublisher{}
	svc := New(repo, bus, zaptest.NewLogger(t))

	msg, err := svc.SoftDelete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jamie Doe has been deleted", msg)

	require.Len(t, bus.published, 1)
	assert.Equal(t, messages.TopicAuthDelete, bus.published[0].topic)
	var mirror messages.AuthDeleted
	require.NoError(t, bus.published[0].env.Decode(&mirror))
	assert.Equal(t, int64(7), mirror.AuthID)
	assert.Equal(t, messages.StatusDeleted, mirror.Status)

	_, err = svc.SoftDelete(context.Background(), 1)
	assert.ErrorIs(t, err, errs.ErrAlreadyDeleted)
}

func TestFindersRequireActive(t *testing.T) {
	repo := &MockRepository{
		get: func(context.Context, int64) (*models.Guest, error) {
			return &models.Guest{ID: 1, Status: messages.StatusPending}, nil
		},
		getByAuthID: func(context.Context, int64) (*models.Guest, error) {
			return &models.Guest{ID: 1, Status: messages.StatusBanned}, nil
		},
	}
	svc := New(repo, &MockPublisher{}, zaptest.NewLogger(t))

	_, err := svc.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, errs.ErrAccountNotActive)

	_, err = svc.FindByAuthID(context.Background(), 7)
	assert.ErrorIs(t, err, errs.ErrAccountNotActive)
}
