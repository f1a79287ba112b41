package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hrms/internal/auth/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/passwords"
	"hrms/internal/pkg/token"
)

// MockRepository implements the Repository interface for testing.
type MockRepository struct {
	create                 func(context.Context, *models.Identity) error
	get                    func(context.Context, int64) (*models.Identity, error)
	getByEmail             func(context.Context, string) (*models.Identity, error)
	update                 func(context.Context, *models.Identity) error
	existsByEmail          func(context.Context, string) (bool, error)
	existsByPhoneNumber    func(context.Context, string) (bool, error)
	existsByIdentityNumber func(context.Context, string) (bool, error)
	existsOtherByEmail     func(context.Context, string, int64) (bool, error)
	existsOtherByPhone     func(context.Context, string, int64) (bool, error)
	listActive             func(context.Context) ([]models.Identity, error)
}

func (m *MockRepository) Create(ctx context.Context, i *models.Identity) error {
	return m.create(ctx, i)
}

func (m *MockRepository) Get(ctx context.Context, id int64) (*models.Identity, error) {
	return m.get(ctx, id)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return m.getByEmail(ctx, email)
}

func (m *MockRepository) Update(ctx context.Context, i *models.Identity) error {
	return m.update(ctx, i)
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByEmail(ctx, email)
}

func (m *MockRepository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	return m.existsByPhoneNumber(ctx, phone)
}

func (m *MockRepository) ExistsByIdentityNumber(ctx context.Context, n string) (bool, error) {
	return m.existsByIdentityNumber(ctx, n)
}

func (m *MockRepository) ExistsOtherByEmail(ctx context.Context, email string, id int64) (bool, error) {
	return m.existsOtherByEmail(ctx, email, id)
}

func (m *MockRepository) ExistsOtherByPhoneNumber(ctx context.Context, phone string, id int64) (bool, error) {
	return m.existsOtherByPhone(ctx, phone, id)
}

func (m *MockRepository) ListActive(ctx context.Context) ([]models.Identity, error) {
	return m.listActive(ctx)
}

// MockPublisher records every published envelope.
type MockPublisher struct {
	published []published
}

type published struct {
	topic string
	key   string
	env   messaging.Envelope
}

func (m *MockPublisher) Publish(topic, key string, env messaging.Envelope) {
	m.published = append(m.published, published{topic: topic, key: key, env: env})
}

func (m *MockPublisher) topics() []string {
	var out []string
	for _, p := range m.published {
		out = append(out, p.topic)
	}
	return out
}

func newTestService(t *testing.T, repo *MockRepository, bus *MockPublisher) (*Service, *token.Manager) {
	tokens := token.NewManager("test-secret", "hrms-auth", 15*time.Minute, time.Hour)
	svc := New(repo, bus, tokens, "http://localhost:9100/api/v1/auth/activate", zaptest.NewLogger(t))
	return svc, tokens
}

func noneExist(mr *MockRepository) {
	mr.existsByEmail = func(context.Context, string) (bool, error) { return false, nil }
	mr.existsByPhoneNumber = func(context.Context, string) (bool, error) { return false, nil }
	mr.existsByIdentityNumber = func(context.Context, string) (bool, error) { return false, nil }
}

func TestGuestRegister(t *testing.T) {
	tests := []struct {
		name          string
		input         models.GuestRegistration
		mockSetup     func(*MockRepository)
		expectedError error
		expectTopics  []string
	}{
		{
			name: "successful registration",
			input: models.GuestRegistration{
				Name:        "Jamie",
				Surname:     "Doe",
				Email:       "jamie@example.com",
				Password:    "secret-password",
				PhoneNumber: "+15550001",
			},
			mockSetup: func(mr *MockRepository) {
				noneExist(mr)
				mr.create = func(_ context.Context, i *models.Identity) error {
					i.ID = 7
					return nil
				}
			},
			expectTopics: []string{messages.TopicGuestRegister, messages.TopicMailActivation},
		},
		{
			name:          "missing credentials",
			input:         models.GuestRegistration{Email: "jamie@example.com"},
			mockSetup:     func(*MockRepository) {},
			expectedError: errs.ErrInvalidInput,
		},
		{
			name: "duplicate email",
			input: models.GuestRegistration{
				Email:    "taken@example.com",
				Password: "secret-password",
			},
			mockSetup: func(mr *MockRepository) {
				noneExist(mr)
				mr.existsByEmail = func(context.Context, string) (bool, error) { return true, nil }
			},
			expectedError: errs.ErrDuplicateField,
		},
		{
			name: "duplicate phone number",
			input: models.GuestRegistration{
				Email:       "jamie@example.com",
				Password:    "secret-password",
				PhoneNumber: "+15550001",
			},
			mockSetup: func(mr *MockRepository) {
				noneExist(mr)
				mr.existsByPhoneNumber = func(context.Context, string) (bool, error) { return true, nil }
			},
			expectedError: errs.ErrDuplicateField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			bus := &MockPublisher{}
			tt.mockSetup(repo)
			svc, _ := newTestService(t, repo, bus)

			identity, err := svc.GuestRegister(context.Background(), tt.input)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, bus.published)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, messages.StatusPending, identity.Status)
			assert.Equal(t, messages.RoleGuest, identity.Role)
			assert.NotEqual(t, tt.input.Password, identity.PasswordHash)
			assert.Equal(t, tt.expectTopics, bus.topics())
		})
	}
}

func TestCompanyRegister(t *testing.T) {
	repo := &MockRepository{}
	noneExist(repo)
	repo.create = func(_ context.Context, i *models.Identity) error {
		i.ID = 11
		return nil
	}
	bus := &MockPublisher{}
	svc, _ := newTestService(t, repo, bus)

	identity, err := svc.CompanyRegister(context.Background(), models.CompanyRegistration{
		Name:           "Kim",
		Surname:        "Lee",
		Email:          "kim@example.com",
		Password:       "secret-password",
		PhoneNumber:    "+15550002",
		IdentityNumber: "11111111111",
		CompanyName:    "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, messages.RoleManager, identity.Role)
	assert.Equal(t, messages.StatusPending, identity.Status)

	require.Len(t, bus.published, 2)
	assert.Equal(t, messages.TopicCompanyRegister, bus.published[0].topic)

	var msg messages.CompanyRegistered
	require.NoError(t, bus.published[0].env.Decode(&msg))
	assert.Equal(t, int64(11), msg.AuthID)
	assert.Equal(t, "Acme", msg.CompanyName)

	_, err = svc.CompanyRegister(context.Background(), models.CompanyRegistration{
		Email:    "kim@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput, "company name is required")
}

func TestActivateByToken(t *testing.T) {
	tests := []struct {
		name          string
		status        messages.Status
		role          messages.Role
		expectedMsg   string
		expectedError error
		expectPublish bool
	}{
		{
			name:          "pending guest activates and fans out",
			status:        messages.StatusPending,
			role:          messages.RoleGuest,
			expectedMsg:   "account activated successfully",
			expectPublish: true,
		},
		{
			name:        "already active is idempotent",
			status:      messages.StatusActive,
			role:        messages.RoleGuest,
			expectedMsg: "account is already active",
		},
		{
			name:          "banned rejects",
			status:        messages.StatusBanned,
			role:          messages.RoleGuest,
			expectedError: errs.ErrAccountBanned,
		},
		{
			name:          "deleted rejects",
			status:        messages.StatusDeleted,
			role:          messages.RoleGuest,
			expectedError: errs.ErrAlreadyDeleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := &models.Identity{
				ID:     3,
				Email:  "jamie@example.com",
				Role:   tt.role,
				Status: tt.status,
			}
			repo := &MockRepository{
				get: func(_ context.Context, id int64) (*models.Identity, error) {
					require.Equal(t, identity.ID, id)
					return identity, nil
				},
				update: func(_ context.Context, i *models.Identity) error {
					return nil
				},
			}
			bus := &MockPublisher{}
			svc, tokens := newTestService(t, repo, bus)

			activation, err := tokens.Activation(identity.ID, string(identity.Role))
			require.NoError(t, err)

			msg, err := svc.ActivateByToken(context.Background(), activation)
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMsg, msg)
			if tt.expectPublish {
				require.Len(t, bus.published, 1)
				assert.Equal(t, messages.TopicGuestActivate, bus.published[0].topic)
			} else {
				assert.Empty(t, bus.published)
			}
		})
	}
}

func TestActivateByToken_InvalidToken(t *testing.T) {
	svc, _ := newTestService(t, &MockRepository{}, &MockPublisher{})
	_, err := svc.ActivateByToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestActivateByToken_SessionTokenRejected(t *testing.T) {
	repo := &MockRepository{
		get: func(context.Context, int64) (*models.Identity, error) {
			t.Fatal("a session token must be rejected before any lookup")
			return nil, nil
		},
	}
	svc, tokens := newTestService(t, repo, &MockPublisher{})

	session, err := tokens.Session(7, string(messages.RoleGuest), "session-code")
	require.NoError(t, err)

	_, err = svc.ActivateByToken(context.Background(), session)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	hash, err := passwords.Hash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name          string
		password      string
		identity      *models.Identity
		getErr        error
		expectedError error
	}{
		{
			name:     "successful login",
			password: "correct-password",
			identity: &models.Identity{
				ID:           5,
				Email:        "jamie@example.com",
				PasswordHash: hash,
				Role:         messages.RoleGuest,
				Status:       messages.StatusActive,
			},
		},
		{
			name:          "unknown email reports invalid credentials",
			password:      "correct-password",
			getErr:        errs.ErrNotFound,
			expectedError: errs.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "wrong-password",
			identity: &models.Identity{
				PasswordHash: hash,
				Status:       messages.StatusActive,
			},
			expectedError: errs.ErrInvalidCredentials,
		},
		{
			name:     "banned account",
			password: "correct-password",
			identity: &models.Identity{
				PasswordHash: hash,
				Status:       messages.StatusBanned,
			},
			expectedError: errs.ErrAccountBanned,
		},
		{
			name:     "pending account",
			password: "correct-password",
			identity: &models.Identity{
				PasswordHash: hash,
				Status:       messages.StatusPending,
			},
			expectedError: errs.ErrAccountNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				getByEmail: func(context.Context, string) (*models.Identity, error) {
					if tt.getErr != nil {
						return nil, tt.getErr
					}
					return tt.identity, nil
				},
			}
			svc, tokens := newTestService(t, repo, &MockPublisher{})

			result, err := svc.Login(context.Background(), "jamie@example.com", tt.password)
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.identity.ID, result.ID)

			claims, err := tokens.Parse(result.Token)
			require.NoError(t, err)
			assert.Equal(t, tt.identity.ID, claims.ID)
			assert.Equal(t, string(tt.identity.Role), claims.Role)
			assert.NotEmpty(t, claims.Code)
		})
	}
}

func TestForgotPassword(t *testing.T) {
	t.Run("guest reset fans out hash and mail", func(t *testing.T) {
		var storedHash string
		identity := &models.Identity{
			ID:           9,
			Email:        "jamie@example.com",
			Role:         messages.RoleGuest,
			Status:       messages.StatusActive,
			PasswordHash: "old-hash",
		}
		repo := &MockRepository{
			getByEmail: func(context.Context, string) (*models.Identity, error) { return identity, nil },
			update: func(_ context.Context, i *models.Identity) error {
				storedHash = i.PasswordHash
				return nil
			},
		}
		bus := &MockPublisher{}
		svc, _ := newTestService(t, repo, bus)

		_, err := svc.ForgotPassword(context.Background(), identity.Email)
		require.NoError(t, err)
		require.Len(t, bus.published, 2)
		assert.Equal(t, messages.TopicGuestForgotPassword, bus.published[0].topic)
		assert.Equal(t, messages.TopicMailForgotPassword, bus.published[1].topic)

		var reset messages.PasswordReset
		require.NoError(t, bus.published[0].env.Decode(&reset))
		assert.Equal(t, storedHash, reset.PasswordHash)

		var mail messages.PasswordResetMail
		require.NoError(t, bus.published[1].env.Decode(&mail))
		assert.True(t, passwords.Matches(storedHash, mail.Password),
			"mailed plaintext must match the stored hash")
	})

	t.Run("admin reset sends mail only", func(t *testing.T) {
		identity := &models.Identity{
			ID:     2,
			Email:  "admin@example.com",
			Role:   messages.RoleAdmin,
			Status: messages.StatusActive,
		}
		repo := &MockRepository{
			getByEmail: func(context.Context, string) (*models.Identity, error) { return identity, nil },
			update:     func(context.Context, *models.Identity) error { return nil },
		}
		bus := &MockPublisher{}
		svc, _ := newTestService(t, repo, bus)

		_, err := svc.ForgotPassword(context.Background(), identity.Email)
		require.NoError(t, err)
		assert.Equal(t, []string{messages.TopicMailForgotPassword}, bus.topics())
	})
}

func TestCreateProvisioned(t *testing.T) {
	t.Run("employee identity created active with reply", func(t *testing.T) {
		repo := &MockRepository{
			getByEmail: func(context.Context, string) (*models.Identity, error) {
				return nil, errs.ErrNotFound
			},
			create: func(_ context.Context, i *models.Identity) error {
				i.ID = 21
				return nil
			},
		}
		noneExist(repo)
		bus := &MockPublisher{}
		svc, _ := newTestService(t, repo, bus)

		env, err := messaging.NewEnvelope(messages.KindEmployeeCreated, messages.EmployeeCreated{
			Name:  "Pat",
			Email: "pat@example.com",
			Role:  messages.RoleEmployee,
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleEmployeeCreated(context.Background(), env))

		require.Len(t, bus.published, 1)
		assert.Equal(t, messages.TopicEmployeeSetAuthID, bus.published[0].topic)
		var reply messages.SetAuthID
		require.NoError(t, bus.published[0].env.Decode(&reply))
		assert.Equal(t, int64(21), reply.AuthID)
		assert.Equal(t, "pat@example.com", reply.Email)
	})

	t.Run("redelivery replies with existing id", func(t *testing.T) {
		created := 0
		repo := &MockRepository{
			getByEmail: func(context.Context, string) (*models.Identity, error) {
				return &models.Identity{ID: 21, Email: "pat@example.com"}, nil
			},
			create: func(context.Context, *models.Identity) error {
				created++
				return nil
			},
		}
		bus := &MockPublisher{}
		svc, _ := newTestService(t, repo, bus)

		env, err := messaging.NewEnvelope(messages.KindAdminSaved, messages.AdminSaved{
			Email: "pat@example.com",
			Role:  messages.RoleAdmin,
		})
		require.NoError(t, err)
		require.NoError(t, svc.HandleAdminSaved(context.Background(), env))

		assert.Zero(t, created, "redelivery must not create a second identity")
		require.Len(t, bus.published, 1)
		assert.Equal(t, messages.TopicAdminSetAuthID, bus.published[0].topic)
	})
}

func TestHandleAuthUpdated(t *testing.T) {
	identity := &models.Identity{
		ID:          4,
		Email:       "old@example.com",
		PhoneNumber: "+15550001",
		Name:        "Old",
		Status:      messages.StatusActive,
	}
	var updated *models.Identity
	repo := &MockRepository{
		get: func(context.Context, int64) (*models.Identity, error) { return identity, nil },
		existsOtherByEmail: func(context.Context, string, int64) (bool, error) {
			return false, nil
		},
		existsOtherByPhone: func(context.Context, string, int64) (bool, error) {
			return false, nil
		},
		update: func(_ context.Context, i *models.Identity) error {
			updated = i
			return nil
		},
	}
	svc, _ := newTestService(t, repo, &MockPublisher{})

	env, err := messaging.NewEnvelope(messages.KindAuthUpdated, messages.AuthUpdated{
		AuthID: 4,
		Email:  "new@example.com",
		Name:   "New",
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleAuthUpdated(context.Background(), env))

	require.NotNil(t, updated)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "+15550001", updated.PhoneNumber, "empty fields stay untouched")
}

func TestHandleAuthDeleted(t *testing.T) {
	identity := &models.Identity{ID: 6, Status: messages.StatusDeleted}
	updates := 0
	repo := &MockRepository{
		get: func(context.Context, int64) (*models.Identity, error) { return identity, nil },
		update: func(context.Context, *models.Identity) error {
			updates++
			return nil
		},
	}
	svc, _ := newTestService(t, repo, &MockPublisher{})

	env, err := messaging.NewEnvelope(messages.KindAuthDeleted, messages.AuthDeleted{
		AuthID: 6,
		Status: messages.StatusDeleted,
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleAuthDeleted(context.Background(), env))
	assert.Zero(t, updates, "deleting a deleted identity is a no-op")
}

func TestSoftDelete(t *testing.T) {
	identity := &models.Identity{ID: 8, Name: "Jamie", Surname: "Doe", Status: messages.StatusActive}
	repo := &MockRepository{
		get:    func(context.Context, int64) (*models.Identity, error) { return identity, nil },
		update: func(context.Context, *models.Identity) error { return nil },
	}
	svc, _ := newTestService(t, repo, &MockPublisher{})

	msg, err := svc.SoftDelete(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "Jamie Doe has been deleted", msg)
	assert.Equal(t, messages.StatusDeleted, identity.Status)

	_, err = svc.SoftDelete(context.Background(), 8)
	assert.ErrorIs(t, err, errs.ErrAlreadyDeleted)
}

func TestFindByID_DeletedReportsNotFound(t *testing.T) {
	repo := &MockRepository{
		get: func(context.Context, int64) (*models.Identity, error) {
			return &models.Identity{ID: 1, Status: messages.StatusDeleted}, nil
		},
	}
	svc, _ := newTestService(t, repo, &MockPublisher{})

	_, err := svc.FindByID(context.Background(), 1)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}
