package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hrms/internal/auth/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
)

func setupTestDB(t *testing.T) *Repository {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")

	repo, err := NewWithDB(gdb)
	require.NoError(t, err, "failed to migrate test database")
	return repo
}

func testIdentity(email, phone string) *models.Identity {
	return &models.Identity{
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: "hash",
		Name:         "Jamie",
		Surname:      "Doe",
		Role:         messages.RoleGuest,
		Status:       messages.StatusPending,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	identity := testIdentity("jamie@example.com", "+15550001")
	require.NoError(t, repo.Create(ctx, identity))
	assert.NotZero(t, identity.ID, "create should assign an id")

	got, err := repo.Get(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.Email, got.Email)
	assert.False(t, got.CreatedAt.IsZero())

	got, err = repo.GetByEmail(ctx, identity.Email)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)
}

func TestGetNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testIdentity("dup@example.com", "+15550001")))
	err := repo.Create(ctx, testIdentity("dup@example.com", "+15550002"))
	assert.ErrorIs(t, err, errs.ErrDuplicateField)
}

func TestExistsChecks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	a := testIdentity("a@example.com", "+15550001")
	b := testIdentity("b@example.com", "+15550002")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	exists, err := repo.ExistsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByPhoneNumber(ctx, "+15559999")
	require.NoError(t, err)
	assert.False(t, exists)

	// A record never collides with itself on the update path.
	exists, err = repo.ExistsOtherByEmail(ctx, "a@example.com", a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsOtherByEmail(ctx, "a@example.com", b.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdatePersistsStatus(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	identity := testIdentity("jamie@example.com", "+15550001")
	require.NoError(t, repo.Create(ctx, identity))

	identity.Status = messages.StatusActive
	require.NoError(t, repo.Update(ctx, identity))

	got, err := repo.Get(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, messages.StatusActive, got.Status)
}

func TestListActive(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	active := testIdentity("active@example.com", "+15550001")
	active.Status = messages.StatusActive
	pending := testIdentity("pending@example.com", "+15550002")
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, pending))

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "active@example.com", list[0].Email)
}
