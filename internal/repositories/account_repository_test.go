package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"akun/internal/database"
	"akun/internal/models"
	"akun/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// repositoryFactories builds every AccountRepository implementation against a fresh store.
func repositoryFactories(t *testing.T) map[string]func() repositories.AccountRepository {
	return map[string]func() repositories.AccountRepository{
		"gorm": func() repositories.AccountRepository {
			dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
			db, err := database.Open(database.DriverSQLite, dsn)
			require.NoError(t, err)
			return repositories.NewGORMAccountRepository(db)
		},
		"memory": func() repositories.AccountRepository {
			return repositories.NewMockAccountRepository()
		},
	}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo()

			alice := &models.Account{Username: "alice", Email: strPtr("alice@example.com"), Password: "hash"}
			require.NoError(t, repo.Create(ctx, alice))
			assert.NotZero(t, alice.ID)

			bob := &models.Account{Username: "bob", Password: "hash"}
			require.NoError(t, repo.Create(ctx, bob))
			assert.NotEqual(t, alice.ID, bob.ID)

			found, err := repo.FindByAccount(ctx, "alice")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, alice.ID, found.ID)

			found, err = repo.FindByAccount(ctx, "alice@example.com")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "alice", found.Username)

			found, err = repo.FindByAccount(ctx, "Alice")
			require.NoError(t, err)
			assert.Nil(t, found, "lookup is case-sensitive")

			found, err = repo.FindByAccount(ctx, "nobody")
			require.NoError(t, err)
			assert.Nil(t, found)

			found, err = repo.FindByID(ctx, bob.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "bob", found.Username)
			assert.Nil(t, found.Email)

			found, err = repo.FindByID(ctx, bob.ID+100)
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	}
}

func TestAccountRepository_Duplicates(t *testing.T) {
	ctx := context.Background()
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo()

			require.NoError(t, repo.Create(ctx, &models.Account{Username: "alice", Email: strPtr("alice@example.com"), Password: "hash"}))

			err := repo.Create(ctx, &models.Account{Username: "alice", Password: "hash"})
			assert.ErrorIs(t, err, repositories.ErrDuplicateAccount)

			err = repo.Create(ctx, &models.Account{Username: "alice2", Email: strPtr("alice@example.com"), Password: "hash"})
			assert.ErrorIs(t, err, repositories.ErrDuplicateAccount)

			// Accounts without email do not collide with each other.
			require.NoError(t, repo.Create(ctx, &models.Account{Username: "bob", Password: "hash"}))
			require.NoError(t, repo.Create(ctx, &models.Account{Username: "carol", Password: "hash"}))
		})
	}
}

func TestAccountRepository_ConcurrentCreateSameUsername(t *testing.T) {
	ctx := context.Background()
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo()

			const attempts = 8
			errs := make([]error, attempts)
			var wg sync.WaitGroup
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = repo.Create(ctx, &models.Account{Username: "alice", Password: "hash"})
				}(i)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				assert.ErrorIs(t, err, repositories.ErrDuplicateAccount)
			}
			assert.Equal(t, 1, succeeded)
		})
	}
}

func TestAccountRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	for name, newRepo := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo()

			alice := &models.Account{Username: "alice", Password: "old-hash"}
			require.NoError(t, repo.Create(ctx, alice))

			require.NoError(t, repo.UpdatePassword(ctx, alice.ID, "new-hash"))

			found, err := repo.FindByID(ctx, alice.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "new-hash", found.Password)
			assert.Equal(t, "alice", found.Username)

			err = repo.UpdatePassword(ctx, alice.ID+100, "new-hash")
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "not found")
		})
	}
}
