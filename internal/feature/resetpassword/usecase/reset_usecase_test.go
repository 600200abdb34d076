package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	authusecase "datadvisor_backend/internal/feature/auth/usecase"
	"datadvisor_backend/internal/platform/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	FindByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, authusecase.ErrUserNotFound
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

// mockMailer is a mock implementation of the Mailer interface.
type mockMailer struct {
	SendPasswordResetFunc func(ctx context.Context, to, link string) error
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(ctx, to, link)
	}
	return nil
}

// testUser builds a user whose stored password hash is a real bcrypt hash,
// since the reset flow derives token secrets from it.
func testUser(t *testing.T, password string) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err, "failed to hash test password")
	return &entity.User{
		ID:       "user-1",
		Email:    "john@example.com",
		Password: string(hash),
	}
}

func TestResetUsecase_Send(t *testing.T) {
	t.Run("mails a link carrying a token bound to the current hash", func(t *testing.T) {
		user := testUser(t, "passw0rd")
		users := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				assert.Equal(t, "john@example.com", email)
				return user, nil
			},
		}

		var sentLink string
		mailer := &mockMailer{
			SendPasswordResetFunc: func(ctx context.Context, to, link string) error {
				assert.Equal(t, "john@example.com", to)
				sentLink = link
				return nil
			},
		}

		signer := token.NewSigner()
		uc := NewResetUsecase(users, signer, mailer, "reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")

		err := uc.Send(context.Background(), "john@example.com")
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(sentLink, "https://app.example.com/reset-password/reset/"),
			"unexpected link shape: %s", sentLink)

		// The embedded token must verify against secret+currentHash only.
		tokenStr := strings.TrimPrefix(sentLink, "https://app.example.com/reset-password/reset/")
		email, err := signer.Verify(tokenStr, "reset-secret"+user.Password)
		require.NoError(t, err)
		assert.Equal(t, "john@example.com", email)

		_, err = signer.Verify(tokenStr, "reset-secret")
		assert.ErrorIs(t, err, token.ErrInvalidToken, "token must not verify without the hash binding")
	})

	t.Run("unknown email returns ErrUserNotFound", func(t *testing.T) {
		mailer := &mockMailer{
			SendPasswordResetFunc: func(ctx context.Context, to, link string) error {
				t.Error("mailer must not be called for an unknown account")
				return nil
			},
		}

		uc := NewResetUsecase(&mockUserRepository{}, token.NewSigner(), mailer,
			"reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")
		err := uc.Send(context.Background(), "ghost@example.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("mail transport failure propagates", func(t *testing.T) {
		user := testUser(t, "passw0rd")
		users := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return user, nil
			},
		}
		mailer := &mockMailer{
			SendPasswordResetFunc: func(ctx context.Context, to, link string) error {
				return errors.New("smtp unavailable")
			},
		}

		uc := NewResetUsecase(users, token.NewSigner(), mailer,
			"reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")
		err := uc.Send(context.Background(), "john@example.com")

		assert.ErrorContains(t, err, "smtp unavailable")
	})
}

func TestResetUsecase_Reset(t *testing.T) {
	issue := func(t *testing.T, signer *token.Signer, user *entity.User, ttl time.Duration) string {
		t.Helper()
		tokenStr, err := signer.Issue(user.Email, "reset-secret"+user.Password, ttl)
		require.NoError(t, err, "failed to issue test token")
		return tokenStr
	}

	t.Run("valid token updates the password hash", func(t *testing.T) {
		user := testUser(t, "passw0rd")
		signer := token.NewSigner()
		tokenStr := issue(t, signer, user, time.Hour)

		var updatedHash string
		users := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return user, nil
			},
			UpdatePasswordFunc: func(ctx context.Context, id, passwordHash string) error {
				assert.Equal(t, "user-1", id)
				updatedHash = passwordHash
				return nil
			},
		}

		uc := NewResetUsecase(users, signer, &mockMailer{}, "reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")
		err := uc.Reset(context.Background(), tokenStr, "newpass1")

		require.NoError(t, err)
		require.NotEmpty(t, updatedHash, "password hash was not updated")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updatedHash), []byte("newpass1")),
			"stored hash must match the new password")
		assert.NotEqual(t, user.Password, updatedHash, "hash must change")
	})

	t.Run("self-invalidation: token issued before a password change fails after it", func(t *testing.T) {
		user := testUser(t, "passw0rd")
		signer := token.NewSigner()

		// Token A minted while the hash was H1.
		tokenA := issue(t, signer, user, time.Hour)

		// The password changes: the stored hash is now H2.
		newHash, err := bcrypt.GenerateFromPassword([]byte("newpass1"), bcrypt.MinCost)
		require.NoError(t, err)
		user.Password = string(newHash)

		users := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return user, nil
			},
			UpdatePasswordFunc: func(ctx context.Context, id, passwordHash string) error {
				t.Error("update must not run for a self-invalidated token")
				return nil
			},
		}

		uc := NewResetUsecase(users, signer, &mockMailer{}, "reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")
		err = uc.Reset(context.Background(), tokenA, "newpass2")

		// Well before its nominal expiry, token A no longer verifies.
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token fails regardless of signature validity", func(t *testing.T) {
		user := testUser(t, "passw0rd")
		signer := token.NewSigner()
		tokenStr := issue(t, signer, user, -time.Minute)

		users := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return user, nil
			},
		}

		uc := NewResetUsecase(users, signer, &mockMailer{}, "reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")
		err := uc.Reset(context.Background(), tokenStr, "newpass1")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("undecodable token returns ErrInvalidToken", func(t *testing.T) {
		uc := NewResetUsecase(&mockUserRepository{}, token.NewSigner(), &mockMailer{},
			"reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")
		err := uc.Reset(context.Background(), "garbage", "newpass1")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token for a vanished account returns ErrUserNotFound", func(t *testing.T) {
		user := testUser(t, "passw0rd")
		signer := token.NewSigner()
		tokenStr := issue(t, signer, user, time.Hour)

		uc := NewResetUsecase(&mockUserRepository{}, signer, &mockMailer{},
			"reset-secret", time.Hour, bcrypt.MinCost, "https://app.example.com")
		err := uc.Reset(context.Background(), tokenStr, "newpass1")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
