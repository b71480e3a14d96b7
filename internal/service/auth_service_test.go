package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/repository/postgres"
	"github.com/streamhub/backend/internal/service"
	"github.com/streamhub/backend/internal/testutil"
)

func newAuthService(t *testing.T) (*service.AuthService, *testutil.TestDB, *testutil.FakeStore) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	store := testutil.NewFakeStore()
	tokens := service.NewTokenService(repos.User, cfg)
	return service.NewAuthService(repos.User, tokens, store, cfg), testDB, store
}

func TestAuthService_Register(t *testing.T) {
	auth, testDB, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   func(t *testing.T) service.RegisterInput
		setup   func(t *testing.T)
		wantErr error
		check   func(t *testing.T, user *domain.User)
	}{
		{
			name: "successful registration",
			input: func(t *testing.T) service.RegisterInput {
				return service.RegisterInput{
					Username:   "NewUser",
					Email:      "new@example.com",
					FullName:   "New User",
					Password:   "password123",
					AvatarPath: testutil.TempUpload(t, ".png"),
				}
			},
			check: func(t *testing.T, user *domain.User) {
				// Username is normalized, avatar is uploaded, password is hashed.
				assert.Equal(t, "newuser", user.Username)
				assert.NotEmpty(t, user.Avatar)
				assert.NotEqual(t, "password123", user.PasswordHash)
			},
		},
		{
			name: "missing field",
			input: func(t *testing.T) service.RegisterInput {
				return service.RegisterInput{
					Username:   "nobody",
					Email:      "",
					FullName:   "No Body",
					Password:   "password123",
					AvatarPath: testutil.TempUpload(t, ".png"),
				}
			},
		},
		{
			name: "missing avatar",
			input: func(t *testing.T) service.RegisterInput {
				return service.RegisterInput{
					Username: "noavatar",
					Email:    "noavatar@example.com",
					FullName: "No Avatar",
					Password: "password123",
				}
			},
		},
		{
			name: "duplicate username",
			input: func(t *testing.T) service.RegisterInput {
				return service.RegisterInput{
					Username:   "existing",
					Email:      "fresh@example.com",
					FullName:   "Fresh",
					Password:   "password123",
					AvatarPath: testutil.TempUpload(t, ".png"),
				}
			},
			setup: func(t *testing.T) {
				testutil.NewUserBuilder().WithUsername("existing").Build(t, testDB.DB)
			},
			wantErr: service.ErrUserExists,
		},
		{
			name: "duplicate email",
			input: func(t *testing.T) service.RegisterInput {
				return service.RegisterInput{
					Username:   "fresh",
					Email:      "taken@example.com",
					FullName:   "Fresh",
					Password:   "password123",
					AvatarPath: testutil.TempUpload(t, ".png"),
				}
			},
			setup: func(t *testing.T) {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, testDB.DB)
			},
			wantErr: service.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)
			if tt.setup != nil {
				tt.setup(t)
			}

			var before int64
			require.NoError(t, testDB.DB.Model(&domain.User{}).Count(&before).Error)

			user, err := auth.Register(ctx, tt.input(t))

			if tt.wantErr != nil || tt.check == nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				// A failed registration must not create a user.
				var after int64
				require.NoError(t, testDB.DB.Model(&domain.User{}).Count(&after).Error)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			tt.check(t, user)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	auth, testDB, _ := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "login by username",
			input: service.LoginInput{Username: "loginuser", Password: rawPassword},
		},
		{
			name:  "login by email",
			input: service.LoginInput{Email: "login@example.com", Password: rawPassword},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Username: "loginuser", Password: "wrongpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "unknown user",
			input:   service.LoginInput{Username: "ghost", Password: rawPassword},
			wantErr: service.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := auth.Login(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}

	t.Run("missing identifier", func(t *testing.T) {
		_, err := auth.Login(ctx, service.LoginInput{Password: rawPassword})
		require.Error(t, err)
	})
}

func TestAuthService_LogoutInvalidatesRefreshToken(t *testing.T) {
	auth, testDB, _ := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	result, err := auth.Login(ctx, service.LoginInput{Username: user.Username, Password: rawPassword})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, user.ID))

	// The old refresh token is cryptographically valid but no longer stored.
	_, err = auth.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuthService_Refresh(t *testing.T) {
	auth, testDB, _ := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := auth.Login(ctx, service.LoginInput{Username: user.Username, Password: rawPassword})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Presenting the superseded token again fails.
	_, err = auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	t.Run("empty token", func(t *testing.T) {
		_, err := auth.Refresh(ctx, "")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	auth, testDB, _ := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("wrong old password", func(t *testing.T) {
		err := auth.ChangePassword(ctx, user.ID, "not-the-password", "newpassword123")
		require.Error(t, err)
	})

	t.Run("successful change", func(t *testing.T) {
		require.NoError(t, auth.ChangePassword(ctx, user.ID, rawPassword, "newpassword123"))

		_, err := auth.Login(ctx, service.LoginInput{Username: user.Username, Password: rawPassword})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = auth.Login(ctx, service.LoginInput{Username: user.Username, Password: "newpassword123"})
		assert.NoError(t, err)
	})
}

func TestAuthService_UpdateAvatarDeletesReplacedImage(t *testing.T) {
	auth, testDB, store := newAuthService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	oldAvatar := user.Avatar

	updated, err := auth.UpdateAvatar(ctx, user.ID, testutil.TempUpload(t, ".png"))
	require.NoError(t, err)
	assert.NotEqual(t, oldAvatar, updated.Avatar)
	assert.Contains(t, store.Deleted(), oldAvatar)
}
