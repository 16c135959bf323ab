package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"termin/infras/jwt"
	jwtMocks "termin/infras/jwt/mocks"
	otelMocks "termin/infras/otel/mocks"
	"termin/internal/domains/auth/model/dto"
	"termin/internal/domains/auth/service"
	userMocks "termin/internal/domains/user/mocks"
	userModel "termin/internal/domains/user/model"
	"termin/shared/constant"
	"termin/shared/failure"
	"termin/shared/password"
)

var fixedNow = time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc  service.Auth
	repo *userMocks.MockUser
	jwt  *jwtMocks.MockJWT
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo: userMocks.NewMockUser(ctrl),
		jwt:  jwtMocks.NewMockJWT(ctrl),
	}

	f.svc = service.New(f.repo, otelMocks.NewOtel(), f.jwt, func() time.Time { return fixedNow })

	return f
}

func storedUser(t *testing.T, active bool) userModel.User {
	t.Helper()

	hash, err := password.Hash("geheim123")
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-1",
		Email:    "erika@example.org",
		Password: hash,
		FullName: "Erika Muster",
		Role:     constant.RoleUser,
		Active:   active,
	}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{Email: "erika@example.org", Password: "geheim123", FullName: "Erika Muster"}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "success",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u userModel.User) error {
					assert.Equal(t, constant.RoleUser, u.Role)
					assert.Equal(t, fixedNow, u.CreatedAt)
					assert.NoError(t, password.Verify("geheim123", u.Password))

					return nil
				})
			},
		},
		{
			name: "email already registered",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent registration hits unique index",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Register(context.Background(), req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
	}{
		{
			name: "success",
			req:  dto.LoginRequest{Email: "erika@example.org", Password: "geheim123"},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), jwt.Identity{
					UserID: "user-1",
					Email:  "erika@example.org",
					Name:   "Erika Muster",
					Role:   constant.RoleUser,
				}).Return(pair, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
					assert.Equal(t, fixedNow, fields["last_login"])

					return nil
				})
			},
		},
		{
			name: "last login update failure does not block login",
			req:  dto.LoginRequest{Email: "erika@example.org", Password: "geheim123"},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any()).Return(pair, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.org", Password: "geheim123"},
			setupMock: func(_ *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "erika@example.org", Password: "falsch123"},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "erika@example.org", Password: "geheim123"},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, false), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation fails",
			req:  dto.LoginRequest{Email: "erika@example.org", Password: "geheim123"},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any()).Return(nil, errors.New("sign failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "refresh", res.RefreshToken)
			assert.Equal(t, "user-1", res.User.ID)
			assert.Equal(t, constant.RoleUser, res.User.Role)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "refresh").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
		assert.Equal(t, "new-refresh", res.RefreshToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "stale").Return(nil, errors.New("token expired"))

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "stale"})

		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
	}{
		{
			name: "success",
			req:  dto.ChangePasswordRequest{CurrentPassword: "geheim123", NewPassword: "neuesPasswort1"},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
					hash, ok := fields["password"].(string)
					require.True(t, ok)
					assert.NoError(t, password.Verify("neuesPasswort1", hash))

					return nil
				})
			},
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "falsch123", NewPassword: "neuesPasswort1"},
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "user vanished",
			req:  dto.ChangePasswordRequest{CurrentPassword: "geheim123", NewPassword: "neuesPasswort1"},
			setupMock: func(_ *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			err := f.svc.ChangePassword(ctx, tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}
