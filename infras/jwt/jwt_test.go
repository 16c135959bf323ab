package jwt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termin/config"
	"termin/infras/jwt"
	otelMocks "termin/infras/otel/mocks"
)

func newJWT(now *time.Time) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "termin"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60 * 24

	return jwt.New(cfg, otelMocks.NewOtel(), func() time.Time { return *now })
}

var identity = jwt.Identity{UserID: "u-1", Email: "erika@example.org", Name: "Erika Muster", Role: "user"}

func TestJWT_RoundTrip(t *testing.T) {
	now := time.Now()
	svc := newJWT(&now)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity)
	assert.Equal(t, "u-1", claims.Subject)

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "garbage", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestJWT_Expired(t *testing.T) {
	now := time.Now()
	svc := newJWT(&now)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, identity)
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)

	refreshed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity)
}

func TestJWT_RefreshRejectsAccessToken(t *testing.T) {
	now := time.Now()
	svc := newJWT(&now)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, identity)
	require.NoError(t, err)

	_, err = svc.RefreshTokens(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def", want: "abc.def"},
		{header: "", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		got, err := jwt.ExtractTokenFromHeader(tt.header)
		if tt.wantErr {
			assert.Error(t, err, tt.header)

			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
