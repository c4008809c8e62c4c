// internal/services/auth_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shackcart/backoffice/internal/models"
	"github.com/shackcart/backoffice/internal/utils"
)

func TestLoginBootstrapsFirstOperator(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	svc := NewAuthService(db, &cfg.JWT)

	result, err := svc.Login("Owner@Shop.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.com", result.User.Email)
	assert.NotEmpty(t, result.Token)
	assert.NotNil(t, result.User.LastLoginAt)

	claims, err := utils.ValidateJWT(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), claims.UserID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, &cfg.JWT)

	_, err := svc.Login("owner@shop.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login("owner@shop.com", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginNoSignupOnceOperatorExists(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, &cfg.JWT)

	_, err := svc.Login("owner@shop.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login("intruder@shop.com", "whatever")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
