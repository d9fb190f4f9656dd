package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/paras1506/CSR-Health-Group/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	deptID := uuid.New()

	user := &model.User{
		ID:           uuid.New(),
		FirstName:    "Asha",
		LastName:     "Patil",
		Email:        "asha@example.com",
		Phone:        "9876543210",
		Role:         model.RoleHeadOfDepartment,
		DepartmentID: &deptID,
		IsVerified:   true,
	}

	token, err := svc.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleHeadOfDepartment, claims.Role)
	assert.Equal(t, "Asha Patil", claims.Name)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "9876543210", claims.Phone)
	if assert.NotNil(t, claims.DepartmentID) {
		assert.Equal(t, deptID, *claims.DepartmentID)
	}
	assert.True(t, claims.IsVerified)

	expires := claims.ExpiresAt.Time
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), expires, time.Minute)
}

func TestJWTService_WrongKeyRejected(t *testing.T) {
	svc := NewJWTService("test-secret")
	other := NewJWTService("other-secret")

	token, err := svc.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleDonor})
	assert.NoError(t, err)

	claims, err := other.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret")

	expired := &Claims{
		UserID: uuid.New(),
		Role:   model.RoleDonor,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-49 * time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_UnexpectedSigningMethodRejected(t *testing.T) {
	svc := NewJWTService("test-secret")

	// alg=none tokens must never validate.
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
