package utils

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/hostel_pg_finder/backend/models"
)

var testKey = []byte("test-secret")

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testKey, "65f0c0ffee")
	require.NoError(t, err)

	claims, err := ValidateJWT(testKey, token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee", claims.UserID)
	assert.Equal(t, "hostel_pg_finder", claims.Issuer)
}

func TestJWTWrongKey(t *testing.T) {
	token, err := GenerateJWT(testKey, "65f0c0ffee")
	require.NoError(t, err)

	_, err = ValidateJWT([]byte("other"), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTExpired(t *testing.T) {
	claims := &Claims{
		UserID: "65f0c0ffee",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = ValidateJWT(testKey, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTGarbage(t *testing.T) {
	_, err := ValidateJWT(testKey, "not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}

func TestValidateRequiredFields(t *testing.T) {
	err := Validate(models.PropertyInput{PropertyType: "Villa"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "address.city is required")
	assert.Contains(t, msg, "propertyType must be one of: Hostel PG Flat Room")
	assert.Contains(t, msg, "contactInfo.phone is required")
}

func TestValidateOccupationWithSpace(t *testing.T) {
	budget := 8000.0
	in := models.RoommateInput{
		Name:        "Kiran",
		Age:         24,
		Gender:      "Other",
		Occupation:  "Working Professional",
		Budget:      &budget,
		Location:    "Pune",
		Description: "quiet",
		ContactInfo: &models.RoommateContact{Phone: "1", Email: "k@example.com"},
	}
	assert.NoError(t, Validate(in))

	in.Occupation = "Astronaut"
	assert.ErrorContains(t, Validate(in), "occupation must be one of")
}

func TestValidateRoommateBudget(t *testing.T) {
	in := models.RoommateInput{
		Name:        "Kiran",
		Age:         24,
		Gender:      "Other",
		Occupation:  "Student",
		Location:    "Pune",
		Description: "quiet",
		ContactInfo: &models.RoommateContact{Phone: "1", Email: "k@example.com"},
	}
	assert.EqualError(t, Validate(in), "budget is required")

	zero := 0.0
	in.Budget = &zero
	assert.NoError(t, Validate(in))

	negative := -1.0
	in.Budget = &negative
	assert.ErrorContains(t, Validate(in), "budget")
}

func TestValidatePartialUpdate(t *testing.T) {
	zero := 0.0
	bad := "Villa"
	assert.NoError(t, Validate(models.PropertyUpdate{}))
	assert.NoError(t, Validate(models.PropertyUpdate{Price: &zero}))
	assert.Error(t, Validate(models.PropertyUpdate{PropertyType: &bad}))
}

type flakyStore struct {
	calls int
	err   error
}

func (f *flakyStore) Upload(context.Context, io.Reader) (UploadResult, error) {
	f.calls++
	if f.err != nil {
		return UploadResult{}, f.err
	}
	return UploadResult{URL: "https://res.cloudinary.com/demo/x.jpg", PublicID: "hostel_pg_finder/x"}, nil
}

func TestBreakerStorePassesThrough(t *testing.T) {
	next := &flakyStore{}
	s := NewBreakerStore("test-pass", next)

	res, err := s.Upload(context.Background(), strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "hostel_pg_finder/x", res.PublicID)
}

func TestBreakerStoreOpensAfterFailures(t *testing.T) {
	next := &flakyStore{err: errors.New("502")}
	s := NewBreakerStore("test-open", next)

	for i := 0; i < 5; i++ {
		_, err := s.Upload(context.Background(), strings.NewReader("img"))
		require.Error(t, err)
	}

	_, err := s.Upload(context.Background(), strings.NewReader("img"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, next.calls)
}

func TestDisabledStore(t *testing.T) {
	_, err := DisabledStore{}.Upload(context.Background(), strings.NewReader("img"))
	assert.ErrorIs(t, err, ErrImageStoreDisabled)
}
