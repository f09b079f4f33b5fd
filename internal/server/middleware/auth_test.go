package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{userID: userID}, nil
}

type testClaims struct {
	userID uuid.UUID
}

func (c *testClaims) GetUserID() uuid.UUID {
	return c.userID
}

type result struct {
	called bool
	userID uuid.UUID
	hasID  bool
}

func serve(t *testing.T, validator TokenValidator, authHeader string) (*httptest.ResponseRecorder, *result) {
	t.Helper()
	res := &result{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.called = true
		id, err := GetUserID(r)
		res.hasID = err == nil
		res.userID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/keyword-extraction", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	OptionalAuth(validator, "anon-key")(handler).ServeHTTP(w, req)
	return w, res
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	validator := &testTokenValidator{validTokens: map[string]uuid.UUID{"good-token": userID}}

	tests := []struct {
		name       string
		validator  TokenValidator
		header     string
		wantStatus int
		wantUser   bool
	}{
		{"no header is anonymous", validator, "", http.StatusOK, false},
		{"anon key is anonymous", validator, "Bearer anon-key", http.StatusOK, false},
		{"valid token", validator, "Bearer good-token", http.StatusOK, true},
		{"lowercase scheme", validator, "bearer good-token", http.StatusOK, true},
		{"invalid token", validator, "Bearer bad-token", http.StatusUnauthorized, false},
		{"basic scheme", validator, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, false},
		{"missing token", validator, "Bearer", http.StatusUnauthorized, false},
		{"extra parts", validator, "Bearer good-token extra", http.StatusUnauthorized, false},
		{"no validator rejects user tokens", nil, "Bearer good-token", http.StatusUnauthorized, false},
		{"no validator accepts anon key", nil, "Bearer anon-key", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, res := serve(t, tt.validator, tt.header)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, res.called)
			assert.Equal(t, tt.wantUser, res.hasID)
			if tt.wantUser {
				assert.Equal(t, userID, res.userID)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"error":"Unauthorized"`)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	id, err := GetUserID(req)
	require.Error(t, err)
	assert.Equal(t, uuid.Nil, id)
}

func TestWithUserID(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUserID(context.Background(), userID))

	id, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, id)
}
