package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	envelope, data := decodeEnvelope(t, w)
	assert.True(t, envelope.Status)
	assert.NotEmpty(t, data["token"])

	user, ok := data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user", user["role"])
	// The password hash never leaves the API.
	assert.NotContains(t, user, "password")

	// Same email again is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Ana Again",
		"email":    "ana@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Mallory",
		"email":    "mallory@example.com",
		"password": "secret123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r, db := setupTestEnv(t)
	createUser(t, db, "bob@example.com", "user")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "bob@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decodeEnvelope(t, w)
	assert.NotEmpty(t, data["token"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "bob@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile(t *testing.T) {
	r, db := setupTestEnv(t)
	user, token := createUser(t, db, "carol@example.com", "user")

	w := doJSON(t, r, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope, _ := decodeEnvelope(t, w)
	profile, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, user.ID, profile["id"])
	assert.Equal(t, "carol@example.com", profile["email"])

	// No token, no profile.
	w = doJSON(t, r, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	r, db := setupTestEnv(t)
	_, token := createUser(t, db, "dave@example.com", "user")

	w := doJSON(t, r, http.MethodPut, "/api/profile", token, map[string]interface{}{
		"name":  "Dave Updated",
		"phone": "555-0101",
	})
	require.Equal(t, http.StatusOK, w.Code)

	envelope, _ := decodeEnvelope(t, w)
	profile, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Dave Updated", profile["name"])
	assert.Equal(t, "555-0101", profile["phone"])
}
