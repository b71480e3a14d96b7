package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhub/backend/internal/testutil"
)

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func registerMultipart(t *testing.T, url, username, email, password string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("username", username))
	require.NoError(t, writer.WriteField("email", email))
	require.NoError(t, writer.WriteField("fullName", "Test User"))
	require.NoError(t, writer.WriteField("password", password))

	part, err := writer.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = io.WriteString(part, "fake image bytes")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(url, writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestAuthLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// Register.
	resp := registerMultipart(t, ts.APIURL("/users/register"), "LifecycleUser", "lifecycle@example.com", "password123")
	env := decodeEnvelope(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	var registered map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "lifecycleuser", registered["username"])
	// Secrets never serialize.
	assert.NotContains(t, registered, "passwordHash")
	assert.NotContains(t, registered, "password")
	assert.NotContains(t, registered, "refreshToken")

	// Login.
	resp = postJSON(t, ts.APIURL("/users/login"), map[string]string{
		"username": "lifecycleuser",
		"password": "password123",
	}, nil)
	env = decodeEnvelope(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	authHeader := map[string]string{"Authorization": "Bearer " + tokens.AccessToken}

	// An authenticated read works.
	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/users/current-user"), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	env = decodeEnvelope(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Rotating the refresh token hands back a different pair.
	resp = postJSON(t, ts.APIURL("/users/refresh-token"), map[string]string{
		"refreshToken": tokens.RefreshToken,
	}, nil)
	env = decodeEnvelope(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotated struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The superseded token is rejected.
	resp = postJSON(t, ts.APIURL("/users/refresh-token"), map[string]string{
		"refreshToken": tokens.RefreshToken,
	}, nil)
	env = decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	// Logout, then the rotated token is rejected too.
	resp = postJSON(t, ts.APIURL("/users/logout"), struct{}{}, authHeader)
	decodeEnvelope(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.APIURL("/users/refresh-token"), map[string]string{
		"refreshToken": rotated.RefreshToken,
	}, nil)
	env = decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized request", env.Message)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	paths := []struct {
		method string
		url    string
	}{
		{http.MethodGet, ts.APIURL("/users/current-user")},
		{http.MethodPost, ts.APIURL("/users/logout")},
		{http.MethodGet, ts.APIURL("/users/history")},
		{http.MethodGet, ts.APIURL("/videos/")},
		{http.MethodGet, ts.APIURL("/videos/00000000-0000-0000-0000-000000000000")},
	}

	for _, p := range paths {
		req, err := http.NewRequest(p.method, p.url, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.url)
		assert.False(t, env.Success)
	}
}

func TestRegisterValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("missing avatar", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("username", "noavatar"))
		require.NoError(t, writer.WriteField("email", "noavatar@example.com"))
		require.NoError(t, writer.WriteField("fullName", "No Avatar"))
		require.NoError(t, writer.WriteField("password", "password123"))
		require.NoError(t, writer.Close())

		resp, err := http.Post(ts.APIURL("/users/register"), writer.FormDataContentType(), &buf)
		require.NoError(t, err)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.False(t, env.Success)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		resp := registerMultipart(t, ts.APIURL("/users/register"), "dupuser", "first@example.com", "password123")
		decodeEnvelope(t, resp)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = registerMultipart(t, ts.APIURL("/users/register"), "dupuser", "second@example.com", "password123")
		env := decodeEnvelope(t, resp)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.False(t, env.Success)
	})
}
