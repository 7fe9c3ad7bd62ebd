//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/2beens/befit/internal/auth"
	"github.com/2beens/befit/internal/identity"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

const testUserPassword = "Haslo123!"

type testUser struct {
	ID    string
	Email string
	Token string
}

// doRequest sends a JSON request to the running server, with the session token if given.
func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, token string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reader)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

// decode reads the response body into v and closes it.
func (s *IntegrationTestSuite) decode(resp *http.Response, v any) {
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.NoError(s.T(), json.Unmarshal(respBytes, v), string(respBytes))
}

func (s *IntegrationTestSuite) registerUser(ctx context.Context) testUser {
	email := gofakeit.Email()
	resp := s.doRequest(ctx, http.MethodPost, "/account/register", "", identity.RegisterRequest{
		Email:           email,
		Password:        testUserPassword,
		ConfirmPassword: testUserPassword,
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var tokenResp identity.TokenResponse
	s.decode(resp, &tokenResp)
	require.NotEmpty(s.T(), tokenResp.Token)

	return testUser{ID: tokenResp.User.ID, Email: email, Token: tokenResp.Token}
}

func (s *IntegrationTestSuite) login(ctx context.Context, email, password string) *http.Response {
	return s.doRequest(ctx, http.MethodPost, "/account/login", "", identity.LoginRequest{
		Email:    email,
		Password: password,
	})
}

func (s *IntegrationTestSuite) loginAdmin(ctx context.Context) string {
	resp := s.login(ctx, testAdminEmail, testAdminPassword)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var tokenResp identity.TokenResponse
	s.decode(resp, &tokenResp)
	return tokenResp.Token
}
