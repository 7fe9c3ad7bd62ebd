//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/befit/internal/identity"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestRegister_LoginLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := s.registerUser(ctx)

	// duplicate email, different case
	resp := s.doRequest(ctx, http.MethodPost, "/account/register", "", identity.RegisterRequest{
		Email:           strings.ToUpper(user.Email),
		Password:        testUserPassword,
		ConfirmPassword: testUserPassword,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp identity.ErrorsResponse
	s.decode(resp, &errResp)
	assert.NotEmpty(t, errResp.Errors)

	resp = s.login(ctx, user.Email, testUserPassword)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokenResp identity.TokenResponse
	s.decode(resp, &tokenResp)
	require.NotEmpty(t, tokenResp.Token)
	assert.Equal(t, user.ID, tokenResp.User.ID)

	resp = s.doRequest(ctx, http.MethodGet, "/account/me", tokenResp.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me identity.MeResponse
	s.decode(resp, &me)
	assert.Equal(t, user.Email, me.Email)
	assert.Empty(t, me.Roles)

	resp = s.doRequest(ctx, http.MethodPost, "/account/logout", tokenResp.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest(ctx, http.MethodGet, "/account/me", tokenResp.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestRegister_WeakPassword() {
	t := s.T()
	ctx := context.Background()

	resp := s.doRequest(ctx, http.MethodPost, "/account/register", "", identity.RegisterRequest{
		Email:           gofakeit.Email(),
		Password:        "short",
		ConfirmPassword: "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp identity.ErrorsResponse
	s.decode(resp, &errResp)
	assert.NotEmpty(t, errResp.Errors)
}

func (s *IntegrationTestSuite) TestLogin_Lockout() {
	t := s.T()
	ctx := context.Background()

	user := s.registerUser(ctx)

	for i := 1; i < identity.MaxFailedAccessAttempts; i++ {
		resp := s.login(ctx, user.Email, "Wr0ng!pass")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i)
		resp.Body.Close()
	}

	resp := s.login(ctx, user.Email, "Wr0ng!pass")
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
	resp.Body.Close()

	// locked even with the right password
	resp = s.login(ctx, user.Email, testUserPassword)
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestAdminBootstrapped() {
	t := s.T()
	ctx := context.Background()

	token := s.loginAdmin(ctx)
	resp := s.doRequest(ctx, http.MethodGet, "/account/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me identity.MeResponse
	s.decode(resp, &me)
	assert.Equal(t, []string{identity.RoleAdmin}, me.Roles)

	assert.Equal(t, 1, s.countRows(
		`SELECT count(*) FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE r.name = $1`,
		identity.RoleAdmin,
	))
}
