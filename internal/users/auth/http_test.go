// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgiannako/kalamos/internal/platform/constants"
	"github.com/jgiannako/kalamos/internal/users/auth"
)

func newAuthHandler(t *testing.T) (*auth.Handler, *auth.Service) {
	t.Helper()

	service, _, _ := newAuthService(t)
	return auth.NewHandler(service), service
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Signup covers the happy path and checks the password hash never
appears in the response body.
*/
func TestHandler_Signup(t *testing.T) {
	handler, _ := newAuthHandler(t)
	router := handler.Routes()

	recorder := doJSON(t, router, http.MethodPost, "/signup",
		`{"username":"Νίκος","email":"nikos@example.com","password":"secret-password"}`)

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var envelope struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			RoleID   int    `json:"role_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "Νίκος", envelope.Data.Username)
	assert.Equal(t, 1, envelope.Data.RoleID)
	assert.NotContains(t, recorder.Body.String(), "password")
	assert.NotContains(t, recorder.Body.String(), "hash")
}

/*
TestHandler_Signup_Validation exercises the field rules at the boundary.
*/
func TestHandler_Signup_Validation(t *testing.T) {
	handler, _ := newAuthHandler(t)
	router := handler.Routes()

	tests := []struct {
		name string
		body string
	}{
		{"invalid_json", `{"username":`},
		{"missing_fields", `{}`},
		{"bad_email", `{"username":"Nikos","email":"not-an-email","password":"secret"}`},
		{"short_password", `{"username":"Nikos","email":"nikos@example.com","password":"abcd"}`},
		{"bad_username_alphabet", `{"username":"nikos99","email":"nikos@example.com","password":"secret"}`},
		{"username_too_long", `{"username":"` + strings.Repeat("a", 36) + `","email":"nikos@example.com","password":"secret"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, router, http.MethodPost, "/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

/*
TestHandler_Signup_Conflict returns 409 for a duplicate email.
*/
func TestHandler_Signup_Conflict(t *testing.T) {
	handler, _ := newAuthHandler(t)
	router := handler.Routes()

	first := doJSON(t, router, http.MethodPost, "/signup",
		`{"username":"Nikos","email":"nikos@example.com","password":"secret-password"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, "/signup",
		`{"username":"Other","email":"nikos@example.com","password":"secret-password"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
}

/*
TestHandler_Login checks the session cookie attributes and the token in the
response body.
*/
func TestHandler_Login(t *testing.T) {
	handler, service := newAuthHandler(t)
	router := handler.Routes()

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "Nikos",
		Email:    "nikos@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	recorder := doJSON(t, router, http.MethodPost, "/login",
		`{"email":"nikos@example.com","password":"secret-password"}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.Equal(t, envelope.Data.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

/*
TestHandler_Login_BadCredentials returns the uniform 401 for both failure
modes.
*/
func TestHandler_Login_BadCredentials(t *testing.T) {
	handler, service := newAuthHandler(t)
	router := handler.Routes()

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "Nikos",
		Email:    "nikos@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	unknown := doJSON(t, router, http.MethodPost, "/login",
		`{"email":"nobody@example.com","password":"secret-password"}`)
	wrong := doJSON(t, router, http.MethodPost, "/login",
		`{"email":"nikos@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

/*
TestHandler_Logout clears the session cookie.
*/
func TestHandler_Logout(t *testing.T) {
	handler, _ := newAuthHandler(t)
	router := handler.Routes()

	recorder := doJSON(t, router, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
