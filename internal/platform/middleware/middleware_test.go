// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package middleware_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgiannako/kalamos/internal/platform/constants"
	"github.com/jgiannako/kalamos/internal/platform/middleware"
)

// # Rate Limiting

/*
TestRateLimit_TooManyRequests exhausts the per-IP bucket and checks the
refusal arrives in the standard error envelope with a Retry-After hint.
*/
func TestRateLimit_TooManyRequests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	// Send well past the burst capacity so token refill during the loop
	// cannot mask the refusal.
	var last *httptest.ResponseRecorder
	for i := 0; i < 2*constants.DefaultRateLimitBurst; i++ {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, "203.0.113.77")

		last = httptest.NewRecorder()
		handler.ServeHTTP(last, request)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "1", last.Header().Get("Retry-After"))

	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &envelope))
	assert.Equal(t, "RATE_LIMITED", envelope.Code)
	assert.NotEmpty(t, envelope.Error)
}

// # Panic Recovery

/*
TestPanicRecovery_Envelope converts a downstream panic into the standard
500 error envelope without leaking the panic value.
*/
func TestPanicRecovery_Envelope(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("connection pool confidential state")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "INTERNAL_ERROR", envelope.Code)
	assert.NotContains(t, recorder.Body.String(), "confidential")
}
