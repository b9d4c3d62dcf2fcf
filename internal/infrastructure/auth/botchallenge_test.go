package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven/internal/shared/logger"
)

func TestBotChallengeDisabledPolicySkipsVerification(t *testing.T) {
	v := NewBotChallengeValidator("http://unreachable.invalid", logger.Nop())

	err := v.Validate(context.Background(), BotChallengePolicy{Enabled: false}, "", "")
	assert.NoError(t, err)
}

func TestBotChallengeEnabledWithoutSecretPasses(t *testing.T) {
	v := NewBotChallengeValidator("http://unreachable.invalid", logger.Nop())

	// half-finished configuration must not lock every user out
	err := v.Validate(context.Background(), BotChallengePolicy{Enabled: true}, "token", "10.0.0.1")
	assert.NoError(t, err)
}

func TestBotChallengeMissingToken(t *testing.T) {
	v := NewBotChallengeValidator("http://unreachable.invalid", logger.Nop())

	err := v.Validate(context.Background(), BotChallengePolicy{Enabled: true, SecretKey: "secret"}, "", "10.0.0.1")
	assert.Error(t, err)
}

func TestBotChallengeAcceptsVerifiedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.Form.Get("secret"))
		assert.Equal(t, "good-token", r.Form.Get("response"))
		assert.Equal(t, "10.0.0.1", r.Form.Get("remoteip"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	v := NewBotChallengeValidator(srv.URL, logger.Nop())
	err := v.Validate(context.Background(), BotChallengePolicy{Enabled: true, SecretKey: "secret"}, "good-token", "10.0.0.1")
	assert.NoError(t, err)
}

func TestBotChallengeRejectsFailedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := NewBotChallengeValidator(srv.URL, logger.Nop())
	err := v.Validate(context.Background(), BotChallengePolicy{Enabled: true, SecretKey: "secret"}, "bad-token", "")
	assert.Error(t, err)
}

func TestBotChallengeFailsClosedOnVerifierError(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		v := NewBotChallengeValidator(srv.URL, logger.Nop())
		err := v.Validate(context.Background(), BotChallengePolicy{Enabled: true, SecretKey: "secret"}, "token", "")
		assert.Error(t, err)
	})

	t.Run("unreachable verifier", func(t *testing.T) {
		v := NewBotChallengeValidator("http://127.0.0.1:1", logger.Nop())
		err := v.Validate(context.Background(), BotChallengePolicy{Enabled: true, SecretKey: "secret"}, "token", "")
		assert.Error(t, err)
	})

	t.Run("malformed response body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		v := NewBotChallengeValidator(srv.URL, logger.Nop())
		err := v.Validate(context.Background(), BotChallengePolicy{Enabled: true, SecretKey: "secret"}, "token", "")
		assert.Error(t, err)
	})
}
