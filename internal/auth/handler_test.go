package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/athena-api/internal/httputil"
)

func do(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", &buf))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestHandler_RegisterConfirmLogin(t *testing.T) {
	f := newServiceFixture(t)
	h := NewHandler(f.svc)

	rec := do(t, h.Register, RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "password123"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":""}`, rec.Body.String())

	rec = do(t, h.Register, RegisterRequest{Username: "ana", Email: "other@example.com", Password: "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httputil.CodeUsernameTaken, errorCode(t, rec))

	rec = do(t, h.Login, LoginRequest{Login: "ana", Password: "password123"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httputil.CodeEmailNotVerified, errorCode(t, rec))

	token := f.notifier.last(t).token

	rec = do(t, h.Confirmation, ConfirmationRequest{TokenID: "unknown", Email: "ana@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httputil.CodeInvalidFlowToken, errorCode(t, rec))

	rec = do(t, h.Confirmation, ConfirmationRequest{TokenID: token, Email: "ana@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"msg"`)

	rec = do(t, h.Confirmation, ConfirmationRequest{TokenID: token, Email: "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeAlreadyVerified, errorCode(t, rec))

	rec = do(t, h.Login, LoginRequest{Login: "ana@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.NotEmpty(t, login.AccessToken)

	rec = do(t, h.Login, LoginRequest{Login: "ana", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeInvalidCredentials, errorCode(t, rec))
}

func TestHandler_RegisterValidation(t *testing.T) {
	f := newServiceFixture(t)
	h := NewHandler(f.svc)

	rec := do(t, h.Register, `{"Username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidRequestBody, errorCode(t, rec))

	rec = do(t, h.Register, RegisterRequest{Email: "ana@example.com", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeValidationFailed, errorCode(t, rec))

	rec = do(t, h.Register, RegisterRequest{Username: "a@b.io", Email: "ana@example.com", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidUsername, errorCode(t, rec))

	rec = do(t, h.Register, RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodePasswordTooShort, errorCode(t, rec))
}

func TestHandler_ResendAndReset(t *testing.T) {
	f := newServiceFixture(t)
	h := NewHandler(f.svc)

	rec := do(t, h.Resend, EmailRequest{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httputil.CodeUserNotFound, errorCode(t, rec))

	rec = do(t, h.Register, RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h.Resend, EmailRequest{Email: "ana@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)

	f.notifier.err = errors.New("smtp down")
	rec = do(t, h.Reset, EmailRequest{Email: "ana@example.com"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, httputil.CodeEmailDeliveryFailed, errorCode(t, rec))

	f.notifier.err = nil
	rec = do(t, h.Reset, EmailRequest{Email: "ana@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := f.notifier.last(t).token

	rec = do(t, h.UpdatePassword, UpdatePasswordRequest{TokenID: token, Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodePasswordTooShort, errorCode(t, rec))

	rec = do(t, h.UpdatePassword, UpdatePasswordRequest{TokenID: token, Password: "new-password"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h.UpdatePassword, UpdatePasswordRequest{TokenID: token, Password: "new-password"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
