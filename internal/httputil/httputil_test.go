package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(signup{Email: "a@b.io", Password: "longenough"}))

	fields := Validate(signup{Email: "nope", Password: "short"})
	require.Len(t, fields, 2)
	assert.Equal(t, "The Email must be a valid email address.", fields["Email"])
	assert.Equal(t, "The Password must be at least 8 characters.", fields["Password"])

	fields = Validate(signup{})
	assert.Equal(t, "The Email field is required.", fields["Email"])
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("someone@example.com"))
	assert.False(t, IsEmail("someone"))
	assert.False(t, IsEmail(""))
}

func TestRespondHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithCode(rec, "nope", CodeNotOwner, http.StatusForbidden)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "nope", Code: CodeNotOwner}, body)

	rec = httptest.NewRecorder()
	RespondOK(rec)
	assert.JSONEq(t, `{"error":""}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondMessage(rec, "done", http.StatusOK)
	assert.JSONEq(t, `{"msg":"done"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondValidationError(rec, map[string]string{"Name": "The Name field is required."})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation failed","code":"validation_failed","fields":{"Name":"The Name field is required."}}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Search string }
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Search":"cap"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "cap", dst.Search)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(req, &dst))
}

func TestDecodeAndValidate(t *testing.T) {
	var dst signup

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Email":"a@b.io","Password":"longenough"}`))
	assert.True(t, DecodeAndValidate(rec, req, &dst))
	assert.Equal(t, "a@b.io", dst.Email)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Email":"a@b.io"}`))
	assert.False(t, DecodeAndValidate(rec, req, &signup{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeValidationFailed)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`nope`))
	assert.False(t, DecodeAndValidate(rec, req, &signup{}))
	assert.Contains(t, rec.Body.String(), CodeInvalidRequestBody)
}
