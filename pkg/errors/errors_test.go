package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDomainError_ConstructorsDoNotMutateSentinels(t *testing.T) {
	first := IndexOutOfRange("categoryIndex", 5, 2)
	second := DuplicateCode("category", "subject")

	assert.Empty(t, ErrIndexOutOfRange.Details)
	assert.Empty(t, ErrDuplicateCode.Details)
	assert.Equal(t, 5, first.Details["index"])
	assert.Equal(t, "subject", second.Details["code"])
	assert.Equal(t, `category code "subject" already exists`, second.Message)
}

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same code", IndexOutOfRange("termIndex", 1, 0), ErrIndexOutOfRange, true},
		{"wrapped", fmt.Errorf("add term: %w", SelfAssociation("board")), ErrSelfAssociation, true},
		{"different code", RequiredField("name"), ErrDuplicateCode, false},
		{"inside validation errors", func() error {
			v := NewValidationErrors()
			v.AddError(DuplicateCode("term", "algebra"))
			return v
		}(), ErrDuplicateCode, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.NoError(t, v.ErrOrNil())

	v.AddError(RequiredField("name"))
	v.AddError(RequiredField("code"))
	v.Add("code", "code must not contain spaces")

	require.Error(t, v.ErrOrNil())
	assert.True(t, IsValidation(v))
	assert.Equal(t, map[string][]string{
		"name": {"name is required"},
		"code": {"code is required", "code must not contain spaces"},
	}, v.ToMap())
}

func TestClassification(t *testing.T) {
	assert.True(t, IsNotFound(SessionNotFound("abc")))
	assert.True(t, IsNotFound(NewNotFoundError("framework")))
	assert.True(t, IsConflict(SessionBusy("abc")))
	assert.True(t, IsRemote(NewExternalError("taxonomy", errors.New("HTTP 500"))))
	assert.True(t, IsRemote(NewNetworkError("dial failed", errors.New("refused"))))
	assert.False(t, IsRemote(RequiredField("code")))
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantType   string
	}{
		{
			name:       "single validation error",
			err:        RequiredField("code"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "FIELD_REQUIRED",
			wantType:   string(DomainValidationError),
		},
		{
			name:       "busy session",
			err:        fmt.Errorf("advance: %w", SessionBusy("s-1")),
			wantStatus: http.StatusConflict,
			wantCode:   "SESSION_BUSY",
			wantType:   string(DomainConflictError),
		},
		{
			name:       "remote failure",
			err:        NewExternalError("taxonomy", errors.New("HTTP 500")).WithCode("FRAMEWORK_CREATE_FAILED"),
			wantStatus: http.StatusBadGateway,
			wantCode:   "FRAMEWORK_CREATE_FAILED",
			wantType:   string(ErrorTypeExternal),
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   string(ErrorTypeInternal),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", "req-1")
			rec := httptest.NewRecorder()

			handler.Handle(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantType, body.Type)
			assert.Equal(t, "req-1", body.RequestID)
		})
	}
}

func TestErrorHandler_MultipleValidationErrors(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)
	v := NewValidationErrors()
	v.AddError(RequiredField("name"))
	v.AddError(RequiredField("code"))

	status, body := handler.Resolve(v)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Len(t, body.Fields, 2)
}

func TestErrorHandler_MiddlewareRecoversPanic(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)
	h := handler.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
