package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taxonomy-console/pkg/common"
	appErrors "taxonomy-console/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured
const DefaultMaxBodyBytes int64 = 1 << 20

// responder holds what every handler needs to answer a request
type responder struct {
	errors       *appErrors.ErrorHandler
	maxBodyBytes int64
}

func newResponder(errorHandler *appErrors.ErrorHandler, maxBodyBytes int64) responder {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return responder{errors: errorHandler, maxBodyBytes: maxBodyBytes}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (rs responder) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := common.ParseJSONBody(w, r, v, rs.maxBodyBytes)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return appErrors.NewValidationError("request body too large")
	}
	return appErrors.NewValidationError("invalid request body: " + err.Error())
}

func (rs responder) ok(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	common.RespondWithMeta(w, status, data, &common.MetaInfo{
		RequestID: common.ExtractRequestID(r),
		Count:     1,
	})
}

func (rs responder) list(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	common.RespondWithMeta(w, http.StatusOK, data, &common.MetaInfo{
		RequestID: common.ExtractRequestID(r),
		Count:     count,
	})
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	rs.errors.Handle(w, r, err)
}

// intParam reads a non-negative integer route parameter
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, appErrors.NewValidationError(name + " must be a non-negative integer")
	}
	return n, nil
}
