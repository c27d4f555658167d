package common

import (
	"errors"
	"net/http"
)

// Error codes returned to API clients in the "error" field.
const (
	CodeInvalidInput       = "INVALID_INPUT_DATA"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeServerError        = "SERVER_ERROR"
)

type errorMapping struct {
	err    error
	code   string
	status int
}

// errorTable is the single place where service errors meet HTTP.
var errorTable = []errorMapping{
	{ErrInvalidInput, CodeInvalidInput, http.StatusBadRequest},
	{ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
	{ErrInvalidCredentials, CodeInvalidCredentials, http.StatusUnauthorized},
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
	{ErrAlreadyExists, CodeUserAlreadyExists, http.StatusConflict},
}

// Classify returns the response code and HTTP status for err. Errors not in the
// table are reported as SERVER_ERROR with status 500.
func Classify(err error) (code string, status int) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.code, m.status
		}
	}
	return CodeServerError, http.StatusInternalServerError
}
