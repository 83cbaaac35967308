package utils

import "net/http"

// Error codes used across the service layer. Messages are the only
// part a client ever sees; codes exist for logs and tests.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidOrExpired   = "INVALID_OR_EXPIRED"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message)
}

func ConflictError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeConflict, message)
}

func InvalidCredentialsError() *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidCredentials, "Invalid credentials")
}

func InvalidOrExpiredError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidOrExpired, message)
}

func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeNotFound, message)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func InternalError() *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "Server error")
}
