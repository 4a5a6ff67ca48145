package models

import "errors"

// Model validation and operation errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Survey errors
	ErrSurveyNotFound  = errors.New("survey not found")
	ErrInvalidSurveyID = errors.New("invalid survey ID")

	// Question errors
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrInvalidAnswerFormat = errors.New("invalid answer format")

	// Response errors
	ErrResponseNotFound       = errors.New("response not found")
	ErrInvalidResponseID      = errors.New("invalid response ID")
	ErrResponseSurveyMismatch = errors.New("response does not belong to survey")

	// Score config version errors
	ErrVersionNotFound  = errors.New("score config version not found")
	ErrInvalidVersionID = errors.New("invalid score config version ID")
	ErrSameVersion      = errors.New("comparison requires two different versions")

	// Analytics errors
	ErrInvalidGranularity = errors.New("invalid trend granularity")

	// Audit log errors
	ErrAuditLogNotFound = errors.New("audit log not found")
)

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSurveyNotFound) ||
		errors.Is(err, ErrResponseNotFound) ||
		errors.Is(err, ErrVersionNotFound) ||
		errors.Is(err, ErrAuditLogNotFound)
}

// IsValidationError returns true if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidSurveyID) ||
		errors.Is(err, ErrInvalidResponseID) ||
		errors.Is(err, ErrInvalidVersionID) ||
		errors.Is(err, ErrSameVersion) ||
		errors.Is(err, ErrInvalidQuestionType) ||
		errors.Is(err, ErrInvalidAnswerFormat) ||
		errors.Is(err, ErrInvalidGranularity) ||
		errors.Is(err, ErrResponseSurveyMismatch)
}

// IsAuthError returns true if the error is an authentication/authorization error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}
