package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable reason returned alongside a message.
type ErrorCode string

const (
	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeAssigneeNotFound ErrorCode = "ASSIGNEE_NOT_FOUND"
	ErrCodeDuplicatePunch   ErrorCode = "DUPLICATE_PUNCH"
	ErrCodePunchConflict    ErrorCode = "PUNCH_CONFLICT"
	ErrCodeEmailExists      ErrorCode = "EMAIL_EXISTS"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetAppError finds an AppError anywhere in err's chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns ErrCodeInternal for errors that carry no code.
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return ErrCodeInternal
}

func EmployeeNotFound(err error) *AppError {
	return NewAppError(ErrCodeEmployeeNotFound, "Employee not found", err)
}

func DuplicatePunch() *AppError {
	return NewAppError(ErrCodeDuplicatePunch, "Already punched in and out for today", nil)
}

func PunchConflict(err error) *AppError {
	return NewAppError(ErrCodePunchConflict, "Another punch for this employee is being recorded, try again", err)
}

func Validation(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, nil)
}

func Internal(err error) *AppError {
	return NewAppError(ErrCodeInternal, "Internal server error", err)
}

func EmailExists() *AppError {
	return NewAppError(ErrCodeEmailExists, "Employee with this email already exists", nil)
}

func Unauthorized(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, nil)
}

func TaskNotFound(err error) *AppError {
	return NewAppError(ErrCodeNotFound, "Task not found", err)
}

// AssigneeNotFound rejects a task whose assignedTo names no active employee.
func AssigneeNotFound() *AppError {
	return NewAppError(ErrCodeAssigneeNotFound, "Assigned employee not found", nil)
}
