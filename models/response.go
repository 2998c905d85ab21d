package models

// Success Response Models

type LoginSuccessResponse struct {
	Message string      `json:"message" example:"Login successful"`
	User    UserProfile `json:"user"`
	Token   string      `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
}

type ProfileResponse struct {
	User UserProfile `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Employee deleted successfully"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"Parlour API is running"`
}

type BadgeResponse struct {
	EmployeeID  string `json:"employeeId" example:"507f1f77bcf86cd799439011"`
	QRCodeImage string `json:"qrCodeImage" example:"data:image/png;base64,iVBORw0..."`
}

// Error Response Models

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message" example:"Employee not found"`
	Code    string `json:"code,omitempty" example:"EMPLOYEE_NOT_FOUND"`
}

type ValidationErrorResponse struct {
	Message string            `json:"message" example:"Validation failed"`
	Code    string            `json:"code" example:"VALIDATION_ERROR"`
	Errors  []ValidationIssue `json:"errors"`
}

type ValidationIssue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}
