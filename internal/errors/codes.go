package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials  ErrorCode = "AUTH_001"
	AuthMissingToken        ErrorCode = "AUTH_002"
	AuthExpiredToken        ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat  ErrorCode = "AUTH_004"
	AuthInvalidRefreshToken ErrorCode = "AUTH_005"
	AuthWrongTokenType      ErrorCode = "AUTH_006"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral          ErrorCode = "VALIDATION_001"
	ValidationRequiredField    ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat    ErrorCode = "VALIDATION_003"
	ValidationOutOfRange       ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail     ErrorCode = "VALIDATION_005"
	ValidationInvalidDate      ErrorCode = "VALIDATION_006"
	ValidationPasswordMismatch ErrorCode = "VALIDATION_007"
	ValidationEmailRegistered  ErrorCode = "VALIDATION_008"
	ValidationInvalidCategory  ErrorCode = "VALIDATION_009"
	ValidationWeakPassword     ErrorCode = "VALIDATION_010"
)

// User error codes (USER_*)
const (
	UserNotFound ErrorCode = "USER_001"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
	TransactionInvalidType   ErrorCode = "TRANSACTION_003"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNotFound       ErrorCode = "BUDGET_001"
	BudgetCategoryExists ErrorCode = "BUDGET_002"
	BudgetInvalidLimit   ErrorCode = "BUDGET_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemNotFound           ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:  "Invalid email or password.",
	AuthMissingToken:        "Authorization token is required",
	AuthExpiredToken:        "Authorization token has expired",
	AuthInvalidTokenFormat:  "Invalid authorization token format",
	AuthInvalidRefreshToken: "Refresh token is invalid, expired or already used",
	AuthWrongTokenType:      "Token type is not valid for this endpoint",

	// Validation errors
	ValidationGeneral:          "Validation failed",
	ValidationRequiredField:    "Required field is missing",
	ValidationInvalidFormat:    "Invalid field format",
	ValidationOutOfRange:       "Field value is out of allowed range",
	ValidationInvalidEmail:     "Invalid email address format",
	ValidationInvalidDate:      "Invalid date format. Use YYYY-MM-DD",
	ValidationPasswordMismatch: "Passwords don't match",
	ValidationEmailRegistered:  "A user with this email already exists",
	ValidationInvalidCategory:  "Category is not valid for this record",
	ValidationWeakPassword:     "Password does not meet the requirements",

	// User errors
	UserNotFound: "User not found",

	// Transaction errors
	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Invalid transaction amount",
	TransactionInvalidType:   "Invalid transaction type",

	// Budget errors
	BudgetNotFound:       "Budget not found",
	BudgetCategoryExists: "A budget for this category already exists",
	BudgetInvalidLimit:   "Invalid budget limit amount",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemNotFound:           "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
