package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeInternalError      = "internal_error"

	// auth gateway
	CodeMissingAuth       = "missing_auth"
	CodeInvalidAuthHeader = "invalid_auth_header"
	CodeInvalidToken      = "invalid_token"
	CodeTokenExpired      = "token_expired"

	// account lifecycle
	CodeInvalidEmailFormat  = "invalid_email_format"
	CodeInvalidUsername     = "invalid_username"
	CodePasswordTooShort    = "password_too_short"
	CodeEmailAlreadyExists  = "email_already_exists"
	CodeUsernameTaken       = "username_taken"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeEmailNotVerified    = "email_not_verified"
	CodeAlreadyVerified     = "already_verified"
	CodeInvalidFlowToken    = "invalid_flow_token"
	CodeUserNotFound        = "user_not_found"
	CodeEmailDeliveryFailed = "email_delivery_failed"

	// card sets and social graph
	CodeCardSetNotFound = "card_set_not_found"
	CodeNotOwner        = "not_owner"
	CodeSelfFollow      = "self_follow"

	// search
	CodeInvalidScope = "invalid_scope"
	CodeInvalidSort  = "invalid_sort"
)
