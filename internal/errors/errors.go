package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes. The code is the whole client-facing message.
const (
	// Request validation
	CodeKeyError                = "KEY_ERROR"
	CodeInvalidKey              = "INVALID_KEY"
	CodeInvalidDate             = "INVALID_DATE"
	CodeInvalidParent           = "INVALID_PARENT"
	CodeFullnameValidationError = "FULLNAME_VALIDATION_ERROR"
	CodePasswordValidationError = "PASSWORD_VALIDATION_ERROR"
	CodeNeedCode                = "NEED_CODE"
	CodeInvalidCode             = "INVALID_CODE"
	CodeTimeOut                 = "TIME_OUT"

	// Conflicts
	CodeDuplicatedEntry = "DUPLICATED_ENTRY"
	CodeAlreadyExist    = "ALREADY_EXIST"

	// Missing resources
	CodeProjectNotExist   = "PROJECT_NOT_EXIST"
	CodeCategoryNotExist  = "CATEGORY_NOT_EXIST"
	CodeCommunityNotExist = "COMMUNITY_NOT_EXIST"

	// Authentication
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeInvalidUser   = "INVALID_USER"
	CodeSigninFail    = "SIGNIN_FAIL"
	CodeTokenInvalid  = "TOKEN_INVALID"
	CodeEmailRequired = "EMAIL_REQUIRED"

	// Service errors
	CodeInternalError      = "INTERNAL_ERROR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"

	// Success codes
	CodeSuccess              = "SUCCESS"
	CodeEmailValidateSuccess = "EMAIL_VALIDATE_SUCCESS"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code string) *APIError {
	return &APIError{Message: code}
}

func NewAPIErrorWithDetails(code string, details any) *APIError {
	return &APIError{Message: code, Details: details}
}

// RespondWithError sends an error response and stops the handler chain.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

// Message writes {"message": code} with the given status. Used for success
// codes as well.
func Message(c *gin.Context, statusCode int, code string) {
	c.JSON(statusCode, gin.H{"message": code})
}

// Helper functions for common error responses

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, code string) {
	if code == "" {
		code = CodeKeyError
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(code))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, code string, details any) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(code, details))
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, code string) {
	if code == "" {
		code = CodeInvalidToken
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(code))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, code string) {
	RespondWithError(c, http.StatusNotFound, NewAPIError(code))
}

// MethodNotAllowed sends a 405 response
func MethodNotAllowed(c *gin.Context, code string) {
	RespondWithError(c, http.StatusMethodNotAllowed, NewAPIError(code))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(CodeInternalError))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, code string) {
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(code))
}
