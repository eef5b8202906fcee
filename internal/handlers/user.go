package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tumbluv/tumbluv-api/internal/constants"
	"github.com/tumbluv/tumbluv-api/internal/dto"
	apierrors "github.com/tumbluv/tumbluv-api/internal/errors"
	"github.com/tumbluv/tumbluv-api/internal/logger"
	"github.com/tumbluv/tumbluv-api/internal/middleware"
	"github.com/tumbluv/tumbluv-api/internal/services"
)

// UserHandler coordinates account-related HTTP handlers.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// Signup registers a new password account.
func (h *UserHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Fullname *string `json:"fullname"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Fullname == nil || req.Email == nil || req.Password == nil {
		apierrors.BadRequest(c, apierrors.CodeKeyError)
		return
	}

	if _, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Fullname: *req.Fullname,
		Email:    *req.Email,
		Password: *req.Password,
	}); err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.Message(c, http.StatusOK, apierrors.CodeSuccess)
}

// IssueEmailCode mails a fresh verification code.
func (h *UserHandler) IssueEmailCode(c *gin.Context) {
	type EmailCodeRequest struct {
		Email *string `json:"email"`
	}

	var req EmailCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == nil || *req.Email == "" {
		apierrors.BadRequest(c, apierrors.CodeKeyError)
		return
	}

	if err := h.authService.IssueEmailCode(c.Request.Context(), *req.Email); err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.Message(c, http.StatusOK, apierrors.CodeSuccess)
}

// ValidateEmailCode checks a verification code.
func (h *UserHandler) ValidateEmailCode(c *gin.Context) {
	type EmailValidationRequest struct {
		Email *string `json:"email"`
		Code  *string `json:"code"`
	}

	var req EmailValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == nil {
		apierrors.BadRequest(c, apierrors.CodeKeyError)
		return
	}
	code := ""
	if req.Code != nil {
		code = *req.Code
	}

	if err := h.authService.ValidateEmailCode(c.Request.Context(), *req.Email, code); err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.Message(c, http.StatusOK, apierrors.CodeEmailValidateSuccess)
}

// Signin authenticates a password account, returns a token and initializes
// the session.
func (h *UserHandler) Signin(c *gin.Context) {
	type SigninRequest struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}

	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == nil || req.Password == nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidKey)
		return
	}

	user, token, err := h.authService.Signin(c.Request.Context(), services.SigninInput{
		Email:    *req.Email,
		Password: *req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		logger.New("UserHandler").Error("failed to save session", "error", err)
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      apierrors.CodeSuccess,
		"access_token": token,
	})
}

// KakaoSignin signs in with a Kakao access token from the Authorization header.
func (h *UserHandler) KakaoSignin(c *gin.Context) {
	accessToken := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(accessToken) > 7 && strings.EqualFold(accessToken[:7], "Bearer ") {
		accessToken = strings.TrimSpace(accessToken[7:])
	}
	if accessToken == "" {
		apierrors.Unauthorized(c, apierrors.CodeTokenInvalid)
		return
	}

	user, token, err := h.authService.KakaoSignin(c.Request.Context(), accessToken)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": apierrors.CodeSuccess,
		"data":    dto.ToKakaoProfileDTO(*user),
		"token":   token,
	})
}

// GetCurrentUser returns the authenticated user.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequest(c, apierrors.CodeAlreadyExist)
	case errors.Is(err, services.ErrInvalidFullname):
		apierrors.BadRequest(c, apierrors.CodeFullnameValidationError)
	case errors.Is(err, services.ErrInvalidPassword):
		apierrors.BadRequest(c, apierrors.CodePasswordValidationError)
	case errors.Is(err, services.ErrCodeRequired):
		apierrors.BadRequest(c, apierrors.CodeNeedCode)
	case errors.Is(err, services.ErrInvalidCode):
		apierrors.BadRequest(c, apierrors.CodeInvalidCode)
	case errors.Is(err, services.ErrCodeExpired):
		apierrors.BadRequest(c, apierrors.CodeTimeOut)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, apierrors.CodeInvalidUser)
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, apierrors.CodeSigninFail)
	case errors.Is(err, services.ErrKakaoTokenInvalid):
		apierrors.Unauthorized(c, apierrors.CodeTokenInvalid)
	case errors.Is(err, services.ErrKakaoEmailRequired):
		apierrors.MethodNotAllowed(c, apierrors.CodeEmailRequired)
	default:
		logger.New("UserHandler").Error("request failed", "path", c.FullPath(), "error", err)
		apierrors.InternalError(c)
	}
}
