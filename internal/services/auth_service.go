package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tumbluv/tumbluv-api/internal/constants"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/repository"
	"github.com/tumbluv/tumbluv-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidFullname      = errors.New("fullname length is out of range")
	ErrInvalidPassword      = errors.New("password length is out of range")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrCodeRequired         = errors.New("verification code is required")
	ErrInvalidCode          = errors.New("verification code does not match")
	ErrCodeExpired          = errors.New("verification code expired")
	ErrKakaoEmailRequired   = errors.New("kakao account has no email")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToSendCode     = errors.New("failed to send verification code")
)

// AuthService handles account and credential business logic.
type AuthService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	tokens           *TokenService
	kakao            KakaoProvider
	mailer           Mailer
	codeWindow       time.Duration
	clock            Clock
}

// AuthServiceDeps groups the collaborators of AuthService.
type AuthServiceDeps struct {
	Users         repository.UserRepository
	Verifications repository.VerificationRepository
	Tokens        *TokenService
	Kakao         KakaoProvider
	Mailer        Mailer
	CodeWindow    time.Duration
	Clock         Clock
}

// NewAuthService creates a new AuthService.
func NewAuthService(deps AuthServiceDeps) *AuthService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		userRepo:         deps.Users,
		verificationRepo: deps.Verifications,
		tokens:           deps.Tokens,
		kakao:            deps.Kakao,
		mailer:           deps.Mailer,
		codeWindow:       deps.CodeWindow,
		clock:            clock,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Fullname string
	Email    string
	Password string
}

// Signup creates a password account.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if n := utf8.RuneCountInString(input.Fullname); n < constants.MinFullnameLength || n > constants.MaxFullnameLength {
		return nil, ErrInvalidFullname
	}
	if n := len(input.Password); n < constants.MinPasswordLength || n > constants.MaxPasswordLength {
		return nil, ErrInvalidPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}
	hash := string(hashedPassword)

	user := &models.User{
		Fullname:     input.Fullname,
		Email:        email,
		PasswordHash: &hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, ErrFailedToCreateUser
	}

	return user, nil
}

// IssueEmailCode stores a fresh code for the email and mails it.
func (s *AuthService) IssueEmailCode(ctx context.Context, email string) error {
	code, err := utils.GenerateVerificationCode(constants.VerificationCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	verification := &models.Verification{
		Email:     strings.TrimSpace(email),
		Code:      code,
		CreatedAt: s.clock().UTC().Truncate(time.Second),
	}
	if err := s.verificationRepo.Replace(ctx, verification); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(ctx, verification.Email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendCode, err)
	}
	return nil
}

// ValidateEmailCode checks the newest code for the email. Matching and
// expired codes are consumed.
func (s *AuthService) ValidateEmailCode(ctx context.Context, email, code string) error {
	if code == "" {
		return ErrCodeRequired
	}

	verification, err := s.verificationRepo.FindLatest(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		return fmt.Errorf("failed to find code: %w", err)
	}

	if s.clock().Sub(verification.CreatedAt) >= s.codeWindow {
		if err := s.verificationRepo.Delete(ctx, verification.ID); err != nil {
			return fmt.Errorf("failed to delete code: %w", err)
		}
		return ErrCodeExpired
	}
	if verification.Code != code {
		return ErrInvalidCode
	}

	if err := s.verificationRepo.Delete(ctx, verification.ID); err != nil {
		return fmt.Errorf("failed to delete code: %w", err)
	}
	return nil
}

// SigninInput holds the credentials for authentication.
type SigninInput struct {
	Email    string
	Password string
}

// Signin verifies credentials and returns the user with a signed token.
func (s *AuthService) Signin(ctx context.Context, input SigninInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// KakaoSignin resolves the Kakao account, creating a local user on first use.
func (s *AuthService) KakaoSignin(ctx context.Context, accessToken string) (*models.User, string, error) {
	profile, err := s.kakao.Profile(ctx, accessToken)
	if err != nil {
		return nil, "", err
	}
	if profile.Email == "" {
		return nil, "", ErrKakaoEmailRequired
	}

	attrs := models.User{Fullname: profile.Nickname}
	if profile.ProfileImage != "" {
		image := profile.ProfileImage
		attrs.ProfileImage = &image
	}
	user, err := s.userRepo.FirstOrCreateByEmail(ctx, profile.Email, attrs)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a signed token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
