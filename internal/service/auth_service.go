package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/notify"
	"github.com/campushq/projectdesk-api/internal/repository"
)

const otpCodeLength = 6

// AuthService handles the passwordless login flow and the admin password path.
type AuthService interface {
	RequestOTP(ctx context.Context, payload dto.LoginRequest) (dto.LoginStartResponse, error)
	VerifyOTP(ctx context.Context, payload dto.OTPVerifyRequest) (dto.AuthResponse, error)
	AdminLogin(ctx context.Context, payload dto.AdminLoginRequest) (dto.AuthResponse, error)
	VerifyToken(ctx context.Context, payload dto.TokenVerifyRequest) (dto.TokenClaimsResponse, error)
}

// AuthConfig carries the token and OTP settings the service needs.
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	OTPExpiry time.Duration
}

type authService struct {
	users     repository.UserRepository
	otps      repository.OTPRepository
	notifier  notify.Notifier
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users repository.UserRepository, otps repository.OTPRepository, notifier notify.Notifier, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		otps:      otps,
		notifier:  notifier,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) RequestOTP(ctx context.Context, payload dto.LoginRequest) (dto.LoginStartResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginStartResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.LoginStartResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	// Admin accounts authenticate with a password, never an OTP.
	if err == nil && user.IsAdmin() {
		return dto.LoginStartResponse{
			Status:  "password_required",
			Message: "admin accounts sign in with a password",
			Email:   email,
		}, nil
	}

	if err == nil && !user.IsActive {
		return dto.LoginStartResponse{}, fmt.Errorf("account disabled: %w", apperr.ErrForbidden)
	}

	// Requesting a new code invalidates every outstanding one for the email.
	if err := s.otps.PurgeUnused(ctx, email); err != nil {
		return dto.LoginStartResponse{}, fmt.Errorf("purge otp codes: %w", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return dto.LoginStartResponse{}, fmt.Errorf("generate otp code: %w", err)
	}

	token := models.OTPToken{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.cfg.OTPExpiry),
	}
	if err := s.otps.Create(ctx, &token); err != nil {
		return dto.LoginStartResponse{}, fmt.Errorf("store otp code: %w", err)
	}

	s.notifier.Dispatch(ctx, notify.Intent{
		UserID:    user.ID,
		Email:     email,
		Kind:      models.NotificationKindOTP,
		Title:     "Your login code",
		Message:   fmt.Sprintf("Your one-time login code is %s. It expires in %d minutes.", code, int(s.cfg.OTPExpiry.Minutes())),
		EmailOnly: true,
	})

	s.logger.Info().Str("email", email).Msg("otp issued")

	return dto.LoginStartResponse{
		Status:  "otp_sent",
		Message: "a one-time code was sent to your email",
		Email:   email,
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, payload dto.OTPVerifyRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	token, err := s.otps.FindUsable(ctx, email, payload.Code, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, fmt.Errorf("otp code: %w", apperr.ErrInvalidArgument)
		}
		return dto.AuthResponse{}, fmt.Errorf("lookup otp code: %w", err)
	}

	if err := s.otps.MarkUsed(ctx, &token); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("consume otp code: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:    email,
			Name:     nameFromEmail(email),
			Role:     models.RoleStudent,
			IsActive: true,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return dto.AuthResponse{}, fmt.Errorf("create user: %w", err)
		}
		s.logger.Info().Str("email", email).Msg("first login, student account created")
	} else if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return dto.AuthResponse{}, fmt.Errorf("account disabled: %w", apperr.ErrForbidden)
	}

	return s.issueToken(user)
}

func (s *authService) AdminLogin(ctx context.Context, payload dto.AdminLoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, fmt.Errorf("credentials: %w", apperr.ErrForbidden)
		}
		return dto.AuthResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsAdmin() || user.PasswordHash == "" {
		return dto.AuthResponse{}, fmt.Errorf("credentials: %w", apperr.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("credentials: %w", apperr.ErrForbidden)
	}

	return s.issueToken(user)
}

func (s *authService) VerifyToken(_ context.Context, payload dto.TokenVerifyRequest) (dto.TokenClaimsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenClaimsResponse{}, err
	}

	token, err := jwt.Parse(payload.Token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return dto.TokenClaimsResponse{}, fmt.Errorf("token invalid or expired: %w", apperr.ErrInvalidArgument)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return dto.TokenClaimsResponse{}, fmt.Errorf("token claims: %w", apperr.ErrInvalidArgument)
	}

	subject, ok := claims["sub"].(float64)
	if !ok || subject < 0 {
		return dto.TokenClaimsResponse{}, fmt.Errorf("token subject: %w", apperr.ErrInvalidArgument)
	}

	role, _ := claims["role"].(string)

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return dto.TokenClaimsResponse{}, fmt.Errorf("token expiry: %w", apperr.ErrInvalidArgument)
	}

	return dto.TokenClaimsResponse{
		UserID:    uint(subject),
		Role:      role,
		ExpiresAt: expiry.Time,
	}, nil
}

func (s *authService) issueToken(user models.User) (dto.AuthResponse, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTExpiry).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return dto.AuthResponse{
		AccessToken: signed,
		Role:        user.Role,
		UserID:      user.ID,
		Name:        user.Name,
	}, nil
}

func generateOTPCode() (string, error) {
	var code strings.Builder
	for i := 0; i < otpCodeLength; i++ {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code.WriteString(digit.String())
	}

	return code.String(), nil
}

func nameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)

	return strings.TrimSpace(local)
}
