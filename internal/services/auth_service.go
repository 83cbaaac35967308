package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RamizjonSheraliyev/Auths-Advances/internal/config"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/models"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/repo"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/secrets"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/token"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationCodeTTL = 24 * time.Hour
	resetTokenTTL       = time.Hour
)

// UserStore is the slice of the credential store the auth service
// needs. Consume operations are atomic: the backing store re-checks
// value and expiry and clears them in a single update.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ConsumeVerificationCode(ctx context.Context, code string, now time.Time) (*models.User, error)
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error)
}

type Notifier interface {
	SendVerification(to, code string) error
	SendWelcome(to, name string) error
	SendPasswordReset(to, resetURL string) error
	SendResetSuccess(to string) error
}

type AuthService struct {
	users  UserStore
	mailer Notifier
	codec  *token.Codec
	cfg    *config.Config
	log    *slog.Logger
}

func NewAuthService(users UserStore, mailer Notifier, codec *token.Codec, cfg *config.Config, log *slog.Logger) *AuthService {
	return &AuthService{users: users, mailer: mailer, codec: codec, cfg: cfg, log: log}
}

// Signup creates an unverified account, issues a session token and
// mails the verification code. State is persisted before the mail is
// sent; a mail failure fails the request but the account stays.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*models.User, string, error) {
	if email == "" || password == "" || name == "" {
		return nil, "", utils.ValidationError("All fields are required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", s.internal("signup: check existing", err)
	}
	if exists {
		return nil, "", utils.ConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", s.internal("signup: hash password", err)
	}

	code, err := secrets.NumericCode()
	if err != nil {
		return nil, "", s.internal("signup: generate code", err)
	}
	now := time.Now()
	codeExpiry := now.Add(verificationCodeTTL)

	user := &models.User{
		Email:                     email,
		Password:                  string(hash),
		Name:                      name,
		IsVerified:                false,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &codeExpiry,
		CreatedAt:                 now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", utils.ConflictError("User already exists")
		}
		return nil, "", s.internal("signup: create user", err)
	}

	sessionToken, err := s.codec.Issue(created.ID.Hex())
	if err != nil {
		return nil, "", s.internal("signup: issue token", err)
	}

	if err := s.mailer.SendVerification(created.Email, code); err != nil {
		return nil, "", s.internal("signup: send verification mail", err)
	}

	return created, sessionToken, nil
}

// VerifyEmail consumes a verification code. The miss message does not
// distinguish a wrong code from an expired one.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*models.User, error) {
	user, err := s.users.ConsumeVerificationCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, utils.InvalidOrExpiredError("Invalid or expired verification code")
		}
		return nil, s.internal("verify email: consume code", err)
	}

	if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
		return nil, s.internal("verify email: send welcome mail", err)
	}

	return user, nil
}

// Login answers the same error for an unknown email and a wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", utils.InvalidCredentialsError()
		}
		return nil, "", s.internal("login: get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", utils.InvalidCredentialsError()
	}

	sessionToken, err := s.codec.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", s.internal("login: issue token", err)
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID.Hex(), now); err != nil {
		return nil, "", s.internal("login: update last login", err)
	}
	user.LastLoginAt = &now

	return user, sessionToken, nil
}

// ForgotPassword stores a fresh reset token and mails the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.NotFoundError("User not found")
		}
		return s.internal("forgot password: get user", err)
	}

	resetToken, err := secrets.HexToken()
	if err != nil {
		return s.internal("forgot password: generate token", err)
	}
	expiresAt := time.Now().Add(resetTokenTTL)

	if err := s.users.SetResetToken(ctx, user.ID.Hex(), resetToken, expiresAt); err != nil {
		return s.internal("forgot password: store token", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.cfg.ClientURL, resetToken)
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		return s.internal("forgot password: send reset mail", err)
	}

	return nil
}

// ResetPassword consumes a reset token, replacing the password hash in
// the same atomic update that clears the token.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return s.internal("reset password: hash password", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, resetToken, string(hash), time.Now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.InvalidOrExpiredError("Invalid or expired reset token")
		}
		return s.internal("reset password: consume token", err)
	}

	if err := s.mailer.SendResetSuccess(user.Email); err != nil {
		return s.internal("reset password: send success mail", err)
	}

	return nil
}

// CheckAuth re-checks that the identity behind a valid session token
// still exists.
func (s *AuthService) CheckAuth(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, utils.NotFoundError("User not found")
		}
		return nil, s.internal("check auth: get user", err)
	}
	return user, nil
}

// internal logs the real failure and returns the generic error that
// crosses the boundary.
func (s *AuthService) internal(op string, err error) *utils.AppError {
	s.log.Error("auth service failure", "op", op, "error", err)
	return utils.InternalError()
}
