package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/RamizjonSheraliyev/Auths-Advances/internal/config"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/models"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/repo"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/token"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- fakes ---

type fakeStore struct {
	byID map[string]*models.User
	err  error // when set, every operation fails with it
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]*models.User)}
}

func (f *fakeStore) findByEmail(email string) *models.User {
	for _, u := range f.byID {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.findByEmail(user.Email) != nil {
		return nil, repo.ErrDuplicateEmail
	}
	user.ID = primitive.NewObjectID()
	f.byID[user.ID.Hex()] = user
	return user, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u := f.findByEmail(email); u != nil {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.findByEmail(email) != nil, nil
}

func (f *fakeStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (f *fakeStore) SetResetToken(ctx context.Context, id, tok string, expiresAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.ResetToken = &tok
	u.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (f *fakeStore) ConsumeVerificationCode(ctx context.Context, code string, now time.Time) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.VerificationCode != nil && *u.VerificationCode == code &&
			u.VerificationCodeExpiresAt != nil && u.VerificationCodeExpiresAt.After(now) {
			u.IsVerified = true
			u.VerificationCode = nil
			u.VerificationCodeExpiresAt = nil
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeStore) ConsumeResetToken(ctx context.Context, tok, passwordHash string, now time.Time) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.ResetToken != nil && *u.ResetToken == tok &&
			u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now) {
			u.Password = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiresAt = nil
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

type fakeMailer struct {
	verifications  int
	welcomes       int
	resets         int
	resetSuccesses int
	lastResetURL   string

	verifyErr  error
	welcomeErr error
	resetErr   error
	successErr error
}

func (f *fakeMailer) SendVerification(to, code string) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verifications++
	return nil
}

func (f *fakeMailer) SendWelcome(to, name string) error {
	if f.welcomeErr != nil {
		return f.welcomeErr
	}
	f.welcomes++
	return nil
}

func (f *fakeMailer) SendPasswordReset(to, resetURL string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	f.lastResetURL = resetURL
	return nil
}

func (f *fakeMailer) SendResetSuccess(to string) error {
	if f.successErr != nil {
		return f.successErr
	}
	f.resetSuccesses++
	return nil
}

func newTestService(t *testing.T, store *fakeStore, mailer *fakeMailer) *AuthService {
	t.Helper()
	codec, err := token.NewCodec("test-secret", time.Hour)
	require.NoError(t, err)
	cfg := &config.Config{
		Env:       "dev",
		ClientURL: "http://localhost:5173",
		JWTExpiry: time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(store, mailer, codec, cfg, logger)
}

func appErr(t *testing.T, err error) *utils.AppError {
	t.Helper()
	var ae *utils.AppError
	require.True(t, errors.As(err, &ae), "expected AppError, got %v", err)
	return ae
}

// --- tests ---

func TestSignupCreatesUnverifiedUser(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := newTestService(t, store, mailer)

	user, sessionToken, err := svc.Signup(context.Background(), "A@X.com", "pw123", "A")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", user.Email, "email must be stored lower-cased")
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.VerificationCode)
	assert.Len(t, *user.VerificationCode, 6)
	require.NotNil(t, user.VerificationCodeExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *user.VerificationCodeExpiresAt, time.Minute)
	assert.Equal(t, 1, mailer.verifications)

	codec, err := token.NewCodec("test-secret", time.Hour)
	require.NoError(t, err)
	userID, err := codec.Verify(sessionToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), userID)
}

func TestSignupMissingFields(t *testing.T) {
	svc := newTestService(t, newFakeStore(), &fakeMailer{})

	for _, tc := range []struct {
		name                  string
		email, password, user string
	}{
		{"no email", "", "pw", "n"},
		{"no password", "a@x.com", "", "n"},
		{"no name", "a@x.com", "pw", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(context.Background(), tc.email, tc.password, tc.user)
			ae := appErr(t, err)
			assert.Equal(t, 400, ae.Status)
			assert.Equal(t, utils.CodeValidation, ae.Code)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeMailer{})

	_, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), "A@X.COM", "other", "B")
	ae := appErr(t, err)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, utils.CodeConflict, ae.Code)
	assert.Len(t, store.byID, 1, "no second record may exist")
}

func TestSignupMailFailureKeepsUser(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{verifyErr: errors.New("smtp down")}
	svc := newTestService(t, store, mailer)

	_, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	ae := appErr(t, err)
	assert.Equal(t, 500, ae.Status)
	assert.Len(t, store.byID, 1, "state is persisted before the notification")
}

func TestVerifyEmailConsumesCodeOnce(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := newTestService(t, store, mailer)

	created, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)
	code := *created.VerificationCode

	_, err = svc.VerifyEmail(context.Background(), "000000")
	ae := appErr(t, err)
	assert.Equal(t, utils.CodeInvalidOrExpired, ae.Code)

	user, err := svc.VerifyEmail(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.VerificationCode)
	assert.Nil(t, user.VerificationCodeExpiresAt)
	assert.Equal(t, 1, mailer.welcomes)

	_, err = svc.VerifyEmail(context.Background(), code)
	ae = appErr(t, err)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, utils.CodeInvalidOrExpired, ae.Code, "a code is single-use")
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeMailer{})

	created, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)
	code := *created.VerificationCode

	past := time.Now().Add(-time.Minute)
	created.VerificationCodeExpiresAt = &past

	_, err = svc.VerifyEmail(context.Background(), code)
	ae := appErr(t, err)
	assert.Equal(t, utils.CodeInvalidOrExpired, ae.Code, "matching value past expiry must fail")
	assert.False(t, created.IsVerified)
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeMailer{})

	_, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)

	user, sessionToken, err := svc.Login(context.Background(), "A@x.com", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionToken)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *user.LastLoginAt, time.Minute)

	first := *user.LastLoginAt
	user2, _, err := svc.Login(context.Background(), "a@x.com", "pw123")
	require.NoError(t, err)
	assert.False(t, user2.LastLoginAt.Before(first))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeMailer{})

	_, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)

	_, _, errWrongPassword := svc.Login(context.Background(), "a@x.com", "nope")
	_, _, errUnknownEmail := svc.Login(context.Background(), "b@x.com", "pw123")

	aeWrong := appErr(t, errWrongPassword)
	aeUnknown := appErr(t, errUnknownEmail)
	assert.Equal(t, aeWrong.Status, aeUnknown.Status)
	assert.Equal(t, aeWrong.Message, aeUnknown.Message)
	assert.Equal(t, utils.CodeInvalidCredentials, aeWrong.Code)
}

func TestForgotResetRoundTrip(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := newTestService(t, store, mailer)

	created, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	require.NotNil(t, created.ResetToken)
	resetToken := *created.ResetToken
	assert.Len(t, resetToken, 40)
	require.NotNil(t, created.ResetTokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *created.ResetTokenExpiresAt, time.Minute)
	assert.Equal(t, "http://localhost:5173/reset-password/"+resetToken, mailer.lastResetURL)

	require.NoError(t, svc.ResetPassword(context.Background(), resetToken, "newpw456"))
	assert.Equal(t, 1, mailer.resetSuccesses)
	assert.Nil(t, created.ResetToken)
	assert.Nil(t, created.ResetTokenExpiresAt)

	_, _, err = svc.Login(context.Background(), "a@x.com", "pw123")
	ae := appErr(t, err)
	assert.Equal(t, utils.CodeInvalidCredentials, ae.Code, "old password must stop working")

	_, _, err = svc.Login(context.Background(), "a@x.com", "newpw456")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), resetToken, "again789")
	ae = appErr(t, err)
	assert.Equal(t, utils.CodeInvalidOrExpired, ae.Code, "a reset token is single-use")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newTestService(t, newFakeStore(), &fakeMailer{})

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	ae := appErr(t, err)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, utils.CodeNotFound, ae.Code)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeMailer{})

	created, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))

	past := time.Now().Add(-time.Minute)
	created.ResetTokenExpiresAt = &past

	err = svc.ResetPassword(context.Background(), *created.ResetToken, "newpw456")
	ae := appErr(t, err)
	assert.Equal(t, utils.CodeInvalidOrExpired, ae.Code)
}

func TestCheckAuth(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, &fakeMailer{})

	created, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	require.NoError(t, err)

	user, err := svc.CheckAuth(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	delete(store.byID, created.ID.Hex())
	_, err = svc.CheckAuth(context.Background(), created.ID.Hex())
	ae := appErr(t, err)
	assert.Equal(t, utils.CodeNotFound, ae.Code, "deleted user behind a valid token")
}

func TestStoreFailureMapsToInternal(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("store unavailable")
	svc := newTestService(t, store, &fakeMailer{})

	_, _, err := svc.Signup(context.Background(), "a@x.com", "pw123", "A")
	ae := appErr(t, err)
	assert.Equal(t, 500, ae.Status)
	assert.Equal(t, "Server error", ae.Message, "no internal detail may leak")
}
