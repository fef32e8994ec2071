package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/store"
	"github.com/smartspend/smartspend-api/utils"
)

var (
	ErrDuplicateUser      = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTOTPRequired       = errors.New("2FA code required")
	ErrInvalidTOTP        = errors.New("invalid 2FA code")
	ErrTOTPNotSetup       = errors.New("2FA has not been set up")
	ErrTOTPAlreadyEnabled = errors.New("2FA is already enabled")
)

// AuthService handles accounts, passwords and TOTP second factors.
type AuthService struct {
	store         store.Store
	encryptionKey string
}

// encryptionKey may be empty, in which case TOTP secrets are stored as is.
func NewAuthService(s store.Store, encryptionKey string) *AuthService {
	return &AuthService{store: s, encryptionKey: encryptionKey}
}

// Register creates a regular (non-admin) account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	utils.LogAuthAction("register", user.Username, true)
	return user, nil
}

// Login accepts a username or an email. Accounts with 2FA enabled also need a
// valid TOTP code.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) && strings.Contains(req.Username, "@") {
		user, err = s.store.GetUserByEmail(ctx, req.Username)
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.LogAuthAction("login", req.Username, false)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		utils.LogAuthAction("login", req.Username, false)
		return nil, ErrInvalidCredentials
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, ErrTOTPRequired
		}
		secret, err := s.totpSecret(user)
		if err != nil {
			return nil, err
		}
		if !utils.VerifyTOTP(secret, req.TOTPCode) {
			utils.LogAuthAction("login 2fa", req.Username, false)
			return nil, ErrInvalidTOTP
		}
	}

	utils.LogAuthAction("login", req.Username, true)
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// EnsureAdmin creates the admin account if the username is free, or promotes
// the existing account. It reports whether a new account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg AdminAccount) (*models.User, bool, error) {
	existing, err := s.store.GetUserByUsername(ctx, cfg.Username)
	if err == nil {
		if !existing.IsAdmin {
			existing.IsAdmin = true
			if err := s.store.UpdateUser(ctx, existing); err != nil {
				return nil, false, fmt.Errorf("failed to promote admin: %w", err)
			}
		}
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if cfg.Password == "" {
		return nil, false, errors.New("admin password is required to create the admin account")
	}
	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		FullName:     cfg.FullName,
		IsAdmin:      true,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, true, nil
}

type AdminAccount struct {
	Username string
	Email    string
	Password string
	FullName string
}

// ============================================================================
// TWO-FACTOR AUTHENTICATION
// ============================================================================

// SetupTOTP generates a new secret. 2FA stays disabled until VerifyTOTP.
// An account with 2FA enabled must go through DisableTOTP first.
func (s *AuthService) SetupTOTP(ctx context.Context, userID string) (*models.TOTPSetupResponse, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, ErrTOTPAlreadyEnabled
	}

	secret, url, err := utils.GenerateTOTPSecret(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate 2FA secret: %w", err)
	}

	stored := secret
	if s.encryptionKey != "" {
		if stored, err = utils.Encrypt(s.encryptionKey, []byte(secret)); err != nil {
			return nil, fmt.Errorf("failed to encrypt 2FA secret: %w", err)
		}
	}
	user.TOTPSecret = stored
	user.TOTPEnabled = false
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{Secret: secret, URL: url}, nil
}

func (s *AuthService) VerifyTOTP(ctx context.Context, userID, code string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return ErrTOTPNotSetup
	}
	secret, err := s.totpSecret(user)
	if err != nil {
		return err
	}
	if !utils.VerifyTOTP(secret, code) {
		return ErrInvalidTOTP
	}

	user.TOTPEnabled = true
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	utils.LogAuthAction("2fa enabled", user.Username, true)
	return nil
}

// DisableTOTP needs the password and, while 2FA is enabled, a current code.
func (s *AuthService) DisableTOTP(ctx context.Context, userID, password, code string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if user.TOTPEnabled {
		secret, err := s.totpSecret(user)
		if err != nil {
			return err
		}
		if code == "" || !utils.VerifyTOTP(secret, code) {
			return ErrInvalidTOTP
		}
	}

	user.TOTPSecret = ""
	user.TOTPEnabled = false
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	utils.LogAuthAction("2fa disabled", user.Username, true)
	return nil
}

func (s *AuthService) totpSecret(user *models.User) (string, error) {
	if s.encryptionKey == "" {
		return user.TOTPSecret, nil
	}
	plain, err := utils.Decrypt(s.encryptionKey, user.TOTPSecret)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt 2FA secret: %w", err)
	}
	return string(plain), nil
}
