package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lenbersih/lenbersih-api/internal/config"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/mail"
	"github.com/lenbersih/lenbersih-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid identity or password")
	ErrAccountInactive    = errors.New("account is not activated")
	ErrInvalidSelector    = errors.New("invalid or expired token")
)

// resetWindow bounds how long a forgotten-password code stays usable.
const resetWindow = 24 * time.Hour

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer mail.Mailer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, mailer mail.Mailer) *AuthService {
	return &AuthService{db: db, cfg: cfg, mailer: mailer}
}

// Register creates an inactive back-office account and mails an activation
// link. The activation code is stored hashed; only the mail carries it.
func (s *AuthService) Register(req *dto.RegisterRequest, ip string) (*dto.UserResponse, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	selector, code, err := selectorPair()
	if err != nil {
		return nil, err
	}
	codeHash := hashCode(code)
	inactive := int16(0)

	user := models.User{
		IPAddress:          ip,
		Password:           string(hash),
		Email:              req.Email,
		ActivationSelector: &selector,
		ActivationCode:     &codeHash,
		CreatedOn:          time.Now().UTC().Unix(),
		Active:             &inactive,
	}
	setOptional(&user.Username, req.Username)
	setOptional(&user.FirstName, req.FirstName)
	setOptional(&user.LastName, req.LastName)
	setOptional(&user.Company, req.Company)
	setOptional(&user.Phone, req.Phone)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		var members models.Group
		if err := tx.Where("name = ?", models.GroupMembers).First(&members).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserGroup{UserID: user.ID, GroupID: members.ID}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	link := fmt.Sprintf("%s/activate?selector=%s&code=%s", s.cfg.PublicURL, selector, code)
	if body, err := mail.ActivationBody(link); err == nil {
		if err := s.mailer.Send(user.Email, "Aktivasi Akun Len Bersih", body); err != nil {
			slog.Error("activation mail failed", "user_id", user.ID, "error", err)
		}
	}

	resp := s.userResponse(&user)
	return &resp, nil
}

// Activate flips an account to active when selector and code match.
func (s *AuthService) Activate(req *dto.ActivateRequest) error {
	var user models.User
	if err := s.db.Where("activation_selector = ?", req.Selector).First(&user).Error; err != nil {
		return ErrInvalidSelector
	}
	if user.ActivationCode == nil || *user.ActivationCode != hashCode(req.Code) {
		return ErrInvalidSelector
	}

	active := int16(1)
	return s.db.Model(&user).Updates(map[string]interface{}{
		"active":              active,
		"activation_selector": nil,
		"activation_code":     nil,
	}).Error
}

// Login authenticates by email or username and returns a signed JWT with
// the user's group memberships as a claim.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	err := s.db.Preload("UserGroups.Group").
		Where("email = ? OR username = ?", req.Identity, req.Identity).
		First(&user).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, ErrAccountInactive
	}

	now := time.Now().UTC().Unix()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		slog.Error("failed to record last login", "user_id", user.ID, "error", err)
	}

	token, err := s.signToken(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{Token: token, User: s.userResponse(&user)}, nil
}

// ForgotPassword issues a reset selector/code pair and mails the link. It
// reports success regardless of whether the email exists.
func (s *AuthService) ForgotPassword(req *dto.ForgotPasswordRequest) error {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Do not reveal whether the address is registered.
		return nil
	}

	selector, code, err := selectorPair()
	if err != nil {
		return err
	}
	codeHash := hashCode(code)
	now := time.Now().UTC().Unix()

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"forgotten_password_selector": selector,
		"forgotten_password_code":     codeHash,
		"forgotten_password_time":     now,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?selector=%s&code=%s", s.cfg.PublicURL, selector, code)
	if body, err := mail.PasswordResetBody(link); err == nil {
		if err := s.mailer.Send(user.Email, "Atur Ulang Kata Sandi", body); err != nil {
			slog.Error("password reset mail failed", "user_id", user.ID, "error", err)
		}
	}
	return nil
}

// ResetPassword replaces the password when the selector/code pair is valid
// and within the reset window.
func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	var user models.User
	if err := s.db.Where("forgotten_password_selector = ?", req.Selector).First(&user).Error; err != nil {
		return ErrInvalidSelector
	}
	if user.ForgottenPasswordCode == nil || *user.ForgottenPasswordCode != hashCode(req.Code) {
		return ErrInvalidSelector
	}
	if user.ForgottenPasswordTime == nil ||
		time.Since(time.Unix(*user.ForgottenPasswordTime, 0)) > resetWindow {
		return ErrInvalidSelector
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"password":                    string(hash),
		"forgotten_password_selector": nil,
		"forgotten_password_code":     nil,
		"forgotten_password_time":     nil,
	}).Error
}

// EnsureAdmin creates the bootstrap administrator account when configured
// and absent.
func (s *AuthService) EnsureAdmin() error {
	email := s.cfg.AdminBootstrapEmail
	password := s.cfg.AdminBootstrapPassword
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	active := int16(1)
	user := models.User{
		IPAddress: "127.0.0.1",
		Password:  string(hash),
		Email:     email,
		CreatedOn: time.Now().UTC().Unix(),
		Active:    &active,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		var admin models.Group
		if err := tx.Where("name = ?", models.GroupAdmin).First(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserGroup{UserID: user.ID, GroupID: admin.ID}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	slog.Info("bootstrap admin created", "email", email)
	return nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	groups := make([]string, 0, len(user.UserGroups))
	for _, ug := range user.UserGroups {
		groups = append(groups, ug.Group.Name)
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":    fmt.Sprintf("%d", user.ID),
		"email":  user.Email,
		"groups": groups,
		"iss":    s.cfg.JWTIssuer,
		"aud":    s.cfg.JWTAudience,
		"iat":    now.Unix(),
		"exp":    now.Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) userResponse(user *models.User) dto.UserResponse {
	groups := make([]string, 0, len(user.UserGroups))
	for _, ug := range user.UserGroups {
		groups = append(groups, ug.Group.Name)
	}

	resp := dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName(),
		Groups:   groups,
	}
	if user.Username != nil {
		resp.Username = *user.Username
	}
	return resp
}

func selectorPair() (selector, code string, err error) {
	selector, err = randomHex(16)
	if err != nil {
		return "", "", err
	}
	code, err = randomHex(32)
	if err != nil {
		return "", "", err
	}
	return selector, code, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func setOptional(dst **string, val string) {
	if val != "" {
		*dst = &val
	}
}
