package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/db"
	"github.com/diewo77/offermaster/internal/mailer"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/validation"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginInput accepts the address as either email or identifier.
type LoginInput struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// LoginResponse is returned by login and register.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *models.User `json:"user"`
}

// ProfileInput updates the current user's profile.
type ProfileInput struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	PrimaryAreaOfWork string `json:"primaryAreaOfWork"`
}

// UserService handles accounts, sign-in and password resets.
type UserService struct {
	DB          *gorm.DB
	Tokens      *auth.Tokens
	Mail        mailer.Sender
	FrontendURL string
	ResetTTL    time.Duration
	Cost        int
	Now         func() time.Time
}

func NewUserService(db *gorm.DB, tokens *auth.Tokens, mail mailer.Sender, frontendURL string, resetTTL time.Duration) *UserService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &UserService{
		DB:          db,
		Tokens:      tokens,
		Mail:        mail,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		ResetTTL:    resetTTL,
		Cost:        bcrypt.DefaultCost,
		Now:         time.Now,
	}
}

func (s *UserService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *UserService) issue(u *models.User) (*LoginResponse, error) {
	token, exp, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{AccessToken: token, TokenType: auth.TokenType, ExpiresAt: exp, User: u}, nil
}

// Register creates an account and signs it in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*LoginResponse, error) {
	v := validation.Violations{}
	validation.Required("firstName", in.FirstName, v)
	validation.Required("lastName", in.LastName, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.Password("password", in.Password, v)
	if err := invalid(v); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := models.User{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Password: hash}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, &ConflictError{Code: "email_exists"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issue(&u)
}

// Login checks the credentials. Unknown address and wrong password both
// yield ErrBadCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResponse, error) {
	email := in.Email
	if email == "" {
		email = in.Identifier
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || in.Password == "" {
		return nil, ErrBadCredentials
	}
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return nil, ErrBadCredentials
	}
	return s.issue(&u)
}

// Exists reports whether a user id is still known.
func (s *UserService) Exists(ctx context.Context, id uint) bool {
	var n int64
	s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n)
	return n > 0
}

// Me returns the current user.
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	var u models.User
	err = s.DB.WithContext(ctx).First(&u, uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes name, email and area of work. The new email must not
// belong to another user.
func (s *UserService) UpdateProfile(ctx context.Context, in ProfileInput) (*models.User, error) {
	u, err := s.Me(ctx)
	if err != nil {
		return nil, err
	}
	v := validation.Violations{}
	validation.Required("firstName", in.FirstName, v)
	validation.Required("lastName", in.LastName, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.MaxLen("primaryAreaOfWork", in.PrimaryAreaOfWork, 255, v)
	if err := invalid(v); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != u.Email {
		var taken int64
		if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, u.ID).Count(&taken).Error; err != nil {
			return nil, err
		}
		if taken > 0 {
			return nil, &ConflictError{Code: "email_exists"}
		}
	}
	u.FirstName, u.LastName, u.Email, u.PrimaryAreaOfWork = in.FirstName, in.LastName, email, in.PrimaryAreaOfWork
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, &ConflictError{Code: "email_exists"}
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ForgotPassword mails a reset link when the address is known. Unknown
// addresses are not reported to the caller.
func (s *UserService) ForgotPassword(ctx context.Context, email, lang string) error {
	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	t := models.PasswordResetToken{Token: uuid.NewString(), UserID: u.ID, ExpiresAt: s.Now().Add(s.ResetTTL)}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&t).Error
	})
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	link := s.FrontendURL + "/reset-password?token=" + url.QueryEscape(t.Token)
	body, err := mailer.ResetBody(u.FullName(), link, int(s.ResetTTL/time.Minute))
	if err != nil {
		return fmt.Errorf("reset mail body: %w", err)
	}
	msg := mailer.Message{To: u.Email, ToName: u.FullName(), Subject: i18n.T(lang, "reset_subject"), HTML: body}
	if err := s.Mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the token's owner and burns the token.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	v := validation.Violations{}
	validation.Required("token", token, v)
	validation.Password("password", password, v)
	if err := invalid(v); err != nil {
		return err
	}
	var t models.PasswordResetToken
	err := s.DB.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if t.Expired(s.Now()) {
		s.DB.WithContext(ctx).Delete(&t)
		return ErrTokenExpired
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", t.UserID).Update("password", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}
		return tx.Delete(&t).Error
	})
}
