package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"standardtime/internal/domain"
	profilerepo "standardtime/internal/repository/profile"
	tokenrepo "standardtime/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles shopper signup/login and account self-service.
type Service struct {
	repo        profilerepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	resetTTL    time.Duration
	passwordMin int
}

func New(repo profilerepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		resetTTL:    time.Hour,
		passwordMin: 8,
	}
}

// SignupInput captures the signup payload.
type SignupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
}

// Signup registers a new profile.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		// Same default the storefront shows in chat: the email local part.
		displayName, _, _ = strings.Cut(email, "@")
	}
	return s.repo.Create(ctx, profilerepo.CreateInput{
		Email:        email,
		PasswordHash: string(hashed),
		DisplayName:  displayName,
		Phone:        strings.TrimSpace(in.Phone),
	})
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	access, err := s.tokens.Issue(ctx, p.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return p, access, nil
}

// LookupByToken resolves an access token to its profile.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Profile, error) {
	meta, ok := s.tokens.Validate(ctx, token, "access")
	if !ok {
		return nil, ErrInvalidToken
	}
	return s.repo.GetByID(ctx, meta.ProfileID)
}

// UpdateProfileInput carries a partial self-service edit; nil fields keep
// their stored values.
type UpdateProfileInput struct {
	DisplayName *string `json:"displayName"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

// UpdateProfile applies the shopper's own contact-detail edits.
func (s *Service) UpdateProfile(ctx context.Context, profileID string, in UpdateProfileInput) (*domain.Profile, error) {
	return s.repo.Update(ctx, profileID, profilerepo.UpdateInput{
		DisplayName: trimmed(in.DisplayName),
		Phone:       trimmed(in.Phone),
		Address:     trimmed(in.Address),
	})
}

// RequestPasswordReset issues a short-lived reset token for the account.
// Unknown emails return an empty token and no error so the endpoint cannot
// be used to enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return s.tokens.Issue(ctx, p.ID, "reset", s.resetTTL)
}

// ResetPassword consumes a reset token and installs the new password. The
// token is single-use; it is revoked whether or not it had expired.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	meta, ok := s.tokens.Validate(ctx, token, "reset")
	if !ok {
		return ErrInvalidToken
	}
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < s.passwordMin {
		return errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, meta.ProfileID, string(hashed)); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, token)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// AccessTTLSeconds reports the token lifetime for login responses.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
