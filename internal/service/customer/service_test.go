package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"standardtime/internal/domain"
	profilerepo "standardtime/internal/repository/profile"
	tokenrepo "standardtime/internal/repository/token"
)

func newTestService() *Service {
	return New(profilerepo.NewMemory(), tokenrepo.NewMemory())
}

func signup(t *testing.T, svc *Service, email string) *domain.Profile {
	t.Helper()
	p, err := svc.Signup(context.Background(), SignupInput{
		Email:    email,
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return p
}

func TestSignup(t *testing.T) {
	svc := newTestService()

	p, err := svc.Signup(context.Background(), SignupInput{
		Email:       "  Alex@Example.COM ",
		Password:    "correct horse",
		DisplayName: "Alex Tan",
		Phone:       "+65 9123 4567",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if p.Email != "alex@example.com" {
		t.Errorf("Email = %q, want normalized alex@example.com", p.Email)
	}
	if p.DisplayName != "Alex Tan" {
		t.Errorf("DisplayName = %q", p.DisplayName)
	}
	if p.PasswordHash == "correct horse" || p.PasswordHash == "" {
		t.Error("password stored without hashing")
	}
}

func TestSignupDefaultsDisplayNameToEmailLocalPart(t *testing.T) {
	svc := newTestService()
	p := signup(t, svc, "alex@example.com")
	if p.DisplayName != "alex" {
		t.Errorf("DisplayName = %q, want alex", p.DisplayName)
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := newTestService()
	_, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.co", Password: "short"})
	if err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService()
	signup(t, svc, "alex@example.com")
	_, err := svc.Signup(context.Background(), SignupInput{Email: "ALEX@example.com", Password: "correct horse"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestLoginAndLookup(t *testing.T) {
	svc := newTestService()
	created := signup(t, svc, "alex@example.com")
	ctx := context.Background()

	p, token, err := svc.Login(ctx, "Alex@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p.ID != created.ID {
		t.Errorf("profile ID = %s, want %s", p.ID, created.ID)
	}
	if token == "" {
		t.Fatal("empty access token")
	}

	got, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("LookupByToken: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("looked-up ID = %s, want %s", got.ID, created.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()
	signup(t, svc, "alex@example.com")

	_, _, err := svc.Login(context.Background(), "alex@example.com", "wrong password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLookupByTokenRejectsGarbage(t *testing.T) {
	svc := newTestService()
	if _, err := svc.LookupByToken(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func strptr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	svc := newTestService()
	created := signup(t, svc, "alex@example.com")
	ctx := context.Background()

	p, err := svc.UpdateProfile(ctx, created.ID, UpdateProfileInput{
		DisplayName: strptr("  Alex Tan  "),
		Address:     strptr("1 Marina Blvd, Singapore"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.DisplayName != "Alex Tan" {
		t.Errorf("DisplayName = %q, want trimmed Alex Tan", p.DisplayName)
	}
	if p.Address != "1 Marina Blvd, Singapore" {
		t.Errorf("Address = %q", p.Address)
	}

	// Omitted fields keep their stored values.
	p, err = svc.UpdateProfile(ctx, created.ID, UpdateProfileInput{Phone: strptr("+65 9123 4567")})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.DisplayName != "Alex Tan" || p.Address != "1 Marina Blvd, Singapore" {
		t.Errorf("partial update clobbered other fields: %+v", p)
	}
	if p.Phone != "+65 9123 4567" {
		t.Errorf("Phone = %q", p.Phone)
	}
}

func TestUpdateProfileUnknownID(t *testing.T) {
	svc := newTestService()
	if _, err := svc.UpdateProfile(context.Background(), "nope", UpdateProfileInput{Phone: strptr("1")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc := newTestService()
	signup(t, svc, "alex@example.com")
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "  Alex@Example.COM ")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if token == "" {
		t.Fatal("empty reset token for known account")
	}

	if err := svc.ResetPassword(ctx, token, "new password here"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, _, err := svc.Login(ctx, "alex@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted: err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "alex@example.com", "new password here"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	// Reset tokens are single-use.
	if err := svc.ResetPassword(ctx, token, "another password"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("reused token err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordResetUnknownEmailLeaksNothing(t *testing.T) {
	svc := newTestService()
	token, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if token != "" {
		t.Error("token issued for unknown account")
	}
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc := newTestService()
	signup(t, svc, "alex@example.com")
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "alex@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if err := svc.ResetPassword(ctx, token, "short"); err == nil {
		t.Fatal("expected error for short password")
	}
	// The failed attempt must not consume the token.
	if err := svc.ResetPassword(ctx, token, "long enough now"); err != nil {
		t.Errorf("token consumed by rejected attempt: %v", err)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := newTestService()
	signup(t, svc, "alex@example.com")
	ctx := context.Background()

	_, access, err := svc.Login(ctx, "alex@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	reset, err := svc.RequestPasswordReset(ctx, "alex@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	if err := svc.ResetPassword(ctx, access, "new password here"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted for reset: err = %v", err)
	}
	if _, err := svc.LookupByToken(ctx, reset); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("reset token accepted as bearer: err = %v", err)
	}
}

func TestExpiredTokenIsRejectedAndDeleted(t *testing.T) {
	tokens := tokenrepo.NewMemory()
	svc := New(profilerepo.NewMemory(), tokens)
	created := signup(t, svc, "alex@example.com")
	ctx := context.Background()

	if err := tokens.Create(ctx, tokenrepo.Token{
		Token:     "stale",
		ProfileID: created.ID,
		Kind:      "access",
		ExpiresAt: time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if _, err := svc.LookupByToken(ctx, "stale"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := tokens.Get(ctx, "stale"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expired token still stored: err = %v", err)
	}
}

func TestNonAccessTokenIsRejected(t *testing.T) {
	tokens := tokenrepo.NewMemory()
	svc := New(profilerepo.NewMemory(), tokens)
	created := signup(t, svc, "alex@example.com")
	ctx := context.Background()

	if err := tokens.Create(ctx, tokenrepo.Token{
		Token:     "refresh-tok",
		ProfileID: created.ID,
		Kind:      "refresh",
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, "refresh-tok"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
