package user

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/storage"
	"shopco-storefront/internal/validate"

	"go.uber.org/zap"
)

type Service interface {
	SignUp(ctx context.Context, form SignUpForm) (*Profile, error)
	SignIn(ctx context.Context, form SignInForm, rememberMe bool) (*Profile, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*Profile, bool)
	RememberedEmail(ctx context.Context) string
}

type service struct {
	mu     sync.Mutex
	repo   Repository
	kv     storage.Store
	tokens *auth.TokenStore
}

func NewService(repo Repository, kv storage.Store, tokens *auth.TokenStore) Service {
	return &service{repo: repo, kv: kv, tokens: tokens}
}

// SignUp registers the visitor remotely and caches the submitted profile.
// It does not log the visitor in.
func (s *service) SignUp(ctx context.Context, form SignUpForm) (*Profile, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := validate.Struct(form); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SignUp"),
	)

	if _, err := s.repo.SignUp(ctx, form); err != nil {
		log.Warn("remote sign up rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSignUpFailed, err)
	}

	profile := &Profile{Name: form.Name, Email: form.Email, Phone: form.Phone}
	if err := s.saveProfile(ctx, profile); err != nil {
		log.Error("failed to cache profile", zap.Error(err))
		return nil, err
	}

	log.Info("sign up completed")
	return profile, nil
}

// SignIn exchanges credentials for a token and stores it for the session.
func (s *service) SignIn(ctx context.Context, form SignInForm, rememberMe bool) (*Profile, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validate.Struct(form); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SignIn"),
	)

	res, err := s.repo.SignIn(ctx, form)
	if err != nil {
		log.Warn("remote sign in rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSignInFailed, err)
	}
	if res.Token == "" {
		log.Error("sign in response without token")
		return nil, fmt.Errorf("%w: %w", ErrSignInFailed, ErrMissingToken)
	}

	if err := s.tokens.SetToken(ctx, res.Token); err != nil {
		log.Error("failed to store token", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFailedSaveProfile, err)
	}

	profile := res.User
	if profile.Email == "" {
		profile.Email = form.Email
	}
	// The remote user carries no phone; keep the one cached at sign up.
	if cached, ok := s.Profile(ctx); ok && strings.EqualFold(cached.Email, profile.Email) && profile.Phone == "" {
		profile.Phone = cached.Phone
	}
	if err := s.saveProfile(ctx, &profile); err != nil {
		log.Warn("failed to cache profile", zap.Error(err))
	}

	if rememberMe {
		err = s.kv.Set(ctx, storage.KeyRememberedEmail, form.Email)
	} else {
		err = s.kv.Remove(ctx, storage.KeyRememberedEmail)
	}
	if err != nil {
		log.Warn("failed to update remembered email", zap.Error(err))
	}

	log.Info("sign in completed")
	return &profile, nil
}

// Logout forgets the token and the cached profile. Cart and wishlist stay.
func (s *service) Logout(ctx context.Context) error {
	if err := s.tokens.Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(ctx, storage.KeyUserInfo); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

func (s *service) Profile(ctx context.Context) (*Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p Profile
	found, err := s.kv.Get(ctx, storage.KeyUserInfo, &p)
	if err != nil {
		logger.FromCtx(ctx).Warn("ignoring unreadable profile",
			zap.String("layer", "service"),
			zap.String("method", "Profile"),
			zap.Error(err),
		)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &p, true
}

func (s *service) RememberedEmail(ctx context.Context) string {
	var email string
	if _, err := s.kv.Get(ctx, storage.KeyRememberedEmail, &email); err != nil {
		return ""
	}
	return email
}

func (s *service) saveProfile(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, storage.KeyUserInfo, p); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedSaveProfile, err)
	}
	return nil
}

// Initials returns up to two upper-case initials of name. An empty name reads as "User".
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "User"
	}
	var out []rune
	for _, part := range strings.Fields(name) {
		out = append(out, unicode.ToUpper([]rune(part)[0]))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
