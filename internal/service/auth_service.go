package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	"github.com/paras1506/CSR-Health-Group/internal/cache"
	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/notify"
	"github.com/paras1506/CSR-Health-Group/internal/repository"
)

const (
	bcryptCost      = 10
	profileCacheTTL = 5 * time.Minute
)

// SignupInput carries the profile fields supplied at registration.
type SignupInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Phone        string
	GovernmentID *string
	Role         model.Role
	DepartmentID *uuid.UUID
}

// AuthService handles signup, login, verification and profile reads.
type AuthService interface {
	// Signup creates the account. pendingVerification is true for every role
	// except Donor, which may act immediately.
	Signup(ctx context.Context, input SignupInput) (user *model.User, pendingVerification bool, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	VerifyUser(ctx context.Context, targetID uuid.UUID) (*model.User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	verifier   notify.EmailVerifier
	notifier   notify.Notifier
	cache      *cache.Client
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	verifier notify.EmailVerifier,
	notifier notify.Notifier,
	cacheClient *cache.Client,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		verifier:   verifier,
		notifier:   notifier,
		cache:      cacheClient,
	}
}

func (s *authService) profileCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// Signup validates the email (syntax, then an MX round trip against its
// domain), hashes the password and persists the account. The welcome mail is
// best-effort and never rolls back the created account.
func (s *authService) Signup(ctx context.Context, input SignupInput) (*model.User, bool, error) {
	if err := s.verifier.Verify(ctx, input.Email); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, false, apperrors.ErrAccountExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("check account existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Phone:        input.Phone,
		GovernmentID: input.GovernmentID,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	pending := input.Role != model.RoleDonor
	body := "Welcome to the solar aid platform, " + user.FirstName + "."
	if pending {
		body += " Your account is awaiting verification."
	}
	if err := s.notifier.Notify(ctx, user.Email, "Welcome", body); err != nil {
		log.Printf("welcome mail to %s failed: %v", user.Email, err)
	}

	return user, pending, nil
}

// Login authenticates the account and issues a bearer token. An unknown email
// and a wrong password yield the same error on purpose.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// VerifyUser flips the verification flag. Re-verifying is an idempotent
// success. The cached profile is invalidated so the flag is visible on the
// next read.
func (s *authService) VerifyUser(ctx context.Context, targetID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.MarkVerified(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("mark verified: %w", err)
	}

	_ = s.cache.Delete(ctx, s.profileCacheKey(targetID))
	return user, nil
}

// GetProfile reads the account through the fail-safe cache.
func (s *authService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.profileCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.profileCacheKey(id), payload, profileCacheTTL)
	}
	return user, nil
}
