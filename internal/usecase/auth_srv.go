package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	// IsBlocked reports whether the user is inside a lockout window.
	IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error)
	Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository // user, session & lockout
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	// 2. Cek email & username
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email %s: %w", req.Email, err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	existing, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username %s: %w", req.Username, err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	// 3. Hash password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base:         entity.NewBase(now),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	// register paralel bisa lolos cek di atas, constraint unique yang menentukan
	if err := s.repo.User.Create(ctx, user); err != nil {
		if taken := takenError(err); taken != nil {
			s.log.Warn("Register lost unique race", zap.String("email", req.Email), zap.Error(err))
			return nil, taken
		}
		return nil, fmt.Errorf("create user %s: %w", req.Email, err)
	}

	// 4. Auto login setelah register
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	// 1. Cari user by email, lalu by username
	user, err := s.repo.User.FindByEmail(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("find user by username: %w", err)
		}
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("identifier", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 2. User yang sedang terkunci tidak boleh mencoba lagi
	locked, err := s.repo.Lockout.IsLocked(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check lockout %s: %w", user.ID, err)
	}
	if locked {
		s.log.Warn("Blocked user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrUserBlocked
	}

	// 3. Password salah menambah counter
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		attempts, nowLocked, err := s.repo.Lockout.RegisterFailure(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("register failed login %s: %w", user.ID, err)
		}

		s.log.Warn("Invalid password",
			zap.String("user_id", user.ID.String()),
			zap.Int("attempts", attempts),
			zap.Bool("locked", nowLocked))

		if nowLocked {
			// session lama ikut dicabut supaya tidak aktif lagi setelah unblock
			if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
				s.log.Warn("Failed to revoke sessions of blocked user",
					zap.Error(err), zap.String("user_id", user.ID.String()))
			}
			return nil, ErrUserBlocked
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountInactive
	}

	// 4. Reset counter & buat session
	if err := s.repo.Lockout.Reset(ctx, user.ID); err != nil {
		s.log.Warn("Failed to reset login failures", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	now := time.Now()
	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	}
	user.LastLoginAt = &now

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", user.ID, err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrInvalidSession
		}
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error) {
	locked, err := s.repo.Lockout.IsLocked(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check lockout %s: %w", userID, err)
	}
	return locked, nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		existing, err := s.repo.User.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email %s: %w", *req.Email, err)
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
		// email baru harus diverifikasi ulang
		user.EmailVerified = false
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.repo.User.FindByUsername(ctx, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username %s: %w", *req.Username, err)
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}

	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		if taken := takenError(err); taken != nil {
			return nil, taken
		}
		return nil, fmt.Errorf("update user %s: %w", userID, err)
	}

	s.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func takenError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrUsernameTaken):
		return ErrUsernameTaken
	}
	return nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	expiry := time.Duration(s.config.Session.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     userID,
		Token:      utils.GenerateSessionToken(),
		ExpiresAt:  now.Add(expiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
