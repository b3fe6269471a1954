package service

import (
	"context"
	"net/mail"
	"strings"

	"arena-booking-api/core/errors"
	"arena-booking-api/core/logger"
	"arena-booking-api/core/utils"
	"arena-booking-api/modules/auth/dto"
	"arena-booking-api/modules/auth/entity"
	"arena-booking-api/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, *errors.AppError)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, *errors.AppError)
}

type authService struct {
	repo repository.UserRepositoryInterface
}

func NewAuthService(repo repository.UserRepositoryInterface) AuthServiceInterface {
	return &authService{repo: repo}
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, *errors.AppError) {
	logger.Info("AuthService:Register:Start", "email", req.Email)

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "a valid email is required", nil)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "password must be at least 8 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("AuthService:Register:Hash", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "could not hash password", nil)
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
		}
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not create account", nil)
	}

	logger.Info("AuthService:Register:Success", "user_id", user.ID)
	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	logger.Info("AuthService:Login:Start", "email", email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not load account", nil)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("AuthService:Login:BadPassword", "user_id", user.ID)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	token, err := utils.GenerateToken(utils.TokenData{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "could not issue token", nil)
	}

	logger.Info("AuthService:Login:Success", "user_id", user.ID)
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not load account", nil)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "account not found", nil)
	}
	return toUserResponse(user), nil
}
