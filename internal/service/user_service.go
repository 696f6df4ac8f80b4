// Package service validates input, orchestrates the repositories and maps
// their failures into the error kinds the transport layer understands. All
// mutation goes through the repositories, never around them.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storyloom-backend/internal/auth"
	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/repository"
)

// ErrInvalidInput marks requests with missing or malformed required fields,
// rejected before any mutation is attempted.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

func validateStruct(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

type UserService struct {
	users   *repository.UserRepository
	follows *repository.FollowRepository
	tokens  *auth.TokenManager
	logger  *zap.Logger
}

func NewUserService(
	users *repository.UserRepository,
	follows *repository.FollowRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *UserService {
	return &UserService{users: users, follows: follows, tokens: tokens, logger: logger}
}

func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, req.Username, req.Password, req.Bio)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return &domain.AuthResponse{User: user, Token: token}, nil
}

func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &domain.AuthResponse{User: user, Token: token}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.users.GetUserByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, req.Username, req.Bio, req.ProfilePic)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", zap.String("user_id", userID))
	return user, nil
}

func (s *UserService) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.users.GetUserStats(ctx, userID)
}

func (s *UserService) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, fmt.Errorf("%w: follower and following ids are required", ErrInvalidInput)
	}

	following, err := s.follows.ToggleFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	s.logger.Info("follow toggled",
		zap.String("follower_id", followerID),
		zap.String("following_id", followingID),
		zap.Bool("following", following),
	)
	return following, nil
}

func (s *UserService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, fmt.Errorf("%w: follower and following ids are required", ErrInvalidInput)
	}
	return s.follows.IsFollowing(ctx, followerID, followingID)
}

func (s *UserService) GetFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.follows.GetFollowers(ctx, userID)
}

func (s *UserService) GetFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.follows.GetFollowing(ctx, userID)
}
