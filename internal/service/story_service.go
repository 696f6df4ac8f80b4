package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/repository"
)

const (
	defaultFeedCount = 20
	maxFeedCount     = 100
)

type StoryService struct {
	stories *repository.StoryRepository
	logger  *zap.Logger
}

func NewStoryService(stories *repository.StoryRepository, logger *zap.Logger) *StoryService {
	return &StoryService{stories: stories, logger: logger}
}

func (s *StoryService) Publish(ctx context.Context, authorID string, req domain.PublishStoryRequest) (*domain.Story, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	story, err := s.stories.CreateStory(ctx, authorID, req.Title, req.Content, req.Genre, req.CoverImage)
	if err != nil {
		return nil, err
	}

	s.logger.Info("story published",
		zap.String("story_id", story.ID),
		zap.String("author_id", authorID),
	)
	return story, nil
}

// GetStory returns the story with its author attached and records the view.
func (s *StoryService) GetStory(ctx context.Context, storyID string) (*domain.StoryWithAuthor, error) {
	if storyID == "" {
		return nil, fmt.Errorf("%w: story id is required", ErrInvalidInput)
	}
	return s.stories.ViewStory(ctx, storyID)
}

// ListStories lists all stories in the requested order. An empty order
// defaults to recent; anything else must be one of the known orderings.
func (s *StoryService) ListStories(ctx context.Context, order, query string) ([]domain.StoryWithAuthor, error) {
	switch order {
	case "":
		order = repository.OrderRecent
	case repository.OrderRecent, repository.OrderTrending:
	default:
		return nil, fmt.Errorf("%w: unknown order %q", ErrInvalidInput, order)
	}
	return s.stories.ListStories(ctx, order, query)
}

func (s *StoryService) StoriesByAuthor(ctx context.Context, authorID string) ([]domain.StoryWithAuthor, error) {
	if authorID == "" {
		return nil, fmt.Errorf("%w: author id is required", ErrInvalidInput)
	}
	return s.stories.ListStoriesByAuthor(ctx, authorID)
}

func (s *StoryService) Feed(ctx context.Context, userID string, offset, count int64) ([]domain.StoryWithAuthor, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("%w: offset and count must not be negative", ErrInvalidInput)
	}
	if count == 0 {
		count = defaultFeedCount
	}
	if count > maxFeedCount {
		count = maxFeedCount
	}
	return s.stories.Feed(ctx, userID, offset, count)
}

func (s *StoryService) ToggleLike(ctx context.Context, storyID, userID string) (*domain.LikeResponse, error) {
	if storyID == "" || userID == "" {
		return nil, fmt.Errorf("%w: story and user ids are required", ErrInvalidInput)
	}

	liked, count, err := s.stories.ToggleLike(ctx, storyID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("like toggled",
		zap.String("story_id", storyID),
		zap.String("user_id", userID),
		zap.Bool("liked", liked),
	)
	return &domain.LikeResponse{Liked: liked, LikesCount: count}, nil
}

func (s *StoryService) IsLiked(ctx context.Context, storyID, userID string) (bool, error) {
	if storyID == "" || userID == "" {
		return false, fmt.Errorf("%w: story and user ids are required", ErrInvalidInput)
	}
	return s.stories.IsLiked(ctx, storyID, userID)
}

func (s *StoryService) AddComment(ctx context.Context, storyID, userID string, req domain.AddCommentRequest) (*domain.Comment, error) {
	if storyID == "" {
		return nil, fmt.Errorf("%w: story id is required", ErrInvalidInput)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	comment, err := s.stories.AddComment(ctx, storyID, userID, req.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		zap.String("story_id", storyID),
		zap.String("user_id", userID),
	)
	return comment, nil
}

func (s *StoryService) ListComments(ctx context.Context, storyID string) ([]domain.CommentWithUser, error) {
	if storyID == "" {
		return nil, fmt.Errorf("%w: story id is required", ErrInvalidInput)
	}
	return s.stories.ListComments(ctx, storyID)
}
