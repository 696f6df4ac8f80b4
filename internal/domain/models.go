package domain

import "time"

// ============================================
// Domain Models
// ============================================

// Placeholder assets served to clients until the user uploads their own.
const (
	DefaultProfilePic = "/api/placeholder/100/100"
	DefaultCoverImage = "/api/placeholder/800/400"
)

type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio,omitempty"`
	ProfilePic string    `json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserAuth holds credentials separately from User so that no API response
// can ever carry the stored hash.
type UserAuth struct {
	UserID         string    `json:"user_id"`
	HashedPassword string    `json:"hashed_password"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Story struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Genre      string    `json:"genre,omitempty"`
	CoverImage string    `json:"cover_image"`
	AuthorID   string    `json:"author_id"`
	Views      int64     `json:"views"`
	LikedBy    []string  `json:"liked_by"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LikeCount is always derived from the liked-by set; it is never stored.
func (s *Story) LikeCount() int {
	return len(s.LikedBy)
}

// LikedByUser reports whether userID is in the story's liked-by set.
func (s *Story) LikedByUser(userID string) bool {
	for _, id := range s.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserStats is computed from the edge sets at call time.
type UserStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Stories   int64 `json:"stories"`
}

type StoryWithAuthor struct {
	Story
	LikesCount int  `json:"likes_count"`
	Author     User `json:"author"`
}

type CommentWithUser struct {
	Comment
	User User `json:"user"`
}

// ============================================
// Request/Response Models
// ============================================

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Bio      string `json:"bio"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type PublishStoryRequest struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	Genre      string `json:"genre"`
	CoverImage string `json:"cover_image"`
}

type UpdateProfileRequest struct {
	Username   string `json:"username" validate:"required"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profile_pic"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type StoryResponse struct {
	Story *StoryWithAuthor `json:"story"`
}

type StoriesResponse struct {
	Stories []StoryWithAuthor `json:"stories"`
}

type CommentResponse struct {
	Comment *Comment `json:"comment"`
}

type CommentsResponse struct {
	Comments []CommentWithUser `json:"comments"`
}

type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type FollowResponse struct {
	Following bool `json:"following"`
}

type StatsResponse struct {
	Stats *UserStats `json:"stats"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type FeedPagination struct {
	Count      int64  `json:"count"`
	NextCursor *int64 `json:"next_cursor"`
}

type FeedResponse struct {
	Stories    []StoryWithAuthor `json:"stories"`
	Pagination FeedPagination    `json:"pagination"`
}
