package repository

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStoryNotFound      = errors.New("story not found")
	ErrDuplicateUser      = errors.New("user name is already used")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
