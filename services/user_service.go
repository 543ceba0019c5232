package services

import (
	"context"

	"github.com/terraza-app/terraza-kiosk/models"
)

// LoginResponse is the remote API's answer to a successful login.
type LoginResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// UserServiceInterface defines account operations against the remote API.
type UserServiceInterface interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Register(ctx context.Context, profile models.UserProfile, password string) error
	Profile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, profile models.UserProfile) error
}

// UserService implements UserServiceInterface.
type UserService struct {
	client APIClientInterface
}

var userServiceInstance UserServiceInterface

// InitUserService initializes the user service
func InitUserService(client APIClientInterface) UserServiceInterface {
	userServiceInstance = &UserService{client: client}
	return userServiceInstance
}

// GetUserService returns the initialized user service instance
func GetUserService() UserServiceInterface {
	return userServiceInstance
}

// SetUserService sets the user service instance (primarily for testing)
func SetUserService(service UserServiceInterface) {
	userServiceInstance = service
}

// Login exchanges credentials for a bearer token and the user's profile.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]interface{}{"email": email, "password": password}
	var resp LoginResponse
	if err := s.client.Post(ctx, "/user/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new customer account.
func (s *UserService) Register(ctx context.Context, profile models.UserProfile, password string) error {
	body := map[string]interface{}{
		"nombre":    profile.Nombre,
		"email":     profile.Email,
		"direccion": profile.Direccion,
		"telefono":  profile.Telefono,
		"password":  password,
	}
	return s.client.Post(ctx, "/user/create", body, nil)
}

// Profile fetches the profile of the authenticated user.
func (s *UserService) Profile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.client.Get(ctx, "/user/profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile saves profile changes, including the delivery address.
func (s *UserService) UpdateProfile(ctx context.Context, profile models.UserProfile) error {
	return s.client.Put(ctx, "/user/update", profile, nil)
}
