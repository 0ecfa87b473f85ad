package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// UserSlot is the session slot holding the signed-in user.
const UserSlot = "user"

// SessionUser is what the storefront remembers about a signed-in user. The
// token is passed through from the catalog and never verified.
type SessionUser struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Token    string `json:"token"`
}

type accounts interface {
	Login(ctx context.Context, username, password string) (string, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, u domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type slots interface {
	GetJSON(key string, v any) bool
	SetJSON(key string, v any) error
	RemoveItem(key string)
}

// Service handles login, registration and profile flows against the catalog.
type Service struct {
	accounts accounts
}

func New(accounts accounts) *Service {
	return &Service{accounts: accounts}
}

// defaultAddress is sent with every registration; the storefront does not
// collect addresses.
var defaultAddress = domain.Address{
	City:        "kilcoole",
	Street:      "7835 new road",
	Number:      3,
	Zipcode:     "12926-3874",
	Geolocation: domain.Geolocation{Lat: "-37.3159", Long: "81.1496"},
}

const defaultPhone = "1-570-236-7033"

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Current returns the signed-in user of the session.
func (s *Service) Current(sess slots) (*SessionUser, bool) {
	var u SessionUser
	if !sess.GetJSON(UserSlot, &u) || u.Token == "" {
		return nil, false
	}
	return &u, true
}

// Login checks credentials with the catalog and remembers the user in the
// session.
func (s *Service) Login(ctx context.Context, sess slots, in LoginInput) (*SessionUser, error) {
	username := strings.TrimSpace(in.Username)
	password := strings.TrimSpace(in.Password)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", domain.ErrInvalidInput)
	}

	token, err := s.accounts.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	user := &SessionUser{Username: username, Token: token}
	if known, err := s.findUser(ctx, username); err == nil {
		user.ID = known.ID
		user.Email = known.Email
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := sess.SetJSON(UserSlot, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout forgets the signed-in user. The cart is left alone.
func (s *Service) Logout(sess slots) {
	sess.RemoveItem(UserSlot)
}

// Register creates an account. The name is split on spaces into first and
// last name; anything after the second word is dropped.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	password := strings.TrimSpace(in.Password)
	if name == "" || email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email, username and password required", domain.ErrInvalidInput)
	}

	addr := defaultAddress
	return s.accounts.CreateUser(ctx, domain.User{
		Email:    email,
		Username: username,
		Password: password,
		Name:     splitName(name),
		Phone:    defaultPhone,
		Address:  &addr,
	})
}

// UpdateProfile replaces the signed-in user's profile.
func (s *Service) UpdateProfile(ctx context.Context, sess slots, in UpdateInput) (*domain.User, error) {
	current, ok := s.Current(sess)
	if !ok || current.ID == 0 {
		return nil, domain.ErrUnauthorized
	}
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return nil, fmt.Errorf("%w: email and username required", domain.ErrInvalidInput)
	}

	updated, err := s.accounts.UpdateUser(ctx, current.ID, domain.User{
		Email:    email,
		Username: username,
		Password: strings.TrimSpace(in.Password),
		Name: domain.UserName{
			Firstname: strings.TrimSpace(in.Firstname),
			Lastname:  strings.TrimSpace(in.Lastname),
		},
	})
	if err != nil {
		return nil, err
	}

	current.Username = updated.Username
	current.Email = updated.Email
	if err := sess.SetJSON(UserSlot, current); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAccount removes the signed-in user from the catalog and signs out.
func (s *Service) DeleteAccount(ctx context.Context, sess slots) error {
	current, ok := s.Current(sess)
	if !ok || current.ID == 0 {
		return domain.ErrUnauthorized
	}
	if err := s.accounts.DeleteUser(ctx, current.ID); err != nil {
		return err
	}
	sess.RemoveItem(UserSlot)
	return nil
}

func (s *Service) findUser(ctx context.Context, username string) (*domain.User, error) {
	users, err := s.accounts.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func splitName(name string) domain.UserName {
	parts := strings.Split(name, " ")
	out := domain.UserName{Firstname: parts[0]}
	if len(parts) > 1 {
		out.Lastname = parts[1]
	}
	return out
}
