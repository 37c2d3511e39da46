package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/metrics"
)

// UserService handles accounts: sign-up, sign-in and the profile page.
type UserService struct {
	store  Store
	logger zerolog.Logger
	cost   int
	clock  clock
}

// NewUserService creates a new user service
func NewUserService(store Store, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger.With().Str("component", "users").Logger(),
		cost:   bcrypt.DefaultCost,
	}
}

// SignupInput is the sign-up form.
type SignupInput struct {
	LoginID         string
	Password        string
	PasswordConfirm string
	UserName        string
}

// Register creates an account after checking the login id and password
// policy: 6 to 16 characters with at least one special character.
func (s *UserService) Register(ctx context.Context, in SignupInput) (domain.User, error) {
	if err := validateLoginID(in.LoginID); err != nil {
		return domain.User{}, err
	}
	if containsControl(in.Password) {
		return domain.User{}, domain.Invalid("password must not contain control characters")
	}
	if _, err := s.store.UserByLoginID(ctx, in.LoginID); err == nil {
		return domain.User{}, domain.Conflict("login id is already taken")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}
	if !validPasswordLength(in.Password) {
		return domain.User{}, domain.Invalid("password must be 6 to 16 characters")
	}
	if in.Password != in.PasswordConfirm {
		return domain.User{}, domain.Invalid("password confirmation does not match")
	}
	if !containsSpecial(in.Password) {
		return domain.User{}, domain.Invalid("password must contain a special character")
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		LoginID:      in.LoginID,
		PasswordHash: hash,
		UserName:     strings.TrimSpace(in.UserName),
		CreatedAt:    s.clock.now(),
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.User{}, domain.Conflict("login id is already taken")
		}
		return domain.User{}, err
	}

	metrics.RecordSignup()
	s.logger.Info().Uint64("user_id", u.ID).Str("login_id", u.LoginID).Msg("user registered")
	return u, nil
}

// Authenticate checks credentials for the login form.
func (s *UserService) Authenticate(ctx context.Context, loginID, password string) (domain.User, error) {
	u, err := s.store.UserByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.Invalid("invalid credentials")
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.Invalid("invalid credentials")
	}
	return u, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id uint64) (domain.User, error) {
	return s.store.UserByID(ctx, id)
}

// ProfileInput is the profile edit form. Blank fields are left unchanged.
type ProfileInput struct {
	UserName        string
	Password        string
	PasswordConfirm string
	NewLoginID      string
}

// UpdateProfile changes the login id, display name and password.
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, in ProfileInput) (domain.User, error) {
	me, err := s.store.UserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if newID := in.NewLoginID; !isBlank(newID) && newID != me.LoginID {
		if err := validateLoginID(newID); err != nil {
			return domain.User{}, err
		}
		if _, err := s.store.UserByLoginID(ctx, newID); err == nil {
			return domain.User{}, domain.Conflict("login id is already taken")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, err
		}
		me.LoginID = newID
	}

	if !isBlank(in.UserName) {
		me.UserName = strings.TrimSpace(in.UserName)
	}

	if !isBlank(in.Password) {
		if in.Password != in.PasswordConfirm {
			return domain.User{}, domain.Invalid("password confirmation does not match")
		}
		if containsControl(in.Password) || !validPasswordLength(in.Password) || !containsSpecial(in.Password) {
			return domain.User{}, domain.Invalid("password must be 6 to 16 characters with a special character")
		}
		hash, err := s.hash(in.Password)
		if err != nil {
			return domain.User{}, err
		}
		me.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, &me); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.User{}, domain.Conflict("login id is already taken")
		}
		return domain.User{}, err
	}
	return me, nil
}

// DeleteAccount removes the user. Leaders must hand over or delete their
// groups first; plain memberships are released and authored content keeps
// its author name.
func (s *UserService) DeleteAccount(ctx context.Context, id uint64) error {
	err := s.store.WithTx(ctx, func(tx Store) error {
		if _, err := tx.UserByID(ctx, id); err != nil {
			return err
		}
		led, err := tx.GroupsLedBy(ctx, id, "")
		if err != nil {
			return err
		}
		if len(led) > 0 {
			return domain.State("transfer leadership or delete your groups before deleting the account")
		}

		memberships, err := tx.MembershipsOf(ctx, id, "")
		if err != nil {
			return err
		}
		for _, m := range memberships {
			if err := releaseMember(ctx, tx, m); err != nil {
				return err
			}
		}

		if err := tx.DeleteRequestsBy(ctx, id); err != nil {
			return err
		}
		if err := tx.DetachPostsFromUser(ctx, id); err != nil {
			return err
		}
		if err := tx.DetachCommentsFromUser(ctx, id); err != nil {
			return err
		}
		return tx.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint64("user_id", id).Msg("account deleted")
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
