package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/records"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/tabular"
	"github.com/oksasatya/recipe-share-api/pkg/apperr"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
)

// UsersKey is the collection blob holding all accounts.
const UsersKey = "users/user.csv"

var accountColumns = []string{"username", "email", "password", "createdAt"}

// UserService handles registration and login on top of the record store.
type UserService struct {
	Records *records.Store
	Logger  *logrus.Logger
}

func NewUserService(store *records.Store, logger *logrus.Logger) *UserService {
	return &UserService{Records: store, Logger: logger}
}

func accountToRecord(a *entity.Account) tabular.Record {
	rec := tabular.New(accountColumns...)
	rec.Set("username", a.Username)
	rec.Set("email", a.Email)
	rec.Set("password", a.Password)
	rec.Set("createdAt", a.CreatedAt.UTC().Format(time.RFC3339))
	return rec
}

func accountFromRecord(rec tabular.Record) *entity.Account {
	createdAt, _ := time.Parse(time.RFC3339, rec.Get("createdAt"))
	return &entity.Account{
		Username:  rec.Get("username"),
		Email:     rec.Get("email"),
		Password:  rec.Get("password"),
		CreatedAt: createdAt,
	}
}

// Register creates a new account. Username and email must be unique
// across the collection (case-sensitive exact match).
func (s *UserService) Register(ctx context.Context, username, email, password string) (*entity.AccountProfile, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.Validation, "Username, email and password are required")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "could not hash password", err)
	}
	account := &entity.Account{
		Username:  username,
		Email:     email,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}

	err = s.Records.Mutate(ctx, UsersKey, func(recs []tabular.Record) ([]tabular.Record, error) {
		for _, rec := range recs {
			if rec.Get("username") == username {
				return nil, apperr.New(apperr.Conflict, "Username already exists")
			}
			if rec.Get("email") == email {
				return nil, apperr.New(apperr.Conflict, "Email already exists")
			}
		}
		return append(recs, accountToRecord(account)), nil
	})
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithField("username", username).Info("account registered")
	}
	profile := account.Profile()
	return &profile, nil
}

// Authenticate verifies a username/password pair and returns the public
// projection. The bcrypt comparison is constant-time in the secret.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.AccountProfile, error) {
	if username == "" || password == "" {
		return nil, apperr.New(apperr.Validation, "Username and password are required")
	}
	recs, exists, err := s.Records.Load(ctx, UsersKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	for _, rec := range recs {
		if rec.Get("username") != username {
			continue
		}
		account := accountFromRecord(rec)
		if !helpers.CompareHashAndPassword(account.Password, password) {
			return nil, apperr.New(apperr.InvalidCredentials, "Incorrect password")
		}
		profile := account.Profile()
		return &profile, nil
	}
	return nil, apperr.New(apperr.InvalidCredentials, "User not found")
}
