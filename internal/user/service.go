package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-tracker-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

// Store is the persistence the auth flow needs. *repo.UserRepo satisfies it.
type Store interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenIssuer signs access tokens. *token.Service satisfies it.
type TokenIssuer interface {
	Issue(subjectID, email, name string, now time.Time) (string, error)
}

// UserService orchestrates registration and login.
type UserService struct {
	repo   Store
	hasher PasswordHasher
	tokens TokenIssuer
	// compared against on unknown emails so both login failures cost one bcrypt run
	dummyDigest string
	now         func() time.Time
}

func NewUserService(store Store, hasher PasswordHasher, issuer TokenIssuer) (*UserService, error) {
	if hasher == nil {
		hasher = NewBcryptHasher(BcryptCostFromEnv())
	}
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	return &UserService{
		repo:        store,
		hasher:      hasher,
		tokens:      issuer,
		dummyDigest: dummy,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// NormalizeEmail trims and lower-cases an address. Lookup and storage both use it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. The unique email index is the authoritative guard;
// the existence check only short-circuits the common case before hashing.
func (s *UserService) Register(ctx context.Context, email, fullName, password string) (*entity.User, error) {
	email = NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || fullName == "" || password == "" {
		return nil, fmt.Errorf("%w: email, fullName and password are required", ErrInvalidInput)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	// client may have gone away during the hash; nothing has been written yet
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:           utilities.NewKSUID(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: digest,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login returns a signed access token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.hasher.Verify(s.dummyDigest, password)
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.ID, u.Email, u.FullName, s.now())
}
