package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/cryptox"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/auth"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/config"
)

// ErrInactive is returned by Login for a disabled account with a correct
// password.
var ErrInactive = errors.New("account is disabled")

const saltSize = 32

// LoginResult is a successful login: the user and a signed access token.
type LoginResult struct {
	User  *User
	Token string
}

type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
	}
}

// Register stores a new active user with a fresh salt and the argon2id
// verifier of password.
func (s *Service) Register(ctx context.Context, username, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}
	if role == "" {
		role = RoleStaff
	}

	salt := common.GenerateRandByteArray(saltSize)
	user := &User{
		UserName: username,
		Salt:     salt,
		Verifier: s.verifier(password, salt),
		Role:     role,
		IsActive: true,
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *Service) verifier(password string, salt []byte) []byte {
	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return cryptox.MakeVerifier(cryptox.DeriveKey(pw, salt))
}

// Login checks the password against the stored verifier. Unknown users and
// wrong passwords both yield common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, userName, password string) (*LoginResult, error) {

	user, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(userName))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if !cryptox.CheckVerifier(user.Verifier, s.verifier(password, user.Salt)) {
		return nil, common.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactive
	}

	token, err := auth.GenerateToken(user.ID, user.UserName, user.Role, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	return &LoginResult{User: user, Token: token}, nil
}
