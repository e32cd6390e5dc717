package client

import (
	"context"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
)

// RemoteUser is the identity the remote service returns on a successful login.
type RemoteUser struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	Token    string      `json:"-"`
}

type Client interface {
	Login(ctx context.Context, username, password string) (*RemoteUser, error)
	Ping(ctx context.Context) error
	Close() error
}
