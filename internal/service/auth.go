package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/dairy_shop/internal/hash"
	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	"github.com/Skotchmaster/dairy_shop/internal/tokens"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	UserID       uint
	CustomerID   uint
	IsAdmin      bool
}

// Register creates the user and its first customer profile together.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Username == "" || req.Password == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: username, password and email are required", ErrValidation)
	}
	if blank(req.Name, req.Locality, req.City, req.Mobile, req.Zipcode, req.State) {
		return nil, fmt.Errorf("%w: all customer details are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	var res *AuthResult
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		exists, err := tx.UserExists(ctx, req.Username)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: username already taken", ErrConflict)
		}

		user := &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: pwHash,
			Role:         models.RoleUser,
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}

		customer := &models.Customer{
			UserID:   user.ID,
			Name:     req.Name,
			Locality: req.Locality,
			City:     req.City,
			Mobile:   req.Mobile,
			Zipcode:  req.Zipcode,
			State:    req.State,
		}
		if err := tx.CreateCustomer(ctx, customer); err != nil {
			return err
		}

		res, err = s.issue(ctx, tx, user)
		if err != nil {
			return err
		}
		res.CustomerID = customer.ID
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	l.Info("register_success", "user_id", res.UserID)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: both username and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, classify(err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, s.Repo, user)
}

// Refresh rotates the pair: the presented refresh token is revoked and a new one issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token required", ErrValidation)
	}

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	var res *AuthResult
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		stored, err := tx.RefreshTokenByJTI(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("%w: unknown refresh token", ErrInvalidCredentials)
			}
			return err
		}
		if stored.Revoked || time.Now().After(stored.ExpiresAt) || stored.Token != tokens.Sha256Hex(refreshToken) {
			return fmt.Errorf("%w: refresh token expired or revoked", ErrInvalidCredentials)
		}

		revoked, err := tx.RevokeRefreshToken(ctx, claims.ID)
		if err != nil {
			return err
		}
		if !revoked {
			return fmt.Errorf("%w: refresh token already used", ErrInvalidCredentials)
		}

		user, err := tx.UserByID(ctx, stored.UserID)
		if err != nil {
			return err
		}
		res, err = s.issue(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

// LogOut revokes the refresh token. Missing or unparsable tokens are a no-op.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		logging.FromContext(ctx).Warn("logout_skipped", "reason", "invalid refresh token", "error", err)
		return nil
	}
	if _, err := s.Repo.RevokeRefreshToken(ctx, claims.ID); err != nil {
		return classify(err)
	}
	return nil
}

func (s *AuthService) Home(ctx context.Context, userID uint) (string, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Welcome, %s!", user.Username), nil
}

func (s *AuthService) issue(ctx context.Context, r *repo.GormRepo, user *models.User) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.NewAccessToken(s.JWTSecret, user.ID, user.Role, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := tokens.NewRefreshToken(s.RefreshSecret, user.ID, refreshExp)
	if err != nil {
		return nil, err
	}
	if err := r.AddRefreshToken(ctx, user.ID, tokens.Sha256Hex(refresh), jti, refreshExp); err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		UserID:       user.ID,
		IsAdmin:      user.Role == models.RoleAdmin,
	}, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
