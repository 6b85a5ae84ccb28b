package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

var errInvalidCredentials = apperror.Unauthorized("invalid credentials")

// AuthService registers users and issues and validates bearer tokens.
type AuthService struct {
	db         *gorm.DB
	jwtSecret  []byte
	ttl        time.Duration
	blacklist  TokenBlacklist
	bcryptCost int
}

// NewAuthService creates an AuthService. blacklist may be nil, in which case
// logout does not revoke tokens.
func NewAuthService(db *gorm.DB, cfg config.JWTConfig, blacklist TokenBlacklist) *AuthService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		db:         db,
		jwtSecret:  []byte(cfg.Secret),
		ttl:        ttl,
		blacklist:  blacklist,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost lowers hashing cost for tests.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*model.User, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("email", "a user with this email already exists")
	}
	if err := db.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("username", "a user with this username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("email", "a user with this email or username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	l := applog.Ctx(ctx)
	l.Info().Str(applog.FieldUserID, user.ID.String()).Msg("user registered")
	return &user, nil
}

// Login checks credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errInvalidCredentials
	}
	return s.GenerateToken(&user)
}

func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry and revocation.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("invalid or expired token")
	}
	if claims.UserID == uuid.Nil {
		return nil, apperror.Unauthorized("invalid token claims")
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, apperror.Unauthorized("token has been revoked")
		}
	}
	return claims, nil
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if s.blacklist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user", id.String(), "failed to load user")
	}
	return &user, nil
}

// ListUsers returns one page of users ordered by username.
func (s *AuthService) ListUsers(ctx context.Context, page types.Pagination) ([]model.User, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []model.User
	if err := db.Order("username ASC").Limit(page.Limit).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *AuthService) SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperror.ValidationFailed("current_password", "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
