package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/barberqueue/barberqueue-api/internal/domain/user"
	"github.com/barberqueue/barberqueue-api/internal/pkg/email"
	"github.com/barberqueue/barberqueue-api/internal/pkg/jwt"
	"github.com/barberqueue/barberqueue-api/internal/pkg/password"
	"github.com/barberqueue/barberqueue-api/internal/pkg/revocation"
)

// AddressCreator creates the client's address row at registration time
type AddressCreator interface {
	CreateAddress(ctx context.Context, text string, lat, lng float64) (int64, error)
}

// BranchChecker verifies a branch exists before staff registration
type BranchChecker interface {
	Exists(ctx context.Context, branchID int64) (bool, error)
}

// Service handles authentication business logic
type Service struct {
	userRepo    user.Repository
	refreshRepo RefreshTokenRepository
	addresses   AddressCreator
	branches    BranchChecker
	jwtService  *jwt.Service
	revoked     revocation.Store
	mailer      email.Sender
}

// NewService creates auth service
func NewService(
	userRepo user.Repository,
	refreshRepo RefreshTokenRepository,
	addresses AddressCreator,
	branches BranchChecker,
	jwtService *jwt.Service,
	revoked revocation.Store,
	mailer email.Sender,
) *Service {
	return &Service{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		addresses:   addresses,
		branches:    branches,
		jwtService:  jwtService,
		revoked:     revoked,
		mailer:      mailer,
	}
}

// RegisterClient creates a client account with its home address
func (s *Service) RegisterClient(ctx context.Context, req *ClientRegisterRequest) (*AuthResponse, error) {
	req.Phone = normalizePhone(req.Phone)
	req.Email = normalizeEmail(req.Email)

	existing, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	addressID, err := s.addresses.CreateAddress(ctx, req.Address.Text, *req.Address.Lat, *req.Address.Lng)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		Phone:        req.Phone,
		PasswordHash: hash,
		FullName:     req.FullName,
		Email:        sql.NullString{String: req.Email, Valid: req.Email != ""},
		Role:         user.RoleClient,
		AddressID:    sql.NullInt64{Int64: addressID, Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.BirthDate != "" {
		if bd, perr := time.Parse("2006-01-02", req.BirthDate); perr == nil {
			u.BirthDate = sql.NullTime{Time: bd, Valid: true}
		}
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if isPhoneAlreadyExistsError(err) {
			return nil, ErrPhoneAlreadyExists
		}
		return nil, err
	}

	if req.Email != "" {
		_ = s.mailer.SendTemplate(ctx, req.Email, req.FullName, "welcome", "Welcome to BarberQueue", map[string]string{
			"Name": req.FullName,
		})
	}

	return s.generateTokens(ctx, u)
}

// RegisterStaff creates a staff account bound to a branch
func (s *Service) RegisterStaff(ctx context.Context, req *StaffRegisterRequest) (*AuthResponse, error) {
	req.Phone = normalizePhone(req.Phone)

	existing, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyExists
	}

	exists, err := s.branches.Exists(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBranchNotFound
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		Phone:        req.Phone,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         user.RoleStaff,
		BranchID:     sql.NullInt64{Int64: req.BranchID, Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if isPhoneAlreadyExistsError(err) {
			return nil, ErrPhoneAlreadyExists
		}
		return nil, err
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates a user by phone and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Phone = normalizePhone(req.Phone)

	u, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	rec, err := s.refreshRepo.GetByHash(ctx, refreshHash)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != claims.UserID {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	// Token rotation: the presented refresh token is consumed
	_ = s.refreshRepo.DeleteByHash(ctx, refreshHash)

	return s.generateTokens(ctx, u)
}

// Logout revokes the presented access token for the rest of its lifetime and
// consumes the refresh token if one is supplied.
func (s *Service) Logout(ctx context.Context, accessJTI, refreshToken string) error {
	if accessJTI != "" {
		// Full access TTL is an upper bound on the token's remaining life
		if err := s.revoked.Revoke(ctx, accessJTI, s.jwtService.GetAccessTTL()); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		_ = s.refreshRepo.DeleteByHash(ctx, jwt.HashRefreshToken(refreshToken))
	}
	return nil
}

// GetCurrentUser returns the authenticated user's profile
func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	resp := newUserResponse(u)
	return &resp, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, _, expiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	rec := &RefreshTokenRecord{
		UserID:    u.ID,
		TokenHash: jwt.HashRefreshToken(refreshToken),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.refreshRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: newUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

func newUserResponse(u *user.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.Email.Valid {
		resp.Email = u.Email.String
	}
	if u.BirthDate.Valid {
		resp.BirthDate = formatBirthDate(u.BirthDate.Time)
	}
	if u.BranchID.Valid {
		id := u.BranchID.Int64
		resp.BranchID = &id
	}
	return resp
}
