package auth

import (
	"context"
	"testing"
	"time"

	"github.com/barberqueue/barberqueue-api/internal/domain/user"
	"github.com/barberqueue/barberqueue-api/internal/pkg/jwt"
	"github.com/barberqueue/barberqueue-api/internal/pkg/revocation"
)

type fakeUserRepo struct {
	users  map[int64]*user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*user.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	u.ID = f.nextID
	f.nextID++
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*user.User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) ExistsWithRole(_ context.Context, id int64, role user.Role) (bool, error) {
	u, ok := f.users[id]
	return ok && u.Role == role, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeRefreshRepo struct {
	records map[string]*RefreshTokenRecord
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: make(map[string]*RefreshTokenRecord)}
}

func (f *fakeRefreshRepo) Create(_ context.Context, rec *RefreshTokenRecord) error {
	f.records[rec.TokenHash] = rec
	return nil
}

func (f *fakeRefreshRepo) GetByHash(_ context.Context, tokenHash string) (*RefreshTokenRecord, error) {
	return f.records[tokenHash], nil
}

func (f *fakeRefreshRepo) DeleteByHash(_ context.Context, tokenHash string) error {
	delete(f.records, tokenHash)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type fakeAddressCreator struct {
	created int
}

func (f *fakeAddressCreator) CreateAddress(_ context.Context, text string, lat, lng float64) (int64, error) {
	f.created++
	return int64(f.created), nil
}

type fakeBranchChecker struct {
	branches map[int64]bool
}

func (f *fakeBranchChecker) Exists(_ context.Context, id int64) (bool, error) {
	return f.branches[id], nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendTemplate(_ context.Context, to, toName, templateName, subject string, data interface{}) error {
	f.sent = append(f.sent, templateName)
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeRefreshRepo, revocation.Store, *fakeMailer) {
	userRepo := newFakeUserRepo()
	refreshRepo := newFakeRefreshRepo()
	revoked := revocation.NewMemoryStore()
	mailer := &fakeMailer{}
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	branches := &fakeBranchChecker{branches: map[int64]bool{1: true}}

	svc := NewService(userRepo, refreshRepo, &fakeAddressCreator{}, branches, jwtService, revoked, mailer)
	return svc, userRepo, refreshRepo, revoked, mailer
}

func coord(v float64) *float64 { return &v }

func clientRequest() *ClientRegisterRequest {
	return &ClientRegisterRequest{
		Phone:    "+77001234567",
		Password: "password123",
		FullName: "Aida Client",
		Email:    "aida@example.com",
		Address:  &AddressRequest{Text: "12 Abay Ave, Almaty", Lat: coord(43.238), Lng: coord(76.889)},
	}
}

func TestRegisterClient(t *testing.T) {
	svc, userRepo, _, _, mailer := newTestService()

	resp, err := svc.RegisterClient(context.Background(), clientRequest())
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}
	if resp.User.Role != "client" {
		t.Errorf("role = %q, want client", resp.User.Role)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if len(userRepo.users) != 1 {
		t.Errorf("users = %d, want 1", len(userRepo.users))
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "welcome" {
		t.Errorf("sent emails = %v, want [welcome]", mailer.sent)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, userRepo, _, _, _ := newTestService()

	if _, err := svc.RegisterClient(context.Background(), clientRequest()); err != nil {
		t.Fatalf("first RegisterClient: %v", err)
	}

	second := clientRequest()
	second.FullName = "Someone Else"
	if _, err := svc.RegisterClient(context.Background(), second); err != ErrPhoneAlreadyExists {
		t.Fatalf("second RegisterClient error = %v, want ErrPhoneAlreadyExists", err)
	}
	if len(userRepo.users) != 1 {
		t.Errorf("users = %d after duplicate registration, want 1", len(userRepo.users))
	}
}

func TestRegisterDuplicatePhoneNormalized(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	if _, err := svc.RegisterClient(context.Background(), clientRequest()); err != nil {
		t.Fatalf("first RegisterClient: %v", err)
	}

	second := clientRequest()
	second.Phone = "+7 (700) 123-45-67"
	if _, err := svc.RegisterClient(context.Background(), second); err != ErrPhoneAlreadyExists {
		t.Errorf("error = %v, want ErrPhoneAlreadyExists for formatted duplicate", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	if _, err := svc.RegisterClient(context.Background(), clientRequest()); err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{Phone: "+77001234567", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Error("expected access token")
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Phone: "+77001234567", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Phone: "+77009999999", Password: "password123"}); err != ErrInvalidCredentials {
		t.Errorf("unknown phone error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterStaffRequiresBranch(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	req := &StaffRegisterRequest{Phone: "+77007654321", Password: "password123", FullName: "Bek Staff", BranchID: 99}
	if _, err := svc.RegisterStaff(context.Background(), req); err != ErrBranchNotFound {
		t.Fatalf("error = %v, want ErrBranchNotFound", err)
	}

	req.BranchID = 1
	resp, err := svc.RegisterStaff(context.Background(), req)
	if err != nil {
		t.Fatalf("RegisterStaff: %v", err)
	}
	if resp.User.Role != "staff" {
		t.Errorf("role = %q, want staff", resp.User.Role)
	}
	if resp.User.BranchID == nil || *resp.User.BranchID != 1 {
		t.Errorf("branch id = %v, want 1", resp.User.BranchID)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, _, refreshRepo, revoked, _ := newTestService()
	resp, err := svc.RegisterClient(context.Background(), clientRequest())
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}

	jwtService := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	claims, err := jwtService.ValidateAccessToken(resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID, resp.Tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	isRevoked, err := revoked.IsRevoked(context.Background(), claims.ID)
	if err != nil || !isRevoked {
		t.Errorf("IsRevoked = %v, %v; want true", isRevoked, err)
	}
	if len(refreshRepo.records) != 0 {
		t.Errorf("refresh records = %d after logout, want 0", len(refreshRepo.records))
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	resp, err := svc.RegisterClient(context.Background(), clientRequest())
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.Tokens.RefreshToken == resp.Tokens.RefreshToken {
		t.Error("expected a new refresh token after rotation")
	}

	// The consumed token must not work twice
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); err != ErrInvalidRefreshToken {
		t.Errorf("reused refresh token error = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	if _, err := svc.Refresh(context.Background(), "not-a-token"); err != ErrInvalidRefreshToken {
		t.Errorf("error = %v, want ErrInvalidRefreshToken", err)
	}
}
