package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/internal/customers"
	"github.com/lechonexpress/backend/pkg/config"
	"github.com/lechonexpress/backend/pkg/db/models"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/lechonexpress/backend/pkg/security"
	"gorm.io/gorm"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "lechonexpress",
	ExpirationMinutes: 15,
	SessionTTLMinutes: 60,
}

type stubCustomerRepo struct {
	byEmail     map[string]*models.Customer
	created     []*models.Customer
	loginStamps int
}

func (s *stubCustomerRepo) Create(ctx context.Context, dto customers.CreateCustomerDTO) (*models.Customer, error) {
	customer := dto.ToModel()
	s.byEmail[customer.Email] = customer
	s.created = append(s.created, customer)
	return customer, nil
}

func (s *stubCustomerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if customer, ok := s.byEmail[email]; ok {
		return customer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.loginStamps++
	return nil
}

type stubSessions struct {
	generated []string
	revoked   []string
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newTestService(t *testing.T, repo *stubCustomerRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		CustomerRepo:   repo,
		SessionManager: sessions,
		JWTConfig:      testJWTCfg,
		PasswordConfig: testPasswordCfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seededRepo(t *testing.T, email, password string) *stubCustomerRepo {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &stubCustomerRepo{byEmail: map[string]*models.Customer{
		email: {
			ID:              uuid.New(),
			Email:           email,
			Name:            "Maria Santos",
			PasswordHash:    hash,
			DeliveryAddress: "123 Mabini St, Quezon City",
		},
	}}
}

func TestLoginSuccess(t *testing.T) {
	repo := seededRepo(t, "maria@example.com", "lechon-for-dinner")
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Maria@Example.com", Password: "lechon-for-dinner"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.Customer == nil || resp.Customer.Email != "maria@example.com" {
		t.Fatalf("unexpected customer: %+v", resp.Customer)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions.generated))
	}
	if repo.loginStamps != 1 {
		t.Fatalf("expected last login recorded once, got %d", repo.loginStamps)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, seededRepo(t, "maria@example.com", "lechon-for-dinner"), &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "maria@example.com", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubCustomerRepo{byEmail: map[string]*models.Customer{}}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown email must not leak, got %q", typed.Message())
	}
}

func TestRegisterCreatesCustomerAndLogsIn(t *testing.T) {
	repo := &stubCustomerRepo{byEmail: map[string]*models.Customer{}}
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:            "Jose Rizal",
		Email:           "  Jose@Example.com ",
		Password:        "lechon-for-dinner",
		DeliveryAddress: "45 Rizal Ave, Cebu",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 customer created, got %d", len(repo.created))
	}
	created := repo.created[0]
	if created.Email != "jose@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if strings.Contains(created.PasswordHash, "lechon-for-dinner") {
		t.Fatal("password stored in the clear")
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token after registration")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := seededRepo(t, "maria@example.com", "lechon-for-dinner")
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Other Maria",
		Email:    "maria@example.com",
		Password: "another-password",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubCustomerRepo{byEmail: map[string]*models.Customer{}}, sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("expected access-1 revoked, got %v", sessions.revoked)
	}
}
