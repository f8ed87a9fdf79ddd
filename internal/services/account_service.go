package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/storage"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
)

// AccountService manages authentication records. Password accounts are
// created by Register; federated (Google) accounts are upserted on first
// sign-in with the Firebase UID as the account ID.
type AccountService interface {
	Register(ctx context.Context, email, password string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	EnsureFederated(ctx context.Context, uid, email string) (*models.Account, bool, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// LocalAccountService is the JSON-file-backed implementation used when no
// Mongo URI is configured.
type LocalAccountService struct {
	mu       sync.RWMutex
	store    *storage.JSONStore
	accounts map[string]*models.Account // accountID -> account
	byEmail  map[string]string          // email -> accountID
}

type localAccountData struct {
	Accounts map[string]*models.Account `json:"accounts"`
	ByEmail  map[string]string          `json:"by_email"`
}

func NewLocalAccountService(dataDir string) (*LocalAccountService, error) {
	store, err := storage.NewJSONStore(dataDir, "accounts.json")
	if err != nil {
		return nil, err
	}

	s := &LocalAccountService{
		store:    store,
		accounts: make(map[string]*models.Account),
		byEmail:  make(map[string]string),
	}

	var data localAccountData
	if err := store.Load(&data); err != nil {
		return nil, err
	}
	if data.Accounts != nil {
		s.accounts = data.Accounts
	}
	if data.ByEmail != nil {
		s.byEmail = data.ByEmail
	}

	return s, nil
}

func (s *LocalAccountService) persist() error {
	return s.store.Save(localAccountData{
		Accounts: s.accounts,
		ByEmail:  s.byEmail,
	})
}

func (s *LocalAccountService) Register(ctx context.Context, email, password string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	if _, exists := s.byEmail[email]; exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     "password",
		CreatedAt:    time.Now().UTC(),
	}

	s.accounts[account.ID] = account
	s.byEmail[email] = account.ID
	if err := s.persist(); err != nil {
		delete(s.accounts, account.ID)
		delete(s.byEmail, email)
		return nil, err
	}

	return account, nil
}

func (s *LocalAccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, exists := s.byEmail[normalizeEmail(email)]
	if !exists {
		return nil, ErrAccountNotFound
	}

	account := s.accounts[accountID]
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	cp := *account
	return &cp, nil
}

func (s *LocalAccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *LocalAccountService) EnsureFederated(ctx context.Context, uid, email string) (*models.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account, exists := s.accounts[uid]; exists {
		cp := *account
		return &cp, false, nil
	}

	account := &models.Account{
		ID:        uid,
		Email:     normalizeEmail(email),
		Provider:  "google",
		CreatedAt: time.Now().UTC(),
	}
	s.accounts[uid] = account
	if account.Email != "" {
		s.byEmail[account.Email] = uid
	}
	if err := s.persist(); err != nil {
		delete(s.accounts, uid)
		delete(s.byEmail, account.Email)
		return nil, false, err
	}

	return account, true, nil
}

func (s *LocalAccountService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}

	delete(s.byEmail, account.Email)
	delete(s.accounts, id)
	return s.persist()
}

func (s *LocalAccountService) Close(ctx context.Context) error { return nil }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
