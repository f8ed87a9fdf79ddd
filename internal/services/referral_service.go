package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/storage"
)

var (
	ErrCodeNotFound = errors.New("referral code not found")
	ErrCodeUsed     = errors.New("referral code already used")
)

// ReferralService manages invite codes, keyed by the uppercase code string.
type ReferralService interface {
	BulkCreate(ctx context.Context, createdBy string, codes []string) ([]models.CodeResult, error)
	Redeem(ctx context.Context, code string) error
	Close(ctx context.Context) error
}

// ParseCodes splits the admin bulk input into clean codes: one per line,
// trimmed, uppercased, blanks dropped.
func ParseCodes(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		code := strings.ToUpper(strings.TrimSpace(line))
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}

// LocalReferralService is the JSON-file-backed implementation.
type LocalReferralService struct {
	mu    sync.Mutex
	store *storage.JSONStore
	codes map[string]*models.ReferralCode
}

func NewLocalReferralService(dataDir string) (*LocalReferralService, error) {
	store, err := storage.NewJSONStore(dataDir, "referral_codes.json")
	if err != nil {
		return nil, err
	}

	s := &LocalReferralService{
		store: store,
		codes: make(map[string]*models.ReferralCode),
	}
	if err := store.Load(&s.codes); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalReferralService) BulkCreate(ctx context.Context, createdBy string, codes []string) ([]models.CodeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.CodeResult, 0, len(codes))
	for _, code := range codes {
		if _, exists := s.codes[code]; exists {
			results = append(results, models.CodeResult{Code: code, Status: "already exists", Success: false})
			continue
		}
		s.codes[code] = &models.ReferralCode{
			Code:      code,
			Used:      false,
			CreatedBy: createdBy,
			CreatedAt: time.Now().UTC(),
		}
		results = append(results, models.CodeResult{Code: code, Status: "created", Success: true})
	}

	if err := s.store.Save(s.codes); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *LocalReferralService) Redeem(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	rec, exists := s.codes[code]
	if !exists {
		return ErrCodeNotFound
	}
	if rec.Used {
		return ErrCodeUsed
	}
	rec.Used = true
	return s.store.Save(s.codes)
}

func (s *LocalReferralService) Close(ctx context.Context) error { return nil }
