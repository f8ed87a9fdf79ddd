package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/storage"
)

// WaitlistService records interest signups from the public landing page.
type WaitlistService interface {
	Add(ctx context.Context, req *models.JoinWaitlistRequest) (*models.WaitlistEntry, error)
	Close(ctx context.Context) error
}

// LocalWaitlistService is the JSON-file-backed implementation.
type LocalWaitlistService struct {
	mu      sync.Mutex
	store   *storage.JSONStore
	entries []*models.WaitlistEntry
}

func NewLocalWaitlistService(dataDir string) (*LocalWaitlistService, error) {
	store, err := storage.NewJSONStore(dataDir, "waitlist.json")
	if err != nil {
		return nil, err
	}

	s := &LocalWaitlistService{store: store}
	if err := store.Load(&s.entries); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalWaitlistService) Add(ctx context.Context, req *models.JoinWaitlistRequest) (*models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &models.WaitlistEntry{
		ID:          uuid.New().String(),
		FirstName:   strings.TrimSpace(req.FirstName),
		Email:       strings.TrimSpace(req.Email),
		Reason:      strings.TrimSpace(req.Reason),
		SubmittedAt: time.Now().UTC(),
	}
	s.entries = append(s.entries, entry)

	if err := s.store.Save(s.entries); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return nil, err
	}
	return entry, nil
}

func (s *LocalWaitlistService) Close(ctx context.Context) error { return nil }
