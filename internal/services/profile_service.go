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
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username already taken")
)

// ProfileService manages profile documents and the username reservations that
// keep handles unique. Backed by Mongo in production and by a JSON file store
// for local development.
type ProfileService interface {
	// Create reserves the profile's username and then inserts the profile.
	// The reservation insert is the uniqueness gate: a duplicate key means
	// ErrUsernameTaken. If the profile insert fails afterwards the
	// reservation is released again (compensating cleanup; the two writes
	// are not one transaction).
	Create(ctx context.Context, prof *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)
	// SetLinks replaces the canonical link list and clears the legacy
	// two-field shape so the document never carries both.
	SetLinks(ctx context.Context, userID string, list []models.LinkEntry) (*models.Profile, error)
	SetPhotoURL(ctx context.Context, userID, photoURL string) (*models.Profile, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	// Delete removes the profile and its username reservation, returning the
	// photo URL (if any) so the caller can clean up blob storage.
	Delete(ctx context.Context, userID string) (string, error)
	Close(ctx context.Context) error
}

// LocalProfileService is the JSON-file-backed implementation used when no
// Mongo URI is configured.
type LocalProfileService struct {
	mu        sync.RWMutex
	store     *storage.JSONStore
	profiles  map[string]*models.Profile // userID -> profile
	usernames map[string]string          // username -> userID
}

type localProfileData struct {
	Profiles  map[string]*models.Profile `json:"profiles"`
	Usernames map[string]string          `json:"usernames"`
}

func NewLocalProfileService(dataDir string) (*LocalProfileService, error) {
	store, err := storage.NewJSONStore(dataDir, "profiles.json")
	if err != nil {
		return nil, err
	}

	s := &LocalProfileService{
		store:     store,
		profiles:  make(map[string]*models.Profile),
		usernames: make(map[string]string),
	}

	var data localProfileData
	if err := store.Load(&data); err != nil {
		return nil, err
	}
	if data.Profiles != nil {
		s.profiles = data.Profiles
	}
	if data.Usernames != nil {
		s.usernames = data.Usernames
	}

	return s, nil
}

// persist must be called with the write lock held.
func (s *LocalProfileService) persist() error {
	return s.store.Save(localProfileData{
		Profiles:  s.profiles,
		Usernames: s.usernames,
	})
}

func (s *LocalProfileService) Create(ctx context.Context, prof *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(prof.Username)
	if _, taken := s.usernames[username]; taken {
		return ErrUsernameTaken
	}

	now := time.Now().UTC()
	p := *prof
	p.Username = username
	p.CreatedAt = now
	p.UpdatedAt = now

	s.usernames[username] = p.UserID
	s.profiles[p.UserID] = &p
	if err := s.persist(); err != nil {
		delete(s.usernames, username)
		delete(s.profiles, p.UserID)
		return err
	}

	*prof = p
	return nil
}

func (s *LocalProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}
	cp := *prof
	return &cp, nil
}

func (s *LocalProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.usernames[strings.ToLower(username)]
	if !exists {
		return nil, ErrProfileNotFound
	}
	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}
	cp := *prof
	return &cp, nil
}

func (s *LocalProfileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	if req.FullName != nil {
		prof.FullName = *req.FullName
	}
	if req.Motto != nil {
		prof.Motto = *req.Motto
	}
	if req.Location != nil {
		prof.Location = *req.Location
	}
	if req.Email != nil {
		prof.Email = *req.Email
	}
	if req.Phone != nil {
		prof.Phone = *req.Phone
	}
	prof.UpdatedAt = time.Now().UTC()

	if err := s.persist(); err != nil {
		return nil, err
	}
	cp := *prof
	return &cp, nil
}

func (s *LocalProfileService) SetLinks(ctx context.Context, userID string, list []models.LinkEntry) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	prof.Links = list
	prof.SocialLinks = nil
	prof.CustomLinks = nil
	prof.UpdatedAt = time.Now().UTC()

	if err := s.persist(); err != nil {
		return nil, err
	}
	cp := *prof
	return &cp, nil
}

func (s *LocalProfileService) SetPhotoURL(ctx context.Context, userID, photoURL string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	prof.PhotoURL = photoURL
	prof.UpdatedAt = time.Now().UTC()

	if err := s.persist(); err != nil {
		return nil, err
	}
	cp := *prof
	return &cp, nil
}

func (s *LocalProfileService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.usernames[strings.ToLower(username)]
	return !taken, nil
}

func (s *LocalProfileService) Delete(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return "", ErrProfileNotFound
	}

	photoURL := prof.PhotoURL
	delete(s.usernames, prof.Username)
	delete(s.profiles, userID)

	if err := s.persist(); err != nil {
		return "", err
	}
	return photoURL, nil
}

func (s *LocalProfileService) Close(ctx context.Context) error { return nil }
