package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var ErrInvalidImage = errors.New("invalid image file")

// AvatarService stores one avatar image per user and hands back a public URL.
type AvatarService interface {
	// Upload writes the image for userID, replacing any previous one, and
	// returns the URL to store on the profile.
	Upload(ctx context.Context, userID, contentType string, r io.Reader) (string, error)
	Remove(ctx context.Context, userID string) error
}

// LocalAvatarService keeps avatars on the local filesystem, served from the
// /uploads route. Development mode only.
type LocalAvatarService struct {
	mu        sync.Mutex
	uploadDir string
}

const avatarPrefix = "profile-pictures"

func NewLocalAvatarService(uploadDir string) (*LocalAvatarService, error) {
	if err := os.MkdirAll(filepath.Join(uploadDir, avatarPrefix), 0755); err != nil {
		return nil, err
	}
	return &LocalAvatarService{uploadDir: uploadDir}, nil
}

func (s *LocalAvatarService) Upload(ctx context.Context, userID, contentType string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.uploadDir, avatarPrefix, userID)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/uploads/" + avatarPrefix + "/" + userID, nil
}

func (s *LocalAvatarService) Remove(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.uploadDir, avatarPrefix, userID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
