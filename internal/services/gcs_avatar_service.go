package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// GCSAvatarService stores avatars in the Firebase Storage bucket at
// profile-pictures/<uid>, the same object path the legacy web client wrote.
type GCSAvatarService struct {
	client *storage.Client
	bucket string
}

func NewGCSAvatarService(ctx context.Context, bucket, credentialsJSON string) (*GCSAvatarService, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	return &GCSAvatarService{client: client, bucket: bucket}, nil
}

func (s *GCSAvatarService) Upload(ctx context.Context, userID, contentType string, r io.Reader) (string, error) {
	name := avatarPrefix + "/" + userID
	obj := s.client.Bucket(s.bucket).Object(name)

	// Firebase clients resolve download URLs through a token stored in object
	// metadata; mint a fresh one so a replaced avatar gets a new URL.
	token := uuid.New().String()

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	return firebaseDownloadURL(s.bucket, name, token), nil
}

func (s *GCSAvatarService) Remove(ctx context.Context, userID string) error {
	err := s.client.Bucket(s.bucket).Object(avatarPrefix + "/" + userID).Delete(ctx)
	if err != nil && err != storage.ErrObjectNotExist {
		return err
	}
	return nil
}

// https://firebasestorage.googleapis.com/v0/b/{bucket}/o/{path}?alt=media&token={token}
func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}
