package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officialyou/backend/internal/models"
)

func newTestProfileService(t *testing.T) *LocalProfileService {
	t.Helper()
	svc, err := NewLocalProfileService(t.TempDir())
	require.NoError(t, err)
	return svc
}

func TestCreateAndFetchProfile(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	prof := &models.Profile{
		UserID:   "u1",
		Username: "Jenna",
		FullName: "Jenna Ortiz",
		Email:    "jenna@example.com",
	}
	require.NoError(t, svc.Create(ctx, prof))

	// Username is stored lowercase.
	assert.Equal(t, "jenna", prof.Username)
	assert.False(t, prof.CreatedAt.IsZero())

	byID, err := svc.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jenna Ortiz", byID.FullName)

	byName, err := svc.GetByUsername(ctx, "JENNA")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.UserID)
}

func TestCreateRejectsTakenUsername(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Profile{UserID: "u1", Username: "jenna"}))

	err := svc.Create(ctx, &models.Profile{UserID: "u2", Username: "Jenna"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	available, err := svc.UsernameAvailable(ctx, "jenna")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.UsernameAvailable(ctx, "other")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestUpdateProfileAppliesOnlyProvidedFields(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Profile{
		UserID:   "u1",
		Username: "jenna",
		FullName: "Jenna Ortiz",
		Motto:    "hello",
	}))

	motto := "new motto"
	updated, err := svc.Update(ctx, "u1", &models.UpdateProfileRequest{Motto: &motto})
	require.NoError(t, err)
	assert.Equal(t, "new motto", updated.Motto)
	assert.Equal(t, "Jenna Ortiz", updated.FullName)

	_, err = svc.Update(ctx, "missing", &models.UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSetLinksClearsLegacyShape(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Profile{
		UserID:      "u1",
		Username:    "jenna",
		SocialLinks: map[string]string{"instagram": "https://instagram.com/jenna"},
		CustomLinks: []models.CustomLink{{ID: 1, Title: "Blog", URL: "https://blog.example.com"}},
	}))

	list := []models.LinkEntry{
		{ID: "a", Type: models.LinkTypeCustom, Title: "Blog", URL: "https://blog.example.com"},
	}
	updated, err := svc.SetLinks(ctx, "u1", list)
	require.NoError(t, err)
	assert.Equal(t, list, updated.Links)
	assert.Nil(t, updated.SocialLinks)
	assert.Nil(t, updated.CustomLinks)
}

func TestDeleteReleasesUsername(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Profile{
		UserID:   "u1",
		Username: "jenna",
		PhotoURL: "https://cdn.example.com/u1.jpg",
	}))

	photoURL, err := svc.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1.jpg", photoURL)

	_, err = svc.GetByUserID(ctx, "u1")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// Handle is free for the next claimant.
	require.NoError(t, svc.Create(ctx, &models.Profile{UserID: "u2", Username: "jenna"}))
}

func TestProfilesSurviveReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	svc, err := NewLocalProfileService(dir)
	require.NoError(t, err)
	require.NoError(t, svc.Create(ctx, &models.Profile{UserID: "u1", Username: "jenna"}))

	reloaded, err := NewLocalProfileService(dir)
	require.NoError(t, err)

	prof, err := reloaded.GetByUsername(ctx, "jenna")
	require.NoError(t, err)
	assert.Equal(t, "u1", prof.UserID)
}
