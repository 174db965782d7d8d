package listingapp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/app/events"
	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/shared/fault"
	"stayfinder/internal/domain/user"
	"stayfinder/internal/infra/storage/memory"
)

const (
	ownerID = user.ID("host-1")
	otherID = user.ID("host-2")
)

func newService() (*Service, *memory.ListingRepository) {
	repo := memory.NewListingRepository()
	return &Service{Listings: repo, Events: events.Nop{}}, repo
}

func createListing(t *testing.T, s *Service, host user.ID, title string) *domainlisting.Listing {
	t.Helper()
	lst, err := s.Create(context.Background(), host, CreateParams{
		Title:         title,
		Description:   "A place to stay",
		Location:      "Lisbon",
		PricePerNight: 80,
		Images:        []string{"https://cdn.example.com/room.jpg"},
		MaxGuests:     4,
	})
	require.NoError(t, err)
	return lst
}

func ptr[T any](v T) *T { return &v }

func TestCreateAssignsIDAndHost(t *testing.T) {
	s, repo := newService()

	lst := createListing(t, s, ownerID, "Hilltop studio")
	assert.NotEmpty(t, lst.ID)
	assert.Equal(t, ownerID, lst.HostID)

	stored, err := repo.ByID(context.Background(), lst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hilltop studio", stored.Title)
}

func TestCreateValidation(t *testing.T) {
	s, _ := newService()

	_, err := s.Create(context.Background(), ownerID, CreateParams{
		Description:   "missing title",
		Location:      "Lisbon",
		PricePerNight: 80,
		MaxGuests:     2,
	})
	var verr *fault.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateByOwner(t *testing.T) {
	s, _ := newService()
	lst := createListing(t, s, ownerID, "Hilltop studio")

	updated, err := s.Update(context.Background(), ownerID, lst.ID, domainlisting.UpdateParams{
		Title:         ptr("Hilltop studio with terrace"),
		PricePerNight: ptr(95.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hilltop studio with terrace", updated.Title)
	assert.Equal(t, 95.0, updated.PricePerNight)
	assert.Equal(t, "A place to stay", updated.Description)
}

func TestRejectedUpdateLeavesStoredListingUntouched(t *testing.T) {
	s, repo := newService()
	lst := createListing(t, s, ownerID, "Hilltop studio")

	// one valid field next to one invalid field: nothing may stick
	_, err := s.Update(context.Background(), ownerID, lst.ID, domainlisting.UpdateParams{
		Title:         ptr("Hijacked"),
		PricePerNight: ptr(-5.0),
	})
	var verr *fault.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := repo.ByID(context.Background(), lst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hilltop studio", stored.Title)
	assert.Equal(t, 80.0, stored.PricePerNight)
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	s, repo := newService()
	lst := createListing(t, s, ownerID, "Hilltop studio")

	_, err := s.Update(context.Background(), otherID, lst.ID, domainlisting.UpdateParams{
		Title: ptr("Hijacked"),
	})
	var authz *fault.AuthorizationError
	require.ErrorAs(t, err, &authz)

	stored, err := repo.ByID(context.Background(), lst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hilltop studio", stored.Title)
}

func TestUpdateUnknownListing(t *testing.T) {
	s, _ := newService()
	_, err := s.Update(context.Background(), ownerID, "missing", domainlisting.UpdateParams{})
	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteByOwner(t *testing.T) {
	s, repo := newService()
	lst := createListing(t, s, ownerID, "Hilltop studio")

	require.NoError(t, s.Delete(context.Background(), ownerID, lst.ID))
	_, err := repo.ByID(context.Background(), lst.ID)
	assert.ErrorIs(t, err, domainlisting.ErrNotFound)
}

func TestDeleteByNonOwnerForbidden(t *testing.T) {
	s, repo := newService()
	lst := createListing(t, s, ownerID, "Hilltop studio")

	err := s.Delete(context.Background(), otherID, lst.ID)
	var authz *fault.AuthorizationError
	require.ErrorAs(t, err, &authz)

	// the listing survives the rejected attempt
	_, err = repo.ByID(context.Background(), lst.ID)
	require.NoError(t, err)
}

func TestPageDefaultsAndMath(t *testing.T) {
	s, _ := newService()
	for i := 0; i < 25; i++ {
		createListing(t, s, ownerID, fmt.Sprintf("Listing %02d", i))
	}

	result, err := s.Page(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, int64(25), result.Total)
	assert.Len(t, result.Listings, 10)

	result, err = s.Page(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, result.Listings, 5)
}

func TestByHost(t *testing.T) {
	s, _ := newService()
	createListing(t, s, ownerID, "First")
	createListing(t, s, ownerID, "Second")
	createListing(t, s, otherID, "Theirs")

	mine, err := s.ByHost(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

type fakeUploader struct {
	lastKey string
}

func (u *fakeUploader) Upload(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	u.lastKey = key
	return "https://cdn.example.com/" + key, nil
}

func TestAddPhoto(t *testing.T) {
	s, _ := newService()
	uploader := &fakeUploader{}
	s.Photos = uploader
	lst := createListing(t, s, ownerID, "Hilltop studio")

	updated, err := s.AddPhoto(context.Background(), ownerID, lst.ID,
		"front.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, "https://cdn.example.com/"+uploader.lastKey, updated.Images[1])
	assert.True(t, strings.HasPrefix(uploader.lastKey, "listings/"+string(lst.ID)+"/"))
	assert.True(t, strings.HasSuffix(uploader.lastKey, ".jpg"))
}

func TestAddPhotoByNonOwnerForbidden(t *testing.T) {
	s, _ := newService()
	s.Photos = &fakeUploader{}
	lst := createListing(t, s, ownerID, "Hilltop studio")

	_, err := s.AddPhoto(context.Background(), otherID, lst.ID,
		"front.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
	var authz *fault.AuthorizationError
	require.ErrorAs(t, err, &authz)
}

func TestAddPhotoWithoutStorage(t *testing.T) {
	s, _ := newService()
	lst := createListing(t, s, ownerID, "Hilltop studio")

	_, err := s.AddPhoto(context.Background(), ownerID, lst.ID,
		"front.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
	require.Error(t, err)
}
