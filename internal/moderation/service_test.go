package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/store"
)

type countingPurger struct{ n int }

func (p *countingPurger) Purge() { p.n++ }

type recordingImages struct {
	removed []string
	err     error
}

func (r *recordingImages) Remove(_ context.Context, url string) error {
	r.removed = append(r.removed, url)
	return r.err
}

func newService(seed ...ad.Ad) (*Service, *store.Memory, *countingPurger, *recordingImages) {
	m := store.NewMemory(seed...)
	p := &countingPurger{}
	img := &recordingImages{}
	return New(m, p, img), m, p, img
}

func pendingAd() ad.Ad {
	return ad.Ad{
		ID: "a1", Gender: ad.Female, City: "Zürich", Country: "Switzerland",
		Status: ad.Pending, Images: ad.List[string]{"https://img/1.jpg", "https://img/2.jpg"},
		SubmittedAt: time.Now(),
	}
}

func TestApproveMakesAdPublic(t *testing.T) {
	svc, m, p, _ := newService(pendingAd())
	ctx := context.Background()

	got, err := svc.Ad(ctx, "a1", ad.Approve)
	require.NoError(t, err)
	assert.Equal(t, ad.Approved, got.Status)
	assert.Equal(t, 1, p.n)

	list, err := m.ListApproved(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInvalidTransitionLeavesState(t *testing.T) {
	svc, m, p, _ := newService(pendingAd())
	ctx := context.Background()

	_, err := svc.Ad(ctx, "a1", ad.Reactivate)
	assert.ErrorIs(t, err, ad.ErrInvalidTransition)
	assert.Equal(t, 0, p.n)

	a, err := m.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, ad.Pending, a.Status)
}

func TestFullLifecycle(t *testing.T) {
	svc, _, _, _ := newService(pendingAd())
	ctx := context.Background()

	for _, step := range []struct {
		action ad.Action
		want   ad.Status
	}{
		{ad.Approve, ad.Approved},
		{ad.Deactivate, ad.Inactive},
		{ad.Reactivate, ad.Approved},
	} {
		got, err := svc.Ad(ctx, "a1", step.action)
		require.NoError(t, err, step.action)
		assert.Equal(t, step.want, got.Status, step.action)
	}
}

func TestDeleteIsPermanentAndRemovesImages(t *testing.T) {
	svc, m, p, img := newService(pendingAd())
	img.err = errors.New("bucket gone")
	ctx := context.Background()

	removed, err := svc.Ad(ctx, "a1", ad.Delete)
	require.NoError(t, err, "image cleanup is best effort")
	assert.Equal(t, "a1", removed.ID)
	assert.Equal(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, img.removed)
	assert.Equal(t, 1, p.n)

	_, err = m.GetByID(ctx, "a1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Ad(ctx, "a1", ad.Delete)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreFailureSurfaces(t *testing.T) {
	svc, m, _, _ := newService(pendingAd())
	boom := errors.New("permission denied")
	m.FailWith(boom)

	_, err := svc.Ad(context.Background(), "a1", ad.Approve)
	assert.ErrorIs(t, err, boom)
}

func TestEditIgnoresStatus(t *testing.T) {
	svc, _, p, _ := newService(pendingAd())
	city := "Basel"
	st := ad.Approved

	got, err := svc.Edit(context.Background(), "a1", store.Patch{City: &city, Status: &st})
	require.NoError(t, err)
	assert.Equal(t, "Basel", got.City)
	assert.Equal(t, ad.Pending, got.Status)
	assert.Equal(t, 1, p.n)
}

func TestEditRemovesDroppedImages(t *testing.T) {
	svc, m, _, img := newService(pendingAd())
	keep := []string{"https://img/2.jpg"}

	got, err := svc.Edit(context.Background(), "a1", store.Patch{Images: &keep})
	require.NoError(t, err)
	assert.Equal(t, keep, []string(got.Images))
	assert.Equal(t, []string{"https://img/1.jpg"}, img.removed)

	stored, err := m.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, keep, []string(stored.Images))

	img.removed = nil
	city := "Bern"
	_, err = svc.Edit(context.Background(), "a1", store.Patch{City: &city})
	require.NoError(t, err)
	assert.Empty(t, img.removed, "no image list in the patch means nothing dropped")
}

func TestEditMissingAd(t *testing.T) {
	svc, _, p, _ := newService()
	city := "Bern"
	_, err := svc.Edit(context.Background(), "nope", store.Patch{City: &city})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, p.n)
}

func TestContactReviewAndDelete(t *testing.T) {
	svc, m, p, _ := newService()
	ctx := context.Background()
	_, err := m.CreateContact(ctx, &ad.ContactSubmission{ID: "c1", Status: ad.ContactPending})
	require.NoError(t, err)

	require.NoError(t, svc.Contact(ctx, "c1", ad.Review))
	c, err := m.GetContact(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, ad.ContactReviewed, c.Status)

	assert.ErrorIs(t, svc.Contact(ctx, "c1", ad.Review), ad.ErrInvalidTransition)

	require.NoError(t, svc.Contact(ctx, "c1", ad.DeleteContact))
	assert.ErrorIs(t, svc.Contact(ctx, "c1", ad.DeleteContact), store.ErrNotFound)
	assert.Equal(t, 0, p.n, "contacts are not rendered publicly")
}

func TestNilCollaborators(t *testing.T) {
	m := store.NewMemory(pendingAd())
	svc := New(m, nil, nil)

	_, err := svc.Ad(context.Background(), "a1", ad.Delete)
	require.NoError(t, err)
}
