// internal/moderation/service.go
//
// Admin moderation commands for ads and contact submissions.
//
// Workflow
// --------
//  1. Read the current row (ErrNotFound when it is gone).
//  2. Delete: remove the row, then best-effort remove its images.
//     Edit: write the patch, then remove the images it dropped.
//     Otherwise: validate the transition and write the new status.
//  3. Purge the public page cache so the next read reflects the change.
//
// Writes are last-write-wins; two dashboards acting on one ad are not
// reconciled.  Errors go back to the dashboard as-is and are never retried.
//
// Notes
// -----
// • Every outcome is counted in moderation_actions_total and logged.
// • Oxford commas, two spaces after periods.

package moderation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/store"
)

// Purger drops cached public renders.
type Purger interface {
	Purge()
}

// ImageRemover deletes stored images by their public URL.
type ImageRemover interface {
	Remove(ctx context.Context, url string) error
}

// Service applies moderation commands.
type Service struct {
	Store  store.Store
	Cache  Purger       // optional
	Images ImageRemover // optional
}

// New wires a Service.  cache and images may be nil.
func New(s store.Store, cache Purger, images ImageRemover) *Service {
	return &Service{Store: s, Cache: cache, Images: images}
}

// Ad applies action to the ad identified by id.  For delete the returned ad
// is the removed row.
func (s *Service) Ad(ctx context.Context, id string, action ad.Action) (*ad.Ad, error) {
	cur, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("ad", string(action), id, err)
	}

	if action.Removes() {
		ok, err := s.Store.Delete(ctx, id)
		if err != nil {
			return nil, s.fail("ad", string(action), id, err)
		}
		if !ok {
			return nil, s.fail("ad", string(action), id, store.ErrNotFound)
		}
		s.removeImages(ctx, id, cur.Images)
		s.done("ad", string(action), id)
		return cur, nil
	}

	next, err := cur.Status.Apply(action)
	if err != nil {
		return nil, s.fail("ad", string(action), id, err)
	}
	updated, err := s.Store.Update(ctx, id, store.Patch{Status: &next})
	if err != nil {
		return nil, s.fail("ad", string(action), id, err)
	}
	s.done("ad", string(action), id)
	return updated, nil
}

// Edit writes admin changes to an ad's attributes.  Status changes go
// through Ad, so p.Status is ignored.  Images the patch drops are removed
// from storage after the row is written.
func (s *Service) Edit(ctx context.Context, id string, p store.Patch) (*ad.Ad, error) {
	p.Status = nil
	cur, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("ad", "edit", id, err)
	}
	updated, err := s.Store.Update(ctx, id, p)
	if err != nil {
		return nil, s.fail("ad", "edit", id, err)
	}
	s.removeImages(ctx, id, dropped(cur.Images, updated.Images))
	s.done("ad", "edit", id)
	return updated, nil
}

// Contact applies action to a contact submission.
func (s *Service) Contact(ctx context.Context, id string, action ad.ContactAction) error {
	cur, err := s.Store.GetContact(ctx, id)
	if err != nil {
		return s.fail("contact", string(action), id, err)
	}

	if action.Removes() {
		ok, err := s.Store.DeleteContact(ctx, id)
		if err != nil {
			return s.fail("contact", string(action), id, err)
		}
		if !ok {
			return s.fail("contact", string(action), id, store.ErrNotFound)
		}
		s.done("contact", string(action), id)
		return nil
	}

	next, err := cur.Status.Apply(action)
	if err != nil {
		return s.fail("contact", string(action), id, err)
	}
	if err := s.Store.SetContactStatus(ctx, id, next); err != nil {
		return s.fail("contact", string(action), id, err)
	}
	s.done("contact", string(action), id)
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (s *Service) removeImages(ctx context.Context, id string, urls []string) {
	if s.Images == nil {
		return
	}
	for _, u := range urls {
		if err := s.Images.Remove(ctx, u); err != nil {
			zap.L().Warn("image cleanup failed",
				zap.String("ad", id), zap.String("url", u), zap.Error(err))
		}
	}
}

// dropped lists the entries of before that after no longer holds.
func dropped(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, u := range after {
		keep[u] = true
	}
	var out []string
	for _, u := range before {
		if !keep[u] {
			out = append(out, u)
		}
	}
	return out
}

func (s *Service) done(entity, action, id string) {
	if s.Cache != nil && entity == "ad" {
		s.Cache.Purge()
	}
	metrics.ModerationTotal.WithLabelValues(entity, action, "ok").Inc()
	zap.L().Info("moderation applied",
		zap.String("entity", entity), zap.String("action", action), zap.String("id", id))
}

func (s *Service) fail(entity, action, id string, err error) error {
	result := "error"
	switch {
	case errors.Is(err, ad.ErrInvalidTransition):
		result = "invalid"
	case errors.Is(err, store.ErrNotFound):
		result = "not_found"
	}
	metrics.ModerationTotal.WithLabelValues(entity, action, result).Inc()
	zap.L().Warn("moderation failed",
		zap.String("entity", entity), zap.String("action", action),
		zap.String("id", id), zap.String("result", result), zap.Error(err))
	return err
}
