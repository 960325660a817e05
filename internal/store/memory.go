package store

import (
	"context"
	"sort"
	"sync"

	"github.com/yanizio/escortde/internal/ad"
)

// Memory is an in-process Store.  It is safe for concurrent use and hands
// out copies, so callers never share state with the map.
type Memory struct {
	mu         sync.RWMutex
	ads        map[string]ad.Ad
	contacts   map[string]ad.ContactSubmission
	nextPublic int64
	fail       error
}

// NewMemory returns an empty store, optionally seeded.
func NewMemory(seed ...ad.Ad) *Memory {
	m := &Memory{
		ads:      make(map[string]ad.Ad),
		contacts: make(map[string]ad.ContactSubmission),
	}
	for i := range seed {
		a := seed[i]
		if a.PublicID != nil && *a.PublicID > m.nextPublic {
			m.nextPublic = *a.PublicID
		}
		m.ads[a.ID] = a
	}
	return m
}

// FailWith makes every subsequent call return err.  Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

var _ Store = (*Memory)(nil)

func (m *Memory) ListApproved(_ context.Context, f Filter) ([]ad.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}

	var out []ad.Ad
	for _, a := range m.ads {
		if !matchesApproved(&a, f.Gender, f.Country) {
			continue
		}
		out = append(out, clone(a))
	}
	sortNewest(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *Memory) ApprovedCities(_ context.Context, g ad.Gender, countryPrefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}

	var out []string
	for _, a := range m.ads {
		if matchesApproved(&a, g, countryPrefix) {
			out = append(out, a.City)
		}
	}
	return out, nil
}

func (m *Memory) ListAll(context.Context) ([]ad.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}

	out := make([]ad.Ad, 0, len(m.ads))
	for _, a := range m.ads {
		out = append(out, clone(a))
	}
	sortNewest(out)
	return out, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*ad.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}

	a, ok := m.ads[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(a)
	return &c, nil
}

func (m *Memory) GetByPublicID(_ context.Context, n int64) (*ad.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}

	for _, a := range m.ads {
		if a.PublicID != nil && *a.PublicID == n {
			c := clone(a)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Create(_ context.Context, a *ad.Ad) (*ad.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}

	c := clone(*a)
	m.nextPublic++
	pid := m.nextPublic
	c.PublicID = &pid
	m.ads[c.ID] = c

	out := clone(c)
	return &out, nil
}

func (m *Memory) Update(_ context.Context, id string, p Patch) (*ad.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}

	a, ok := m.ads[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Apply(&a)
	m.ads[id] = clone(a)

	out := clone(a)
	return &out, nil
}

func (m *Memory) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}

	if _, ok := m.ads[id]; !ok {
		return false, nil
	}
	delete(m.ads, id)
	return true, nil
}

func (m *Memory) ListContacts(context.Context) ([]ad.ContactSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}

	out := make([]ad.ContactSubmission, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (m *Memory) GetContact(_ context.Context, id string) (*ad.ContactSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}

	c, ok := m.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) CreateContact(_ context.Context, c *ad.ContactSubmission) (*ad.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}

	m.contacts[c.ID] = *c
	out := *c
	return &out, nil
}

func (m *Memory) SetContactStatus(_ context.Context, id string, s ad.ContactStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}

	c, ok := m.contacts[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = s
	m.contacts[id] = c
	return nil
}

func (m *Memory) DeleteContact(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}

	if _, ok := m.contacts[id]; !ok {
		return false, nil
	}
	delete(m.contacts, id)
	return true, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func matchesApproved(a *ad.Ad, g ad.Gender, country string) bool {
	if a.Status != ad.Approved {
		return false
	}
	if g != "" && a.Gender != g {
		return false
	}
	if country != "" && !hasCountryPrefix(a.Country, country) {
		return false
	}
	return true
}

// sortNewest orders by SubmittedAt descending with id as the tie-breaker so
// map iteration order never leaks into results.
func sortNewest(ads []ad.Ad) {
	sort.SliceStable(ads, func(i, j int) bool {
		if ads[i].SubmittedAt.Equal(ads[j].SubmittedAt) {
			return ads[i].ID < ads[j].ID
		}
		return ads[i].SubmittedAt.After(ads[j].SubmittedAt)
	})
}

func clone(a ad.Ad) ad.Ad {
	if a.PublicID != nil {
		n := *a.PublicID
		a.PublicID = &n
	}
	a.Languages = append(ad.List[string](nil), a.Languages...)
	a.Services = append(ad.List[ad.Service](nil), a.Services...)
	a.Rates = append(ad.List[ad.Rate](nil), a.Rates...)
	a.Images = append(ad.List[string](nil), a.Images...)
	return a
}
