package search

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/labtrack/labtrack/internal/domain/lab"
	"github.com/labtrack/labtrack/pkg/pagination"
)

// memStore is an in-memory Store with the same scope, predicate and order
// rules as the SQL stores.
type memStore struct {
	orgs     map[uuid.UUID]*lab.Organisation
	profiles map[uuid.UUID]*lab.Profile
	results  []lab.Result

	// ignoreProfile makes the store skip profile id predicates, standing in
	// for a store whose identifier matching disagrees with the engine's.
	ignoreProfile bool
	err           error

	counts, finds, scans int
}

func newMemStore() *memStore {
	return &memStore{
		orgs:     make(map[uuid.UUID]*lab.Organisation),
		profiles: make(map[uuid.UUID]*lab.Profile),
	}
}

func (m *memStore) addOrg(name string) *lab.Organisation {
	o := &lab.Organisation{ID: uuid.New(), Name: name}
	m.orgs[o.ID] = o
	return o
}

func (m *memStore) addProfile(org *lab.Organisation, name string) *lab.Profile {
	p := &lab.Profile{ID: uuid.New(), Name: name, OrganisationID: org.ID}
	m.profiles[p.ID] = p
	return p
}

func (m *memStore) addResult(p *lab.Profile, r lab.Result) lab.Result {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.ProfileID = p.ID
	m.results = append(m.results, r)
	return r
}

func (m *memStore) match(q *Query) []Hit {
	var hits []Hit
	for _, r := range m.results {
		p := m.profiles[r.ProfileID]
		if p == nil || p.OrganisationID != q.OrganisationID {
			continue
		}
		h := Hit{Result: r, Profile: *p}
		ok := true
		for _, pred := range q.Predicates {
			if m.ignoreProfile && pred.Field == FieldProfileID {
				continue
			}
			if !pred.Match(h) {
				ok = false
				break
			}
		}
		if ok {
			hits = append(hits, h)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i].Result, hits[j].Result
		if !a.ActivateTime.Equal(b.ActivateTime) {
			return a.ActivateTime.After(b.ActivateTime)
		}
		return a.ID.String() > b.ID.String()
	})
	return hits
}

func (m *memStore) Count(_ context.Context, q *Query) (int, error) {
	m.counts++
	if m.err != nil {
		return 0, m.err
	}
	return len(m.match(q)), nil
}

func (m *memStore) Find(_ context.Context, q *Query, page pagination.Params) ([]Hit, error) {
	m.finds++
	if m.err != nil {
		return nil, m.err
	}
	return pagination.Window(m.match(q), page), nil
}

func (m *memStore) FindAll(_ context.Context, q *Query) ([]Hit, error) {
	m.scans++
	if m.err != nil {
		return nil, m.err
	}
	return m.match(q), nil
}
