package lab

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type mockOrgRepo struct {
	store map[uuid.UUID]*Organisation
	order []uuid.UUID
	err   error
}

func newMockOrgRepo() *mockOrgRepo {
	return &mockOrgRepo{store: make(map[uuid.UUID]*Organisation)}
}

func (m *mockOrgRepo) Create(_ context.Context, o *Organisation) error {
	if m.err != nil {
		return m.err
	}
	o.ID = uuid.New()
	m.store[o.ID] = o
	m.order = append(m.order, o.ID)
	return nil
}

func (m *mockOrgRepo) GetByID(_ context.Context, id uuid.UUID) (*Organisation, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrgRepo) List(_ context.Context) ([]*Organisation, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*Organisation, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id])
	}
	return out, nil
}

type mockProfileRepo struct {
	store map[uuid.UUID]*Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{store: make(map[uuid.UUID]*Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *Profile) error {
	p.ID = uuid.New()
	m.store[p.ID] = p
	return nil
}

func (m *mockProfileRepo) Get(_ context.Context, orgID, id uuid.UUID) (*Profile, error) {
	p, ok := m.store[id]
	if !ok || p.OrganisationID != orgID {
		return nil, ErrNotFound
	}
	return p, nil
}

type mockResultRepo struct {
	profiles *mockProfileRepo
	store    []*Result
	err      error
}

func (m *mockResultRepo) Create(_ context.Context, r *Result) error {
	if m.err != nil {
		return m.err
	}
	r.ID = uuid.New()
	m.store = append(m.store, r)
	return nil
}

func (m *mockResultRepo) GetBySampleID(_ context.Context, orgID, profileID uuid.UUID, sampleID string) (*Result, error) {
	for _, r := range m.store {
		p := m.profiles.store[r.ProfileID]
		if r.ProfileID == profileID && p != nil && p.OrganisationID == orgID && strings.EqualFold(r.SampleID, sampleID) {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

type fixture struct {
	svc      *Service
	orgs     *mockOrgRepo
	profiles *mockProfileRepo
	results  *mockResultRepo
}

func newFixture() *fixture {
	orgs := newMockOrgRepo()
	profiles := newMockProfileRepo()
	results := &mockResultRepo{profiles: profiles}
	return &fixture{
		svc:      NewService(orgs, profiles, results),
		orgs:     orgs,
		profiles: profiles,
		results:  results,
	}
}

func (f *fixture) org(name string) *Organisation {
	o := &Organisation{Name: name}
	if err := f.svc.CreateOrganisation(context.Background(), o); err != nil {
		panic(err)
	}
	return o
}

func (f *fixture) profile(org *Organisation, name string) *Profile {
	p := &Profile{Name: name, OrganisationID: org.ID}
	if err := f.svc.CreateProfile(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

var errDB = errors.New("db unavailable")
