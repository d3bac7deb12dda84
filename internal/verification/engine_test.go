package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/skillproof/server/internal/models"
	"github.com/skillproof/server/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps the three record kinds in maps and gives Transact real
// commit/rollback semantics: the callback runs against a copy that only
// replaces the live state on success.
type memStore struct {
	certs    map[string]models.Certificate // uid/cid
	skills   map[string]models.Skill       // uid/sid
	verified map[string]int64              // uid -> verifiedAt
	failOn   string                        // method name that should fail
}

func newMemStore() *memStore {
	return &memStore{
		certs:    make(map[string]models.Certificate),
		skills:   make(map[string]models.Skill),
		verified: make(map[string]int64),
	}
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	c.failOn = m.failOn
	for k, v := range m.certs {
		c.certs[k] = v
	}
	for k, v := range m.skills {
		c.skills[k] = v
	}
	for k, v := range m.verified {
		c.verified[k] = v
	}
	return c
}

var errStoreDown = errors.New("store down")

func (m *memStore) GetCertificate(_ context.Context, userID, certID string) (models.Certificate, error) {
	cert, ok := m.certs[userID+"/"+certID]
	if !ok {
		return models.Certificate{}, ErrCertificateNotFound
	}
	return cert, nil
}

func (m *memStore) SetCertificateStatus(_ context.Context, userID, certID, status string) error {
	if m.failOn == "SetCertificateStatus" {
		return errStoreDown
	}
	cert := m.certs[userID+"/"+certID]
	cert.Status = status
	m.certs[userID+"/"+certID] = cert
	return nil
}

func (m *memStore) UpsertSkill(_ context.Context, userID, skillID, name string, verified bool) error {
	if m.failOn == "UpsertSkill" {
		return errStoreDown
	}
	m.skills[userID+"/"+skillID] = models.Skill{SID: skillID, Name: name, Verified: verified}
	return nil
}

func (m *memStore) MarkUserVerified(_ context.Context, userID string, at int64) error {
	if m.failOn == "MarkUserVerified" {
		return errStoreDown
	}
	m.verified[userID] = at
	return nil
}

func (m *memStore) Transact(_ context.Context, fn func(tx Store) error) error {
	tx := m.clone()
	if err := fn(tx); err != nil {
		return err
	}
	m.certs = tx.certs
	m.skills = tx.skills
	m.verified = tx.verified
	return nil
}

func seedPending(s *memStore, uid, cid, skill string) {
	s.certs[uid+"/"+cid] = models.Certificate{
		CID:       cid,
		SkillName: skill,
		Status:    registry.StatusPending,
	}
}

func TestApproveTransitionsAllThreeRecords(t *testing.T) {
	t.Parallel()

	s := newMemStore()
	seedPending(s, "u1", "c1", "React")

	require.NoError(t, Approve(context.Background(), s, "u1", "c1", "React"))

	assert.Equal(t, registry.StatusApproved, s.certs["u1/c1"].Status)
	skill := s.skills["u1/c1"] // keyed by the certificate id
	assert.Equal(t, "React", skill.Name)
	assert.True(t, skill.Verified)
	assert.NotZero(t, s.verified["u1"])
}

func TestApproveIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newMemStore()
	seedPending(s, "u1", "c1", "React")

	require.NoError(t, Approve(context.Background(), s, "u1", "c1", "React"))
	verifiedAt := s.verified["u1"]
	certs, skills := s.certs["u1/c1"], s.skills["u1/c1"]

	// Second call must not change anything, not even the timestamp.
	require.NoError(t, Approve(context.Background(), s, "u1", "c1", "React"))
	assert.Equal(t, verifiedAt, s.verified["u1"])
	assert.Equal(t, certs, s.certs["u1/c1"])
	assert.Equal(t, skills, s.skills["u1/c1"])
}

func TestApproveUnknownCertificate(t *testing.T) {
	t.Parallel()

	s := newMemStore()
	err := Approve(context.Background(), s, "u1", "missing", "React")
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestApproveDefaultsToSubmittedSkillName(t *testing.T) {
	t.Parallel()

	s := newMemStore()
	seedPending(s, "u1", "c1", "Kubernetes")

	require.NoError(t, Approve(context.Background(), s, "u1", "c1", ""))
	assert.Equal(t, "Kubernetes", s.skills["u1/c1"].Name)
}

func TestApproveLeavesNoPartialStateOnFailure(t *testing.T) {
	t.Parallel()

	for _, failOn := range []string{"SetCertificateStatus", "UpsertSkill", "MarkUserVerified"} {
		s := newMemStore()
		s.failOn = failOn
		seedPending(s, "u1", "c1", "React")

		err := Approve(context.Background(), s, "u1", "c1", "React")
		require.Error(t, err, "failOn %s", failOn)

		// The transaction rolled back: nothing moved.
		assert.Equal(t, registry.StatusPending, s.certs["u1/c1"].Status, "failOn %s", failOn)
		assert.Empty(t, s.skills, "failOn %s", failOn)
		assert.Empty(t, s.verified, "failOn %s", failOn)
	}
}
