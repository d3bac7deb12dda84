package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeUserStats(t *testing.T) {
	t.Parallel()

	// One of the three users carries "true" as a string, the way sloppy
	// legacy exports do. It must not count as verified.
	raw := `{
		"u1": {"email": "a@x.com", "verified": true},
		"u2": {"email": "b@x.com", "verified": true},
		"u3": {"email": "c@x.com", "verified": "true"}
	}`
	var users Users
	require.NoError(t, json.Unmarshal([]byte(raw), &users))

	stats := ComputeUserStats(users)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 2, stats.VerifiedProfiles)
}

func TestComputeUserStatsEmpty(t *testing.T) {
	t.Parallel()

	stats := ComputeUserStats(Users{})
	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.VerifiedProfiles)
}

func TestComputeCertificateStats(t *testing.T) {
	t.Parallel()

	certs := Certificates{
		"u1": {
			"c1": {Skill: "React", Status: StatusPending},
		},
		"u2": {
			"c2": {Skill: "Go", Status: StatusApproved},
			"c3": {Skill: "Rust", Status: StatusPending},
		},
		"u3": {}, // a user with no certificates must not break the count
	}

	stats := ComputeCertificateStats(certs)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Verified)
}

func TestListVerifiedProfilesHidesUnverifiedSkills(t *testing.T) {
	t.Parallel()

	users := Users{
		"u1": {
			Email:      "dev@x.com",
			Verified:   true,
			VerifiedAt: 100,
			Skills: map[string]SkillDoc{
				"s1": {Name: "Go", Verified: true},
				"s2": {Name: "Rust", Verified: false},
			},
		},
		"u2": {Email: "other@x.com", Verified: false,
			Skills: map[string]SkillDoc{"s3": {Name: "React", Verified: true}}},
	}

	profiles := ListVerifiedProfiles(users)
	require.Len(t, profiles, 1)
	assert.Equal(t, "u1", profiles[0].UserID)
	require.Len(t, profiles[0].Skills, 1)
	assert.Equal(t, "Go", profiles[0].Skills["s1"].Name)
}

func TestListVerifiedProfilesOrder(t *testing.T) {
	t.Parallel()

	users := Users{
		"old":     {Email: "old@x.com", Verified: true, VerifiedAt: 100},
		"new":     {Email: "new@x.com", Verified: true, VerifiedAt: 200},
		"unknown": {Email: "unknown@x.com", Verified: true}, // no verifiedAt stamp
	}

	profiles := ListVerifiedProfiles(users)
	require.Len(t, profiles, 3)
	assert.Equal(t, "new", profiles[0].UserID)
	assert.Equal(t, "old", profiles[1].UserID)
	assert.Equal(t, "unknown", profiles[2].UserID)
}

func TestListVerifiedProfilesDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	users := Users{
		"u1": {Email: "dev@x.com", Verified: true,
			Skills: map[string]SkillDoc{
				"s1": {Name: "Go", Verified: true},
				"s2": {Name: "Rust", Verified: false},
			}},
	}

	_ = ListVerifiedProfiles(users)
	assert.Len(t, users["u1"].Skills, 2)
}

func TestListPendingCertificates(t *testing.T) {
	t.Parallel()

	certs := Certificates{
		"u1": {
			"c1": {Skill: "React", Status: StatusPending, UploadedAt: 300},
			"c2": {Skill: "Go", Status: StatusApproved, UploadedAt: 100},
		},
		"u2": {
			"c3": {Skill: "SQL", Status: StatusPending, UploadedAt: 200},
		},
	}

	pending := ListPendingCertificates(certs)
	require.Len(t, pending, 2)
	assert.Equal(t, "c3", pending[0].CertificateID) // oldest upload first
	assert.Equal(t, "c1", pending[1].CertificateID)
	assert.Equal(t, "u2", pending[0].UserID)
}

func TestFlagStrictDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Flag
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, false},
		{`1`, false},
		{`null`, false},
	}
	for _, tc := range cases {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f))
		assert.Equal(t, tc.want, f, "raw %s", tc.raw)
	}
}
