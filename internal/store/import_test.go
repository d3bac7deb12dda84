package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/skillproof/server/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyExport = `{
	"users": {
		"fbUidAAAAAAAAAAAAAAAAAAAAAAA": {
			"email": "jane@x.com",
			"name": "Jane",
			"verified": true,
			"verifiedAt": 1700000000000,
			"skills": {
				"s1": {"name": "Go", "verified": true},
				"s2": {"name": "Rust", "verified": "true"}
			}
		},
		"fbUidBBBBBBBBBBBBBBBBBBBBBBB": {
			"email": "bob@x.com",
			"verified": "true"
		}
	},
	"certificates": {
		"fbUidAAAAAAAAAAAAAAAAAAAAAAA": {
			"c1": {"skill": "Go", "fileUrl": "https://certs.example/go.pdf", "status": "verified", "uploadedAt": 1699990000000},
			"c2": {"skill": "Rust", "fileUrl": "https://certs.example/rust.pdf", "uploadedAt": 1699991000000}
		}
	}
}`

func TestParseExport(t *testing.T) {
	t.Parallel()

	ex, err := ParseExport([]byte(legacyExport))
	require.NoError(t, err)

	jane := ex.Users["fbUidAAAAAAAAAAAAAAAAAAAAAAA"]
	assert.True(t, bool(jane.Verified))
	assert.True(t, bool(jane.Skills["s1"].Verified))
	// String "true" flags must come out unverified.
	assert.False(t, bool(jane.Skills["s2"].Verified))
	assert.False(t, bool(ex.Users["fbUidBBBBBBBBBBBBBBBBBBBBBBB"].Verified))

	// Legacy "verified" status normalizes to approved; a missing status
	// means pending.
	certs := ex.Certificates["fbUidAAAAAAAAAAAAAAAAAAAAAAA"]
	assert.Equal(t, registry.StatusApproved, certs["c1"].Status)
	assert.Equal(t, registry.StatusPending, certs["c2"].Status)
}

func TestParseExportRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseExport([]byte("not json"))
	assert.Error(t, err)
}

func TestUserUUID(t *testing.T) {
	t.Parallel()

	// Firebase uid strings map to the same UUID every run.
	a := UserUUID("fbUidAAAAAAAAAAAAAAAAAAAAAAA")
	b := UserUUID("fbUidAAAAAAAAAAAAAAAAAAAAAAA")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, UserUUID("fbUidBBBBBBBBBBBBBBBBBBBBBBB"))

	// Real UUIDs pass through untouched.
	id := uuid.New()
	assert.Equal(t, id, UserUUID(id.String()))
}
