package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const adminEmail = "admin@x.com"

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		identity *Identity
		want     Capability
	}{
		{"absent identity", nil, Anonymous},
		{"admin email", &Identity{ID: "u1", Email: "admin@x.com"}, Admin},
		{"other email", &Identity{ID: "u2", Email: "other@x.com"}, Authenticated},
		{"case differs", &Identity{ID: "u3", Email: "Admin@x.com"}, Authenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.identity, adminEmail))
		})
	}
}

func TestClassifyNoAdminConfigured(t *testing.T) {
	t.Parallel()

	// With no admin email configured, nobody is admin.
	got := Classify(&Identity{ID: "u1", Email: ""}, "")
	assert.Equal(t, Authenticated, got)
}

func TestAdminGate(t *testing.T) {
	t.Parallel()

	// The admin surface accepts only Admin; authenticated users are turned
	// away the same as anonymous ones.
	assert.True(t, Admin.Satisfies(Admin))
	assert.False(t, Authenticated.Satisfies(Admin))
	assert.False(t, Anonymous.Satisfies(Admin))
}

func TestAuthenticatedGate(t *testing.T) {
	t.Parallel()

	assert.True(t, Admin.Satisfies(Authenticated))
	assert.True(t, Authenticated.Satisfies(Authenticated))
	assert.False(t, Anonymous.Satisfies(Authenticated))

	// The open surfaces gate nothing.
	assert.True(t, Anonymous.Satisfies(Anonymous))
}
