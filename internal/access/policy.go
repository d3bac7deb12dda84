// Package access classifies an identity into a capability class and decides
// which class each part of the API requires.
package access

// Capability is the access level granted to an identity.
type Capability int

const (
	Anonymous Capability = iota
	Authenticated
	Admin
)

func (c Capability) String() string {
	switch c {
	case Admin:
		return "admin"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Identity is what the token layer hands us: who signed in. A nil identity
// means signed out.
type Identity struct {
	ID    string
	Email string
}

// Classify maps an identity to its capability class. The admin match is an
// exact, case-sensitive string comparison against the configured admin
// email. Classification is recomputed per request, never cached.
func Classify(id *Identity, adminEmail string) Capability {
	if id == nil {
		return Anonymous
	}
	if adminEmail != "" && id.Email == adminEmail {
		return Admin
	}
	return Authenticated
}

// Satisfies reports whether c grants what required asks for. Admin-gated
// surfaces accept only Admin; everything else is ordered.
func (c Capability) Satisfies(required Capability) bool {
	if required == Admin {
		return c == Admin
	}
	return c >= required
}
