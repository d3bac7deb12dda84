// Package registry holds the document shapes of the two record-store
// subtrees ("users" and "certificates") and the pure aggregation views
// computed over them. Nothing in this package touches the database or the
// network, so the views can be exercised against plain snapshots.
package registry

import "bytes"

// Certificate status vocabulary. "approved" is canonical; legacy exports
// that carried "verified" for the same state are normalized on import.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Flag is a strict boolean. Only the JSON literal true counts as set;
// anything else, including the string "true" that shows up in old database
// exports, decodes to false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = Flag(bytes.Equal(bytes.TrimSpace(b), []byte("true")))
	return nil
}

type SkillDoc struct {
	Name     string `json:"name"`
	Verified Flag   `json:"verified"`
}

type UserDoc struct {
	Email      string              `json:"email"`
	Name       string              `json:"name,omitempty"`
	Photo      string              `json:"photo,omitempty"`
	Verified   Flag                `json:"verified"`
	VerifiedAt int64               `json:"verifiedAt,omitempty"` // unix millis, 0 = never
	Skills     map[string]SkillDoc `json:"skills,omitempty"`
}

type CertificateDoc struct {
	Skill      string `json:"skill"`
	FileURL    string `json:"fileUrl"`
	Status     string `json:"status"`
	UploadedAt int64  `json:"uploadedAt"` // unix millis
}

// Users is the "users" subtree keyed by user id.
type Users map[string]UserDoc

// Certificates is the "certificates" subtree keyed by user id, then
// certificate id. A user entry with an empty or nil inner map is valid.
type Certificates map[string]map[string]CertificateDoc
