// Package verification owns the certificate→skill→profile state transition.
// Approving a certificate flips three denormalized records that must agree:
// the certificate's status, the skill entry under the owning user, and the
// user's verified flag.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillproof/server/internal/models"
	"github.com/skillproof/server/internal/registry"
)

var ErrCertificateNotFound = errors.New("certificate not found")

// Store is the slice of the record store the engine needs. Transact must
// run the callback against a transaction-scoped store so the three writes
// of one approval land atomically.
type Store interface {
	GetCertificate(ctx context.Context, userID, certID string) (models.Certificate, error)
	SetCertificateStatus(ctx context.Context, userID, certID, status string) error
	UpsertSkill(ctx context.Context, userID, skillID, name string, verified bool) error
	MarkUserVerified(ctx context.Context, userID string, at int64) error
	Transact(ctx context.Context, fn func(tx Store) error) error
}

// Approve transitions a certificate to approved, marks the matching skill
// verified, and marks the owning profile verified. The skill record is keyed
// by the certificate id, so a free-text skill the user typed earlier and the
// certified one are separate rows unless their ids happen to match.
//
// Approving an already-approved certificate is a no-op: the three target
// values are already in place, so the call returns nil without writing.
// Access control is the caller's job; the engine trusts it.
func Approve(ctx context.Context, s Store, userID, certID, skillName string) error {
	cert, err := s.GetCertificate(ctx, userID, certID)
	if err != nil {
		return err
	}
	if cert.Status == registry.StatusApproved {
		return nil
	}
	if skillName == "" {
		skillName = cert.SkillName
	}

	now := time.Now().UnixMilli()
	err = s.Transact(ctx, func(tx Store) error {
		if err := tx.SetCertificateStatus(ctx, userID, certID, registry.StatusApproved); err != nil {
			return err
		}
		if err := tx.UpsertSkill(ctx, userID, certID, skillName, true); err != nil {
			return err
		}
		return tx.MarkUserVerified(ctx, userID, now)
	})
	if err != nil {
		return fmt.Errorf("approve certificate %s/%s: %w", userID, certID, err)
	}
	return nil
}
