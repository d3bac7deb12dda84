package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/skillproof/server/internal/models"
	"github.com/skillproof/server/internal/registry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Export is the shape of a legacy Firebase RTDB dump of the original app:
// the two top-level subtrees, user ids as Firebase uid strings.
type Export struct {
	Users        registry.Users        `json:"users"`
	Certificates registry.Certificates `json:"certificates"`
}

// ParseExport decodes a legacy dump. The strict Flag decode does the dirty
// work here: entries with "verified": "true" (a string, which some exports
// carry) come out unverified. Certificate statuses are normalized to the
// pending/approved vocabulary.
func ParseExport(data []byte) (Export, error) {
	var ex Export
	if err := json.Unmarshal(data, &ex); err != nil {
		return Export{}, fmt.Errorf("parse export: %w", err)
	}
	for uid, byID := range ex.Certificates {
		for cid, cert := range byID {
			switch cert.Status {
			case registry.StatusApproved, "verified":
				cert.Status = registry.StatusApproved
			default:
				cert.Status = registry.StatusPending
			}
			ex.Certificates[uid][cid] = cert
		}
	}
	return ex, nil
}

// UserUUID maps a legacy uid to a stable UUID. Real UUIDs pass through;
// Firebase uid strings hash to the same UUID on every import run.
func UserUUID(uid string) uuid.UUID {
	if parsed, err := uuid.Parse(uid); err == nil {
		return parsed
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(uid))
}

// ImportExport upserts a legacy dump into the store in one transaction.
// Imported accounts have no password until they reset one; they can still
// sign in with Google.
func (s *Store) ImportExport(ctx context.Context, ex Export) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for uid, doc := range ex.Users {
			id := UserUUID(uid)
			user := models.User{
				ID:         id,
				Email:      doc.Email,
				Name:       doc.Name,
				PhotoURL:   doc.Photo,
				Verified:   bool(doc.Verified),
				VerifiedAt: doc.VerifiedAt,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"email", "name", "photo_url", "verified", "verified_at", "updated_at"}),
			}).Create(&user).Error; err != nil {
				return fmt.Errorf("import user %s: %w", uid, err)
			}
			for sid, sd := range doc.Skills {
				skill := models.Skill{
					UserID:   id,
					SID:      sid,
					Name:     sd.Name,
					Verified: bool(sd.Verified),
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}, {Name: "sid"}},
					DoUpdates: clause.AssignmentColumns([]string{"name", "verified", "updated_at"}),
				}).Create(&skill).Error; err != nil {
					return fmt.Errorf("import skill %s/%s: %w", uid, sid, err)
				}
			}
		}
		for uid, byID := range ex.Certificates {
			id := UserUUID(uid)
			for cid, cd := range byID {
				cert := models.Certificate{
					UserID:     id,
					CID:        cid,
					SkillName:  cd.Skill,
					FileURL:    cd.FileURL,
					Status:     cd.Status,
					UploadedAt: cd.UploadedAt,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}, {Name: "cid"}},
					DoUpdates: clause.AssignmentColumns([]string{"skill_name", "file_url", "status", "uploaded_at", "updated_at"}),
				}).Create(&cert).Error; err != nil {
					return fmt.Errorf("import certificate %s/%s: %w", uid, cid, err)
				}
			}
		}
		return nil
	})
}
