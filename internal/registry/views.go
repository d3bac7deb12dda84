package registry

import "sort"

type UserStats struct {
	TotalUsers       int `json:"totalUsers"`
	VerifiedProfiles int `json:"verifiedProfiles"`
}

type CertificateStats struct {
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
}

// Profile is what employers see: a verified user carrying only the skills
// that went through certificate approval. Unvetted skill claims stay hidden.
type Profile struct {
	UserID     string              `json:"userId"`
	Email      string              `json:"email"`
	Name       string              `json:"name,omitempty"`
	Photo      string              `json:"photo,omitempty"`
	VerifiedAt int64               `json:"verifiedAt,omitempty"`
	Skills     map[string]SkillDoc `json:"skills"`
}

// PendingCertificate is one row of the admin review queue.
type PendingCertificate struct {
	UserID        string `json:"userId"`
	CertificateID string `json:"certificateId"`
	CertificateDoc
}

// ComputeUserStats counts users and verified profiles. Only a strict
// boolean true counts as verified.
func ComputeUserStats(users Users) UserStats {
	stats := UserStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.Verified {
			stats.VerifiedProfiles++
		}
	}
	return stats
}

// ComputeCertificateStats flattens the uid→cid map and partitions by status.
func ComputeCertificateStats(certs Certificates) CertificateStats {
	var stats CertificateStats
	for _, byID := range certs {
		for _, c := range byID {
			if c.Status == StatusApproved {
				stats.Verified++
			} else {
				stats.Pending++
			}
		}
	}
	return stats
}

// ListVerifiedProfiles filters to verified users, newest verification first.
// Users without a verifiedAt stamp sort last among the verified; ties carry
// no defined order.
func ListVerifiedProfiles(users Users) []Profile {
	profiles := make([]Profile, 0)
	for uid, u := range users {
		if !u.Verified {
			continue
		}
		skills := make(map[string]SkillDoc)
		for sid, s := range u.Skills {
			if s.Verified {
				skills[sid] = s
			}
		}
		profiles = append(profiles, Profile{
			UserID:     uid,
			Email:      u.Email,
			Name:       u.Name,
			Photo:      u.Photo,
			VerifiedAt: u.VerifiedAt,
			Skills:     skills,
		})
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].VerifiedAt > profiles[j].VerifiedAt
	})
	return profiles
}

// ListPendingCertificates drives the admin review queue: everything not yet
// approved, oldest upload first so the queue order is deterministic.
func ListPendingCertificates(certs Certificates) []PendingCertificate {
	pending := make([]PendingCertificate, 0)
	for uid, byID := range certs {
		for cid, c := range byID {
			if c.Status == StatusApproved {
				continue
			}
			pending = append(pending, PendingCertificate{
				UserID:         uid,
				CertificateID:  cid,
				CertificateDoc: c,
			})
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].UploadedAt < pending[j].UploadedAt
	})
	return pending
}
