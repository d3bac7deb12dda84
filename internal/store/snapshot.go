package store

import (
	"context"

	"github.com/skillproof/server/internal/models"
	"github.com/skillproof/server/internal/realtime"
	"github.com/skillproof/server/internal/registry"
	"golang.org/x/sync/errgroup"
)

// LoadUsers reads the whole users subtree, skills included, as snapshot
// documents keyed by user id.
func (s *Store) LoadUsers(ctx context.Context) (registry.Users, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Preload("Skills").Find(&users).Error; err != nil {
		return nil, err
	}
	snap := make(registry.Users, len(users))
	for _, u := range users {
		snap[u.ID.String()] = userDoc(u)
	}
	return snap, nil
}

// LoadCertificates reads the whole certificates subtree keyed by user id,
// then certificate id.
func (s *Store) LoadCertificates(ctx context.Context) (registry.Certificates, error) {
	var certs []models.Certificate
	if err := s.db.WithContext(ctx).Find(&certs).Error; err != nil {
		return nil, err
	}
	snap := make(registry.Certificates)
	for _, c := range certs {
		uid := c.UserID.String()
		if snap[uid] == nil {
			snap[uid] = make(map[string]registry.CertificateDoc)
		}
		snap[uid][c.CID] = registry.CertificateDoc{
			Skill:      c.SkillName,
			FileURL:    c.FileURL,
			Status:     c.Status,
			UploadedAt: c.UploadedAt,
		}
	}
	return snap, nil
}

// Broadcast reloads both subtrees and pushes them through the hub, along
// with the derived employer-facing profiles view. Handlers call this after
// every successful mutation; a failed reload only costs subscribers one
// notification, so the caller just logs it.
func (s *Store) Broadcast(ctx context.Context) error {
	var (
		users registry.Users
		certs registry.Certificates
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.LoadUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		certs, err = s.LoadCertificates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	publish(realtime.PathUsers, len(users) > 0, users)
	publish(realtime.PathCertificates, len(certs) > 0, certs)
	profiles := registry.ListVerifiedProfiles(users)
	publish(realtime.PathProfiles, len(profiles) > 0, profiles)
	return nil
}

func publish(path string, exists bool, value any) {
	if !exists {
		value = nil
	}
	realtime.Feed.Publish(path, exists, value)
}

func userDoc(u models.User) registry.UserDoc {
	doc := registry.UserDoc{
		Email:      u.Email,
		Name:       u.Name,
		Photo:      u.PhotoURL,
		Verified:   registry.Flag(u.Verified),
		VerifiedAt: u.VerifiedAt,
	}
	if len(u.Skills) > 0 {
		doc.Skills = make(map[string]registry.SkillDoc, len(u.Skills))
		for _, s := range u.Skills {
			doc.Skills[s.SID] = registry.SkillDoc{
				Name:     s.Name,
				Verified: registry.Flag(s.Verified),
			}
		}
	}
	return doc
}
