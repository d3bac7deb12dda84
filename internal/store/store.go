// Package store is the gorm-backed record store. All writes are point
// writes with merge semantics (untouched columns keep their values), and
// every successful mutation is followed by a Broadcast so subscribers see a
// fresh snapshot of the whole subtree.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skillproof/server/internal/models"
	"github.com/skillproof/server/internal/registry"
	"github.com/skillproof/server/internal/verification"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	db *gorm.DB
}

// Records is the process-wide store, set once from main.
var Records *Store

func Init(db *gorm.DB) {
	Records = New(db)
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func parseUserID(userID string) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return uid, nil
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, name, photoURL string) (models.User, error) {
	user := models.User{
		Email:    email,
		Password: passwordHash,
		Name:     name,
		PhotoURL: photoURL,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return models.User{}, ErrNotFound
	}
	var user models.User
	err = s.db.WithContext(ctx).Preload("Skills").First(&user, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// SaveProfile applies a partial update to the user row. Only the fields
// present in updates change; everything else is preserved.
func (s *Store) SaveProfile(ctx context.Context, userID string, updates map[string]any) error {
	uid, err := parseUserID(userID)
	if err != nil {
		return ErrNotFound
	}
	if len(updates) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AddSkill(ctx context.Context, userID, name string) (models.Skill, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return models.Skill{}, ErrNotFound
	}
	skill := models.Skill{
		UserID: uid,
		SID:    uuid.NewString(),
		Name:   name,
	}
	if err := s.db.WithContext(ctx).Create(&skill).Error; err != nil {
		return models.Skill{}, err
	}
	return skill, nil
}

func (s *Store) CreateCertificate(ctx context.Context, userID, skillName, fileURL string) (models.Certificate, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return models.Certificate{}, ErrNotFound
	}
	cert := models.Certificate{
		UserID:     uid,
		CID:        uuid.NewString(),
		SkillName:  skillName,
		FileURL:    fileURL,
		Status:     registry.StatusPending,
		UploadedAt: time.Now().UnixMilli(),
	}
	if err := s.db.WithContext(ctx).Create(&cert).Error; err != nil {
		return models.Certificate{}, err
	}
	return cert, nil
}

func (s *Store) GetCertificate(ctx context.Context, userID, certID string) (models.Certificate, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return models.Certificate{}, verification.ErrCertificateNotFound
	}
	var cert models.Certificate
	err = s.db.WithContext(ctx).Where("user_id = ? AND cid = ?", uid, certID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Certificate{}, verification.ErrCertificateNotFound
	}
	return cert, err
}

func (s *Store) SetCertificateStatus(ctx context.Context, userID, certID, status string) error {
	uid, err := parseUserID(userID)
	if err != nil {
		return verification.ErrCertificateNotFound
	}
	res := s.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("user_id = ? AND cid = ?", uid, certID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return verification.ErrCertificateNotFound
	}
	return nil
}

// UpsertSkill creates or overwrites the skill row keyed (userID, skillID).
func (s *Store) UpsertSkill(ctx context.Context, userID, skillID, name string, verified bool) error {
	uid, err := parseUserID(userID)
	if err != nil {
		return ErrNotFound
	}
	skill := models.Skill{
		UserID:   uid,
		SID:      skillID,
		Name:     name,
		Verified: verified,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "sid"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "verified", "updated_at"}),
	}).Create(&skill).Error
}

func (s *Store) MarkUserVerified(ctx context.Context, userID string, at int64) error {
	uid, err := parseUserID(userID)
	if err != nil {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).
		Updates(map[string]any{"verified": true, "verified_at": at}).Error
}

// Transact runs fn against a transaction-scoped store, so the three writes
// of one approval commit or roll back together.
func (s *Store) Transact(ctx context.Context, fn func(tx verification.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
