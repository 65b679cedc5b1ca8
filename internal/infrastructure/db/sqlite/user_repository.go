package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// userRecord is the storage shape of a user account. The id is the OAuth
// provider's stable subject, so its size allows for longer identifiers.
type userRecord struct {
	ID                 string `gorm:"primaryKey;size:64"`
	Name               string
	Email              string `gorm:"index"`
	Image              string
	Bio                string
	Role               string
	Department         string
	Theme              string `gorm:"type:varchar(10);not null"`
	EmailNotifications bool   `gorm:"not null"`
	TaskReminders      bool   `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (userRecord) TableName() string { return "users" }

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(&rec), nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var recs []userRecord
	err := r.db.WithContext(ctx).Order("name asc").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]domain.User, len(recs))
	for i := range recs {
		out[i] = *toDomainUser(&recs[i])
	}
	return out, nil
}

// Upsert inserts the user with default preferences or, when the id is
// already present, refreshes only the provider-owned identity columns.
// Profile fields survive repeated sign-ins untouched.
func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	rec := userRecord{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Image:              u.Image,
		Theme:              string(domain.ThemeSystem),
		EmailNotifications: true,
		TaskReminders:      true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return r.FindByID(ctx, u.ID)
}

// UpdateProfile writes exactly the columns present in changes and returns
// the refreshed row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, changes map[string]any) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return nil, fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func toDomainUser(rec *userRecord) *domain.User {
	return &domain.User{
		ID:                 rec.ID,
		Name:               rec.Name,
		Email:              rec.Email,
		Image:              rec.Image,
		Bio:                rec.Bio,
		Role:               rec.Role,
		Department:         rec.Department,
		Theme:              domain.Theme(rec.Theme),
		EmailNotifications: rec.EmailNotifications,
		TaskReminders:      rec.TaskReminders,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}
