// Package users provides database operations for accounts and learning
// preferences.
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ozcano/wordpost/internal/entities"
)

var ErrNotFound = errors.New("user not found")

// Repository handles all user and preference database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithPreference creates a user together with their preference row in a
// single transaction. Every user owns exactly one preference record.
func (r *Repository) CreateWithPreference(user *entities.User, pref *entities.Preference) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		pref.UserID = user.ID
		return tx.Create(pref).Error
	})
}

// GetByID retrieves a user with their preference and its languages resolved.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.
		Preload("Preference.SourceLanguage").
		Preload("Preference.TargetLanguage").
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateName changes the user's display name.
func (r *Repository) UpdateName(userID uint, name string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Update("name", name).Error
}

// PreferenceUpdate carries the mutable preference fields for profile updates.
type PreferenceUpdate struct {
	SourceLanguageID  uint
	TargetLanguageID  uint
	Difficulty        entities.DifficultyLevel
	WordsPerDay       int
	IsEmailSubscribed bool
}

// UpdatePreference replaces the user's learning settings.
func (r *Repository) UpdatePreference(userID uint, update PreferenceUpdate) error {
	return r.db.Model(&entities.Preference{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"source_language_id":  update.SourceLanguageID,
			"target_language_id":  update.TargetLanguageID,
			"difficulty":          update.Difficulty,
			"words_per_day":       update.WordsPerDay,
			"is_email_subscribed": update.IsEmailSubscribed,
		}).Error
}

// SetEmailSubscription toggles the daily-digest subscription flag.
func (r *Repository) SetEmailSubscription(userID uint, subscribed bool) error {
	result := r.db.Model(&entities.Preference{}).
		Where("user_id = ?", userID).
		Update("is_email_subscribed", subscribed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEmailSubscriptionByEmail toggles the subscription flag for the user owning
// the given address. Used by the one-click unsubscribe link in digests.
func (r *Repository) SetEmailSubscriptionByEmail(email string, subscribed bool) error {
	user, err := r.GetByEmail(email)
	if err != nil {
		return err
	}
	return r.SetEmailSubscription(user.ID, subscribed)
}

// IsEmailSubscribed reports the user's current subscription state.
func (r *Repository) IsEmailSubscribed(userID uint) (bool, error) {
	var pref entities.Preference
	err := r.db.Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return pref.IsEmailSubscribed, nil
}

// FindActiveSubscribed returns all active users with an email subscription,
// preferences preloaded. This is the population swept by daily generation.
func (r *Repository) FindActiveSubscribed() ([]entities.User, error) {
	var users []entities.User
	err := r.db.
		Joins("JOIN user_preferences ON user_preferences.user_id = users.id").
		Where("users.is_active = ?", true).
		Where("user_preferences.is_email_subscribed = ?", true).
		Preload("Preference.SourceLanguage").
		Preload("Preference.TargetLanguage").
		Find(&users).Error
	return users, err
}
