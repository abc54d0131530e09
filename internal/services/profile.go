package services

import (
	"errors"
	"time"

	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// UpdateProfileRequest carries the editable profile fields. Field names
// follow the client's camelCase payload. About and imageUrl always replace
// the stored values; the link fields only when present.
type UpdateProfileRequest struct {
	About      string  `json:"about"`
	ImageURL   string  `json:"imageUrl"`
	GithubURL  *string `json:"githubUrl"`
	TelegramID *string `json:"telegramId"`
	DiscordID  *string `json:"discordId"`
}

// ProfileView is the merged user+profile view returned by the profile and
// user-data routes.
type ProfileView struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Address   string            `json:"address"`
	Skills    models.StringList `json:"skills"`
	CreatedAt time.Time         `json:"created_at"`
	About     *string           `json:"about"`
	ImageURL  *string           `json:"image_url"`
}

// Get returns the caller's merged user+profile view.
func (s *ProfileService) Get(userID uint) (*ProfileView, error) {
	var view ProfileView
	err := s.db.Model(&models.User{}).
		Select(`users.id, users.name, users.email, users.address, users.skills, users.created_at,
			user_profiles.about, user_profiles.image_url`).
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("users.id = ?", userID).
		Take(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundMsg("User not found")
		}
		return nil, err
	}

	return &view, nil
}

// Update upserts the caller's profile row in a single statement and returns
// the merged view.
func (s *ProfileService) Update(userID uint, req *UpdateProfileRequest) (*ProfileView, error) {
	profile := models.UserProfile{
		UserID:    userID,
		About:     req.About,
		ImageURL:  req.ImageURL,
		UpdatedAt: time.Now(),
	}

	assign := []string{"about", "image_url", "updated_at"}
	if req.GithubURL != nil {
		profile.GithubURL = *req.GithubURL
		assign = append(assign, "github_url")
	}
	if req.TelegramID != nil {
		profile.TelegramID = *req.TelegramID
		assign = append(assign, "telegram_id")
	}
	if req.DiscordID != nil {
		profile.DiscordID = *req.DiscordID
		assign = append(assign, "discord_id")
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(assign),
	}).Create(&profile).Error
	if err != nil {
		return nil, err
	}

	return s.Get(userID)
}
