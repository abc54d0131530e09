package services

import (
	"errors"
	"strings"
	"time"

	"github.com/collabspace/backend/internal/config"
	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/internal/utils"
	"github.com/collabspace/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Name    string   `json:"name" binding:"required"`
	Email   string   `json:"email" binding:"required,email"`
	Address string   `json:"address" binding:"required"`
	Skills  []string `json:"skills"`
}

type LoginRequest struct {
	Address string `json:"address" binding:"required"`
}

// UserAccount is the merged user+profile view returned to the account owner.
type UserAccount struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Address    string            `json:"address"`
	Skills     models.StringList `json:"skills"`
	CreatedAt  time.Time         `json:"created_at"`
	Bio        *string           `json:"bio"`
	ImageURL   *string           `json:"image_url"`
	GithubURL  *string           `json:"github_url"`
	TelegramID *string           `json:"telegram_id"`
	DiscordID  *string           `json:"discord_id"`
}

// Register creates a user and issues a short-lived session token. A user
// with the same email or address already present is rejected without
// touching storage.
func (s *AuthService) Register(req *RegisterRequest) (string, error) {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? OR address = ?", req.Email, req.Address).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", response.BadRequestMsg("User already exists")
	}

	user := models.User{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Skills:  models.StringList(req.Skills),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", response.BadRequestMsg("User already exists")
		}
		return "", err
	}

	return utils.GenerateToken(user.ID, user.Address, s.jwtConfig.RegisterExpireHour)
}

// Login matches the wallet address case-insensitively and issues a session
// token with the longer login expiry.
func (s *AuthService) Login(req *LoginRequest) (string, error) {
	var user models.User
	err := s.db.Where("LOWER(address) = ?", strings.ToLower(req.Address)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.BadRequestMsg("Invalid Address / Not Registered")
		}
		return "", err
	}

	return utils.GenerateToken(user.ID, user.Address, s.jwtConfig.LoginExpireHour)
}

// CurrentUser returns the caller's user row joined with profile fields.
// A missing profile row yields null optional fields, not an error.
func (s *AuthService) CurrentUser(userID uint) (*UserAccount, error) {
	var account UserAccount
	err := s.db.Model(&models.User{}).
		Select(`users.id, users.name, users.email, users.address, users.skills, users.created_at,
			user_profiles.about AS bio, user_profiles.image_url,
			user_profiles.github_url, user_profiles.telegram_id, user_profiles.discord_id`).
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("users.id = ?", userID).
		Take(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundMsg("User not found")
		}
		return nil, err
	}

	return &account, nil
}
