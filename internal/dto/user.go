package dto

import (
	"time"

	"github.com/tumbluv/tumbluv-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              uint64    `json:"id"`
	Fullname        string    `json:"fullname"`
	Email           string    `json:"email"`
	ProfileImage    *string   `json:"profile_image"`
	UserDescription *string   `json:"user_description"`
	CreatedAt       time.Time `json:"created_at"`
}

// KakaoProfileDTO is the profile block of a Kakao signin response
type KakaoProfileDTO struct {
	ProfileImage *string `json:"profile_image"`
	Name         string  `json:"name"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Fullname:        user.Fullname,
		Email:           user.Email,
		ProfileImage:    user.ProfileImage,
		UserDescription: user.UserDescription,
		CreatedAt:       user.CreatedAt,
	}
}

// ToKakaoProfileDTO converts a User model to the Kakao signin profile block
func ToKakaoProfileDTO(user models.User) KakaoProfileDTO {
	return KakaoProfileDTO{
		ProfileImage: user.ProfileImage,
		Name:         user.Fullname,
	}
}
