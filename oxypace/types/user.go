package types

import "oxypace/oxypace/sources/psql/models"

// UpdateProfileRequest uses pointers so omitted fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=50"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}

type VerifyUserRequest struct {
	Verified bool `json:"verified"`
}

// Profile is the public view of a user.
type Profile struct {
	*models.User
	PostCount int64 `json:"post_count"`
}
