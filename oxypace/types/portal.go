package types

type CreatePortalRequest struct {
	Slug        string `json:"slug" validate:"required,min=2,max=40,slug"`
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=500"`
}
