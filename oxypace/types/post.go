package types

import "strings"

type CreatePostRequest struct {
	Content   string `json:"content" validate:"required_without=MediaURL,max=5000"`
	MediaURL  string `json:"media_url" validate:"omitempty,url,max=1024"`
	MediaType string `json:"media_type" validate:"omitempty,oneof=image gif youtube"`
	Portal    string `json:"portal" validate:"omitempty,max=40,slug"`
}

type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (r *CreatePostRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
	r.MediaURL = strings.TrimSpace(r.MediaURL)
}

func (r *UpdatePostRequest) Normalize() { r.Content = strings.TrimSpace(r.Content) }

func (r *CreateCommentRequest) Normalize() { r.Content = strings.TrimSpace(r.Content) }
