package types

type ContactRequest struct {
	Subject string `json:"subject" validate:"required,oneof=general bug feature account abuse other"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

type ContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unread read archived"`
}
