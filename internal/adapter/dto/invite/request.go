package invite

// CreateInviteRequest represents the request to send an invite
type CreateInviteRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Message     string `json:"message" validate:"required,notblank"`
}

// ListInvitesRequest represents query parameters for listing invites
type ListInvitesRequest struct {
	Status   *string `query:"status" validate:"omitempty,oneof=pending accepted declined cancelled"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"page_size" validate:"omitempty,min=1,max=100"`
}
