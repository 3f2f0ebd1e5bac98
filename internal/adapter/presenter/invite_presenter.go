package presenter

import (
	"time"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/common"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/invite"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	inviteUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/invite"
)

// ToInviteResponse converts an Invite entity to InviteResponse as seen by viewer.
// A zero viewer omits the direction. A pending invite past its deadline reads as
// cancelled even before the sweep has stored it.
func ToInviteResponse(i *entities.Invite, viewer entities.UserRef) *invite.InviteResponse {
	if i == nil {
		return nil
	}

	response := &invite.InviteResponse{
		ID:          i.ID.String(),
		SenderID:    i.SenderID.String(),
		RecipientID: i.RecipientID.String(),
		Message:     i.Message,
		Status:      string(i.EffectiveStatus(time.Now().UTC())),
		CreatedAt:   i.CreatedAt,
		ExpiresAt:   i.ExpiresAt,
		AcceptedAt:  i.AcceptedAt,
		DeclinedAt:  i.DeclinedAt,
		CancelledAt: i.CancelledAt,
	}
	if !viewer.IsZero() && i.IsParty(viewer) {
		response.Direction = string(i.DirectionFor(viewer))
	}
	return response
}

// ToInviteListResponse converts a page of invites
func ToInviteListResponse(out *inviteUsecase.ListOutput, viewer entities.UserRef) *invite.InviteListResponse {
	items := make([]*invite.InviteResponse, len(out.Items))
	for i, inv := range out.Items {
		items[i] = ToInviteResponse(inv, viewer)
	}
	return &invite.InviteListResponse{
		Invites:    items,
		Pagination: common.NewPagination(out.Total, out.Page, out.PageSize),
	}
}

// ToInviteStatsResponse converts invite counts
func ToInviteStatsResponse(stats *entities.InviteStats) *invite.InviteStatsResponse {
	counts := func(c entities.InviteStatusCounts) invite.StatusCountsResponse {
		return invite.StatusCountsResponse{
			Pending:   c.Pending,
			Accepted:  c.Accepted,
			Declined:  c.Declined,
			Cancelled: c.Cancelled,
		}
	}
	return &invite.InviteStatsResponse{
		Received: counts(stats.Received),
		Sent:     counts(stats.Sent),
	}
}

// ToEligibilityResponse converts an eligibility answer
func ToEligibilityResponse(e *inviteUsecase.Eligibility) *invite.EligibilityResponse {
	response := &invite.EligibilityResponse{
		CanSendInvite: e.CanSendInvite,
		Reason:        e.Reason,
		Direction:     string(e.Direction),
	}
	if e.ExistingInviteID != nil {
		id := e.ExistingInviteID.String()
		response.ExistingInviteID = &id
	}
	return response
}
