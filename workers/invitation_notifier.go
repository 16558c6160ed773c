package workers

import (
	"encoding/json"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/types"
)

// InvitationNotifierWorker forwards invitation state changes to the
// contact collaborator over NATS. Fire-and-forget: a lost notification
// never affects allocation correctness.
type InvitationNotifierWorker struct {
}

func (w *InvitationNotifierWorker) Handle(event allocation.Event) {
	if event.Invitation == nil {
		return
	}

	payload, err := json.Marshal(types.InvitationEventPayload{
		InvitationID: event.Invitation.ID.String(),
		AssetID:      event.AssetID,
		SharePos:     event.Invitation.SharePos,
		Status:       event.Invitation.Status,
		InviteeName:  event.Invitation.Invitee.Name,
		InviteeEmail: event.Invitation.Invitee.Email,
		InviteePhone: event.Invitation.Invitee.Phone,
	})
	if err != nil {
		return
	}

	if err := config.Nats.Publish("invitations."+event.Invitation.Status, payload); err != nil {
		config.Logger.Errorf("invitation_notifier: publish failed: %v", err.Error())
	}
}
