package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers/entities"
	"github.com/plotnest/syndicate/controllers/helpers"
	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/types"
)

func invitationParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func GetInvitation(c *fiber.Ctx) error {
	id, err := invitationParam(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"allocation.invitation.invalid_id"},
		})
	}

	invitation, err := models.FindInvitation(id)
	if err != nil {
		return c.Status(404).JSON(helpers.Errors{
			Errors: []string{"allocation.invitation.not_found"},
		})
	}

	return c.Status(200).JSON(entities.InvitationEntityFromModel(invitation))
}

// AcceptInvitation settles a pending invitation through the link the
// invitee received. No session is required; the unguessable invitation
// id is the credential.
func AcceptInvitation(c *fiber.Ctx) error {
	id, err := invitationParam(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"allocation.invitation.invalid_id"},
		})
	}

	book, _, err := AllocationEngine.FindInvitation(id)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	view, invitation, err := book.Accept(id, time.Now())
	if invitation != nil {
		persistInvitationOutcome(book.AssetID, view, invitation)
	}
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	return c.Status(200).JSON(entities.ShareEntityFromView(view))
}

// CancelInvitation withdraws a pending invitation. Only the referrer
// who issued it may cancel.
func CancelInvitation(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	id, err := invitationParam(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"allocation.invitation.invalid_id"},
		})
	}

	book, tracked, err := AllocationEngine.FindInvitation(id)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	if tracked.ReferrerUID != CurrentUser.UID {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"authz.invalid_permission"},
		})
	}

	view, invitation, err := book.Cancel(id)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	persistInvitationOutcome(book.AssetID, view, invitation)

	return c.Status(200).JSON(entities.ShareEntityFromView(view))
}

// persistInvitationOutcome writes an accept/cancel/expire transition
// through to the share and invitation rows. The book already holds the
// authoritative state, so a write failure is logged, not surfaced.
func persistInvitationOutcome(assetID int64, view allocation.ShareView, invitation *allocation.Invitation) {
	share, err := models.FindShare(assetID, view.Position)
	if err != nil {
		config.Logger.Errorf("invitations: share %d of asset %d missing: %v", view.Position, assetID, err.Error())
		return
	}

	if err := share.PersistTransition(types.ShareStateReserved, view.State, view.HolderRef); err != nil {
		config.Logger.Errorf("invitations: failed to persist share %d transition: %v", share.ID, err.Error())
	}

	row, err := models.FindInvitation(invitation.ID)
	if err != nil {
		config.Logger.Errorf("invitations: row for invitation %s missing: %v", invitation.ID, err.Error())
		return
	}

	if err := row.UpdateStatus(invitation.Status); err != nil {
		config.Logger.Errorf("invitations: failed to persist invitation %s status: %v", invitation.ID, err.Error())
	}
}
