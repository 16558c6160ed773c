package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers/entities"
	"github.com/plotnest/syndicate/controllers/helpers"
	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/types"
)

type ReserveSharePayload struct {
	Mode            string `json:"mode" validate:"required|in:confirm,invite"`
	InviteeName     string `json:"invitee_name"`
	InviteeEmail    string `json:"invitee_email"`
	InviteePhone    string `json:"invitee_phone"`
	InviteeLocation string `json:"invitee_location"`
}

func shareParams(c *fiber.Ctx) (int64, int, error) {
	assetID, err := strconv.ParseInt(c.Params("asset_id"), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	position, err := strconv.Atoi(c.Params("position"))
	if err != nil {
		return 0, 0, err
	}

	return assetID, position, nil
}

// ReserveShare claims one share for the current user, either outright
// (confirm) or on behalf of an invitee (invite). The book's per-share
// CAS decides races; the loser gets allocation.share.unavailable and
// should pick another share.
func ReserveShare(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	assetID, position, err := shareParams(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"allocation.share.invalid_position"},
		})
	}

	errors := new(helpers.Errors)
	payload := new(ReserveSharePayload)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_body"},
		})
	}

	helpers.Vaildate(payload, errors)
	if payload.Mode == types.ReserveModeInvite {
		helpers.RequireInvitee(payload.InviteeName, payload.InviteeEmail, errors)
	}
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	book, err := AllocationEngine.Book(assetID)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	invitee := allocation.Contact{
		Name:     payload.InviteeName,
		Email:    payload.InviteeEmail,
		Phone:    payload.InviteePhone,
		Location: payload.InviteeLocation,
	}

	view, invitation, err := book.Reserve(position, CurrentUser.UID, payload.Mode, invitee, config.AppPolicy.LeaseTTL)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	share, err := models.FindShare(assetID, position)
	if err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	if err := share.PersistTransition(types.ShareStateAvailable, view.State, view.HolderRef); err != nil {
		config.Logger.Errorf("shares: failed to persist reserve of share %d: %v", share.ID, err.Error())
	}

	if invitation != nil {
		row := models.FromAllocation(invitation, share.ID)
		if err := config.DataBase.Create(row).Error; err != nil {
			config.Logger.Errorf("shares: failed to persist invitation %s: %v", invitation.ID, err.Error())
		}
	}

	return c.Status(201).JSON(entities.ShareEntityFromView(view))
}

// ReleaseShare withdraws a reserved share back to the pool. Only the
// inviting referrer may release it.
func ReleaseShare(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	assetID, position, err := shareParams(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"allocation.share.invalid_position"},
		})
	}

	book, err := AllocationEngine.Book(assetID)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	if invitation, found := bookInvitationAt(book, position); found && invitation.ReferrerUID != CurrentUser.UID {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"authz.invalid_permission"},
		})
	}

	view, invitation, err := book.Release(position)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	persistRelease(assetID, position, invitation)

	return c.Status(200).JSON(entities.ShareEntityFromView(view))
}

func bookInvitationAt(book *allocation.ShareBook, position int) (allocation.Invitation, bool) {
	for _, view := range book.Snapshot() {
		if view.Position != position || len(view.InvitationID) == 0 {
			continue
		}

		return book.InvitationByRef(view.InvitationID)
	}

	return allocation.Invitation{}, false
}

func persistRelease(assetID int64, position int, invitation *allocation.Invitation) {
	share, err := models.FindShare(assetID, position)
	if err != nil {
		config.Logger.Errorf("shares: share %d of asset %d missing during release: %v", position, assetID, err.Error())
		return
	}

	if err := share.PersistTransition(types.ShareStateReserved, types.ShareStateAvailable, ""); err != nil {
		config.Logger.Errorf("shares: failed to persist release of share %d: %v", share.ID, err.Error())
	}

	if invitation == nil {
		return
	}

	row, err := models.FindInvitation(invitation.ID)
	if err != nil {
		return
	}

	if err := row.UpdateStatus(invitation.Status); err != nil {
		config.Logger.Errorf("shares: failed to persist invitation %s status: %v", invitation.ID, err.Error())
	}
}
