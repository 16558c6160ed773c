package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers/entities"
	"github.com/plotnest/syndicate/models"
)

func GetMe(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	return c.Status(200).JSON(entities.MemberEntityFromModel(CurrentUser))
}

// GetMyInvitations lists every invitation the current member has issued,
// terminal ones included.
func GetMyInvitations(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	var rows []*models.Invitation
	config.DataBase.Order("created_at desc").Find(&rows, "referrer_uid = ?", CurrentUser.UID)

	invitation_entities := make([]*entities.InvitationEntity, 0)
	for _, row := range rows {
		invitation_entities = append(invitation_entities, entities.InvitationEntityFromModel(row))
	}

	return c.Status(200).JSON(invitation_entities)
}
