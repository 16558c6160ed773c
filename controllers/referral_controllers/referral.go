package referral_controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers/entities"
	"github.com/plotnest/syndicate/controllers/helpers"
	"github.com/plotnest/syndicate/controllers/queries"
	"github.com/plotnest/syndicate/models"
)

// GetCommissions lists the referral commissions earned by the current
// member, newest first.
func GetCommissions(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	errors := new(helpers.Errors)
	params := new(queries.CommissionQueries)

	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if params.Limit == 0 {
		params.Limit = 100
	}

	if params.Page == 0 {
		params.Page = 1
	}

	var commissions []*models.CommissionLedgerEntry

	config.DataBase.Order("id desc").Offset(params.Page*params.Limit-params.Limit).Limit(params.Limit).Find(&commissions, "beneficiary_uid = ?", CurrentUser.UID)

	commission_entities := make([]*entities.CommissionEntity, 0)
	for _, commission := range commissions {
		commission_entities = append(commission_entities, entities.CommissionEntityFromModel(commission))
	}

	c.Response().Header.Add("page", strconv.FormatInt(int64(params.Page), 10))
	c.Response().Header.Add("per-page", strconv.FormatInt(int64(len(commissions)), 10))

	return c.Status(200).JSON(commission_entities)
}
