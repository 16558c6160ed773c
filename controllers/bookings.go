package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plotnest/syndicate/booking"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers/entities"
	"github.com/plotnest/syndicate/controllers/helpers"
	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/mq_client"
	"github.com/plotnest/syndicate/payment"
	"github.com/plotnest/syndicate/types"
)

var (
	errBookingNotFound = errors.New("controllers: booking not found")
	errBookingNotOwned = errors.New("controllers: booking belongs to another member")
)

type CreateBookingPayload struct {
	AssetID int64  `json:"asset_id" validate:"required"`
	Variant string `json:"variant" validate:"required|in:standard,full_payment"`
}

type PayStagePayload struct {
	Stage      string          `json:"stage" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	CouponCode string          `json:"coupon_code"`
}

func bookingParam(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errBookingNotFound):
		return c.Status(404).JSON(helpers.Errors{
			Errors: []string{"booking.not_found"},
		})
	case errors.Is(err, errBookingNotOwned):
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"authz.invalid_permission"},
		})
	default:
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.internal_error"},
		})
	}
}

// loadBookingForUser resolves a booking owned by the given member along
// with its asset and reconstructed payment plan.
func loadBookingForUser(uid string, id uint64) (*models.Booking, *models.Asset, *payment.Plan, error) {
	row, err := models.FindBooking(id)
	if err != nil {
		return nil, nil, nil, errBookingNotFound
	}

	if row.BuyerUID != uid {
		return nil, nil, nil, errBookingNotOwned
	}

	asset, err := models.FindAsset(row.AssetID)
	if err != nil {
		return nil, nil, nil, err
	}

	plan, err := models.LoadPlan(config.DataBase, row, asset.TotalPrice)
	if err != nil {
		return nil, nil, nil, err
	}

	return row, asset, plan, nil
}

// CreateBooking opens a booking for an asset and materializes its
// payment schedule from the policy table.
func CreateBooking(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	errs := new(helpers.Errors)
	payload := new(CreateBookingPayload)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_body"},
		})
	}

	helpers.Vaildate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	if _, err := AllocationEngine.Book(payload.AssetID); err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	asset, err := models.FindAsset(payload.AssetID)
	if err != nil {
		return c.Status(404).JSON(helpers.Errors{
			Errors: []string{"allocation.asset.not_found"},
		})
	}

	var plan *payment.Plan
	switch payload.Variant {
	case types.PlanFullPayment:
		plan = payment.NewFullPaymentPlan(asset.TotalPrice, config.AppPolicy)
	default:
		plan = payment.NewStandardPlan(asset.TotalPrice, config.AppPolicy)
	}

	row := &models.Booking{
		AssetID:  asset.ID,
		BuyerUID: CurrentUser.UID,
		Variant:  payload.Variant,
		State:    types.BookingAllocating,
	}

	err = config.DataBase.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}

		return models.CreatePlanStages(tx, row.ID, plan)
	})
	if err != nil {
		config.Logger.Errorf("bookings: failed to create booking for asset %d: %v", asset.ID, err.Error())
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.internal_error"},
		})
	}

	return c.Status(201).JSON(entities.BookingEntityFromModel(row, plan))
}

func GetBooking(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	id, err := bookingParam(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"booking.invalid_id"},
		})
	}

	row, _, plan, err := loadBookingForUser(CurrentUser.UID, id)
	if err != nil {
		return bookingError(c, err)
	}

	entity := entities.BookingEntityFromModel(row, plan)
	if book, err := AllocationEngine.Book(row.AssetID); err == nil {
		entity.Snapshot = entities.SnapshotEntityFromBook(book)
	}

	return c.Status(200).JSON(entity)
}

// AdvanceToPayment closes the allocation phase of a booking. It
// succeeds only once every share of the asset is reserved or confirmed.
func AdvanceToPayment(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	id, err := bookingParam(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"booking.invalid_id"},
		})
	}

	row, _, plan, err := loadBookingForUser(CurrentUser.UID, id)
	if err != nil {
		return bookingError(c, err)
	}

	coordinator := booking.NewCoordinator(row.ID, row.AssetID, row.BuyerUID, row.State, plan, AllocationEngine, mq_client.SettlementQueue{})

	if err := coordinator.AdvanceToPayment(); err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	row.State = coordinator.State
	if err := config.DataBase.Model(row).Update("state", row.State).Error; err != nil {
		config.Logger.Errorf("bookings: failed to persist state of booking %d: %v", row.ID, err.Error())
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.internal_error"},
		})
	}

	return c.Status(200).JSON(entities.BookingEntityFromModel(row, plan))
}

// PayStage records a payment against one stage, applying an optional
// coupon first, and hands the paid amount to commission settlement.
func PayStage(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	id, err := bookingParam(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"booking.invalid_id"},
		})
	}

	errs := new(helpers.Errors)
	payload := new(PayStagePayload)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_body"},
		})
	}

	helpers.Vaildate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	row, asset, _, err := loadBookingForUser(CurrentUser.UID, id)
	if err != nil {
		return bookingError(c, err)
	}

	var coupon *payment.Coupon
	if len(payload.CouponCode) > 0 {
		record, err := models.FindCoupon(payload.CouponCode)
		if err != nil {
			return c.Status(400).JSON(helpers.Errors{
				Errors: []string{"payment.coupon.invalid"},
			})
		}

		forPayment := record.ForPayment()
		coupon = &forPayment
	}

	// The row lock comes first and the plan is rebuilt under it, so
	// concurrent payments against one booking serialize: the second
	// request sees the first one's paid amounts, and a replay of the
	// same payment recomputes the same settlement transaction id.
	var coordinator *booking.Coordinator
	var plan *payment.Plan
	var settlement types.PaymentPaidPayload

	err = config.DataBase.Transaction(func(tx *gorm.DB) error {
		var locked models.Booking
		if err := models.Lock(tx).First(&locked, "id = ?", row.ID).Error; err != nil {
			return err
		}

		p, err := models.LoadPlan(tx, &locked, asset.TotalPrice)
		if err != nil {
			return err
		}

		coordinator = booking.NewCoordinator(locked.ID, locked.AssetID, locked.BuyerUID, locked.State, p, AllocationEngine, mq_client.SettlementQueue{})

		settlement, err = coordinator.Pay(payload.Stage, payload.Amount, coupon, time.Now())
		if err != nil {
			return err
		}

		if err := models.SavePlan(tx, locked.ID, p); err != nil {
			return err
		}

		updates := map[string]interface{}{"state": coordinator.State}
		if len(p.CouponCode) > 0 {
			updates["coupon_code"] = p.CouponCode
		}
		if err := tx.Model(&locked).Updates(updates).Error; err != nil {
			return err
		}

		plan = p

		return nil
	})
	if err != nil {
		status, code := helpers.ErrorCode(err)
		if status == 500 {
			config.Logger.Errorf("bookings: failed to persist payment on booking %d: %v", row.ID, err.Error())
		}
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	// Enqueued only after the commit: a crash in between replays the
	// request, never the settlement, and the settler's transaction-id
	// dedupe absorbs the retry.
	if err := coordinator.EnqueueSettlement(settlement); err != nil {
		config.Logger.Errorf("bookings: failed to enqueue settlement %s: %v", settlement.TransactionID, err.Error())
	}

	row.State = coordinator.State

	entity := entities.BookingEntityFromModel(row, plan)
	if len(plan.CouponCode) > 0 {
		entity.CouponCode = plan.CouponCode
	}

	return c.Status(200).JSON(fiber.Map{
		"transaction_id": settlement.TransactionID,
		"booking":        entity,
	})
}

// GetBookingCommissions lists the settled commission ledger of one
// booking.
func GetBookingCommissions(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	id, err := bookingParam(c)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"booking.invalid_id"},
		})
	}

	if _, _, _, err := loadBookingForUser(CurrentUser.UID, id); err != nil {
		return bookingError(c, err)
	}

	var rows []*models.CommissionLedgerEntry
	config.DataBase.Order("id asc").Find(&rows, "booking_id = ?", id)

	commission_entities := make([]*entities.CommissionEntity, 0)
	for _, row := range rows {
		commission_entities = append(commission_entities, entities.CommissionEntityFromModel(row))
	}

	return c.Status(200).JSON(commission_entities)
}
