package entities

import (
	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/types"
)

type ShareEntity struct {
	Position       int              `json:"position"`
	State          types.ShareState `json:"state"`
	HolderRef      string           `json:"holder_ref,omitempty"`
	PriceAllocated decimal.Decimal  `json:"price_allocated"`
	InvitationID   string           `json:"invitation_id,omitempty"`
}

type SnapshotEntity struct {
	AssetID     int64         `json:"asset_id"`
	TotalShares int           `json:"total_shares"`
	SlotsFilled int           `json:"slots_filled"`
	Shares      []ShareEntity `json:"shares"`
}

func ShareEntityFromView(view allocation.ShareView) ShareEntity {
	return ShareEntity{
		Position:       view.Position,
		State:          view.State,
		HolderRef:      view.HolderRef,
		PriceAllocated: view.PriceAllocated,
		InvitationID:   view.InvitationID,
	}
}

func SnapshotEntityFromBook(book *allocation.ShareBook) *SnapshotEntity {
	views := book.Snapshot()

	entity := &SnapshotEntity{
		AssetID:     book.AssetID,
		TotalShares: book.TotalShares,
		Shares:      make([]ShareEntity, 0, len(views)),
	}

	for _, view := range views {
		if view.State != types.ShareStateAvailable {
			entity.SlotsFilled++
		}
		entity.Shares = append(entity.Shares, ShareEntityFromView(view))
	}

	return entity
}
