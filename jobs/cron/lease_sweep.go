package cron

import (
	"time"

	"github.com/jasonlvhit/gocron"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/types"
)

// LeaseSweepJob releases reserved shares whose invitation lease has
// lapsed. The engine's per-share CAS arbitrates against concurrent
// accepts; this job only persists whatever the engine released. It
// never raises to a caller, it logs and mutates state.
type LeaseSweepJob struct {
	Engine *allocation.Engine
}

func NewLeaseSweepJob(engine *allocation.Engine) *LeaseSweepJob {
	return &LeaseSweepJob{Engine: engine}
}

func (j *LeaseSweepJob) Process() {
	minutes := uint64(config.AppPolicy.SweepInterval / time.Minute)
	if minutes == 0 {
		minutes = 1
	}

	s := gocron.NewScheduler()
	s.Every(minutes).Minutes().Do(j.sweep)
	<-s.Start()
}

func (j *LeaseSweepJob) sweep() {
	released := j.Engine.SweepExpired(time.Now())
	if len(released) == 0 {
		return
	}

	count := 0
	for assetID, invitations := range released {
		for i := range invitations {
			invitation := invitations[i]
			count++

			share, err := models.FindShare(assetID, invitation.SharePos)
			if err != nil {
				config.Logger.Errorf("lease_sweep: share %d of asset %d not found: %v", invitation.SharePos, assetID, err.Error())
				continue
			}

			if err := share.PersistTransition(types.ShareStateReserved, types.ShareStateAvailable, ""); err != nil {
				config.Logger.Errorf("lease_sweep: failed to persist release of share %d: %v", share.ID, err.Error())
			}

			row, err := models.FindInvitation(invitation.ID)
			if err == nil {
				if err := row.UpdateStatus(types.InvitationExpired); err != nil {
					config.Logger.Errorf("lease_sweep: failed to expire invitation %s: %v", invitation.ID, err.Error())
				}
			}

			config.Logger.Infof("lease_sweep: released share %d of asset %d, invitation %s expired", invitation.SharePos, assetID, invitation.ID)
		}
	}

	config.InfluxDB.NewPoint(
		"lease_sweeps",
		map[string]string{},
		map[string]interface{}{"released": count},
	)
}
