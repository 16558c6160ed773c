package main

import (
	"fmt"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers"
	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/mq_client"
	"github.com/plotnest/syndicate/routes"
	"github.com/plotnest/syndicate/workers"
	"github.com/plotnest/syndicate/workers/daemons"
)

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := mq_client.Connect(); err != nil {
		fmt.Println(err.Error())
		return
	}

	engine := allocation.NewEngine()
	if err := models.LoadShareBooks(engine); err != nil {
		fmt.Println(err.Error())
		return
	}

	snapshot_cache := &workers.SnapshotCacheWorker{Engine: engine}
	invitation_notifier := &workers.InvitationNotifierWorker{}
	engine.Subscribe(snapshot_cache.Handle)
	engine.Subscribe(invitation_notifier.Handle)

	controllers.AllocationEngine = engine

	// The lease sweep needs the live share books, so it runs inside the
	// API process rather than the daemon.
	go daemons.NewCronJob(engine).Start()

	r := routes.SetupRouter()
	// running
	r.Listen(":3000")
}
