package daemons

import (
	"time"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/jobs"
	"github.com/plotnest/syndicate/jobs/cron"
)

type Worker interface {
	Start()
	Stop()
}

type CronJob struct {
	Running bool
	Jobs    []jobs.Job
}

func NewCronJob(engine *allocation.Engine) *CronJob {
	jobs := []jobs.Job{cron.NewLeaseSweepJob(engine)}

	return &CronJob{Running: true, Jobs: jobs}
}

func (c *CronJob) Stop() {
	c.Running = false
}

func (c *CronJob) Start() {
	for _, job := range c.Jobs {
		go c.Process(job)
	}

	for {
		time.Sleep(1 * time.Second)
	}
}

func (c *CronJob) Process(job jobs.Job) {
	for {
		if !c.Running {
			break
		}

		job.Process()
	}
}
