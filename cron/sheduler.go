package cron

import (
	"github.com/robfig/cron/v3"
	zlog "github.com/rs/zerolog/log"

	"pim.GO/config"
)

func StartCron() *cron.Cron {
	c := cron.New()
	addJobs := func(jobMap map[string]config.CronJob) {
		for name, cronJob := range jobMap {
			jobFunc := cronJob.Job
			_, err := c.AddFunc(cronJob.Schedule, func() { jobFunc() })
			if err != nil {
				zlog.Fatal().Err(err).Str("job", name).Msg("failed to register cron job")
			}
		}
	}
	addJobs(config.CronJobs)
	for name, j := range Jobs() {
		run := j.Run
		sched := j.Schedule
		_, err := c.AddFunc(sched, func() { run() })
		if err != nil {
			zlog.Fatal().Err(err).Str("job", name).Msg("failed to register cron job")
		}
	}
	c.Start()
	return c
}
