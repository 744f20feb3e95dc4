package config

import (
	"pim.GO/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	"warmresolver": {Schedule: "@hourly", Job: jobs.WarmResolverJob},
	// Add more jobs here
}
