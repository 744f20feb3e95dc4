package cron

import (
	"sync"

	"pim.GO/core/registry"
)

// Job is one scheduled task: a cron expression plus the function it runs.
type Job struct {
	Schedule string
	Run      func(...string)
}

var mu sync.Mutex

func registered() map[string]Job {
	v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron)
	if !ok || v == nil {
		return make(map[string]Job)
	}
	return v.(map[string]Job)
}

// Register queues a named job for the scheduler. Call from init() in
// extension packages; panics on a duplicate name or once the job set has been
// locked by the first Jobs() listing.
func Register(name, schedule string, run func(...string)) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron: job set locked, register during init before StartCron")
	}
	jobs := registered()
	if _, dup := jobs[name]; dup {
		panic("cron: job " + name + " already registered")
	}
	jobs[name] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job and clears the lock (for tests).
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := registered()
	delete(jobs, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Jobs returns a copy of the registered jobs for merging with
// config.CronJobs, locking the set on first call.
func Jobs() map[string]Job {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Job)
	for k, v := range registered() {
		out[k] = v
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}
