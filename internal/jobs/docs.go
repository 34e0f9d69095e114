// Package jobs provides scheduled background tasks for the shipping service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// together with the in-process timer scheduler behind customs submission
// retries.
//
// # Available Jobs
//
// 1. CustomsSweepJob - Runs every minute to re-dispatch pending customs
// submissions whose next attempt time has passed
//
// # Scheduling
//
// Primary retry scheduling happens through TimerScheduler: one timer per
// order, replaced on every reschedule. Timers are process-local and lost on
// restart; the sweep job recovers from the persisted next-attempt times, so
// no submission is lost even when the process dies between retries.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(submitCustomsHandler, orderRepository, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The sweep job ignores expected business errors caused by racing a timer
// for the same order (submission no longer pending, submission voided); all
// other failures are logged and left to the persisted retry schedule.
package jobs
