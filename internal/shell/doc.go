// Package shell implements the read-evaluate loop of a job-control shell.
//
// The evaluator either dispatches a builtin (quit, jobs, bg, fg) or spawns an
// external command into its own process group and registers it with the job
// registry. Foreground jobs block the loop until they exit, stop, or move to
// the background; background jobs return the prompt immediately. All
// asynchronous state changes arrive via the relay package.
package shell
