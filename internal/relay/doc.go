// Package relay reacts to the asynchronous process events a job-control shell
// cares about: child state changes (SIGCHLD), keyboard interrupt (SIGINT),
// keyboard stop (SIGTSTP), and the clean-kill request (SIGQUIT).
//
// All events funnel through one goroutine, so registry mutation and report
// formatting happen in ordinary code rather than inside a signal handler. The
// evaluator brackets its spawn-then-register sequence with Pause/Resume; a
// child that exits inside that window is only reaped afterwards, once its job
// is registered.
//
// Reports (exact text matters for test-driver compatibility):
//
//	Job [jid] (pid) stopped by signal N
//	Job [jid] (pid) terminated by signal N
//
// Children that exit normally are removed silently. When several children have
// reportable changes at once, the drain loop handles them in whatever order
// wait4 yields; callers must not rely on a relative order.
package relay
