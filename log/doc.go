// Package log provides the leveled logging interface used across tripgraph.
//
// It ships two implementations: DefaultLogger on top of the standard
// library, and GologLogger wrapping github.com/kataras/golog for users who
// already run golog. A package-level default logger lets workflow and node
// code log without threading logger instances around:
//
//	log.SetLogLevel(log.LogLevelDebug)
//	log.Info("planner ready")
//
// Custom sinks implement the four-method Logger interface.
package log
