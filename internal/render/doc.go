// Package render turns assembled HTML into PDF bytes with a headless
// Chrome driven by go-rod.
//
// The Executor tries an ordered chain of launch strategies (tiers):
//
//	standard    generic launch with sandbox-relaxing flags
//	restricted  bundled engine, single-process low-memory flags
//	minimal     standard launch with non-essential subsystems disabled
//	system      first engine found on a fixed list of host paths
//
// Tiers run strictly one after another, each bounded by its own timeout,
// and each tears down its engine process before the next starts. When all
// tiers fail the caller receives a single *ExhaustedError carrying every
// tier failure and the host environment.
package render
