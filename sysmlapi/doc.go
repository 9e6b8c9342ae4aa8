// Package sysmlapi fetches model snapshots from a SysML v2 API service.
//
// Every listing returns a Result that separates "the service had nothing"
// from "the request failed". Upstream failures are logged and reported in
// the Result; they never panic and never abort other listings.
package sysmlapi
