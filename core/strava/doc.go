// Package strava is the remote source-of-truth boundary.
//
// It exposes exactly the two calls the sync needs: the authenticated athlete
// (numeric identity plus bike summaries) and the paged activity listing before
// a timestamp. Failure of either call is fatal to the run; there is no retry
// or backoff here.
//
// OAuth token acquisition and refresh are out of scope: the access token is
// supplied through configuration.
package strava
