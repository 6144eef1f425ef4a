// Package services defines the error envelope shared by everything that can
// fail on behalf of a job: sentinel markers for coarse classification, Wrap
// for attaching stage/operation context, and Details for recovering that
// context at the reporting boundary.
package services
