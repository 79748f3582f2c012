// Package courier provides the Courier aggregate: a delivery person whose
// availability (Free or Busy) gates the matching engine.
//
// Key business rules:
//   - A courier's id is the user id of the courier account
//   - Availability changes only through Claim (Free→Busy) and Release (Busy→Free)
//   - A Busy courier cannot be claimed again until released
//
// Claim and Release only change the in-memory aggregate; the repository turns
// the change into a compare-and-swap on the stored version so that two claims
// racing for the same courier cannot both commit.
package courier
