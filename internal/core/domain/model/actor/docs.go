// Package actor describes who is acting on the fulfillment core: an authenticated
// user id together with a closed Role enum. Every lifecycle entry point receives an
// Actor and hands it to the order transition table for capability checks.
package actor
