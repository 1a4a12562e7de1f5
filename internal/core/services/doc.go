// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The SessionController is the centre of the package: it runs one user's
// query lifecycle and coordinates the transport, the response cache and
// the recent-search store.
package services
