// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SearchTransport: Sends queries to the search webhook
//   - KeyValueStore: Named-slot persistence for recent searches
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - KeyWatcher: Change notification for a KeyValueStore. Without it, other
//     processes' recent searches appear after the next local search.
//   - IdentityProvider, TokenStore: Sign-in gate. Only used when auth is enabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
