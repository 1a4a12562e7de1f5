// Package file provides the TOML-backed configuration store.
//
// Keys are exposed in dot notation ("webhook.url") and written back as
// nested tables so a user editing config.toml sees sections.
package file
