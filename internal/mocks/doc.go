// Package mocks provides centralized mock implementations for testing.
//
// Each mock mirrors a store or service interface with function fields
// for customizable behavior and an in-memory default implementation, so
// tests across packages share one set of fakes instead of redefining
// them inline.
package mocks
