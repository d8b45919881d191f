// Package store defines the persistence contracts of the service: the store
// interfaces, their sentinel errors, and the transaction helpers shared by
// every implementation.
package store
