// Package store defines the persistence interfaces for the source catalog
// and the sentinel errors implementations normalize to. Services depend on
// these interfaces only; the SQL implementation lives in platform/sqlstore,
// so the catalog can back onto postgres or sqlite without callers noticing.
package store
