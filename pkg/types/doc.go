// Package types defines the Catalog and Store interfaces, the Movie,
// Session and Ticket entities, their typed filters, the store
// configuration, and the standard error types for the Boxoffice record
// store.
//
// Callers attach a backend with a Config, obtain a Store per entity, and
// match failures with errors.Is against the sentinels in this package or
// errors.As against the detail-carrying error structs.
package types
