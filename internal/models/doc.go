// Package models defines the persisted records of the Poke House service.
//
// The ordering rules themselves live in the catalog, bowl and order
// packages; the types here are the plain data those packages produce once
// an order has been admitted and priced:
//   - Order: a placed order with its totals
//   - BowlLine: one configured bowl on an order
//
// Customers are identified by an opaque id string. There are no user
// accounts, so nothing here references a user table.
package models
