// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the ordering system. It
// implements complex business workflows that don't naturally belong to
// a single aggregate root.
//
// The package includes:
//   - OrderBuilder: turns raw submission requests into validated Order
//     aggregates, applying the deployment configuration
//   - OrderDispatcher: decides how an approved order enters production
//     and resolves massive batches from the catalogue
//   - AggregateOrderStatus: the pure status roll-up from batches to
//     their parent order
//
// Domain services coordinate between aggregates, implementing business
// logic that spans multiple bounded contexts following Domain-Driven
// Design principles.
package services
