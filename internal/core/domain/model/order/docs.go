// Package order provides domain entities and business logic for order
// management in the product ordering system. It implements the Order
// aggregate root with lifecycle management and state transitions.
//
// The package includes:
//   - Order: the aggregate root holding the user's request and the
//     aggregated lifecycle status
//   - ItemSpecification: the immutable description of one ordered item
//   - Status: the lifecycle vocabulary shared by orders, batches and items
//   - Type, Priority, StatusNotification, Presentation: protocol enums
//   - DeliveryOption, SelectedOption, Address: value objects attached to
//     orders and items
//
// Key business rules:
//   - Every order starts Submitted and waits for moderation
//   - statusChangedOn moves only on real status transitions
//   - completedOn is set exactly when a terminal status is reached
//   - Item specifications never change after submission; production
//     happens in the batch aggregate
//
// The package follows Domain-Driven Design principles, providing rich
// domain behavior, encapsulation, and validation to ensure business
// rules are enforced.
package order
