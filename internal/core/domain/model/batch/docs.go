// Package batch provides the production side of the ordering domain:
// the Batch aggregate and its OrderItem entities.
//
// An order describes what the user asked for; a batch describes what
// the system is actually producing. Product orders get a single batch,
// massive orders a numbered sequence of batches, and subscription
// orders one batch per timeslot and collection. Batch status is a pure
// function of item statuses (the tally rule) and propagates upwards to
// the order.
package batch
