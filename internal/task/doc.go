// Package task holds the in-memory task collection and its operations.
//
// A List is loaded once per invocation, mutated by a single command, and
// handed back to a store to be written out in full. Tasks are kept sorted by
// due date and then priority; tasks without a due date sort after every
// dated task.
//
// # Identity
//
// Ids are integers assigned as the largest existing id plus one, so the
// first task in an empty list gets id 1.
//
// # Dates
//
// Due dates are calendar dates without a time component (see Date). User
// input uses MM/DD/YYYY; the stored form is YYYY-MM-DD.
package task
