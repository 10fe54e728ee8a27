// Package subscription owns the podcast subscription collection: alias
// lookup, lock rules, staleness-triggered cache refresh and the add, remove,
// edit, update and lock mutations.
//
// Every operation takes a Collection by value together with an index and
// returns the updated Collection. Callers locate the index once with Find and
// never hold references into the slice across operations. Mutations persist
// the whole Collection through a Persister exactly once on success and never
// on failure.
package subscription
