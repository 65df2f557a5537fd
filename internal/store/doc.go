// Package store persists gateway session records.
//
// MongoStore keeps one document per session in the "sessions" collection
// with the session ID as _id. Updates are targeted $set/$unset merges with
// upsert, so lifecycle writes never read first and never lose fields written
// by another event. MemoryStore has the same semantics for tests and for
// running without MongoDB.
package store
