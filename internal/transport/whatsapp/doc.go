// Package whatsapp implements the transport contract on top of whatsmeow.
//
// Each session gets its own SQLite credential store in its session
// directory, so sessions can be paired, logged out and removed
// independently. whatsmeow events are translated into transport events:
// pairing codes, Connected as ready, pairing and login failures as auth
// failures, and connection loss as disconnects. Incoming messages sent by
// the account itself are skipped.
package whatsapp
