// Package transport defines the contract between the session manager and a
// messaging provider: a Client per session, a ClientFactory that binds a
// client to its credential directory, and the events a client reports.
//
// The WhatsApp implementation lives in transport/whatsapp.
package transport
