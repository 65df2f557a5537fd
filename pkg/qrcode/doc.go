// Package qrcode renders pairing challenges as PNG QR codes.
//
// The transport reports the raw pairing string; DataURI turns it into the
// image payload persisted with the session so a dashboard can show it as is.
package qrcode
