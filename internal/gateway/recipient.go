package gateway

import "strings"

// UserServer is the address domain for individual accounts.
const UserServer = "s.whatsapp.net"

// NormalizeRecipient turns a bare phone number into a transport address.
// Inputs that already contain "@" (users, groups) are returned unchanged.
func NormalizeRecipient(to string) string {
	to = strings.TrimSpace(to)
	if to == "" || strings.Contains(to, "@") {
		return to
	}
	return strings.TrimPrefix(to, "+") + "@" + UserServer
}
