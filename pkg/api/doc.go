// Package api defines the request and response messages of the splitledger
// RPC services. Messages travel as JSON; field names follow the lowerCamel
// convention of the Connect JSON protocol.
//
// Money fields are decimal strings on the wire ("12.34"). Numbers are
// accepted on input as well.
package api
