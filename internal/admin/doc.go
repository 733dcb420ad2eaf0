// Package admin implements the gophauth operator commands.
//
// It reads the same configuration as the server, so keys and users land in
// the stores the server will use:
//
//	keygen   generate an RSA key pair for every token purpose
//	adduser  create a user account interactively
//
// Commands are dispatched by App.Run.
package admin
