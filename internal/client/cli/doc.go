// Package cli implements keeperctl, the admin and smoke-test tool for the
// keeper server.
//
//	keeperctl account add -handle alice -display-name "Alice"   (server config flags apply)
//	keeperctl token issue -handle alice                         (server config flags apply)
//	keeperctl login -server 127.0.0.1:50051 -handle alice
//	keeperctl version
//
// account add and token issue open the server's datastore directly and
// accept the same -c/-d/-n/-s flags and KEEPER_* variables as the server.
// Passwords are always prompted for, never taken from flags.
package cli
