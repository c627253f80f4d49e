// Package storage provides the optional notice audit log: an append-only
// record of every modal, toast, and confirmation the daemon fired.
//
// It deliberately does NOT persist the dedup ledger; suppression state is
// memory-resident and resets on restart.
package storage
