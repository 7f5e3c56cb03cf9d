// Package app wires application dependencies for the CLI.
//
// Config is read from home/config.toml over built-in defaults and checked
// with struct validation. NewWire builds the crypto engine, HTTP transport,
// state store, protocol client and card service from it; App adds loading
// and saving of the client state around one command invocation.
package app
