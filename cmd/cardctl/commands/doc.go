// Package commands defines the cardctl CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init           Write config.toml with a new device id and keys
//   - keygen         Print a fresh key set
//   - login          Authenticate the device and store the session
//   - cards list     List the cards of the logged-in user
//   - cards create   Create a card for a monster id
//   - cards update   Set the exp of a card
//   - cards delete   Delete a card
//   - resend         Send the unacknowledged request again
//   - status         Show session, nonce and pending request
//
// # Implementation
//
// The root command loads config.toml from the home directory (default
// ~/.cardctl), applies flag overrides and configures logging before any
// subcommand runs. Commands that talk to the service open the app, which
// restores the saved client state, and save it again when they finish,
// also when the request failed, so a timed-out request can be resent by a
// later invocation.
package commands
