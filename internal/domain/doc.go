// Package domain defines the data models and contracts shared by the protocol
// engine, its transport and the CLI. It holds plain types (wire and state)
// and interfaces only; the types and interfaces subpackages are re-exported
// here as aliases.
package domain
