// Package cards implements domain.CardService: the list, create, update and
// delete operations of the card service, expressed as parameter sets on top
// of a domain.Caller.
package cards
