// Package apierr defines the closed set of protocol failure codes shared by
// the client and the remote service.
//
// Three codes are produced locally: Timeout (the transport did not answer
// before the client timer fired), FailedToDecryptServerPayload (the reply
// could not be decoded) and InvalidTimestamp (the reply's server clock is
// more than an hour away from ours). Every other code is reported by the
// remote service and surfaced unchanged.
//
// Callers match codes with errors.Is:
//
//	if errors.Is(err, apierr.Locked) {
//	    // the previous request is still executing remotely
//	}
package apierr
