// Package transport provides the HTTP implementation of domain.Transport.
//
// Every request is a POST to {host}{route} carrying the JSON body
// {payloadBase64, nonce, requestData} and the query parameters signedBase64,
// token, remoteTimeout and remoteSendInvalidPayload. The response body is
// handed back untouched: it is either an encrypted payload or a plaintext
// {"errorCode": n} envelope, and telling them apart is the caller's job.
//
// Failures that leave no body to inspect (connection refused, reset, an
// empty non-2xx reply) wrap ErrUnavailable.
package transport
