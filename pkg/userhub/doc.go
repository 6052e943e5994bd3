// Package userhub provides the public types and interfaces for the UserHub
// user-directory API client.
//
// The package defines the User resource, request/response shapes, the
// normalized Envelope result returned by every service call, and the Config
// used to construct a client. Construct clients with
// github.com/userhub-io/userhub-client/pkg/uhclient.
//
// Every service operation returns an Envelope rather than an error: network
// faults, remote error statuses, and pre-flight validation failures all
// arrive on the same channel, distinguished by Envelope.Code. Callers branch
// on Envelope.Success instead of handling a mix of returned errors and
// result values.
package userhub
