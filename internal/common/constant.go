// Package common contains shared constants and sentinel errors used across
// readhub components.
package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on outbound requests to the identity backend.
const AccessTokenHeaderName = "Authorization"

// SyntheticAddressDomain is appended to usernames that are not already an
// address. The identity backend's account model is address-based, so a
// human-chosen username like "alice123" is presented to it as
// "alice123@readhub.local".
const SyntheticAddressDomain = "readhub.local"
