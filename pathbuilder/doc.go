// Package pathbuilder implements the path builder (PB): it groups
// normalized events into ordered sessions and turns each session into a
// Path that starts at state.Start and ends at state.Conversion or
// state.Null.
//
// Grouping prefers an explicit identity key (user_id, session_id,
// fingerprint, in that priority order); absent all three, it synthesizes
// a fingerprint from os_version and timezone_offset via xxhash, the same
// non-cryptographic, stable hash used for rendezvous routing keys
// elsewhere in the corpus (services/gateway/routing).
package pathbuilder
