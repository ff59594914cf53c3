// Package auth implements the authentication backbone for a multi user
// account service: credential verification, signed token issuance and
// validation, and account management.
//
// Result discipline:
//   - Every domain operation returns a Result carrying a closed Status set.
//     Expected outcomes such as a wrong password or an expired token are
//     statuses, never Go errors. Errors are reserved for programmer mistakes
//     and infrastructure faults inside collaborators.
//   - Failure results compose across layers with ForwardFailure, so a
//     verifier failure propagates through the authenticator unchanged.
//
// Token lifecycle:
//   - TokenService signs HMAC tokens with registered claims plus a username
//     claim. Authenticate issues, VerifyToken validates, Refresh re-issues
//     with a fresh expiration, accepting expired tokens as long as their
//     signature still checks out and the subject still exists.
//
// Persistence:
//   - Users are stored through a Bun backed repository exposed via
//     RepositoryManager. The Accounts service layers registration, password
//     changes, profile patches, and deletion on top of it under the same
//     Result discipline.
package auth
