// Package identity provides the credential and token core for a networked
// service: account registration with store-enforced email uniqueness,
// bcrypt credential verification, signed bearer tokens carrying identity and
// role claims, and per-operation authorization policies.
//
// Accounts and principals:
//   - Account is the persisted model (Bun). Registration assigns the USER
//     role; the email column's unique constraint is the authoritative
//     uniqueness guarantee, with the registry's existence pre-check acting
//     as an early exit only.
//   - Principal is the ephemeral per-request projection produced by
//     authentication or token validation. It is always passed explicitly;
//     nothing in this package keeps ambient per-request state.
//
// Tokens:
//   - TokenService issues HS256-signed tokens with subject, expiry, and role
//     claims, and validates them without any store lookup. Stateless
//     validation means role changes only take effect once outstanding
//     tokens expire.
//
// Authorization:
//   - Guard evaluates a static table mapping protected operations to
//     policies: role membership (RequireRole) or resource ownership with a
//     role override (RequireOwnerOr). A missing principal denies before any
//     policy runs.
//
// Failures carry a stable kind (go-errors category plus text code) from
// their point of origin to MapError, the single total mapping into the
// external error response shape.
package identity
