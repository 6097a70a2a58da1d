package identity

// DecisionReason is a stable code describing why access was granted or
// denied. Reasons stay server-side; responses only ever carry the generic
// denial message.
type DecisionReason string

const (
	ReasonRoleMatch        DecisionReason = "role_match"
	ReasonOwnerMatch       DecisionReason = "owner_match"
	ReasonMissingRole      DecisionReason = "missing_role"
	ReasonNotOwner         DecisionReason = "not_owner"
	ReasonUnauthenticated  DecisionReason = "unauthenticated"
	ReasonUnknownOperation DecisionReason = "unknown_operation"
)

// Decision is the outcome of one policy evaluation. Derived per request,
// never stored.
type Decision struct {
	Allowed bool
	Reason  DecisionReason
}

func Allow(reason DecisionReason) Decision {
	return Decision{Allowed: true, Reason: reason}
}

func Deny(reason DecisionReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Policy decides access for one protected operation. Policies are pure: the
// decision depends only on the principal and the target resource id.
type Policy interface {
	Evaluate(principal *Principal, resourceID string) Decision
}

// RolePolicy allows principals whose role set intersects the required set.
type RolePolicy struct {
	Required []string
}

// RequireRole declares a role policy.
func RequireRole(roles ...string) RolePolicy {
	return RolePolicy{Required: roles}
}

func (p RolePolicy) Evaluate(principal *Principal, _ string) Decision {
	if principal.HasAnyRole(p.Required...) {
		return Allow(ReasonRoleMatch)
	}
	return Deny(ReasonMissingRole)
}

// OwnershipPolicy allows the principal that owns the target resource, or any
// principal whose roles intersect the override set. The role override wins:
// an admin passes regardless of the identity match.
type OwnershipPolicy struct {
	Override []string
}

// RequireOwnerOr declares an ownership policy with a role override.
func RequireOwnerOr(roles ...string) OwnershipPolicy {
	return OwnershipPolicy{Override: roles}
}

func (p OwnershipPolicy) Evaluate(principal *Principal, resourceID string) Decision {
	if principal.HasAnyRole(p.Override...) {
		return Allow(ReasonRoleMatch)
	}
	if resourceID != "" && principal.ID == resourceID {
		return Allow(ReasonOwnerMatch)
	}
	return Deny(ReasonNotOwner)
}

// Guard evaluates access policies against an authenticated principal. The
// operation table is declared up front and read-only afterwards, so
// Authorize is safe for concurrent use.
type Guard struct {
	policies map[string]Policy
	logger   Logger
}

// NewGuard returns an empty Guard.
func NewGuard() *Guard {
	return &Guard{
		policies: map[string]Policy{},
		logger:   defLogger{},
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	g.logger = logger
	return g
}

// RegisterPolicy binds a protected operation to its policy. Call during
// wiring, before the guard starts serving requests.
func (g *Guard) RegisterPolicy(operation string, policy Policy) *Guard {
	g.policies[operation] = policy
	return g
}

// Authorize evaluates the policy registered for operation. A missing
// principal denies before any policy runs; an unregistered operation denies
// rather than defaulting open.
func (g *Guard) Authorize(principal *Principal, operation, resourceID string) Decision {
	if principal == nil || principal.ID == "" {
		return Deny(ReasonUnauthenticated)
	}

	policy, ok := g.policies[operation]
	if !ok {
		g.logger.Error("Authorize called for unregistered operation %q", operation)
		return Deny(ReasonUnknownOperation)
	}

	return policy.Evaluate(principal, resourceID)
}

// Check maps Authorize into the error taxonomy: nil on allow, the
// unauthenticated error when no principal was present, and the generic
// access-denied error for every policy denial.
func (g *Guard) Check(principal *Principal, operation, resourceID string) error {
	decision := g.Authorize(principal, operation, resourceID)
	if decision.Allowed {
		return nil
	}

	if decision.Reason == ReasonUnauthenticated {
		return ErrUnauthenticated
	}

	g.logger.Info("access denied for %s: %s", operation, decision.Reason)
	return ErrAccessDenied
}
