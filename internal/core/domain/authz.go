package domain

// Role is the caller's role as supplied by the access-control layer.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCrew    Role = "crew"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleCrew:
		return true
	}
	return false
}

type statusEdge struct {
	from OrderStatus
	to   OrderStatus
}

// transitionPolicy is the single role x status-edge permission table consumed
// by OrderService.Transition. Edges absent from the table are forbidden for
// that role. DONE is reachable only through settlement and NEW only through
// refuse, so neither appears here as a target.
var transitionPolicy = map[Role]map[statusEdge]bool{
	RoleCrew: {
		{OrderProcessing, OrderWork}: true,
		{OrderWork, OrderProcessing}: true,
	},
	RoleManager: {
		{OrderProcessing, OrderWork}:     true,
		{OrderWork, OrderProcessing}:     true,
		{OrderNew, OrderCanceled}:        true,
		{OrderProcessing, OrderCanceled}: true,
	},
	RoleOwner: {
		{OrderProcessing, OrderWork}:     true,
		{OrderWork, OrderProcessing}:     true,
		{OrderNew, OrderCanceled}:        true,
		{OrderProcessing, OrderCanceled}: true,
		{OrderWork, OrderCanceled}:       true,
	},
	RoleAdmin: {
		{OrderProcessing, OrderWork}:     true,
		{OrderWork, OrderProcessing}:     true,
		{OrderNew, OrderCanceled}:        true,
		{OrderProcessing, OrderCanceled}: true,
		{OrderWork, OrderCanceled}:       true,
	},
}

// CanTransition reports whether role may move an order from one status to
// another.
func CanTransition(role Role, from, to OrderStatus) bool {
	edges, ok := transitionPolicy[role]
	if !ok {
		return false
	}
	return edges[statusEdge{from, to}]
}
