package roles

// Role is the closed set of operator roles.
type Role string

const (
	LogisticsOfficer Role = "logistics"
	Commander        Role = "commander"
	Admin            Role = "admin"
)

// Operation names a capability-gated action. Handlers ask the matrix instead
// of re-deriving role booleans.
type Operation string

const (
	OpManageAssets      Operation = "assets.manage"
	OpManageBases       Operation = "bases.manage"
	OpManageUsers       Operation = "users.manage"
	OpCreatePurchase    Operation = "purchase.create"
	OpEditPurchase      Operation = "purchase.edit"
	OpCreateTransfer    Operation = "transfer.create"
	OpCreateAssignment  Operation = "assignment.create"
	OpCreateExpenditure Operation = "expenditure.create"
	OpViewStock         Operation = "stock.view"
	OpViewMovement      Operation = "movement.view"
	OpViewSummary       Operation = "summary.view"
)

// matrix is the single source of truth for role capabilities.
var matrix = map[Role]map[Operation]bool{
	LogisticsOfficer: {
		OpCreatePurchase: true,
		OpCreateTransfer: true,
		OpViewStock:      true,
		OpViewMovement:   true,
		OpViewSummary:    true,
	},
	Commander: {
		OpCreatePurchase:    true,
		OpCreateTransfer:    true,
		OpCreateAssignment:  true,
		OpCreateExpenditure: true,
		OpViewStock:         true,
		OpViewMovement:      true,
		OpViewSummary:       true,
	},
	Admin: nil, // admins may perform every operation
}

// Allowed reports whether the role may perform the operation.
func (r Role) Allowed(op Operation) bool {
	if !r.IsValid() {
		return false
	}
	if r == Admin {
		return true
	}
	return matrix[r][op]
}

func (r Role) IsValid() bool {
	switch r {
	case LogisticsOfficer, Commander, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
