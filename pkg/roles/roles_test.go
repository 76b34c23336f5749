package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminAllowedEverything(t *testing.T) {
	ops := []Operation{
		OpManageAssets, OpManageBases, OpManageUsers,
		OpCreatePurchase, OpEditPurchase, OpCreateTransfer,
		OpCreateAssignment, OpCreateExpenditure,
		OpViewStock, OpViewMovement, OpViewSummary,
	}
	for _, op := range ops {
		assert.True(t, Admin.Allowed(op), "admin must be allowed %s", op)
	}
}

func TestLogisticsOfficerCapabilities(t *testing.T) {
	assert.True(t, LogisticsOfficer.Allowed(OpCreatePurchase))
	assert.True(t, LogisticsOfficer.Allowed(OpCreateTransfer))
	assert.False(t, LogisticsOfficer.Allowed(OpCreateAssignment))
	assert.False(t, LogisticsOfficer.Allowed(OpCreateExpenditure))
	assert.False(t, LogisticsOfficer.Allowed(OpManageAssets))
	assert.False(t, LogisticsOfficer.Allowed(OpManageUsers))
}

func TestCommanderCapabilities(t *testing.T) {
	assert.True(t, Commander.Allowed(OpCreateAssignment))
	assert.True(t, Commander.Allowed(OpCreateExpenditure))
	assert.False(t, Commander.Allowed(OpManageBases))
	assert.False(t, Commander.Allowed(OpManageUsers))
}

func TestUnknownRoleAllowedNothing(t *testing.T) {
	assert.False(t, Role("clerk").Allowed(OpViewStock))
	assert.False(t, Role("").IsValid())
}
