package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{"crew starts work", domain.RoleCrew, domain.OrderProcessing, domain.OrderWork, true},
		{"crew pauses work", domain.RoleCrew, domain.OrderWork, domain.OrderProcessing, true},
		{"crew cannot cancel", domain.RoleCrew, domain.OrderProcessing, domain.OrderCanceled, false},
		{"crew cannot complete directly", domain.RoleCrew, domain.OrderWork, domain.OrderDone, false},
		{"manager cancels new order", domain.RoleManager, domain.OrderNew, domain.OrderCanceled, true},
		{"manager cancels processing order", domain.RoleManager, domain.OrderProcessing, domain.OrderCanceled, true},
		{"manager cannot cancel active work", domain.RoleManager, domain.OrderWork, domain.OrderCanceled, false},
		{"owner cancels active work", domain.RoleOwner, domain.OrderWork, domain.OrderCanceled, true},
		{"admin cancels active work", domain.RoleAdmin, domain.OrderWork, domain.OrderCanceled, true},
		{"nobody reaches done through transition", domain.RoleAdmin, domain.OrderWork, domain.OrderDone, false},
		{"nobody returns to new through transition", domain.RoleOwner, domain.OrderProcessing, domain.OrderNew, false},
		{"unknown role has no edges", domain.Role("intern"), domain.OrderProcessing, domain.OrderWork, false},
		{"no edges out of done", domain.RoleOwner, domain.OrderDone, domain.OrderCanceled, false},
		{"no edges out of canceled", domain.RoleOwner, domain.OrderCanceled, domain.OrderNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.role, tt.from, tt.to))
		})
	}
}

func TestOrderStatus_IsLocked(t *testing.T) {
	assert.True(t, domain.OrderDone.IsLocked())
	assert.True(t, domain.OrderCanceled.IsLocked())
	assert.False(t, domain.OrderNew.IsLocked())
	assert.False(t, domain.OrderProcessing.IsLocked())
	assert.False(t, domain.OrderWork.IsLocked())
}
