package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingItemStatus
		to      BookingItemStatus
		allowed bool
	}{
		{"pending to confirmed", ItemStatusPending, ItemStatusConfirmed, true},
		{"pending to paid", ItemStatusPending, ItemStatusPaid, true},
		{"pending to in_progress", ItemStatusPending, ItemStatusInProgress, false},
		{"pending to completed", ItemStatusPending, ItemStatusCompleted, false},
		{"confirmed to paid", ItemStatusConfirmed, ItemStatusPaid, true},
		{"confirmed to in_progress", ItemStatusConfirmed, ItemStatusInProgress, true},
		{"confirmed to completed", ItemStatusConfirmed, ItemStatusCompleted, false},
		{"paid to in_progress", ItemStatusPaid, ItemStatusInProgress, true},
		{"paid to confirmed", ItemStatusPaid, ItemStatusConfirmed, false},
		{"in_progress to completed", ItemStatusInProgress, ItemStatusCompleted, true},
		{"in_progress to paid", ItemStatusInProgress, ItemStatusPaid, false},

		// Side exits are reachable from any non-terminal state
		{"pending to cancelled", ItemStatusPending, ItemStatusCancelled, true},
		{"confirmed to refunded", ItemStatusConfirmed, ItemStatusRefunded, true},
		{"paid to refunded", ItemStatusPaid, ItemStatusRefunded, true},
		{"in_progress to cancelled", ItemStatusInProgress, ItemStatusCancelled, true},

		// Terminal states reject everything
		{"completed to in_progress", ItemStatusCompleted, ItemStatusInProgress, false},
		{"completed to cancelled", ItemStatusCompleted, ItemStatusCancelled, false},
		{"cancelled to pending", ItemStatusCancelled, ItemStatusPending, false},
		{"cancelled to refunded", ItemStatusCancelled, ItemStatusRefunded, false},
		{"refunded to cancelled", ItemStatusRefunded, ItemStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, ItemStatusCompleted.IsTerminal())
	assert.True(t, ItemStatusCancelled.IsTerminal())
	assert.True(t, ItemStatusRefunded.IsTerminal())
	assert.False(t, ItemStatusPending.IsTerminal())
	assert.False(t, ItemStatusConfirmed.IsTerminal())
	assert.False(t, ItemStatusPaid.IsTerminal())
	assert.False(t, ItemStatusInProgress.IsTerminal())
}

func TestRollUpBookingStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []BookingItemStatus
		want     BookingStatus
	}{
		{"no items", nil, BookingStatusPending},
		{"all pending", []BookingItemStatus{ItemStatusPending, ItemStatusPending}, BookingStatusPending},
		{"mixed pending and confirmed", []BookingItemStatus{ItemStatusPending, ItemStatusConfirmed}, BookingStatusPending},
		{"all confirmed", []BookingItemStatus{ItemStatusConfirmed, ItemStatusConfirmed}, BookingStatusConfirmed},
		{"confirmed and paid", []BookingItemStatus{ItemStatusConfirmed, ItemStatusPaid}, BookingStatusConfirmed},
		{"all paid", []BookingItemStatus{ItemStatusPaid, ItemStatusPaid}, BookingStatusPaid},
		{"any in_progress dominates", []BookingItemStatus{ItemStatusPaid, ItemStatusInProgress, ItemStatusCompleted}, BookingStatusInProgress},
		{"all completed", []BookingItemStatus{ItemStatusCompleted, ItemStatusCompleted}, BookingStatusCompleted},
		{"all cancelled", []BookingItemStatus{ItemStatusCancelled, ItemStatusCancelled}, BookingStatusCancelled},
		{"terminal with refund", []BookingItemStatus{ItemStatusCompleted, ItemStatusRefunded}, BookingStatusRefunded},
		{"terminal cancelled and refunded", []BookingItemStatus{ItemStatusCancelled, ItemStatusRefunded}, BookingStatusRefunded},
		{"completed and cancelled", []BookingItemStatus{ItemStatusCompleted, ItemStatusCancelled}, BookingStatusCompleted},
		{"paid with cancelled sibling", []BookingItemStatus{ItemStatusPaid, ItemStatusCancelled}, BookingStatusPaid},
		{"confirmed with completed sibling", []BookingItemStatus{ItemStatusConfirmed, ItemStatusCompleted}, BookingStatusConfirmed},
		{"pending with terminal siblings", []BookingItemStatus{ItemStatusPending, ItemStatusCancelled, ItemStatusCompleted}, BookingStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollUpBookingStatus(tt.statuses))
		})
	}
}
