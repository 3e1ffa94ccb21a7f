package removeuser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/removeuser"
)

func Test_Decide(t *testing.T) {
	now := time.Now()
	registered := core.BuildUserRegistered("u-1", core.Registration{Username: "alice", Name: "Alice", Role: core.RoleStudent}, "hash", now.Add(-3*time.Hour))
	lent := core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", now.AddDate(0, 0, 14), now.Add(-2*time.Hour))
	returned := core.BuildBookCopyReturnedByUser("l-1", "b-1", "u-1", now.Add(-time.Hour))

	tests := []struct {
		name    string
		history core.DomainEvents
		wantErr error
	}{
		{name: "no loans", history: core.DomainEvents{registered}},
		{name: "all loans returned", history: core.DomainEvents{registered, lent, returned}},
		{name: "outstanding loan", history: core.DomainEvents{registered, lent}, wantErr: core.ErrConflict},
		{name: "unknown user", history: nil, wantErr: core.ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := removeuser.Decide(tc.history, removeuser.BuildCommand("u-1", now))

			// assert
			if tc.wantErr != nil {
				assert.ErrorIs(t, result.HasError(), tc.wantErr)
				return
			}

			assert.NoError(t, result.HasError())
			assert.True(t, result.HasEventToAppend())
		})
	}
}
