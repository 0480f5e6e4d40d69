package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "Quoted decimal string", input: `"60.00"`, want: 60},
		{name: "Bare number", input: `60.5`, want: 60.5},
		{name: "Quoted integer", input: `"210"`, want: 210},
		{name: "Null means zero", input: `null`, want: 0},
		{name: "Garbage string", input: `"sixty"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decimal
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Float64())
		})
	}
}

func TestOrder_UnmarshalStringPrices(t *testing.T) {
	raw := `{"id":42,"status":"pending","total_price":"210.00","items":[{"id":1,"menu_item":3,"quantity":2,"subtotal":"120.00"}]}`

	var order Order
	require.NoError(t, json.Unmarshal([]byte(raw), &order))
	assert.Equal(t, 210.0, order.TotalPrice.Float64())
	require.Len(t, order.Items, 1)
	assert.Equal(t, 120.0, order.Items[0].Subtotal.Float64())
}

func TestUser_DisplayNameAndInitials(t *testing.T) {
	tests := []struct {
		name         string
		user         User
		wantName     string
		wantInitials string
	}{
		{
			name:         "Full name",
			user:         User{FirstName: "Asha", LastName: "Rao"},
			wantName:     "Asha Rao",
			wantInitials: "AR",
		},
		{
			name:         "First name only",
			user:         User{FirstName: "Asha"},
			wantName:     "Asha",
			wantInitials: "A",
		},
		{
			name:         "Username fallback",
			user:         User{Username: "asha42"},
			wantName:     "asha42",
			wantInitials: "A",
		},
		{
			name:         "Email fallback",
			user:         User{Email: "asha@example.com"},
			wantName:     "asha@example.com",
			wantInitials: "A",
		},
		{
			name:         "Nothing at all",
			user:         User{},
			wantName:     "User",
			wantInitials: "U",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.user.DisplayName())
			assert.Equal(t, tt.wantInitials, tt.user.Initials())
		})
	}
}
