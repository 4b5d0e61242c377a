package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invoiceSchema mirrors the rule set the invoice service uses.
var invoiceSchema = Schema{
	Fields: []Field{
		{Name: "customerId", Kind: String, Required: true},
		{Name: "amount", Kind: Decimal, Required: true, Min: Min(0)},
		{Name: "status", Kind: Enum, Required: true, Enum: []string{"pending", "paid"}},
	},
}

func TestSchemaParse(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantFields []string // fields expected to carry errors; empty means valid
	}{
		{
			name: "valid",
			form: url.Values{
				"customerId": {"c1"},
				"amount":     {"250.00"},
				"status":     {"pending"},
			},
			wantFields: nil,
		},
		{
			name: "missing customerId",
			form: url.Values{
				"amount": {"10"},
				"status": {"paid"},
			},
			wantFields: []string{"customerId"},
		},
		{
			name: "non-numeric amount",
			form: url.Values{
				"customerId": {"c1"},
				"amount":     {"ten dollars"},
				"status":     {"pending"},
			},
			wantFields: []string{"amount"},
		},
		{
			name: "negative amount",
			form: url.Values{
				"customerId": {"c1"},
				"amount":     {"-5.00"},
				"status":     {"pending"},
			},
			wantFields: []string{"amount"},
		},
		{
			name: "invalid status",
			form: url.Values{
				"customerId": {"c1"},
				"amount":     {"10"},
				"status":     {"overdue"},
			},
			wantFields: []string{"status"},
		},
		{
			name:       "everything missing",
			form:       url.Values{},
			wantFields: []string{"customerId", "amount", "status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, verr := invoiceSchema.Parse(tt.form)
			if len(tt.wantFields) == 0 {
				require.Nil(t, verr)
				require.NotNil(t, values)
				return
			}
			require.NotNil(t, verr)
			assert.Nil(t, values)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.NotEmpty(t, verr.Fields[field], "expected error for field %s", field)
			}
		})
	}
}

func TestSchemaParseCoercion(t *testing.T) {
	values, verr := invoiceSchema.Parse(url.Values{
		"customerId": {"  c1  "},
		"amount":     {"250.00"},
		"status":     {"paid"},
	})
	require.Nil(t, verr)
	assert.Equal(t, "c1", values.Get("customerId"))
	assert.Equal(t, 250.0, values.Number("amount"))
	assert.Equal(t, "paid", values.Get("status"))
}

func TestValidationErrorMessage(t *testing.T) {
	_, verr := invoiceSchema.Parse(url.Values{
		"customerId": {"c1"},
		"amount":     {"abc"},
		"status":     {"pending"},
	})
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "amount must be a number")
}
