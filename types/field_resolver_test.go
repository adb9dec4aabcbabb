package types

import "testing"

type address struct {
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type order struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Weight    float64  // no tag
	Recipient *address `json:"recipient"`
	internal  string
}

func TestResolveField(t *testing.T) {
	o := order{
		ID:        "o-1",
		Status:    "PENDING",
		Weight:    4.5,
		Recipient: &address{City: "Split", PostalCode: "21000"},
		internal:  "secret",
	}
	m := map[string]interface{}{
		"id":      "o-2",
		"address": map[string]interface{}{"city": "Zagreb"},
		"a.b":     "literal",
	}

	tests := []struct {
		name string
		row  interface{}
		key  string
		want interface{}
	}{
		{"struct json tag", o, "status", "PENDING"},
		{"struct field name", o, "Weight", 4.5},
		{"struct folded name", o, "weight", 4.5},
		{"struct pointer", &o, "id", "o-1"},
		{"struct dotted", o, "recipient.postal_code", "21000"},
		{"unexported field", o, "internal", nil},
		{"missing struct field", o, "driver", nil},
		{"map key", m, "id", "o-2"},
		{"map dotted", m, "address.city", "Zagreb"},
		{"map literal dotted key wins", m, "a.b", "literal"},
		{"missing map key", m, "status", nil},
		{"missing nested", m, "address.zip", nil},
		{"nil row", nil, "id", nil},
		{"named map type", map[string]string{"city": "Rijeka"}, "city", "Rijeka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveField(tt.row, tt.key); got != tt.want {
				t.Errorf("ResolveField(%q) = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestResolveFieldNilPointerRecipient(t *testing.T) {
	o := order{ID: "o-3"}
	if got := ResolveField(o, "recipient.city"); got != nil {
		t.Errorf("expected nil through a nil pointer, got %#v", got)
	}
	if got := Stringify(ResolveField(o, "recipient")); got != "" {
		t.Errorf("nil pointer field should stringify blank, got %q", got)
	}
}
