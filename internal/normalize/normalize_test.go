package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	cases := map[string]string{
		"(555) 123-4567":  "+15551234567",
		"555.123.4567":    "+15551234567",
		"15551234567":     "+15551234567",
		"+1 555 123 4567": "+15551234567",
		"445551234567":    "+445551234567",
		"":                "",
		"no digits here":  "",
	}
	for input, want := range cases {
		assert.Equal(t, want, Phone(input), "input %q", input)
	}
}

func TestPhoneIdempotent(t *testing.T) {
	for _, input := range []string{"5551234567", "15551234567"} {
		once := Phone(input)
		assert.Equal(t, once, Phone(once))
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", Email("  Jane@Example.COM "))
	assert.Equal(t, "", Email("not-an-email"))
	assert.Equal(t, "", Email(""))
	assert.Equal(t, "", Email("a@b@c"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Name("  jane   DOE "))
	assert.Equal(t, "J", Name("j"))
	assert.Equal(t, "", Name("   "))
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "123 Main St", Address("123 Main Street"))
	assert.Equal(t, "456 oak Ave Apt 2", Address("456 oak avenue apartment 2"))
	assert.Equal(t, "789 N Elm Blvd", Address("789 North Elm boulevard"))
	assert.Equal(t, "1 Park Pl Ste 300", Address("1 Park Place Suite 300"))
}

func TestState(t *testing.T) {
	assert.Equal(t, "CA", State("California"))
	assert.Equal(t, "CA", State("ca"))
	assert.Equal(t, "NY", State(" new york "))
	// Unknown codes pass through trimmed, case preserved.
	assert.Equal(t, "XX", State("XX"))
	assert.Equal(t, "Ontario", State(" Ontario "))
}

func TestZipCode(t *testing.T) {
	assert.Equal(t, "12345", ZipCode("12345"))
	assert.Equal(t, "12345-6789", ZipCode("123456789"))
	assert.Equal(t, "12345-6789", ZipCode("12345-6789"))
	assert.Equal(t, "abc", ZipCode(" abc "))
	assert.Equal(t, "1234", ZipCode("1234"))
}

func TestCurrency(t *testing.T) {
	value, ok := Currency("$1,250.50")
	assert.True(t, ok)
	assert.Equal(t, 1250.50, value)

	value, ok = Currency(" 900 ")
	assert.True(t, ok)
	assert.Equal(t, 900.0, value)

	_, ok = Currency("n/a")
	assert.False(t, ok)
	_, ok = Currency("")
	assert.False(t, ok)
}

func TestDate(t *testing.T) {
	iso, ok := Date("2024-03-01")
	assert.True(t, ok)
	assert.Equal(t, "2024-03-01T00:00:00Z", iso)

	iso, ok = Date("03/01/2024")
	assert.True(t, ok)
	assert.Equal(t, "2024-03-01T00:00:00Z", iso)

	_, ok = Date("not a date")
	assert.False(t, ok)
}

func TestBoolean(t *testing.T) {
	for _, input := range []string{"true", "YES", " y ", "1", "Active", "enabled"} {
		assert.True(t, Boolean(input), "input %q", input)
	}
	for _, input := range []string{"false", "no", "0", "", "garbage"} {
		assert.False(t, Boolean(input), "input %q", input)
	}
}

func TestStatusTables(t *testing.T) {
	assert.Equal(t, "vacant", UnitStatus("Available"))
	assert.Equal(t, "occupied", UnitStatus("RENTED"))
	assert.Equal(t, "maintenance", UnitStatus("under repair"))
	assert.Equal(t, "vacant", UnitStatus("???"))

	assert.Equal(t, "active", LeaseStatus("current"))
	assert.Equal(t, "expired", LeaseStatus("Ended"))
	assert.Equal(t, "active", LeaseStatus(""))

	assert.Equal(t, "open", MaintenanceStatus("submitted"))
	assert.Equal(t, "in_progress", MaintenanceStatus("In Progress"))
	assert.Equal(t, "open", MaintenanceStatus("whatever"))
}

func TestPriority(t *testing.T) {
	assert.Equal(t, "urgent", Priority("EMERGENCY"))
	assert.Equal(t, "medium", Priority("normal"))
	assert.Equal(t, "medium", Priority(""))
	assert.Equal(t, "low", Priority("low"))
}

func TestTypeTables(t *testing.T) {
	assert.Equal(t, "condo", UnitType("Condominium"))
	assert.Equal(t, "apartment", UnitType("penthouse"))
	assert.Equal(t, "mixed_use", PropertyType("Mixed Use"))
	assert.Equal(t, "residential", PropertyType("castle"))
}

// Every field type must swallow arbitrary garbage without panicking and
// without returning an unexpected kind.
func TestApplyTotality(t *testing.T) {
	inputs := []string{"", "   ", "\t\n", "garbage", "123", "!@#$%^&*", "ñøñ-åscii"}
	types := []FieldType{
		TypeString, TypePhone, TypeEmail, TypeName, TypeAddress, TypeState,
		TypeZipCode, TypeCurrency, TypeDate, TypeBoolean, TypeUnitStatus,
		TypeLeaseStatus, TypeMaintenanceStatus, TypePriority, TypeUnitType,
		TypePropertyType,
	}
	for _, fieldType := range types {
		for _, input := range inputs {
			value := Apply(fieldType, input)
			switch value.(type) {
			case nil, string, float64, bool:
			default:
				t.Fatalf("Apply(%s, %q) returned unexpected kind %T", fieldType, input, value)
			}
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	assert.Equal(t, "medium", Apply(TypePriority, "???"))
	assert.Equal(t, "vacant", Apply(TypeUnitStatus, "???"))
	assert.Nil(t, Apply(TypeEmail, "not-an-email"))
	assert.Nil(t, Apply(TypeCurrency, "free"))
	assert.Equal(t, false, Apply(TypeBoolean, ""))
}
