package normalize

import "strings"

// FieldType selects the normalization rule for a canonical field.
type FieldType string

const (
	TypeString            FieldType = "string"
	TypePhone             FieldType = "phone"
	TypeEmail             FieldType = "email"
	TypeName              FieldType = "name"
	TypeAddress           FieldType = "address"
	TypeState             FieldType = "state"
	TypeZipCode           FieldType = "zip_code"
	TypeCurrency          FieldType = "currency"
	TypeDate              FieldType = "date"
	TypeBoolean           FieldType = "boolean"
	TypeUnitStatus        FieldType = "unit_status"
	TypeLeaseStatus       FieldType = "lease_status"
	TypeMaintenanceStatus FieldType = "maintenance_status"
	TypePriority          FieldType = "priority"
	TypeUnitType          FieldType = "unit_type"
	TypePropertyType      FieldType = "property_type"
)

// Apply normalizes a raw cell value according to the field type. The result
// is a string, float64, bool or nil; nil stands for "no usable value".
// Enum-typed fields never return nil, they fall back to their baseline.
func Apply(fieldType FieldType, raw string) any {
	switch fieldType {
	case TypePhone:
		if phone := Phone(raw); phone != "" {
			return phone
		}
		return nil
	case TypeEmail:
		if email := Email(raw); email != "" {
			return email
		}
		return nil
	case TypeName:
		if name := Name(raw); name != "" {
			return name
		}
		return nil
	case TypeAddress:
		if addr := Address(raw); addr != "" {
			return addr
		}
		return nil
	case TypeState:
		if state := State(raw); state != "" {
			return state
		}
		return nil
	case TypeZipCode:
		if zip := ZipCode(raw); zip != "" {
			return zip
		}
		return nil
	case TypeCurrency:
		if value, ok := Currency(raw); ok {
			return value
		}
		return nil
	case TypeDate:
		if iso, ok := Date(raw); ok {
			return iso
		}
		return nil
	case TypeBoolean:
		return Boolean(raw)
	case TypeUnitStatus:
		return UnitStatus(raw)
	case TypeLeaseStatus:
		return LeaseStatus(raw)
	case TypeMaintenanceStatus:
		return MaintenanceStatus(raw)
	case TypePriority:
		return Priority(raw)
	case TypeUnitType:
		return UnitType(raw)
	case TypePropertyType:
		return PropertyType(raw)
	default:
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			return trimmed
		}
		return nil
	}
}
