package fieldmap

import "github.com/smallbiznis/rentfolio/internal/normalize"

// FieldDef describes one canonical field of a data type.
type FieldDef struct {
	Name     string
	Type     normalize.FieldType
	Required bool
}

var fieldDefs = map[DataType][]FieldDef{
	DataTypeProperties: {
		{Name: "name", Type: normalize.TypeString, Required: true},
		{Name: "address", Type: normalize.TypeAddress, Required: true},
		{Name: "city", Type: normalize.TypeName},
		{Name: "state", Type: normalize.TypeState},
		{Name: "zipCode", Type: normalize.TypeZipCode},
		{Name: "propertyType", Type: normalize.TypePropertyType},
		{Name: "yearBuilt", Type: normalize.TypeString},
		{Name: "description", Type: normalize.TypeString},
	},
	DataTypeUnits: {
		{Name: "propertyName", Type: normalize.TypeString, Required: true},
		{Name: "unitNumber", Type: normalize.TypeString, Required: true},
		{Name: "unitType", Type: normalize.TypeUnitType},
		{Name: "bedrooms", Type: normalize.TypeCurrency},
		{Name: "bathrooms", Type: normalize.TypeCurrency},
		{Name: "squareFeet", Type: normalize.TypeCurrency},
		{Name: "monthlyRent", Type: normalize.TypeCurrency},
		{Name: "deposit", Type: normalize.TypeCurrency},
		{Name: "status", Type: normalize.TypeUnitStatus},
	},
	DataTypeTenants: {
		{Name: "firstName", Type: normalize.TypeName, Required: true},
		{Name: "lastName", Type: normalize.TypeName, Required: true},
		{Name: "email", Type: normalize.TypeEmail, Required: true},
		{Name: "phone", Type: normalize.TypePhone},
		{Name: "propertyName", Type: normalize.TypeString, Required: true},
		{Name: "unitNumber", Type: normalize.TypeString, Required: true},
		{Name: "moveInDate", Type: normalize.TypeDate},
		{Name: "monthlyRent", Type: normalize.TypeCurrency},
		{Name: "balance", Type: normalize.TypeCurrency},
	},
	DataTypeLeases: {
		{Name: "propertyName", Type: normalize.TypeString, Required: true},
		{Name: "unitNumber", Type: normalize.TypeString, Required: true},
		{Name: "tenantEmail", Type: normalize.TypeEmail, Required: true},
		{Name: "startDate", Type: normalize.TypeDate, Required: true},
		{Name: "endDate", Type: normalize.TypeDate},
		{Name: "monthlyRent", Type: normalize.TypeCurrency, Required: true},
		{Name: "deposit", Type: normalize.TypeCurrency},
		{Name: "status", Type: normalize.TypeLeaseStatus},
	},
	DataTypeVendors: {
		{Name: "name", Type: normalize.TypeString, Required: true},
		{Name: "contactName", Type: normalize.TypeName},
		{Name: "email", Type: normalize.TypeEmail},
		{Name: "phone", Type: normalize.TypePhone},
		{Name: "category", Type: normalize.TypeString},
		{Name: "address", Type: normalize.TypeAddress},
		{Name: "city", Type: normalize.TypeName},
		{Name: "state", Type: normalize.TypeState},
		{Name: "zipCode", Type: normalize.TypeZipCode},
		{Name: "isActive", Type: normalize.TypeBoolean},
	},
	DataTypeMaintenanceRequests: {
		{Name: "propertyName", Type: normalize.TypeString, Required: true},
		{Name: "unitNumber", Type: normalize.TypeString},
		{Name: "title", Type: normalize.TypeString, Required: true},
		{Name: "description", Type: normalize.TypeString},
		{Name: "priority", Type: normalize.TypePriority},
		{Name: "status", Type: normalize.TypeMaintenanceStatus},
		{Name: "category", Type: normalize.TypeString},
		{Name: "reportedDate", Type: normalize.TypeDate},
		{Name: "vendorName", Type: normalize.TypeString},
		{Name: "cost", Type: normalize.TypeCurrency},
	},
	DataTypeTransactions: {
		{Name: "propertyName", Type: normalize.TypeString, Required: true},
		{Name: "unitNumber", Type: normalize.TypeString},
		{Name: "tenantEmail", Type: normalize.TypeEmail},
		{Name: "type", Type: normalize.TypeString, Required: true},
		{Name: "amount", Type: normalize.TypeCurrency, Required: true},
		{Name: "date", Type: normalize.TypeDate, Required: true},
		{Name: "description", Type: normalize.TypeString},
		{Name: "category", Type: normalize.TypeString},
	},
}

// Fields returns the canonical field definitions for a data type.
func Fields(dataType DataType) []FieldDef {
	return fieldDefs[dataType]
}

// TypeOf returns the normalization type of one canonical field, defaulting
// to plain string for unknown fields.
func TypeOf(dataType DataType, field string) normalize.FieldType {
	for _, def := range fieldDefs[dataType] {
		if def.Name == field {
			return def.Type
		}
	}
	return normalize.TypeString
}
