// Package fieldmap resolves heterogeneous source-system column headers onto
// canonical target fields using ordered per-source templates.
package fieldmap

import "strings"

// DataType enumerates the importable entity types.
type DataType string

const (
	DataTypeProperties          DataType = "properties"
	DataTypeUnits               DataType = "units"
	DataTypeTenants             DataType = "tenants"
	DataTypeLeases              DataType = "leases"
	DataTypeVendors             DataType = "vendors"
	DataTypeMaintenanceRequests DataType = "maintenance_requests"
	DataTypeTransactions        DataType = "transactions"
)

// Source identifies the system an export file came from.
type Source string

const (
	SourceAppfolio    Source = "appfolio"
	SourceBuildium    Source = "buildium"
	SourceYardi       Source = "yardi"
	SourceRentManager Source = "rentmanager"
	SourceGenericCSV  Source = "generic_csv"
)

// ValidDataType reports whether the value names a supported data type.
func ValidDataType(value string) (DataType, bool) {
	switch DataType(value) {
	case DataTypeProperties, DataTypeUnits, DataTypeTenants, DataTypeLeases,
		DataTypeVendors, DataTypeMaintenanceRequests, DataTypeTransactions:
		return DataType(value), true
	}
	return "", false
}

// ValidSource reports whether the value names a supported source system.
// Empty input is treated as generic CSV.
func ValidSource(value string) (Source, bool) {
	if strings.TrimSpace(value) == "" {
		return SourceGenericCSV, true
	}
	switch Source(value) {
	case SourceAppfolio, SourceBuildium, SourceYardi, SourceRentManager, SourceGenericCSV:
		return Source(value), true
	}
	return "", false
}

// AutoDetect maps canonical field names to the exact header strings present
// in the uploaded file. Templates are evaluated in a fixed priority order;
// within a template each field's alias list is scanned in order and the
// first header whose trimmed, case-insensitive value equals an alias wins.
// Once a canonical field is mapped it is never overwritten by a later
// template. Fields with no match are absent from the result.
func AutoDetect(headers []string, dataType DataType, source Source) map[string]string {
	headerIndex := make(map[string]string, len(headers))
	for _, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		if key == "" {
			continue
		}
		if _, exists := headerIndex[key]; !exists {
			headerIndex[key] = header
		}
	}

	mapping := make(map[string]string)
	for _, template := range templatesFor(dataType, source) {
		for _, field := range template.Fields {
			if _, mapped := mapping[field.Name]; mapped {
				continue
			}
			for _, alias := range field.Aliases {
				if header, ok := headerIndex[strings.ToLower(strings.TrimSpace(alias))]; ok {
					mapping[field.Name] = header
					break
				}
			}
		}
	}
	return mapping
}

// ValidationResult reports required-field coverage for a mapping.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	MissingFields []string `json:"missing_fields"`
}

// Validate checks the fixed required-field list for the data type and
// reports which required canonical fields are absent from the mapping.
func Validate(mapping map[string]string, dataType DataType) ValidationResult {
	missing := make([]string, 0)
	for _, def := range Fields(dataType) {
		if !def.Required {
			continue
		}
		if _, ok := mapping[def.Name]; !ok {
			missing = append(missing, def.Name)
		}
	}
	return ValidationResult{Valid: len(missing) == 0, MissingFields: missing}
}
