package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoDetectFirstAliasWins(t *testing.T) {
	// Both headers are aliases of "name" in the appfolio template; the one
	// listed first in the alias list must win.
	headers := []string{"PropertyName", "Property Name", "Property Address"}
	mapping := AutoDetect(headers, DataTypeProperties, SourceAppfolio)

	assert.Equal(t, "Property Name", mapping["name"])
	assert.Equal(t, "Property Address", mapping["address"])
}

func TestAutoDetectCaseInsensitiveAndTrimmed(t *testing.T) {
	headers := []string{"  property name ", "ADDRESS", "zip code"}
	mapping := AutoDetect(headers, DataTypeProperties, SourceAppfolio)

	assert.Equal(t, "  property name ", mapping["name"])
	assert.Equal(t, "ADDRESS", mapping["address"])
	assert.Equal(t, "zip code", mapping["zipCode"])
}

func TestAutoDetectUnmappedFieldsAbsent(t *testing.T) {
	mapping := AutoDetect([]string{"Property Name"}, DataTypeProperties, SourceAppfolio)

	assert.Equal(t, "Property Name", mapping["name"])
	_, present := mapping["address"]
	assert.False(t, present, "unmapped fields must be absent, not empty")
}

func TestAutoDetectGenericTriesAllTemplatesInOrder(t *testing.T) {
	// "PropertyName" only matches the buildium template; an earlier
	// appfolio match for the same field must not be overwritten and a
	// later template must still fill fields the earlier ones missed.
	headers := []string{"PropertyName", "ADDR1"}
	mapping := AutoDetect(headers, DataTypeProperties, SourceGenericCSV)

	assert.Equal(t, "PropertyName", mapping["name"])
	assert.Equal(t, "ADDR1", mapping["address"]) // yardi alias
}

func TestAutoDetectFirstTemplateWinsAcrossTemplates(t *testing.T) {
	// "Property Name" (appfolio) and "PropertyName" (buildium) are both
	// present; appfolio runs first for generic sources.
	headers := []string{"PropertyName", "Property Name"}
	mapping := AutoDetect(headers, DataTypeProperties, SourceGenericCSV)

	assert.Equal(t, "Property Name", mapping["name"])
}

func TestAutoDetectKnownSourceIgnoresOtherTemplates(t *testing.T) {
	// yardi headers should not be picked up when the file is declared appfolio.
	mapping := AutoDetect([]string{"ADDR1"}, DataTypeProperties, SourceAppfolio)
	_, present := mapping["address"]
	assert.False(t, present)
}

func TestAutoDetectVendorGenericExtra(t *testing.T) {
	mapping := AutoDetect([]string{"Business Name", "ContactPhone"}, DataTypeVendors, SourceGenericCSV)
	assert.Equal(t, "Business Name", mapping["name"])
	assert.Equal(t, "ContactPhone", mapping["phone"])
}

func TestValidate(t *testing.T) {
	result := Validate(map[string]string{"name": "Property Name", "address": "Address"}, DataTypeProperties)
	assert.True(t, result.Valid)
	assert.Empty(t, result.MissingFields)

	result = Validate(map[string]string{"name": "Property Name"}, DataTypeProperties)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"address"}, result.MissingFields)

	result = Validate(map[string]string{}, DataTypeTenants)
	assert.False(t, result.Valid)
	assert.ElementsMatch(t,
		[]string{"firstName", "lastName", "email", "propertyName", "unitNumber"},
		result.MissingFields)
}

func TestValidDataTypeAndSource(t *testing.T) {
	_, ok := ValidDataType("tenants")
	assert.True(t, ok)
	_, ok = ValidDataType("wizards")
	assert.False(t, ok)

	source, ok := ValidSource("")
	assert.True(t, ok)
	assert.Equal(t, SourceGenericCSV, source)
	_, ok = ValidSource("quickbooks")
	assert.False(t, ok)
}
