package fieldmap

// FieldAliases is one canonical field with its acceptable source headers,
// in match-priority order.
type FieldAliases struct {
	Name    string
	Aliases []string
}

// Template maps one source system's export headers for one data type.
type Template struct {
	Source   Source
	Name     string
	DataType DataType
	Fields   []FieldAliases
}

// templatesFor returns the templates applicable to a declared source. A
// known source restricts detection to that system's templates; generic CSV
// (or an unknown source) tries appfolio, buildium, yardi and then the
// data-type-specific extras, in that order.
func templatesFor(dataType DataType, source Source) []Template {
	all := templates[dataType]
	if source != "" && source != SourceGenericCSV {
		matched := make([]Template, 0, 1)
		for _, template := range all {
			if template.Source == source {
				matched = append(matched, template)
			}
		}
		return matched
	}

	ordered := make([]Template, 0, len(all))
	for _, wantSource := range []Source{SourceAppfolio, SourceBuildium, SourceYardi} {
		for _, template := range all {
			if template.Source == wantSource && template.Name == string(wantSource) {
				ordered = append(ordered, template)
			}
		}
	}
	for _, template := range all {
		if template.Source == SourceRentManager {
			continue
		}
		if template.Name != string(template.Source) {
			ordered = append(ordered, template)
		}
	}
	return ordered
}

var templates = map[DataType][]Template{
	DataTypeProperties: {
		{
			Source: SourceAppfolio, Name: "appfolio", DataType: DataTypeProperties,
			Fields: []FieldAliases{
				{Name: "name", Aliases: []string{"Property Name", "Property", "Name"}},
				{Name: "address", Aliases: []string{"Property Address", "Address", "Street Address"}},
				{Name: "city", Aliases: []string{"City"}},
				{Name: "state", Aliases: []string{"State"}},
				{Name: "zipCode", Aliases: []string{"Zip", "Zip Code", "Postal Code"}},
				{Name: "propertyType", Aliases: []string{"Property Type", "Type"}},
				{Name: "yearBuilt", Aliases: []string{"Year Built"}},
			},
		},
		{
			Source: SourceBuildium, Name: "buildium", DataType: DataTypeProperties,
			Fields: []FieldAliases{
				{Name: "name", Aliases: []string{"PropertyName", "Rental Property"}},
				{Name: "address", Aliases: []string{"Address1", "AddressLine1", "Street"}},
				{Name: "city", Aliases: []string{"City", "Locality"}},
				{Name: "state", Aliases: []string{"State", "Region"}},
				{Name: "zipCode", Aliases: []string{"PostalCode", "Zip"}},
				{Name: "propertyType", Aliases: []string{"RentalType", "PropertyType"}},
			},
		},
		{
			Source: SourceYardi, Name: "yardi", DataType: DataTypeProperties,
			Fields: []FieldAliases{
				{Name: "name", Aliases: []string{"PROPERTY", "PROPERTY NAME", "Property Code"}},
				{Name: "address", Aliases: []string{"ADDRESS", "ADDR1"}},
				{Name: "city", Aliases: []string{"CITY"}},
				{Name: "state", Aliases: []string{"ST", "STATE"}},
				{Name: "zipCode", Aliases: []string{"ZIPCODE", "ZIP"}},
				{Name: "propertyType", Aliases: []string{"PROPTYPE"}},
			},
		},
		{
			Source: SourceRentManager, Name: "rentmanager-properties", DataType: DataTypeProperties,
			Fields: []FieldAliases{
				{Name: "name", Aliases: []string{"Property Name", "PropertyID"}},
				{Name: "address", Aliases: []string{"Street Address", "Address"}},
				{Name: "city", Aliases: []string{"City"}},
				{Name: "state", Aliases: []string{"State"}},
				{Name: "zipCode", Aliases: []string{"Zip"}},
			},
		},
	},
	DataTypeUnits: {
		{
			Source: SourceAppfolio, Name: "appfolio", DataType: DataTypeUnits,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"Property Name", "Property"}},
				{Name: "unitNumber", Aliases: []string{"Unit", "Unit Number", "Unit Name"}},
				{Name: "unitType", Aliases: []string{"Unit Type"}},
				{Name: "bedrooms", Aliases: []string{"Bedrooms", "Beds", "BR"}},
				{Name: "bathrooms", Aliases: []string{"Bathrooms", "Baths", "BA"}},
				{Name: "squareFeet", Aliases: []string{"Square Feet", "Sq Ft", "Sqft"}},
				{Name: "monthlyRent", Aliases: []string{"Rent", "Market Rent", "Monthly Rent"}},
				{Name: "deposit", Aliases: []string{"Deposit", "Security Deposit"}},
				{Name: "status", Aliases: []string{"Status", "Occupancy"}},
			},
		},
		{
			Source: SourceBuildium, Name: "buildium", DataType: DataTypeUnits,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"PropertyName", "Rental Property"}},
				{Name: "unitNumber", Aliases: []string{"UnitNumber", "Unit"}},
				{Name: "unitType", Aliases: []string{"UnitType"}},
				{Name: "bedrooms", Aliases: []string{"Beds", "NumberOfBedrooms"}},
				{Name: "bathrooms", Aliases: []string{"Baths", "NumberOfBathrooms"}},
				{Name: "squareFeet", Aliases: []string{"SquareFootage", "Size"}},
				{Name: "monthlyRent", Aliases: []string{"MarketRent", "Rent"}},
				{Name: "status", Aliases: []string{"Vacancy", "Status"}},
			},
		},
		{
			Source: SourceYardi, Name: "yardi", DataType: DataTypeUnits,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"PROPERTY", "PROPERTY NAME"}},
				{Name: "unitNumber", Aliases: []string{"UNIT", "UNITCODE"}},
				{Name: "unitType", Aliases: []string{"UNITTYPE"}},
				{Name: "bedrooms", Aliases: []string{"BEDS"}},
				{Name: "bathrooms", Aliases: []string{"BATHS"}},
				{Name: "squareFeet", Aliases: []string{"SQFT"}},
				{Name: "monthlyRent", Aliases: []string{"MARKETRENT", "RENT"}},
				{Name: "status", Aliases: []string{"UNITSTATUS", "STATUS"}},
			},
		},
	},
	DataTypeTenants: {
		{
			Source: SourceAppfolio, Name: "appfolio", DataType: DataTypeTenants,
			Fields: []FieldAliases{
				{Name: "firstName", Aliases: []string{"First Name", "Tenant First Name"}},
				{Name: "lastName", Aliases: []string{"Last Name", "Tenant Last Name"}},
				{Name: "email", Aliases: []string{"Email", "Email Address"}},
				{Name: "phone", Aliases: []string{"Phone", "Phone Number", "Mobile"}},
				{Name: "propertyName", Aliases: []string{"Property Name", "Property"}},
				{Name: "unitNumber", Aliases: []string{"Unit", "Unit Number"}},
				{Name: "moveInDate", Aliases: []string{"Move-in Date", "Move In", "Move-In"}},
				{Name: "monthlyRent", Aliases: []string{"Rent", "Monthly Rent"}},
				{Name: "balance", Aliases: []string{"Balance", "Outstanding Balance"}},
			},
		},
		{
			Source: SourceBuildium, Name: "buildium", DataType: DataTypeTenants,
			Fields: []FieldAliases{
				{Name: "firstName", Aliases: []string{"FirstName"}},
				{Name: "lastName", Aliases: []string{"LastName"}},
				{Name: "email", Aliases: []string{"Email", "EmailAddress"}},
				{Name: "phone", Aliases: []string{"PhoneNumber", "MobilePhone", "Phone"}},
				{Name: "propertyName", Aliases: []string{"PropertyName", "Rental Property"}},
				{Name: "unitNumber", Aliases: []string{"UnitNumber", "Unit"}},
				{Name: "moveInDate", Aliases: []string{"MoveInDate"}},
				{Name: "monthlyRent", Aliases: []string{"RentAmount", "Rent"}},
			},
		},
		{
			Source: SourceYardi, Name: "yardi", DataType: DataTypeTenants,
			Fields: []FieldAliases{
				{Name: "firstName", Aliases: []string{"FIRSTNAME", "FIRST NAME"}},
				{Name: "lastName", Aliases: []string{"LASTNAME", "LAST NAME"}},
				{Name: "email", Aliases: []string{"EMAIL"}},
				{Name: "phone", Aliases: []string{"PHONE", "PHONE1"}},
				{Name: "propertyName", Aliases: []string{"PROPERTY", "PROPERTY NAME"}},
				{Name: "unitNumber", Aliases: []string{"UNIT", "UNITCODE"}},
				{Name: "moveInDate", Aliases: []string{"MOVEIN", "MOVEINDATE"}},
				{Name: "monthlyRent", Aliases: []string{"RENT"}},
				{Name: "balance", Aliases: []string{"BALANCE", "DELINQUENT"}},
			},
		},
	},
	DataTypeLeases: {
		{
			Source: SourceAppfolio, Name: "appfolio", DataType: DataTypeLeases,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"Property Name", "Property"}},
				{Name: "unitNumber", Aliases: []string{"Unit", "Unit Number"}},
				{Name: "tenantEmail", Aliases: []string{"Tenant Email", "Email"}},
				{Name: "startDate", Aliases: []string{"Lease Start", "Start Date", "Lease From"}},
				{Name: "endDate", Aliases: []string{"Lease End", "End Date", "Lease To"}},
				{Name: "monthlyRent", Aliases: []string{"Rent", "Monthly Rent"}},
				{Name: "deposit", Aliases: []string{"Deposit", "Security Deposit"}},
				{Name: "status", Aliases: []string{"Status", "Lease Status"}},
			},
		},
		{
			Source: SourceBuildium, Name: "buildium-lease", DataType: DataTypeLeases,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"PropertyName", "Rental Property"}},
				{Name: "unitNumber", Aliases: []string{"UnitNumber", "Unit"}},
				{Name: "tenantEmail", Aliases: []string{"TenantEmail", "Email"}},
				{Name: "startDate", Aliases: []string{"LeaseFromDate", "LeaseStart"}},
				{Name: "endDate", Aliases: []string{"LeaseToDate", "LeaseEnd"}},
				{Name: "monthlyRent", Aliases: []string{"RentAmount", "Rent"}},
				{Name: "deposit", Aliases: []string{"SecurityDeposit", "Deposit"}},
				{Name: "status", Aliases: []string{"LeaseStatus", "Status"}},
			},
		},
		{
			Source: SourceYardi, Name: "yardi", DataType: DataTypeLeases,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"PROPERTY", "PROPERTY NAME"}},
				{Name: "unitNumber", Aliases: []string{"UNIT"}},
				{Name: "tenantEmail", Aliases: []string{"EMAIL"}},
				{Name: "startDate", Aliases: []string{"LEASEFROM", "LEASE START"}},
				{Name: "endDate", Aliases: []string{"LEASETO", "LEASE END"}},
				{Name: "monthlyRent", Aliases: []string{"RENT"}},
				{Name: "deposit", Aliases: []string{"DEPOSIT"}},
				{Name: "status", Aliases: []string{"STATUS"}},
			},
		},
	},
	DataTypeVendors: {
		{
			Source: SourceAppfolio, Name: "appfolio", DataType: DataTypeVendors,
			Fields: []FieldAliases{
				{Name: "name", Aliases: []string{"Vendor Name", "Company", "Name"}},
				{Name: "contactName", Aliases: []string{"Contact", "Contact Name"}},
				{Name: "email", Aliases: []string{"Email", "Email Address"}},
				{Name: "phone", Aliases: []string{"Phone", "Phone Number"}},
				{Name: "category", Aliases: []string{"Category", "Trade", "Service Type"}},
				{Name: "address", Aliases: []string{"Address", "Street Address"}},
				{Name: "city", Aliases: []string{"City"}},
				{Name: "state", Aliases: []string{"State"}},
				{Name: "zipCode", Aliases: []string{"Zip", "Zip Code"}},
			},
		},
		{
			Source: SourceGenericCSV, Name: "vendor-generic", DataType: DataTypeVendors,
			Fields: []FieldAliases{
				{Name: "name", Aliases: []string{"Vendor", "Business Name", "CompanyName"}},
				{Name: "contactName", Aliases: []string{"ContactPerson", "Primary Contact"}},
				{Name: "email", Aliases: []string{"ContactEmail", "E-mail"}},
				{Name: "phone", Aliases: []string{"ContactPhone", "Telephone", "Tel"}},
				{Name: "category", Aliases: []string{"Type", "Specialty"}},
				{Name: "isActive", Aliases: []string{"Active", "IsActive", "Enabled"}},
			},
		},
	},
	DataTypeMaintenanceRequests: {
		{
			Source: SourceAppfolio, Name: "appfolio", DataType: DataTypeMaintenanceRequests,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"Property Name", "Property"}},
				{Name: "unitNumber", Aliases: []string{"Unit", "Unit Number"}},
				{Name: "title", Aliases: []string{"Title", "Summary", "Work Order"}},
				{Name: "description", Aliases: []string{"Description", "Details", "Notes"}},
				{Name: "priority", Aliases: []string{"Priority"}},
				{Name: "status", Aliases: []string{"Status"}},
				{Name: "category", Aliases: []string{"Category", "Type"}},
				{Name: "reportedDate", Aliases: []string{"Created", "Reported Date", "Date Reported"}},
				{Name: "vendorName", Aliases: []string{"Vendor", "Assigned Vendor"}},
				{Name: "cost", Aliases: []string{"Cost", "Estimated Cost", "Amount"}},
			},
		},
		{
			Source: SourceBuildium, Name: "buildium", DataType: DataTypeMaintenanceRequests,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"PropertyName"}},
				{Name: "unitNumber", Aliases: []string{"UnitNumber", "Unit"}},
				{Name: "title", Aliases: []string{"TaskTitle", "Subject"}},
				{Name: "description", Aliases: []string{"TaskDescription", "Description"}},
				{Name: "priority", Aliases: []string{"TaskPriority", "Priority"}},
				{Name: "status", Aliases: []string{"TaskStatus", "Status"}},
				{Name: "reportedDate", Aliases: []string{"CreatedDate", "DateCreated"}},
			},
		},
	},
	DataTypeTransactions: {
		{
			Source: SourceAppfolio, Name: "appfolio", DataType: DataTypeTransactions,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"Property Name", "Property"}},
				{Name: "unitNumber", Aliases: []string{"Unit", "Unit Number"}},
				{Name: "tenantEmail", Aliases: []string{"Tenant Email", "Email"}},
				{Name: "type", Aliases: []string{"Type", "Transaction Type"}},
				{Name: "amount", Aliases: []string{"Amount", "Total"}},
				{Name: "date", Aliases: []string{"Date", "Transaction Date", "Posted"}},
				{Name: "description", Aliases: []string{"Description", "Memo"}},
				{Name: "category", Aliases: []string{"Category", "GL Account"}},
			},
		},
		{
			Source: SourceYardi, Name: "yardi", DataType: DataTypeTransactions,
			Fields: []FieldAliases{
				{Name: "propertyName", Aliases: []string{"PROPERTY"}},
				{Name: "unitNumber", Aliases: []string{"UNIT"}},
				{Name: "type", Aliases: []string{"TRANTYPE", "TYPE"}},
				{Name: "amount", Aliases: []string{"AMOUNT", "AMT"}},
				{Name: "date", Aliases: []string{"TRANDATE", "DATE"}},
				{Name: "description", Aliases: []string{"DESCRIPTION", "MEMO", "NOTES"}},
				{Name: "category", Aliases: []string{"CHARGECODE", "ACCOUNT"}},
			},
		},
	},
}
