package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/internal/fieldmap"
	"github.com/smallbiznis/rentfolio/internal/importer/domain"
	"github.com/smallbiznis/rentfolio/internal/normalize"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	"gorm.io/gorm"
)

// buildRecord normalizes one data row into canonical field values. A cell
// that is mapped, non-blank and still normalizes to nothing is a row error;
// so is a blank cell under a required field.
func buildRecord(dataType fieldmap.DataType, mapping map[string]string, headers []string, row []string, rowNum int) (map[string]any, []domain.RowError) {
	headerIdx := make(map[string]int, len(headers))
	for i, header := range headers {
		if _, exists := headerIdx[header]; !exists {
			headerIdx[header] = i
		}
	}

	record := make(map[string]any)
	var rowErrors []domain.RowError
	for _, def := range fieldmap.Fields(dataType) {
		header, mapped := mapping[def.Name]
		if !mapped {
			continue
		}
		var raw string
		if idx, ok := headerIdx[header]; ok && idx < len(row) {
			raw = row[idx]
		}

		value := normalize.Apply(def.Type, raw)
		blank := strings.TrimSpace(raw) == ""
		if str, ok := value.(string); ok && str == "" {
			value = nil
		}

		switch {
		case value == nil && def.Required:
			reason := "required value is missing"
			if !blank {
				reason = fmt.Sprintf("invalid %s value %q", def.Type, strings.TrimSpace(raw))
			}
			rowErrors = append(rowErrors, domain.RowError{Row: rowNum, Field: def.Name, Error: reason})
		case value == nil && !blank:
			rowErrors = append(rowErrors, domain.RowError{
				Row:   rowNum,
				Field: def.Name,
				Error: fmt.Sprintf("invalid %s value %q", def.Type, strings.TrimSpace(raw)),
			})
		case value != nil:
			record[def.Name] = value
		}
	}
	return record, rowErrors
}

func recordStr(record map[string]any, field string) string {
	if value, ok := record[field].(string); ok {
		return value
	}
	return ""
}

func recordNum(record map[string]any, field string) float64 {
	if value, ok := record[field].(float64); ok {
		return value
	}
	return 0
}

func recordBool(record map[string]any, field string, fallback bool) bool {
	if value, ok := record[field].(bool); ok {
		return value
	}
	return fallback
}

func recordDate(record map[string]any, field string) *time.Time {
	raw, ok := record[field].(string)
	if !ok || raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func rowError(rowNum int, field, format string, args ...any) *domain.RowError {
	return &domain.RowError{Row: rowNum, Field: field, Error: fmt.Sprintf(format, args...)}
}

// writeRow persists one normalized record. A *RowError means the row was
// rejected and the run continues; a plain error aborts the run.
func (s *Service) writeRow(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, dataType fieldmap.DataType, record map[string]any, rowNum int, now time.Time) (*domain.RowError, error) {
	switch dataType {
	case fieldmap.DataTypeProperties:
		return s.writeProperty(ctx, tx, orgID, batchID, record, now)
	case fieldmap.DataTypeUnits:
		return s.writeUnit(ctx, tx, orgID, batchID, record, rowNum, now)
	case fieldmap.DataTypeTenants:
		return s.writeTenant(ctx, tx, orgID, batchID, record, rowNum, now)
	case fieldmap.DataTypeLeases:
		return s.writeLease(ctx, tx, orgID, batchID, record, rowNum, now)
	case fieldmap.DataTypeVendors:
		return s.writeVendor(ctx, tx, orgID, batchID, record, now)
	case fieldmap.DataTypeMaintenanceRequests:
		return s.writeMaintenanceRequest(ctx, tx, orgID, batchID, record, rowNum, now)
	case fieldmap.DataTypeTransactions:
		return s.writeTransaction(ctx, tx, orgID, batchID, record, rowNum, now)
	}
	return nil, fmt.Errorf("unhandled data type %q", dataType)
}

func (s *Service) writeProperty(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, record map[string]any, now time.Time) (*domain.RowError, error) {
	property := portfoliodomain.Property{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Name:          recordStr(record, "name"),
		Address:       recordStr(record, "address"),
		City:          recordStr(record, "city"),
		State:         recordStr(record, "state"),
		ZipCode:       recordStr(record, "zipCode"),
		PropertyType:  recordStr(record, "propertyType"),
		YearBuilt:     recordStr(record, "yearBuilt"),
		Description:   recordStr(record, "description"),
		ImportBatchID: batchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return nil, s.portfolio.UpsertProperty(ctx, tx, &property)
}

func (s *Service) writeUnit(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, record map[string]any, rowNum int, now time.Time) (*domain.RowError, error) {
	property, err := s.portfolio.FindPropertyByName(ctx, tx, orgID, recordStr(record, "propertyName"))
	if err != nil {
		return nil, err
	}
	if property == nil {
		return rowError(rowNum, "propertyName", "property %q not found", recordStr(record, "propertyName")), nil
	}

	unit := portfoliodomain.Unit{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		PropertyID:    property.ID,
		UnitNumber:    recordStr(record, "unitNumber"),
		UnitType:      recordStr(record, "unitType"),
		Bedrooms:      recordNum(record, "bedrooms"),
		Bathrooms:     recordNum(record, "bathrooms"),
		SquareFeet:    recordNum(record, "squareFeet"),
		MonthlyRent:   recordNum(record, "monthlyRent"),
		Deposit:       recordNum(record, "deposit"),
		Status:        recordStr(record, "status"),
		ImportBatchID: batchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if unit.Status == "" {
		unit.Status = normalize.UnitStatusVacant
	}
	return nil, s.portfolio.UpsertUnit(ctx, tx, &unit)
}

func (s *Service) writeTenant(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, record map[string]any, rowNum int, now time.Time) (*domain.RowError, error) {
	property, err := s.portfolio.FindPropertyByName(ctx, tx, orgID, recordStr(record, "propertyName"))
	if err != nil {
		return nil, err
	}
	if property == nil {
		return rowError(rowNum, "propertyName", "property %q not found", recordStr(record, "propertyName")), nil
	}
	unit, err := s.portfolio.FindUnit(ctx, tx, orgID, property.ID, recordStr(record, "unitNumber"))
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return rowError(rowNum, "unitNumber", "unit %q not found in property %q", recordStr(record, "unitNumber"), property.Name), nil
	}

	tenant := portfoliodomain.Tenant{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		FirstName:     recordStr(record, "firstName"),
		LastName:      recordStr(record, "lastName"),
		Email:         recordStr(record, "email"),
		Phone:         recordStr(record, "phone"),
		PropertyID:    property.ID,
		UnitID:        unit.ID,
		MoveInDate:    recordDate(record, "moveInDate"),
		MonthlyRent:   recordNum(record, "monthlyRent"),
		Balance:       recordNum(record, "balance"),
		ImportBatchID: batchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return nil, s.portfolio.UpsertTenant(ctx, tx, &tenant)
}

func (s *Service) writeLease(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, record map[string]any, rowNum int, now time.Time) (*domain.RowError, error) {
	property, err := s.portfolio.FindPropertyByName(ctx, tx, orgID, recordStr(record, "propertyName"))
	if err != nil {
		return nil, err
	}
	if property == nil {
		return rowError(rowNum, "propertyName", "property %q not found", recordStr(record, "propertyName")), nil
	}
	unit, err := s.portfolio.FindUnit(ctx, tx, orgID, property.ID, recordStr(record, "unitNumber"))
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return rowError(rowNum, "unitNumber", "unit %q not found in property %q", recordStr(record, "unitNumber"), property.Name), nil
	}
	tenant, err := s.portfolio.FindTenantByEmail(ctx, tx, orgID, recordStr(record, "tenantEmail"))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return rowError(rowNum, "tenantEmail", "tenant %q not found", recordStr(record, "tenantEmail")), nil
	}

	startDate := recordDate(record, "startDate")
	if startDate == nil {
		return rowError(rowNum, "startDate", "required value is missing"), nil
	}

	lease := portfoliodomain.Lease{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		PropertyID:    property.ID,
		UnitID:        unit.ID,
		TenantID:      tenant.ID,
		StartDate:     *startDate,
		EndDate:       recordDate(record, "endDate"),
		MonthlyRent:   recordNum(record, "monthlyRent"),
		Deposit:       recordNum(record, "deposit"),
		Status:        recordStr(record, "status"),
		ImportBatchID: batchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if lease.Status == "" {
		lease.Status = normalize.LeaseStatusActive
	}
	return nil, s.portfolio.UpsertLease(ctx, tx, &lease)
}

func (s *Service) writeVendor(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, record map[string]any, now time.Time) (*domain.RowError, error) {
	vendor := portfoliodomain.Vendor{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Name:          recordStr(record, "name"),
		ContactName:   recordStr(record, "contactName"),
		Email:         recordStr(record, "email"),
		Phone:         recordStr(record, "phone"),
		Category:      recordStr(record, "category"),
		Address:       recordStr(record, "address"),
		City:          recordStr(record, "city"),
		State:         recordStr(record, "state"),
		ZipCode:       recordStr(record, "zipCode"),
		IsActive:      recordBool(record, "isActive", true),
		ImportBatchID: batchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return nil, s.portfolio.UpsertVendor(ctx, tx, &vendor)
}

func (s *Service) writeMaintenanceRequest(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, record map[string]any, rowNum int, now time.Time) (*domain.RowError, error) {
	property, err := s.portfolio.FindPropertyByName(ctx, tx, orgID, recordStr(record, "propertyName"))
	if err != nil {
		return nil, err
	}
	if property == nil {
		return rowError(rowNum, "propertyName", "property %q not found", recordStr(record, "propertyName")), nil
	}

	request := portfoliodomain.MaintenanceRequest{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		PropertyID:    property.ID,
		Title:         recordStr(record, "title"),
		Description:   recordStr(record, "description"),
		Priority:      recordStr(record, "priority"),
		Status:        recordStr(record, "status"),
		Category:      recordStr(record, "category"),
		ReportedAt:    recordDate(record, "reportedDate"),
		Cost:          recordNum(record, "cost"),
		ImportBatchID: batchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if request.Priority == "" {
		request.Priority = normalize.PriorityMedium
	}
	if request.Status == "" {
		request.Status = normalize.MaintenanceStatusOpen
	}

	if unitNumber := recordStr(record, "unitNumber"); unitNumber != "" {
		unit, err := s.portfolio.FindUnit(ctx, tx, orgID, property.ID, unitNumber)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return rowError(rowNum, "unitNumber", "unit %q not found in property %q", unitNumber, property.Name), nil
		}
		request.UnitID = unit.ID
	}
	if vendorName := recordStr(record, "vendorName"); vendorName != "" {
		vendor, err := s.portfolio.FindVendorByName(ctx, tx, orgID, vendorName)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return rowError(rowNum, "vendorName", "vendor %q not found", vendorName), nil
		}
		request.VendorID = vendor.ID
	}
	return nil, s.portfolio.CreateMaintenanceRequest(ctx, tx, &request)
}

func (s *Service) writeTransaction(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, batchID string, record map[string]any, rowNum int, now time.Time) (*domain.RowError, error) {
	property, err := s.portfolio.FindPropertyByName(ctx, tx, orgID, recordStr(record, "propertyName"))
	if err != nil {
		return nil, err
	}
	if property == nil {
		return rowError(rowNum, "propertyName", "property %q not found", recordStr(record, "propertyName")), nil
	}

	date := recordDate(record, "date")
	if date == nil {
		return rowError(rowNum, "date", "required value is missing"), nil
	}

	transaction := portfoliodomain.RentTransaction{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		PropertyID:    property.ID,
		Type:          recordStr(record, "type"),
		Amount:        recordNum(record, "amount"),
		Date:          *date,
		Description:   recordStr(record, "description"),
		Category:      recordStr(record, "category"),
		ImportBatchID: batchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if unitNumber := recordStr(record, "unitNumber"); unitNumber != "" {
		unit, err := s.portfolio.FindUnit(ctx, tx, orgID, property.ID, unitNumber)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return rowError(rowNum, "unitNumber", "unit %q not found in property %q", unitNumber, property.Name), nil
		}
		transaction.UnitID = unit.ID
	}
	if tenantEmail := recordStr(record, "tenantEmail"); tenantEmail != "" {
		tenant, err := s.portfolio.FindTenantByEmail(ctx, tx, orgID, tenantEmail)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return rowError(rowNum, "tenantEmail", "tenant %q not found", tenantEmail), nil
		}
		transaction.TenantID = tenant.ID
	}
	return nil, s.portfolio.CreateTransaction(ctx, tx, &transaction)
}
