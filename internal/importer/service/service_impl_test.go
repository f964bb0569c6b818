package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/rentfolio/internal/clock"
	"github.com/smallbiznis/rentfolio/internal/config"
	"github.com/smallbiznis/rentfolio/internal/importer/domain"
	importerrepo "github.com/smallbiznis/rentfolio/internal/importer/repository"
	"github.com/smallbiznis/rentfolio/internal/orgcontext"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	portfoliorepo "github.com/smallbiznis/rentfolio/internal/portfolio/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ImportJob{},
		&portfoliodomain.Property{},
		&portfoliodomain.Unit{},
		&portfoliodomain.Tenant{},
		&portfoliodomain.Lease{},
		&portfoliodomain.Vendor{},
		&portfoliodomain.MaintenanceRequest{},
		&portfoliodomain.RentTransaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Config:    config.Config{ImportMaxUploadBytes: 25 << 20},
		Repo:      importerrepo.Provide(),
		Portfolio: portfoliorepo.Provide(),
	})
	return svc, db, fake, node.Generate()
}

func orgCtx(orgID snowflake.ID) context.Context {
	return orgcontext.WithOrgID(context.Background(), int64(orgID))
}

func uploadCSV(t *testing.T, svc domain.Service, ctx context.Context, dataType, content string) domain.UploadResponse {
	t.Helper()
	resp, err := svc.Upload(ctx, domain.UploadRequest{
		FileName: "export.csv",
		DataType: dataType,
		File:     strings.NewReader(content),
	})
	require.NoError(t, err)
	return resp
}

const propertiesCSV = `Property Name,Address,City,State,Zip
Sunset Villas,123 main street,austin,texas,78701
Oak Ridge,456 oak avenue,Dallas,TX,75201
`

func TestUploadDetectsMappingAndPreview(t *testing.T) {
	svc, _, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)

	assert.Equal(t, domain.StatusPending, resp.Job.Status)
	assert.Equal(t, 2, resp.Job.TotalRows)
	assert.Equal(t, "Property Name", resp.Mapping["name"])
	assert.Equal(t, "Address", resp.Mapping["address"])
	assert.Equal(t, "Zip", resp.Mapping["zipCode"])
	assert.Empty(t, resp.MissingFields)
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, "Sunset Villas", resp.Preview[0]["Property Name"])
}

func TestUploadRejectsBadInput(t *testing.T) {
	svc, _, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	_, err := svc.Upload(ctx, domain.UploadRequest{
		FileName: "export.csv", DataType: "wizards", File: strings.NewReader(propertiesCSV),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDataType)

	_, err = svc.Upload(ctx, domain.UploadRequest{
		FileName: "export.pdf", DataType: "properties", File: strings.NewReader(propertiesCSV),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = svc.Upload(ctx, domain.UploadRequest{
		FileName: "export.csv", DataType: "properties", File: strings.NewReader(""),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = svc.Upload(context.Background(), domain.UploadRequest{
		FileName: "export.csv", DataType: "properties", File: strings.NewReader(propertiesCSV),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestExecuteImportsAndNormalizes(t *testing.T) {
	svc, db, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	job, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 2, job.TotalRows)
	assert.Equal(t, 2, job.ProcessedRows)
	assert.Equal(t, 2, job.SuccessfulRows)
	assert.Equal(t, 0, job.FailedRows)
	assert.NotEmpty(t, job.ImportBatchID)

	var property portfoliodomain.Property
	require.NoError(t, db.Where("org_id = ? AND name = ?", orgID, "Sunset Villas").First(&property).Error)
	assert.Equal(t, "123 main St", property.Address)
	assert.Equal(t, "Austin", property.City)
	assert.Equal(t, "TX", property.State)
	assert.Equal(t, "78701", property.ZipCode)
	assert.Equal(t, job.ImportBatchID, property.ImportBatchID)
}

func TestExecuteIsolatesRowFailures(t *testing.T) {
	svc, db, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	var sb strings.Builder
	sb.WriteString("Property Name,Address\n")
	for i := 1; i <= 9; i++ {
		fmt.Fprintf(&sb, "Property %d,%d Elm St\n", i, i)
	}
	sb.WriteString("Broken Property,\n")

	resp := uploadCSV(t, svc, ctx, "properties", sb.String())
	job, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 10, job.ProcessedRows)
	assert.Equal(t, 9, job.SuccessfulRows)
	assert.Equal(t, 1, job.FailedRows)

	var rowErrors []domain.RowError
	require.NoError(t, json.Unmarshal(job.ValidationErrors, &rowErrors))
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 10, rowErrors[0].Row)
	assert.Equal(t, "address", rowErrors[0].Field)

	var count int64
	db.Model(&portfoliodomain.Property{}).Where("org_id = ?", orgID).Count(&count)
	assert.EqualValues(t, 9, count)
}

func TestExecuteDryRunWritesNothing(t *testing.T) {
	svc, db, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	job, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String(), DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, job.Status)
	assert.True(t, job.DryRun)
	assert.Equal(t, 2, job.SuccessfulRows)
	assert.Empty(t, job.ImportBatchID)
	assert.Nil(t, job.StartedAt)

	var count int64
	db.Model(&portfoliodomain.Property{}).Where("org_id = ?", orgID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDryRunThenRealExecute(t *testing.T) {
	svc, db, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	var sb strings.Builder
	sb.WriteString("Property Name,Address\n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&sb, "Property %d,%d Elm St\n", i, i)
	}
	sb.WriteString("Broken Property,\n")

	resp := uploadCSV(t, svc, ctx, "properties", sb.String())
	id := resp.Job.ID.String()

	dry, err := svc.Execute(ctx, domain.ExecuteRequest{ID: id, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, dry.Status)
	assert.Equal(t, 5, dry.ProcessedRows)
	assert.Equal(t, 4, dry.SuccessfulRows)
	assert.Equal(t, 1, dry.FailedRows)

	var count int64
	db.Model(&portfoliodomain.Property{}).Where("org_id = ?", orgID).Count(&count)
	assert.EqualValues(t, 0, count)

	live, err := svc.Execute(ctx, domain.ExecuteRequest{ID: id})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, live.Status)
	assert.False(t, live.DryRun)
	assert.Equal(t, dry.ProcessedRows, live.ProcessedRows)
	assert.Equal(t, dry.SuccessfulRows, live.SuccessfulRows)
	assert.Equal(t, dry.FailedRows, live.FailedRows)
	assert.NotEmpty(t, live.ImportBatchID)

	db.Model(&portfoliodomain.Property{}).Where("org_id = ?", orgID).Count(&count)
	assert.EqualValues(t, 4, count)
}

func TestExecuteClaimsJobOnce(t *testing.T) {
	svc, _, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	_, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	_, err = svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	assert.ErrorIs(t, err, domain.ErrJobNotExecutable)
}

func TestExecuteFailsOnUnmappedRequiredFields(t *testing.T) {
	svc, _, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", "Property Name\nSunset Villas\n")
	require.Contains(t, resp.MissingFields, "address")

	job, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "address")
}

func TestUnitsRequireExistingProperty(t *testing.T) {
	svc, db, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	_, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	unitsCSV := "Property Name,Unit,Rent\nSunset Villas,101,\"$1,250.00\"\nNowhere Plaza,201,900\n"
	resp = uploadCSV(t, svc, ctx, "units", unitsCSV)
	job, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 1, job.SuccessfulRows)
	assert.Equal(t, 1, job.FailedRows)

	var rowErrors []domain.RowError
	require.NoError(t, json.Unmarshal(job.ValidationErrors, &rowErrors))
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 2, rowErrors[0].Row)
	assert.Equal(t, "propertyName", rowErrors[0].Field)

	var unit portfoliodomain.Unit
	require.NoError(t, db.Where("org_id = ? AND unit_number = ?", orgID, "101").First(&unit).Error)
	assert.Equal(t, "vacant", unit.Status)
	assert.InDelta(t, 1250.0, unit.MonthlyRent, 0.001)
}

func TestReimportUpdatesInsteadOfDuplicating(t *testing.T) {
	svc, db, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	_, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	updated := "Property Name,Address,City\nSunset Villas,789 new road,Houston\n"
	resp = uploadCSV(t, svc, ctx, "properties", updated)
	job, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, job.Status)

	var count int64
	db.Model(&portfoliodomain.Property{}).Where("org_id = ? AND name = ?", orgID, "Sunset Villas").Count(&count)
	assert.EqualValues(t, 1, count)

	var property portfoliodomain.Property
	require.NoError(t, db.Where("org_id = ? AND name = ?", orgID, "Sunset Villas").First(&property).Error)
	assert.Equal(t, "789 new Rd", property.Address)
	assert.NotEqual(t, job.ImportBatchID, property.ImportBatchID, "update keeps the creating batch tag")
}

func TestRollbackDeletesOnlyBatchRows(t *testing.T) {
	svc, db, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	first, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	resp = uploadCSV(t, svc, ctx, "properties", "Property Name,Address\nThird Place,12 third street\n")
	second, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)

	rollback, err := svc.Rollback(ctx, domain.RollbackRequest{ID: second.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRolledBack, rollback.Job.Status)
	assert.EqualValues(t, 1, rollback.RowsDeleted)

	var count int64
	db.Model(&portfoliodomain.Property{}).Where("org_id = ?", orgID).Count(&count)
	assert.EqualValues(t, 2, count)

	_, err = svc.Rollback(ctx, domain.RollbackRequest{ID: second.ID.String()})
	assert.ErrorIs(t, err, domain.ErrJobNotRollbackable)

	_ = first
}

func TestRollbackRejectsDryRunAndPending(t *testing.T) {
	svc, _, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	_, err := svc.Rollback(ctx, domain.RollbackRequest{ID: resp.Job.ID.String()})
	assert.ErrorIs(t, err, domain.ErrJobNotRollbackable)

	job, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String(), DryRun: true})
	require.NoError(t, err)
	_, err = svc.Rollback(ctx, domain.RollbackRequest{ID: job.ID.String()})
	assert.ErrorIs(t, err, domain.ErrJobNotRollbackable)
}

func TestUpdateMapping(t *testing.T) {
	svc, _, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	id := resp.Job.ID.String()

	_, err := svc.UpdateMapping(ctx, domain.UpdateMappingRequest{
		ID: id, Mapping: map[string]string{"wizard": "Property Name"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMapping)

	_, err = svc.UpdateMapping(ctx, domain.UpdateMappingRequest{
		ID: id, Mapping: map[string]string{"name": "No Such Header"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMapping)

	job, err := svc.UpdateMapping(ctx, domain.UpdateMappingRequest{
		ID: id, Mapping: map[string]string{"name": "Property Name", "address": "Address", "city": "City"},
	})
	require.NoError(t, err)
	assert.Equal(t, "City", job.Mapping()["city"])

	_, err = svc.Execute(ctx, domain.ExecuteRequest{ID: id})
	require.NoError(t, err)
	_, err = svc.UpdateMapping(ctx, domain.UpdateMappingRequest{
		ID: id, Mapping: map[string]string{"name": "Property Name"},
	})
	assert.ErrorIs(t, err, domain.ErrJobNotEditable)
}

func TestListFiltersAndScopesByOrg(t *testing.T) {
	svc, _, _, orgID := setupService(t)
	ctx := orgCtx(orgID)

	resp := uploadCSV(t, svc, ctx, "properties", propertiesCSV)
	_, err := svc.Execute(ctx, domain.ExecuteRequest{ID: resp.Job.ID.String()})
	require.NoError(t, err)
	uploadCSV(t, svc, ctx, "vendors", "Vendor Name,Phone\nAcme Plumbing,512-555-0100\n")

	all, err := svc.List(ctx, domain.ListImportJobsRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Jobs, 2)

	completed, err := svc.List(ctx, domain.ListImportJobsRequest{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed.Jobs, 1)
	assert.Equal(t, "properties", completed.Jobs[0].DataType)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	otherCtx := orgCtx(node.Generate())
	other, err := svc.List(otherCtx, domain.ListImportJobsRequest{})
	require.NoError(t, err)
	assert.Empty(t, other.Jobs)

	_, err = svc.GetByID(otherCtx, domain.GetImportJobRequest{ID: resp.Job.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
