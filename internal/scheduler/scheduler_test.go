package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/rentfolio/internal/clock"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	delinquencyrepo "github.com/smallbiznis/rentfolio/internal/delinquency/repository"
	delinquencyservice "github.com/smallbiznis/rentfolio/internal/delinquency/service"
	importerdomain "github.com/smallbiznis/rentfolio/internal/importer/domain"
	importerrepo "github.com/smallbiznis/rentfolio/internal/importer/repository"
	obsmetrics "github.com/smallbiznis/rentfolio/internal/observability/metrics"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	portfoliorepo "github.com/smallbiznis/rentfolio/internal/portfolio/repository"
	"github.com/smallbiznis/rentfolio/internal/providers/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupScheduler(t *testing.T) (*Scheduler, *gorm.DB, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&importerdomain.ImportJob{},
		&delinquencydomain.DelinquencyPlaybook{},
		&delinquencydomain.DelinquencyAction{},
		&portfoliodomain.Payment{},
		&portfoliodomain.Tenant{},
		&portfoliodomain.Lease{},
		&portfoliodomain.Property{},
		&portfoliodomain.SmsPreference{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	delinquencySvc := delinquencyservice.New(delinquencyservice.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      delinquencyrepo.Provide(),
		Portfolio: portfoliorepo.Provide(),
		SMS:       &sms.NoOpProvider{},
	})

	sched, err := New(Params{
		DB:             db,
		Log:            zap.NewNop(),
		Clock:          fake,
		Config:         Config{StaleImportThreshold: time.Hour},
		DelinquencySvc: delinquencySvc,
		ImportRepo:     importerrepo.Provide(),
	})
	require.NoError(t, err)
	return sched, db, fake, node
}

func TestNewRejectsMissingDeps(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunOnceRunsSweep(t *testing.T) {
	sched, _, _, _ := setupScheduler(t)
	require.NoError(t, sched.RunOnce(context.Background()))
}

func TestStaleImportRecovery(t *testing.T) {
	sched, db, fake, node := setupScheduler(t)
	now := fake.Now()

	stale := importerdomain.ImportJob{
		ID: node.Generate(), OrgID: node.Generate(),
		DataType: "properties", Source: "generic_csv", FileName: "export.csv",
		Status:    importerdomain.StatusImporting,
		CreatedAt: now.Add(-3 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
	}
	require.NoError(t, db.Create(&stale).Error)

	fresh := importerdomain.ImportJob{
		ID: node.Generate(), OrgID: stale.OrgID,
		DataType: "properties", Source: "generic_csv", FileName: "export2.csv",
		Status:    importerdomain.StatusImporting,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, db.Create(&fresh).Error)

	done := importerdomain.ImportJob{
		ID: node.Generate(), OrgID: stale.OrgID,
		DataType: "properties", Source: "generic_csv", FileName: "export3.csv",
		Status:    importerdomain.StatusCompleted,
		CreatedAt: now.Add(-3 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
	}
	require.NoError(t, db.Create(&done).Error)

	require.NoError(t, sched.StaleImportRecoveryJob(context.Background()))

	var reloaded importerdomain.ImportJob
	require.NoError(t, db.First(&reloaded, "id = ?", stale.ID).Error)
	assert.Equal(t, importerdomain.StatusFailed, reloaded.Status)
	assert.Equal(t, "stalled", reloaded.ErrorMessage)

	reloaded = importerdomain.ImportJob{}
	require.NoError(t, db.First(&reloaded, "id = ?", fresh.ID).Error)
	assert.Equal(t, importerdomain.StatusImporting, reloaded.Status)

	reloaded = importerdomain.ImportJob{}
	require.NoError(t, db.First(&reloaded, "id = ?", done.ID).Error)
	assert.Equal(t, importerdomain.StatusCompleted, reloaded.Status)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 24*time.Hour, cfg.RunInterval)
	assert.Equal(t, 10*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 30*time.Minute, cfg.LockTTL)
	assert.Equal(t, time.Hour, cfg.StaleImportThreshold)
}

func TestRunJobTimeoutDoesNotReturnErrorAndIncrementsTimeout(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()

	obsmetrics.ResetForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{
		ServiceName: "rentfolio",
		Environment: "test",
	})

	s := &Scheduler{log: zap.NewNop(), clock: clock.NewFakeClock(time.Time{})}
	err := s.runJob(context.Background(), "timeout_job", 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	labels := map[string]string{
		"service": "rentfolio",
		"env":     "test",
		"job":     "timeout_job",
	}
	assert.EqualValues(t, 1, getCounterValue(t, registry, "rentfolio_scheduler_job_timeouts_total", labels))

	errorLabels := map[string]string{
		"service": "rentfolio",
		"env":     "test",
		"job":     "timeout_job",
		"reason":  obsmetrics.SchedulerJobReasonDeadlineExceeded,
	}
	assert.EqualValues(t, 1, getCounterValue(t, registry, "rentfolio_scheduler_job_errors_total", errorLabels))
}

func swapPrometheusRegistry(registry *prometheus.Registry) func() {
	oldRegisterer := prometheus.DefaultRegisterer
	oldGatherer := prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	return func() {
		prometheus.DefaultRegisterer = oldRegisterer
		prometheus.DefaultGatherer = oldGatherer
		obsmetrics.ResetForTest()
	}
}

func getCounterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if !labelsMatch(metric, labels) {
				continue
			}
			require.NotNil(t, metric.Counter, "metric %s is not a counter", name)
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.Label) != len(labels) {
		return false
	}
	for _, label := range metric.Label {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}
