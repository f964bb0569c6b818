package migration

import (
	"github.com/smallbiznis/rentfolio/internal/config"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	importerdomain "github.com/smallbiznis/rentfolio/internal/importer/domain"
	organizationdomain "github.com/smallbiznis/rentfolio/internal/organization/domain"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	"github.com/smallbiznis/rentfolio/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs lean on gorm to build the schema.
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.DefaultOrgID != 0 {
			return seed.EnsureMainOrgWithID(conn, cfg.DefaultOrgID)
		}
		return seed.EnsureMainOrg(conn)
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&organizationdomain.Organization{},
		&portfoliodomain.Property{},
		&portfoliodomain.Unit{},
		&portfoliodomain.Tenant{},
		&portfoliodomain.Lease{},
		&portfoliodomain.Vendor{},
		&portfoliodomain.MaintenanceRequest{},
		&portfoliodomain.RentTransaction{},
		&portfoliodomain.Payment{},
		&portfoliodomain.SmsPreference{},
		&importerdomain.ImportJob{},
		&delinquencydomain.DelinquencyPlaybook{},
		&delinquencydomain.DelinquencyAction{},
	)
}
