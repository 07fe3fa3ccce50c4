// Package seed loads a small demo dataset so a fresh local deployment has
// offices, machines and three months of usage to bill against.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	machinedomain "github.com/lunelaser/lunebill/internal/machine/domain"
	officedomain "github.com/lunelaser/lunebill/internal/office/domain"
	usagedomain "github.com/lunelaser/lunebill/internal/usage/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sampleOffice struct {
	office       officedomain.Office
	machineCount int
}

// EnsureSampleData inserts the demo dataset once. It is a no-op when any
// office already exists, so restarting a seeded deployment changes nothing.
func EnsureSampleData(conn *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	var count int64
	if err := conn.Model(&officedomain.Office{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count offices: %w", err)
	}
	if count > 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	samples := []sampleOffice{
		{
			office: officedomain.Office{
				Name:    "Bright Smile Dental",
				NPIID:   "1234567890",
				Address: "123 Main Street, Los Angeles, CA 90210",
				Town:    "Los Angeles",
				State:   "California",
				Phone:   "(555) 123-4567",
				Email:   "info@brightsmile.com",
			},
			machineCount: 2,
		},
		{
			office: officedomain.Office{
				Name:    "Perfect Teeth Clinic",
				NPIID:   "0987654321",
				Address: "456 Broadway, New York, NY 10001",
				Town:    "New York",
				State:   "New York",
				Phone:   "(555) 987-6543",
				Email:   "contact@perfectteeth.com",
			},
			machineCount: 1,
		},
		{
			office: officedomain.Office{
				Name:    "Family Dental Care",
				NPIID:   "1122334455",
				Address: "789 Oak Avenue, Houston, TX 77001",
				Town:    "Houston",
				State:   "Texas",
				Phone:   "(555) 111-2222",
				Email:   "hello@familydentalcare.com",
			},
			machineCount: 3,
		},
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		for _, sample := range samples {
			office := sample.office
			office.ID = node.Generate()
			if err := tx.Create(&office).Error; err != nil {
				return fmt.Errorf("seed office %s: %w", office.Name, err)
			}

			for i := 1; i <= sample.machineCount; i++ {
				machine := machinedomain.Machine{
					ID:           node.Generate(),
					SerialNumber: fmt.Sprintf("LN%s%03d", office.NPIID[len(office.NPIID)-4:], i),
					OfficeID:     office.ID,
					Model:        "Lune Laser",
					PurchaseDate: time.Date(2024, time.Month(rng.Intn(12)+1), rng.Intn(28)+1, 0, 0, 0, 0, time.UTC),
				}
				if err := tx.Create(&machine).Error; err != nil {
					return fmt.Errorf("seed machine %s: %w", machine.SerialNumber, err)
				}

				if err := seedUsage(tx, node, rng, machine.ID); err != nil {
					return err
				}
			}

			log.Info("seeded office", zap.String("name", office.Name))
		}
		return nil
	})
}

// seedUsage writes randomized button activity for the current month and the
// two before it, mirroring a lightly used clinic.
func seedUsage(tx *gorm.DB, node *snowflake.Node, rng *rand.Rand, machineID snowflake.ID) error {
	now := time.Now().UTC()
	records := make([]usagedomain.UsageRecord, 0, 1024)

	for back := 2; back >= 0; back-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -back, 0)
		daysInMonth := monthStart.AddDate(0, 1, -1).Day()

		for day := 1; day <= daysInMonth; day++ {
			perDay := rng.Intn(11) + 5
			for i := 0; i < perDay; i++ {
				start := time.Date(monthStart.Year(), monthStart.Month(), day,
					rng.Intn(10)+8, rng.Intn(60), rng.Intn(60), 0, time.UTC)
				duration := int64(rng.Intn(271) + 30)
				records = append(records, usagedomain.UsageRecord{
					ID:              node.Generate(),
					MachineID:       machineID,
					ButtonNumber:    rng.Intn(6) + 1,
					StartTime:       start,
					EndTime:         start.Add(time.Duration(duration) * time.Second),
					DurationSeconds: duration,
					UsageDate:       time.Date(monthStart.Year(), monthStart.Month(), day, 0, 0, 0, 0, time.UTC),
				})
			}
		}
	}

	if err := tx.CreateInBatches(records, 500).Error; err != nil {
		return fmt.Errorf("seed usage for machine %s: %w", machineID, err)
	}
	return nil
}
