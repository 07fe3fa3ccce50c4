package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lunelaser/lunebill/internal/machine/domain"
	machinerepo "github.com/lunelaser/lunebill/internal/machine/repository"
	officedomain "github.com/lunelaser/lunebill/internal/office/domain"
	officerepo "github.com/lunelaser/lunebill/internal/office/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupMachineService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&officedomain.Office{}, &domain.Machine{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       machinerepo.Provide(),
		OfficeRepo: officerepo.Provide(),
	})
	return svc, conn, node
}

func createTestOffice(t *testing.T, conn *gorm.DB, node *snowflake.Node) officedomain.Office {
	t.Helper()
	office := officedomain.Office{
		ID:    node.Generate(),
		Name:  "Bright Smile Dental",
		NPIID: "1234567890",
	}
	require.NoError(t, conn.Create(&office).Error)
	return office
}

func TestCreateMachine(t *testing.T) {
	svc, conn, node := setupMachineService(t)
	office := createTestOffice(t, conn, node)

	machine, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN7890001",
		OfficeID:     office.ID,
		Model:        "Lune Laser",
		PurchaseDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.NotZero(t, machine.ID)
	assert.Equal(t, "LN7890001", machine.SerialNumber)
	assert.Equal(t, office.ID, machine.OfficeID)
}

func TestCreateMachineValidation(t *testing.T) {
	svc, conn, node := setupMachineService(t)
	office := createTestOffice(t, conn, node)
	purchase := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		OfficeID: office.ID, PurchaseDate: purchase,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSerial)

	_, err = svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN1", PurchaseDate: purchase,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOffice)

	_, err = svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN1", OfficeID: office.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPurchaseDate)

	_, err = svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN1", OfficeID: node.Generate(), PurchaseDate: purchase,
	})
	assert.ErrorIs(t, err, officedomain.ErrNotFound)
}

func TestCreateMachineDuplicateSerial(t *testing.T) {
	svc, conn, node := setupMachineService(t)
	office := createTestOffice(t, conn, node)
	purchase := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN1", OfficeID: office.ID, PurchaseDate: purchase,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN1", OfficeID: office.ID, PurchaseDate: purchase,
	})
	assert.ErrorIs(t, err, domain.ErrSerialExists)
}

func TestGetMachineBySerial(t *testing.T) {
	svc, conn, node := setupMachineService(t)
	office := createTestOffice(t, conn, node)

	created, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN42",
		OfficeID:     office.ID,
		PurchaseDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	found, err := svc.GetBySerial(context.Background(), " LN42 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetBySerial(context.Background(), "LN404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMachineSerialConflict(t *testing.T) {
	svc, conn, node := setupMachineService(t)
	office := createTestOffice(t, conn, node)
	purchase := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN1", OfficeID: office.ID, PurchaseDate: purchase,
	})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN2", OfficeID: office.ID, PurchaseDate: purchase,
	})
	require.NoError(t, err)

	taken := "LN1"
	_, err = svc.Update(context.Background(), second.ID, domain.UpdateMachineRequest{
		SerialNumber: &taken,
	})
	assert.ErrorIs(t, err, domain.ErrSerialExists)
}

func TestDeleteMachineExcludesFromActiveList(t *testing.T) {
	svc, conn, node := setupMachineService(t)
	office := createTestOffice(t, conn, node)
	purchase := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	kept, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN1", OfficeID: office.ID, PurchaseDate: purchase,
	})
	require.NoError(t, err)
	dropped, err := svc.Create(context.Background(), domain.CreateMachineRequest{
		SerialNumber: "LN2", OfficeID: office.ID, PurchaseDate: purchase,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), dropped.ID))

	active, err := svc.ListActiveByOffice(context.Background(), office.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept.ID, active[0].ID)

	_, err = svc.GetByID(context.Background(), dropped.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
