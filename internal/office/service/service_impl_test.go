package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lunelaser/lunebill/internal/office/domain"
	officerepo "github.com/lunelaser/lunebill/internal/office/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOfficeService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Office{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  officerepo.Provide(),
	})
	return svc, node
}

func TestCreateOffice(t *testing.T) {
	svc, _ := setupOfficeService(t)

	office, err := svc.Create(context.Background(), domain.CreateOfficeRequest{
		Name:  "  Bright Smile Dental  ",
		NPIID: "1234567890",
		Email: "info@brightsmile.com",
	})
	require.NoError(t, err)

	assert.NotZero(t, office.ID)
	assert.Equal(t, "Bright Smile Dental", office.Name)
	assert.False(t, office.IsDeleted)
}

func TestCreateOfficeValidation(t *testing.T) {
	svc, _ := setupOfficeService(t)

	_, err := svc.Create(context.Background(), domain.CreateOfficeRequest{NPIID: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), domain.CreateOfficeRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidNPIID)

	_, err = svc.Create(context.Background(), domain.CreateOfficeRequest{
		Name: "X", NPIID: "123", Email: "not-an-address",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUpdateOfficePartial(t *testing.T) {
	svc, _ := setupOfficeService(t)

	office, err := svc.Create(context.Background(), domain.CreateOfficeRequest{
		Name: "Bright Smile Dental", NPIID: "1234567890", Town: "Los Angeles",
	})
	require.NoError(t, err)

	newName := "Brighter Smile Dental"
	updated, err := svc.Update(context.Background(), office.ID, domain.UpdateOfficeRequest{
		Name: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Los Angeles", updated.Town)
	assert.Equal(t, "1234567890", updated.NPIID)
}

func TestDeleteOfficeIsSoft(t *testing.T) {
	svc, node := setupOfficeService(t)

	office, err := svc.Create(context.Background(), domain.CreateOfficeRequest{
		Name: "Bright Smile Dental", NPIID: "1234567890",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), office.ID))

	_, err = svc.GetByID(context.Background(), office.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleted offices stay queryable for audit.
	resp, err := svc.List(context.Background(), domain.ListOfficeRequest{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, resp.Offices, 1)
	assert.True(t, resp.Offices[0].IsDeleted)

	resp, err = svc.List(context.Background(), domain.ListOfficeRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Offices)

	assert.ErrorIs(t, svc.Delete(context.Background(), node.Generate()), domain.ErrNotFound)
}

func TestListOfficesSearch(t *testing.T) {
	svc, _ := setupOfficeService(t)

	for _, name := range []string{"Bright Smile Dental", "Perfect Teeth Clinic"} {
		_, err := svc.Create(context.Background(), domain.CreateOfficeRequest{
			Name: name, NPIID: name,
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListOfficeRequest{Search: "Smile"})
	require.NoError(t, err)
	require.Len(t, resp.Offices, 1)
	assert.Equal(t, "Bright Smile Dental", resp.Offices[0].Name)
}
