package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

func TestAllTablesPersistsSnapshot(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on("GET", "/table", 200,
		`[{"id":1,"capacidad":4,"estado":"libre"},{"id":2,"capacidad":2,"estado":"ocupada","llamada_camarero":true}]`)
	setupKiosk(t, remote)

	tables, err := GetTableService().AllTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, models.TableOcupada, tables[1].Estado)
	assert.True(t, tables[1].LlamadaCamarero)

	var count int64
	config.GetStore().Model(&models.TableSnapshotRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCachedTablesFallsBackToSnapshot(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on("GET", "/table", 200, `[{"id":1,"capacidad":4,"estado":"libre"}]`)
	setupKiosk(t, remote)

	_, err := GetTableService().AllTables(context.Background())
	require.NoError(t, err)

	// Drop the in-memory cache: a restarted kiosk only has the snapshot
	GetQueryCache().Clear()

	tables := GetTableService().CachedTables()
	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].ID)
}

func TestCachedTablesEmptyWhenNeverFetched(t *testing.T) {
	remote := newFakeRemote(t)
	setupKiosk(t, remote)

	assert.Nil(t, GetTableService().CachedTables())
}

func TestTableMutationWireShapes(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on("PUT", "/table/update/note", 200, `{"message":"ok"}`)
	remote.on("PUT", "/table/update/status", 200, `{"message":"ok"}`)
	remote.on("PUT", "/table/update/waiter", 200, `{"message":"ok"}`)
	setupKiosk(t, remote)

	svc := GetTableService()
	ctx := context.Background()
	require.NoError(t, svc.UpdateNote(ctx, 7, "cumpleaños"))
	require.NoError(t, svc.UpdateStatus(ctx, 7, models.TableBloqueada))
	require.NoError(t, svc.AssignWaiter(ctx, 7, 3))

	calls := remote.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "cumpleaños", calls[0].Body["nota"])
	assert.Equal(t, "bloqueada", calls[1].Body["estado"])
	assert.Equal(t, float64(3), calls[2].Body["id_camarero"])
	for _, call := range calls {
		assert.Equal(t, float64(7), call.Body["id_mesa"])
	}
}

func TestWaiterNotifications(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on("PUT", "/waiter/call", 200, `{"message":"Camarero avisado"}`)
	remote.on("PUT", "/waiter/requestBill", 200, `{"message":"Cuenta en camino"}`)
	setupKiosk(t, remote)

	message, err := GetWaiterService().CallWaiter(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Camarero avisado", message)

	message, err = GetWaiterService().RequestBill(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Cuenta en camino", message)

	calls := remote.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, float64(7), calls[0].Body["id_mesa"])
}
