package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

func TestStartGuestPersistsSession(t *testing.T) {
	remote := newFakeRemote(t)
	setupKiosk(t, remote)

	session := GetSessionService().StartGuest(7)

	assert.True(t, session.Guest)
	assert.Equal(t, 7, session.TableID)
	assert.NotEmpty(t, session.ClientID, "Guests get a generated client id")

	var count int64
	config.GetStore().Model(&models.SessionRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSessionRestoresAcrossRestart(t *testing.T) {
	remote := newFakeRemote(t)
	setupKiosk(t, remote)

	created := GetSessionService().StartGuest(7)

	restored := InitSessionService(config.GetConfig()).Current()
	require.NotNil(t, restored, "A guest session has no token but is still restored")
	assert.Equal(t, created.ClientID, restored.ClientID)
	assert.Equal(t, 7, restored.TableID)
	assert.True(t, restored.Guest)
	assert.Empty(t, restored.Token)
}

func TestExpiredSessionDiscardedOnRestore(t *testing.T) {
	remote := newFakeRemote(t)
	setupKiosk(t, remote)
	db := config.GetStore()

	expired := models.Session{
		Token:     "tok",
		ClientID:  "c-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	payload, err := json.Marshal(expired)
	require.NoError(t, err)
	require.NoError(t, db.Where("1 = 1").Delete(&models.SessionRecord{}).Error)
	require.NoError(t, db.Create(&models.SessionRecord{Payload: string(payload)}).Error)

	restored := InitSessionService(config.GetConfig())

	assert.Nil(t, restored.Current(), "An expired session is not restored")
	var count int64
	db.Model(&models.SessionRecord{}).Count(&count)
	assert.Equal(t, int64(0), count, "The expired row is removed")
}

func TestSignInKeepsTableContext(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on("POST", "/user/login", 200,
		`{"token":"tok-abc","user":{"id":3,"nombre":"Marta","email":"marta@example.com","direccion":"Calle Sol 4","admin":false}}`)
	setupKiosk(t, remote)

	GetSessionService().StartGuest(7)
	session, err := GetSessionService().SignIn(context.Background(), "marta@example.com", "secreto")
	require.NoError(t, err)

	assert.Equal(t, "tok-abc", session.Token)
	assert.Equal(t, 7, session.TableID, "Signing in mid-meal keeps the table")
	assert.False(t, session.Guest)
	require.NotNil(t, session.User)
	assert.Equal(t, "Calle Sol 4", session.User.Direccion)
}

func TestSignInAdminFlag(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on("POST", "/user/login", 200,
		`{"token":"tok-adm","user":{"id":1,"nombre":"Jefa","email":"jefa@example.com","admin":true}}`)
	setupKiosk(t, remote)

	session, err := GetSessionService().SignIn(context.Background(), "jefa@example.com", "secreto")
	require.NoError(t, err)
	assert.True(t, session.Admin)
}

func TestInvalidateClearsEverything(t *testing.T) {
	remote := newFakeRemote(t)
	setupKiosk(t, remote)

	GetSessionService().StartGuest(7)
	GetQueryCache().Put("tables", []models.Table{{ID: 1}}, 0)

	GetSessionService().Invalidate()

	assert.Nil(t, GetSessionService().Current())
	var count int64
	config.GetStore().Model(&models.SessionRecord{}).Count(&count)
	assert.Equal(t, int64(0), count)
	_, ok := GetQueryCache().Peek("tables")
	assert.False(t, ok, "The query cache is dropped so the next identity starts cold")
}

func TestRejectedTokenDropsSession(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on("GET", "/user/profile", 401, `{"message":"token invalido"}`)
	setupKiosk(t, remote)

	GetSessionService().StartGuest(7)
	_, err := GetUserService().Profile(context.Background())

	require.Error(t, err)
	assert.Nil(t, GetSessionService().Current(), "A 401 fires the auth-failure hook and drops the session")
}

func TestTokenEmptyAfterExpiry(t *testing.T) {
	remote := newFakeRemote(t)
	setupKiosk(t, remote)

	sessions := GetSessionService().(*SessionService)
	sessions.session = &models.Session{Token: "tok", ExpiresAt: time.Now().Add(-time.Second)}

	assert.Empty(t, sessions.Token(), "An expired session contributes no bearer token")
}
