package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Profanor/scello-commerce/internal/api"
	"github.com/Profanor/scello-commerce/internal/auth"
	"github.com/Profanor/scello-commerce/internal/database"
	"github.com/Profanor/scello-commerce/internal/models"
	"github.com/Profanor/scello-commerce/internal/services"
	ws "github.com/Profanor/scello-commerce/internal/websocket"
)

// newFeedServer wires a live server with a running hub, the way main does.
func newFeedServer(t *testing.T) (*httptest.Server, *auth.TokenIssuer) {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()

	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db, testAdminKey, eventService)
	productService := services.NewProductService(db, eventService)

	server := httptest.NewServer(api.NewRouter(issuer, hub, userService, productService, eventService))
	t.Cleanup(server.Close)
	return server, issuer
}

func TestLiveFeed_RequiresAuth(t *testing.T) {
	t.Parallel()

	server, _ := newFeedServer(t)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"

	conn, resp, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.ErrorIs(t, err, gws.ErrBadHandshake)
	require.Nil(t, conn)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLiveFeed_StreamsProductEvents(t *testing.T) {
	t.Parallel()

	server, issuer := newFeedServer(t)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"

	token, err := issuer.Issue(models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, resp, err := gws.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()
	resp.Body.Close()

	// The upgrade response arrives before the hub registers the client;
	// give registration a moment before emitting the event.
	time.Sleep(100 * time.Millisecond)

	createResp, err := http.Post(server.URL+"/api/v1/products/", "application/json",
		strings.NewReader(`{"name":"Laptop","price":1200,"stock":4,"category":"electronics"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	createResp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Action  string       `json:"action"`
		Payload models.Event `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	require.Equal(t, "activity_event", msg.Action)
	require.Equal(t, "product.create", msg.Payload.Type)
	require.Contains(t, msg.Payload.Message, "Laptop")
}
