package handlers

import (
	"net"
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parlour-attendance/models"
	"parlour-attendance/pkg/logger"
	"parlour-attendance/pkg/realtime"
)

func startRealtimeServer(t *testing.T, hub *realtime.Hub) string {
	t.Helper()
	h := NewRealtimeHandler(hub)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use("/ws", h.RequireUpgrade)
	app.Get("/ws/attendance", h.Stream())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "ws://" + ln.Addr().String() + "/ws/attendance"
}

func TestRealtimeStreamDeliversPunchEvents(t *testing.T) {
	hub := realtime.NewHub(logger.Nop{}, 4)
	url := startRealtimeServer(t, hub)

	conn, _, err := fastws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(models.AttendanceEvent{
		Type:       models.PunchActionIn,
		EmployeeID: "65f1a2b3c4d5e6f708091a2b",
		Timestamp:  time.Date(2024, time.March, 4, 2, 0, 0, 0, time.UTC),
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	assert.Equal(t, fastws.TextMessage, kind)
	assert.JSONEq(t,
		`{"type":"punch-in","employeeId":"65f1a2b3c4d5e6f708091a2b","timestamp":"2024-03-04T02:00:00Z"}`,
		string(payload))
}

func TestRealtimeStreamUnregistersOnClose(t *testing.T) {
	hub := realtime.NewHub(logger.Nop{}, 4)
	url := startRealtimeServer(t, hub)

	conn, _, err := fastws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
