package nats_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"movielobby/movie"
	lobbynats "movielobby/nats"
	"movielobby/pkg/logger"

	"github.com/docker/go-connections/nat"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const clientPort nat.Port = "4222/tcp"

func SetupNATSContainer(t testing.TB) string {
	t.Helper()
	ctx := context.Background()
	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			ExposedPorts: []string{string(clientPort)},
			WaitingFor:   wait.ForLog("Server is ready"),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cont.Terminate(ctx))
	})

	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, clientPort)
	require.NoError(t, err)
	return fmt.Sprintf("nats://%s:%s", host, port.Port())
}

func TestPublisher_Subject(t *testing.T) {
	p := lobbynats.NewPublisher(nil, "lobby", logger.NOOPLogger)
	assert.Equal(t, "lobby.movie.created", p.Subject(movie.EventCreated))

	bare := lobbynats.NewPublisher(nil, "", logger.NOOPLogger)
	assert.Equal(t, "movie.deleted", bare.Subject(movie.EventDeleted))
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := lobbynats.Connect(lobbynats.Options{}, logger.NOOPLogger)
	assert.EqualError(t, err, "nats: url is required")
}

func TestPublisher_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	conn, err := lobbynats.Connect(lobbynats.Options{URL: SetupNATSContainer(t), Name: "test"}, logger.NOOPLogger)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	msgs := make(chan *nats.Msg, 1)
	sub, err := conn.ChanSubscribe("lobby.movie.>", msgs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	require.NoError(t, conn.Flush())

	p := lobbynats.NewPublisher(conn, "lobby", logger.NOOPLogger)
	m := movie.Movie{ID: movie.NewID(), Title: "New Movie", Genre: "Action", Rating: 5}

	require.NoError(t, p.Publish(context.Background(), movie.NewEvent(movie.EventCreated, m)))

	select {
	case msg := <-msgs:
		assert.Equal(t, "lobby.movie.created", msg.Subject)
		var got movie.Event
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, movie.EventCreated, got.Type)
		assert.Equal(t, m.ID, got.MovieID)
		require.NotNil(t, got.Movie)
		assert.Equal(t, "New Movie", got.Movie.Title)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}
