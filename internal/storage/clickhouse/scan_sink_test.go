package clickhouse_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/storage/clickhouse"
	"solana-survival-bot/internal/storage/migrations"
)

// setupTestDB creates a ClickHouse container and returns a migrated
// connection. Returns a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*clickhouse.Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60 * time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())

	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

func TestScanSink_AppendBatchAndList(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sink := clickhouse.NewScanSink(conn)

	points := []*domain.ScanPoint{
		{Address: "Mint111", Symbol: "TKN", TimestampMs: 1000, PriceUSD: 0.01, LiquidityUSD: 50000, Volume24hUSD: 120000, Score: 75},
		{Address: "Mint111", Symbol: "TKN", TimestampMs: 2000, PriceUSD: 0.012, LiquidityUSD: 52000, Volume24hUSD: 130000, Score: 80},
		{Address: "Mint222", Symbol: "OTH", TimestampMs: 1000, PriceUSD: 1.5, LiquidityUSD: 9000, Volume24hUSD: 4000, Score: 20},
	}

	require.NoError(t, sink.AppendBatch(ctx, points))

	got, err := sink.ListByAddress(ctx, "Mint111")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1000), got[0].TimestampMs)
	assert.Equal(t, int64(2000), got[1].TimestampMs)
	assert.Equal(t, 75, got[0].Score)
	assert.Equal(t, 0.012, got[1].PriceUSD)
}

func TestScanSink_AppendEmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	sink := clickhouse.NewScanSink(conn)
	require.NoError(t, sink.AppendBatch(context.Background(), nil))
}
