package server

import (
	"bytes"
	"context"
	"math"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/followups-tracker/internal/pipeline"
	"github.com/joseph-ayodele/followups-tracker/internal/repository"
)

func startServer(t *testing.T) (*FollowupClient, *grpc.ClientConn) {
	t.Helper()
	store := repository.NewCSVStore(filepath.Join(t.TempDir(), "history.csv"), nil)
	proc := pipeline.NewProcessor(nil, nil, store)

	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(NewFollowupService(proc, nil, nil), nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewFollowupClient(conn), conn
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestExtractOverGRPC(t *testing.T) {
	client, _ := startServer(t)

	out, err := client.Extract(context.Background(), mustStruct(t, map[string]any{
		"text": "Heizkörber riss, 2 Monteure, 3h Arbeit",
	}))
	require.NoError(t, err)

	m := out.AsMap()
	assert.NotEmpty(t, m["report_id"])
	assert.Equal(t, "MANUAL", m["source"])
	assert.Equal(t, "heizkörper riss, 2 monteure, 3.0h arbeit", m["normalized_text"])
	assert.Equal(t, false, m["needs_manual_entry"])
	assert.Empty(t, m["warnings"])

	tasks := m["tasks"].([]any)
	require.Len(t, tasks, 1)
	task := tasks[0].(map[string]any)
	assert.Equal(t, "Heizkörper erneuern", task["task_name"])
	assert.Equal(t, "Heizung", task["trade"])
	assert.Equal(t, 2.0, task["headcount"])
	assert.Equal(t, 3.0, task["hours"])
	assert.Equal(t, "Normal", task["priority"])
	assert.Equal(t, true, task["is_rule_matched"])
}

func TestExtractNoMatchAndBadSource(t *testing.T) {
	client, _ := startServer(t)

	out, err := client.Extract(context.Background(), mustStruct(t, map[string]any{"text": "alles gut", "source": "pdf"}))
	require.NoError(t, err)
	assert.Equal(t, true, out.AsMap()["needs_manual_entry"])
	assert.Empty(t, out.AsMap()["tasks"])

	_, err = client.Extract(context.Background(), mustStruct(t, map[string]any{"text": "x", "source": "fax"}))
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func sampleRecords() []any {
	return []any{
		map[string]any{
			"report_text": "rohrbruch im keller",
			"task_name":   "Rohrbruch reparieren",
			"trade":       "Sanitär",
			"headcount":   2,
			"hours":       5.0,
		},
		map[string]any{
			"report_text": "rohrbruch im keller",
			"task_name":   "Trocknung",
			"trade":       "Bautrocknung",
			"headcount":   1,
			"hours":       1.0,
			"selected":    false,
		},
	}
}

func TestSaveAndListHistory(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	out, err := client.SaveHistory(ctx, mustStruct(t, map[string]any{"records": sampleRecords()}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.AsMap()["saved"])
	assert.Equal(t, 1.0, out.AsMap()["total"])

	list, err := client.ListHistory(ctx, &structpb.Struct{})
	require.NoError(t, err)
	recs := list.AsMap()["records"].([]any)
	require.Len(t, recs, 1)
	rec := recs[0].(map[string]any)
	assert.Equal(t, "Rohrbruch reparieren", rec["task_name"])
	assert.Equal(t, "Hoch", rec["priority"])
}

func TestSaveHistoryRejectsInvalidRecords(t *testing.T) {
	client, _ := startServer(t)

	bad := []any{map[string]any{"report_text": "x", "task_name": "Maler", "trade": "Maler", "headcount": 0, "hours": 1.0}}
	_, err := client.SaveHistory(context.Background(), mustStruct(t, map[string]any{"records": bad}))
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	nan := []any{map[string]any{"report_text": "x", "task_name": "Maler", "trade": "Maler", "headcount": 1, "hours": math.NaN()}}
	_, err = client.SaveHistory(context.Background(), mustStruct(t, map[string]any{"records": nan}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	frac := []any{map[string]any{"report_text": "x", "task_name": "Maler", "trade": "Maler", "headcount": 1.5, "hours": 1.0}}
	_, err = client.SaveHistory(context.Background(), mustStruct(t, map[string]any{"records": frac}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestExports(t *testing.T) {
	client, _ := startServer(t)
	req := mustStruct(t, map[string]any{"records": sampleRecords()})

	xlsx, err := client.ExportXLSX(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx.GetValue(), []byte("PK")))

	pdf, err := client.ExportPDF(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.GetValue(), []byte("%PDF")))
}

func TestHealth(t *testing.T) {
	_, conn := startServer(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
