package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"tennis-dashboard/internal/live"
	"tennis-dashboard/internal/middleware"
	"tennis-dashboard/internal/server"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	engine := live.NewEngine(live.NewSeedStore(), live.SystemClock{}, live.NewRandomSource(), time.Second, zerolog.Nop())
	t.Cleanup(engine.Close)
	return newHandler(server.NewDashboardServer(engine, nil, zerolog.Nop()), zerolog.Nop())
}

func TestHandlerServesConnect(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t))
	t.Cleanup(srv.Close)

	client := connect.NewClient[emptypb.Empty, structpb.Struct](srv.Client(), srv.URL+server.GetLeaderboardProcedure)
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))

	require.NoError(t, err)
	assert.Len(t, resp.Msg.GetFields()["entries"].GetListValue().GetValues(), 5)
	assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))
}

func TestHandlerAnswersPreflight(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, server.GetMatchProcedure, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
