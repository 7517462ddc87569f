package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/domain/entity"
)

func TestFocusMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveGate(entity.GateProceed)
	m.ObserveGate(entity.GateProceed)
	m.ObserveGate(entity.GateFailure)
	m.ObserveRetarget(entity.FocusGained, entity.ClassConfirmed)
	m.SetQueueDepth(entity.DefaultContext, 3)
	m.SetQueueDepth(entity.DefaultContext, 1)
	m.IncVeto("focusOwner")
	m.IncListenerFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GateDecisions.WithLabelValues("proceed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateDecisions.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retargets.WithLabelValues("FOCUS_GAINED", entity.ClassConfirmed.String())))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueDepth.WithLabelValues("default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Vetoes.WithLabelValues("focusOwner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListenerFailures))
}

func TestServer_Handler(t *testing.T) {
	m := New()
	m.ObserveGate(entity.GateHandled)
	srv := httptest.NewServer(NewServer("", m).Handler())
	defer srv.Close()

	tests := []struct {
		path string
		want string
	}{
		{path: "/metrics", want: `focuscore_gate_decisions_total{result="handled"} 1`},
		{path: "/health", want: "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), tt.want)
		})
	}
}

func TestServer_StartStop(t *testing.T) {
	ctx := context.Background()
	s := NewServer("127.0.0.1:0", New())

	require.NoError(t, s.Start(ctx))
	assert.Error(t, s.Start(ctx), "already running")

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}
