package monitoring

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/giongto35/glremote/pkg/config"
	"github.com/giongto35/glremote/pkg/logger"
)

func TestMetricsEndpoint(t *testing.T) {
	m, err := New(config.Monitoring{Port: 0, URLPrefix: "/x", MetricEnabled: true}, logger.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.Run()
	defer func() { _ = m.Shutdown(context.Background()) }()

	_, port, err := net.SplitHostPort(m.Addr())
	if err != nil {
		t.Fatalf("addr: %v", err)
	}
	addr := net.JoinHostPort("localhost", port)
	res, err := http.Get("http://" + addr + "/x/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = res.Body.Close() }()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK || !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("status %v, body: %.100s", res.StatusCode, body)
	}

	res2, err := http.Get("http://" + addr + "/x/debug/pprof/heap")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = res2.Body.Close()
	if res2.StatusCode != http.StatusNotFound {
		t.Errorf("profiling is on: %v", res2.StatusCode)
	}
}
