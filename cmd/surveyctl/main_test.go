package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"go-away-stress/collector"
	"go-away-stress/config"
	"go-away-stress/handler"
	"go-away-stress/model"
	"go-away-stress/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

func startCollector(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rdb.Close() })

	r := mux.NewRouter()
	c := collector.New(store.NewRedisStore(rdb, ""), collector.Options{})
	handler.NewCollectorHandler(c, nil, config.Config{}).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func runCmd(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSubmitThenStats(t *testing.T) {
	srv := startCollector(t)

	code, out, errOut := runCmd("submit",
		"-url", srv.URL+"/bridge",
		"-append-url", srv.URL+"/exec",
		"-trust", srv.URL,
		"-situation", "업무", "-situation", "인간관계", "-situation", "건강",
		"-action", "산책",
		"-best-time", "저녁",
		"-method", "명상",
	)
	if code != 0 {
		t.Fatalf("submit exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Response recorded") {
		t.Errorf("submit output = %q", out)
	}
	if !strings.Contains(errOut, `ignoring stress_situation "건강"`) {
		t.Errorf("third situation should be refused, stderr = %q", errOut)
	}

	code, out, errOut = runCmd("stats", "-url", srv.URL+"/exec")
	if code != 0 {
		t.Fatalf("stats exit code = %d, stderr = %s", code, errOut)
	}
	for _, want := range []string{"Total responses: 1", "업무", "인간관계", "산책", "저녁", "- 명상"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "건강") {
		t.Error("capped selection should not be recorded")
	}
}

func TestSubmit_FormStrategy(t *testing.T) {
	srv := startCollector(t)

	code, _, errOut := runCmd("submit",
		"-strategy", "form",
		"-url", srv.URL+"/exec",
		"-trust", srv.URL,
		"-situation", "업무",
	)
	if code != 0 {
		t.Fatalf("submit exit code = %d, stderr = %s", code, errOut)
	}
}

func TestSubmit_Detached(t *testing.T) {
	srv := startCollector(t)

	code, out, _ := runCmd("submit", "-detached",
		"-url", srv.URL+"/bridge",
		"-append-url", srv.URL+"/exec",
		"-trust", srv.URL,
		"-situation", "업무",
	)
	if code != 0 || !strings.Contains(out, "background") {
		t.Errorf("detached submit = %d, %q", code, out)
	}

	_, out, _ = runCmd("stats", "-url", srv.URL+"/exec")
	if !strings.Contains(out, "Total responses: 1") {
		t.Errorf("detached submission not stored:\n%s", out)
	}
}

func TestSubmit_RequiresSituation(t *testing.T) {
	code, _, errOut := runCmd("submit", "-trust", "http://127.0.0.1", "-best-time", "저녁")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, model.FieldStressSituation) {
		t.Errorf("stderr should name the missing field: %q", errOut)
	}
}

func TestSubmit_UnknownDelivery(t *testing.T) {
	srv := startCollector(t)

	// The collector is not trusted, so its messages are ignored until the deadline
	code, _, errOut := runCmd("submit",
		"-url", srv.URL+"/bridge",
		"-append-url", srv.URL+"/exec",
		"-trust", "https://script.google.com",
		"-timeout", "200ms",
		"-situation", "업무",
	)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "may still have been recorded") {
		t.Errorf("stderr should warn about unknown delivery: %q", errOut)
	}
}

func TestStats_Empty(t *testing.T) {
	srv := startCollector(t)

	code, out, _ := runCmd("stats", "-url", srv.URL+"/exec")
	if code != 0 || !strings.Contains(out, "No responses yet.") {
		t.Errorf("stats = %d, %q", code, out)
	}
}

func TestRun_Usage(t *testing.T) {
	if code, _, errOut := runCmd(); code != 2 || !strings.Contains(errOut, "usage") {
		t.Errorf("no command: %d, %q", code, errOut)
	}
	if code, _, errOut := runCmd("export"); code != 2 || !strings.Contains(errOut, "unknown command") {
		t.Errorf("unknown command: %d, %q", code, errOut)
	}
}

func TestPrintSeries(t *testing.T) {
	var buf bytes.Buffer
	printSeries(&buf, "Best time", model.PieSeries(map[string]int{"아침": 1, "저녁": 3}))

	out := buf.String()
	if !strings.Contains(out, "75.0%") || !strings.Contains(out, "25.0%") {
		t.Errorf("unexpected series output:\n%s", out)
	}
}
