package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/relay-board/internal/logic"
	"github.com/sweeney/relay-board/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		Port:         "/dev/rfcomm0",
		Baud:         9600,
		HeartbeatMs:  5000,
		PinA:         17,
		PinB:         27,
		PinIndicator: 22,
		Broker:       "tcp://192.168.1.200:1883",
		HTTPAddr:     ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update([logic.NumChannels]logic.State{logic.StateOn, logic.StateOff}, logic.Counts{Dispatched: 5, Unknown: 2})
	tr.SetLink(status.LinkInfo{State: "CONNECTED", Probes: 1})
	tr.SetMQTTConnected(true)

	resp, body := get(t, ts.URL+"/index.json")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal([]byte(body), &sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.A != "ON" || sj.Status.B != "OFF" {
		t.Errorf("channels: got %q/%q", sj.Status.A, sj.Status.B)
	}
	if sj.Status.Link.State != "CONNECTED" {
		t.Errorf("link: got %q", sj.Status.Link.State)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.Dispatched != 5 || sj.Status.Counts.Unknown != 2 {
		t.Errorf("counts: got %+v", sj.Status.Counts)
	}
}

func TestWireStatusEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update([logic.NumChannels]logic.State{logic.StateOff, logic.StateOn}, logic.Counts{})

	resp, body := get(t, ts.URL+"/status")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if body != "STATUS:0,1\n" {
		t.Errorf("body: got %q", body)
	}
}

func TestHTMLEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update([logic.NumChannels]logic.State{logic.StateOn, logic.StateOff}, logic.Counts{})
	tr.SetLink(status.LinkInfo{State: "DISCONNECTED", Probes: 1, Suppressed: 7})

	for _, path := range []string{"/", "/index.html"} {
		resp, body := get(t, ts.URL+path)
		if resp.StatusCode != 200 {
			t.Errorf("%s: status %d, want 200", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s: Content-Type %q, want text/html", path, ct)
		}
		for _, want := range []string{"Relay A", `class="on">ON`, "Relay B", `class="off">OFF`, "DISCONNECTED", "/dev/rfcomm0 @ 9600"} {
			if !strings.Contains(body, want) {
				t.Errorf("%s: body missing %q", path, want)
			}
		}
	}
}

func TestHTMLBrokerDisabled(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	ts := httptest.NewServer(New(":0", tr).httpServer.Handler)
	defer ts.Close()

	_, body := get(t, ts.URL+"/")
	if !strings.Contains(body, "disabled") {
		t.Error("expected broker shown as disabled")
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/nonexistent")
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	_, body := get(t, ts.URL+"/status")
	if body != "STATUS:0,0\n" {
		t.Errorf("initial: got %q", body)
	}

	tr.Update([logic.NumChannels]logic.State{logic.StateOn, logic.StateOn}, logic.Counts{})

	_, body = get(t, ts.URL+"/status")
	if body != "STATUS:1,1\n" {
		t.Errorf("after update: got %q", body)
	}
}
