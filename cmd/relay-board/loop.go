package main

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/relay-board/internal/link"
	"github.com/sweeney/relay-board/internal/logic"
	"github.com/sweeney/relay-board/internal/mqtt"
	"github.com/sweeney/relay-board/internal/protocol"
	"github.com/sweeney/relay-board/internal/status"
)

// loop is the single control flow that owns the board, the handshake and the
// heartbeat. Nothing else mutates them.
type loop struct {
	link       link.Link
	handshake  *link.Handshake
	board      *logic.Board
	proc       *protocol.Processor
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	commands   <-chan []byte
	tracker    *status.Tracker
	heartbeat  time.Duration
	settle     time.Duration
	now        func() time.Time
	sleep      func(time.Duration)

	beat *logic.Heartbeat
}

// run processes ticks until a signal arrives. Each tick drains and dispatches
// the link, then checks the heartbeat deadline.
func (l *loop) run(tick <-chan time.Time, sig <-chan os.Signal) error {
	start := l.now()
	l.beat = logic.NewHeartbeat(l.heartbeat, start)
	l.refresh()
	l.publishLifecycle(start, "STARTUP", "", true)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			l.publishLifecycle(l.now(), "SHUTDOWN", signalName(s), true)
			return nil

		case payload := <-l.commands:
			log.Printf("mqtt: command %q", payload)
			l.dispatch(payload, l.now())
			l.refresh()

		case <-tick:
			l.step(l.now())
		}
	}
}

// step is one iteration of the main loop at time t. The heartbeat is
// checked only once every available byte has been dispatched.
func (l *loop) step(t time.Time) {
	l.drain(t)

	if l.beat != nil && l.beat.Due(t) {
		l.proc.Beat()
		l.refresh()
		l.publishLifecycle(t, "HEARTBEAT", "", false)
	}

	if l.handshake.RetryDue(t) {
		l.handshake.Probe(l.link, l.settle, l.sleep, t)
	}

	l.refresh()
}

// drain dispatches bursts until the link has nothing more available.
func (l *loop) drain(t time.Time) {
	for {
		buf, err := link.Drain(l.link, link.MaxBurst)
		if len(buf) > 0 {
			log.Printf("rx: %q", buf)
			l.dispatch(buf, t)
		}
		if err != nil {
			if link.IsDisconnect(err) {
				log.Printf("link: port disconnected: %v", err)
			} else {
				log.Printf("link: %v", err)
			}
			return
		}
		if len(buf) < link.MaxBurst {
			return
		}
	}
}

func (l *loop) dispatch(buf []byte, t time.Time) {
	for _, event := range l.proc.Process(buf, t) {
		if err := l.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}
}

// refresh copies loop-owned state into the tracker for HTTP/MQTT readers.
func (l *loop) refresh() {
	if l.tracker == nil {
		return
	}
	l.tracker.Update(l.board.Snapshot(), l.proc.Counts())
	emit := l.proc.Emitter()
	l.tracker.SetLink(status.LinkInfo{
		State:      l.handshake.State().String(),
		Probes:     l.handshake.Probes(),
		Sent:       emit.Sent(),
		Suppressed: emit.Suppressed(),
	})
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l *loop) publishLifecycle(t time.Time, event, reason string, retained bool) {
	e := mqtt.SystemEvent{
		Timestamp: t,
		Event:     event,
		Reason:    reason,
		Retained:  retained,
	}
	if l.tracker != nil {
		if net := readNetworkInfo(); net != nil {
			l.tracker.SetNetwork(net)
		}
		e.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), event, reason)
	}
	if err := l.publisher.PublishSystem(e); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
