// Command relay-board drives a two-channel active-low relay board from
// single-character commands received over a wireless serial link.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/relay-board/internal/gpio"
	"github.com/sweeney/relay-board/internal/link"
	"github.com/sweeney/relay-board/internal/logic"
	"github.com/sweeney/relay-board/internal/mqtt"
	"github.com/sweeney/relay-board/internal/protocol"
	"github.com/sweeney/relay-board/internal/status"
	"github.com/sweeney/relay-board/internal/web"
)

type options struct {
	port         string
	baud         int
	tick         time.Duration
	pacing       time.Duration
	heartbeat    time.Duration
	startupDelay time.Duration
	settle       time.Duration
	reprobe      time.Duration
	chip         string
	pinA         int
	pinB         int
	pinIndicator int
	broker       string
	clientID     string
	httpAddr     string
	probeOnly    bool
}

func main() {
	var o options
	flag.StringVar(&o.port, "port", "/dev/rfcomm0", "Serial device of the wireless module")
	flag.IntVar(&o.baud, "baud", link.DefaultBaud, "Serial baud rate")
	flag.DurationVar(&o.tick, "tick", 20*time.Millisecond, "Main loop interval")
	flag.DurationVar(&o.pacing, "pacing", 10*time.Millisecond, "Read timeout while draining the link")
	flag.DurationVar(&o.heartbeat, "heartbeat", 5*time.Second, "Heartbeat interval (0 to disable)")
	flag.DurationVar(&o.startupDelay, "startup-delay", time.Second, "Wait before the handshake probe")
	flag.DurationVar(&o.settle, "settle", 500*time.Millisecond, "Wait for the handshake reply")
	flag.DurationVar(&o.reprobe, "reprobe", 0, "Re-probe a disconnected link after this long (0 keeps replies off after a failed handshake)")
	flag.StringVar(&o.chip, "chip", gpio.DefaultChip, "GPIO chip")
	flag.IntVar(&o.pinA, "pin-a", gpio.DefaultPinRelayA, "BCM pin number for relay A")
	flag.IntVar(&o.pinB, "pin-b", gpio.DefaultPinRelayB, "BCM pin number for relay B")
	flag.IntVar(&o.pinIndicator, "pin-led", gpio.DefaultPinIndicator, "BCM pin number for the activity LED")
	flag.StringVar(&o.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.StringVar(&o.clientID, "client-id", "relay-board", "MQTT client ID")
	flag.StringVar(&o.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.BoolVar(&o.probeOnly, "probe", false, "Run the link handshake, print the result and exit")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	// Relays start de-energized (high) and the LED lit.
	pins, err := gpio.NewRealWriter(o.chip, map[int]int{
		o.pinA:         gpio.RelayLevel(false),
		o.pinB:         gpio.RelayLevel(false),
		o.pinIndicator: gpio.High,
	})
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pins.Close()

	board := logic.NewBoard(gpio.NewRelayDriver(pins, o.pinA, o.pinB))
	if err := board.Sync(); err != nil {
		return fmt.Errorf("init relays: %w", err)
	}
	indicator := gpio.NewIndicator(pins, o.pinIndicator)

	lnk, err := link.OpenSerial(o.port, o.baud, o.pacing)
	if err != nil {
		return fmt.Errorf("init link: %w", err)
	}
	defer lnk.Close()

	time.Sleep(o.startupDelay)
	handshake := link.NewHandshake(o.reprobe)
	state := handshake.Probe(lnk, o.settle, time.Sleep, time.Now())

	if o.probeOnly {
		fmt.Printf("link %s: %s (reply %q)\n", o.port, state, handshake.LastReply())
		return nil
	}

	emitter := protocol.NewEmitter(lnk, handshake, indicator, time.Sleep)
	proc := protocol.NewProcessor(board, emitter, indicator)

	var publisher mqtt.Publisher = mqtt.Discard{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.Discard{}
	var commands <-chan []byte
	if o.broker != "" {
		p, err := mqtt.NewRealPublisher(o.broker, o.clientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttStatus, commands = p, p, p.Commands()
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Port:         o.port,
		Baud:         o.baud,
		TickMs:       o.tick.Milliseconds(),
		PacingMs:     o.pacing.Milliseconds(),
		HeartbeatMs:  o.heartbeat.Milliseconds(),
		SettleMs:     o.settle.Milliseconds(),
		ReprobeMs:    o.reprobe.Milliseconds(),
		PinA:         o.pinA,
		PinB:         o.pinB,
		PinIndicator: o.pinIndicator,
		Broker:       o.broker,
		HTTPAddr:     o.httpAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: port=%s baud=%d link=%s heartbeat=%v pins=%d,%d led=%d broker=%q",
		o.port, o.baud, state, o.heartbeat, o.pinA, o.pinB, o.pinIndicator, o.broker)

	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		link:       lnk,
		handshake:  handshake,
		board:      board,
		proc:       proc,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		commands:   commands,
		tracker:    tracker,
		heartbeat:  o.heartbeat,
		settle:     o.settle,
		now:        time.Now,
		sleep:      time.Sleep,
	}
	return l.run(ticker.C, sigCh)
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
