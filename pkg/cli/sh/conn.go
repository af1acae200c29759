package sh

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/robotalks/keypad.go/pkg/comm"
	"github.com/robotalks/keypad.go/pkg/comm/mqtt"
	"github.com/robotalks/keypad.go/pkg/comm/stream"
	"github.com/robotalks/keypad.go/pkg/comm/websocket"
	fx "github.com/robotalks/keypad.go/pkg/framework"
)

// MQTTScheme prefixes targets reached through the MQTT broker.
const MQTTScheme = "mqtt:"

// Config provides the options to reach keypads.
type Config struct {
	// Target is connected on start, see ConnectCmd.
	Target string
	// MQTTURL is the broker for discovery and mqtt: targets.
	MQTTURL string
	Timeout time.Duration
}

var defaultConfig = Config{
	MQTTURL: "mqtt://localhost:1883/",
	Timeout: comm.DefaultTimeout,
}

func init() {
	if val := os.Getenv("KEYPAD_TARGET"); val != "" {
		defaultConfig.Target = val
	}
	if val := os.Getenv("KEYPAD_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Target, "k", defaultConfig.Target, "Keypad to connect: /dev/TTY, ws://HOST:PORT/keypad or mqtt:ID.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Reply timeout.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Conn is a running connection to a keypad.
type Conn struct {
	Ctx    context.Context
	Cancel func()
	Name   string
	Client *comm.Client
	Loop   *fx.Loop

	closer io.Closer
}

// Close stops the connection.
func (c *Conn) Close() error {
	c.Cancel()
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// Dial opens a connection to target without running it.
func (conf *Config) Dial(ctx context.Context, target string) (*Conn, error) {
	conn := &Conn{Name: target, Loop: fx.NewLoop(target, time.Second)}
	switch {
	case strings.HasPrefix(target, MQTTScheme):
		connector, err := mqtt.NewConnector(conf.MQTTURL)
		if err != nil {
			return nil, err
		}
		mc, err := connector.Connect(ctx, strings.TrimPrefix(target, MQTTScheme))
		if err != nil {
			return nil, err
		}
		conn.Client, conn.closer = mc.Client, mc
		conn.Loop.AddRunnable(mc)
	case strings.HasPrefix(target, "ws://"), strings.HasPrefix(target, "wss://"):
		rw, err := websocket.Dial(target)
		if err != nil {
			return nil, err
		}
		conn.Client, conn.closer = comm.NewClient(rw), rw
		conn.Loop.Add(conn.Client)
	case strings.HasPrefix(target, "/"):
		rw, err := stream.Open(target)
		if err != nil {
			return nil, err
		}
		conn.Client, conn.closer = comm.NewClient(rw), rw
		conn.Loop.Add(conn.Client)
	default:
		return nil, fmt.Errorf("unknown target %q", target)
	}
	if conf.Timeout > 0 {
		conn.Client.Timeout = conf.Timeout
	}
	return conn, nil
}

// Discover finds keypads on the MQTT broker.
func (s *Shell) Discover(ctx context.Context) ([]mqtt.Meta, error) {
	connector, err := mqtt.NewConnector(s.Config.MQTTURL)
	if err != nil {
		return nil, err
	}
	found, err := connector.Discover(ctx)
	if found == nil {
		found = []mqtt.Meta{}
	}
	return found, err
}

// Connect connects a keypad, replacing the current connection.
func (s *Shell) Connect(target string) error {
	ctx, cancel := context.WithCancel(context.Background())
	conn, err := s.Config.Dial(ctx, target)
	if err != nil {
		cancel()
		return err
	}
	conn.Ctx, conn.Cancel = ctx, cancel
	s.Disconnect()
	s.Conn = conn
	go conn.Loop.Run(ctx)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	return nil
}

// Disconnect disconnects current keypad.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}
