// Package config collects the options of the keypad daemon from
// defaults, environment, an optional YAML file and command line flags,
// in increasing precedence.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config defines the options of keypadd.
type Config struct {
	// ID identifies the keypad on MQTT, defaults to a machine specific ID.
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	// File is the YAML file loaded before flags apply.
	File string `yaml:"-"`

	// MQTTURL enables the MQTT channel, e.g. mqtt://host:1883/prefix/.
	MQTTURL string `yaml:"mqtt_url"`
	// Serial is the tty carrying frames, e.g. /dev/ttyGS0.
	Serial string `yaml:"serial"`
	// WebsocketAddr enables the websocket channel, e.g. :8080.
	WebsocketAddr string `yaml:"websocket_addr"`

	// Sim uses simulated buttons and LEDs instead of periph.io devices.
	Sim         bool   `yaml:"sim"`
	I2CBus      string `yaml:"i2c_bus"`
	I2CAddr     uint16 `yaml:"i2c_addr"`
	SPIPort     string `yaml:"spi_port"`
	SPISpeedMHz int    `yaml:"spi_speed_mhz"`
	HIDPath     string `yaml:"hid_path"`

	RefreshInterval time.Duration `yaml:"refresh_interval"`
	PollInterval    time.Duration `yaml:"poll_interval"`

	SelfTest bool `yaml:"self_test"`
	Startup  bool `yaml:"startup"`
}

var defaultConfig = Config{
	I2CAddr:         0x20,
	SPISpeedMHz:     4,
	HIDPath:         "/dev/hidg0",
	RefreshInterval: time.Millisecond,
	PollInterval:    10 * time.Millisecond,
	SelfTest:        true,
	Startup:         true,
}

func init() {
	if val := os.Getenv("KEYPAD_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("KEYPAD_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("KEYPAD_CONFIG"); val != "" {
		defaultConfig.File = val
	}
}

// SetupFlags sets up command line flags on the FlagSet, nil for the
// command line.
func SetupFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	c := &defaultConfig
	fs.StringVar(&c.ID, "id", c.ID, "Keypad ID.")
	fs.StringVar(&c.File, "config", c.File, "YAML config file.")
	fs.StringVar(&c.MQTTURL, "mqtt", c.MQTTURL, "MQTT broker URL, e.g. mqtt://localhost:1883/.")
	fs.StringVar(&c.Serial, "serial", c.Serial, "Serial tty carrying frames.")
	fs.StringVar(&c.WebsocketAddr, "ws", c.WebsocketAddr, "Websocket listen address.")
	fs.BoolVar(&c.Sim, "sim", c.Sim, "Simulate buttons and LEDs.")
	fs.StringVar(&c.I2CBus, "i2c-bus", c.I2CBus, "I2C bus of the button expander.")
	fs.Var((*i2cAddr)(&c.I2CAddr), "i2c-addr", "I2C address of the button expander.")
	fs.StringVar(&c.SPIPort, "spi-port", c.SPIPort, "SPI port of the LEDs.")
	fs.IntVar(&c.SPISpeedMHz, "spi-speed", c.SPISpeedMHz, "SPI clock in MHz.")
	fs.StringVar(&c.HIDPath, "hid", c.HIDPath, "HID keyboard gadget, empty to disable.")
	fs.DurationVar(&c.RefreshInterval, "refresh", c.RefreshInterval, "LED refresh interval.")
	fs.DurationVar(&c.PollInterval, "poll", c.PollInterval, "Button poll interval.")
	fs.BoolVar(&c.SelfTest, "self-test", c.SelfTest, "Flash LEDs on start.")
	fs.BoolVar(&c.Startup, "startup", c.Startup, "Lock LEDs until the unlock button is pressed.")
}

type i2cAddr uint16

func (a *i2cAddr) String() string {
	if a == nil {
		return ""
	}
	return "0x" + strconv.FormatUint(uint64(*a), 16)
}

func (a *i2cAddr) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return errors.Wrap(err, "i2c address")
	}
	*a = i2cAddr(v)
	return nil
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	if conf.ID == "" {
		conf.ID = MachineID()
	}
	return &conf
}

// Parse parses args with flags set up by SetupFlags. The config file
// named by -config or KEYPAD_CONFIG is loaded first, then the flags
// are applied again so they take precedence.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if defaultConfig.File != "" {
		if err := defaultConfig.LoadFile(defaultConfig.File); err != nil {
			return nil, err
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}
	return NewConfig(), nil
}

// LoadFile merges a YAML file, keys absent in the file are kept.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	return c.Load(data)
}

// Load merges YAML content.
func (c *Config) Load(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, "parse config")
	}
	return nil
}

// MachineID derives the default keypad ID from the machine ID.
func MachineID() string {
	id, err := machineid.ProtectedID("keypad")
	if err != nil || id == "" {
		return "keypad"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
