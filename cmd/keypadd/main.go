package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"syscall"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/physic"

	"github.com/robotalks/keypad.go/pkg/board"
	"github.com/robotalks/keypad.go/pkg/comm"
	"github.com/robotalks/keypad.go/pkg/comm/mqtt"
	"github.com/robotalks/keypad.go/pkg/comm/stream"
	"github.com/robotalks/keypad.go/pkg/comm/websocket"
	"github.com/robotalks/keypad.go/pkg/config"
	fx "github.com/robotalks/keypad.go/pkg/framework"
	"github.com/robotalks/keypad.go/pkg/hw"
	"github.com/robotalks/keypad.go/pkg/keypad"
	"github.com/robotalks/keypad.go/pkg/led"
)

// Version is set at build time.
var Version = "dev"

func init() {
	config.SetupFlags(nil)
}

type devices struct {
	input    board.Input
	output   io.Writer
	keyboard keypad.Keyboard
	closers  []io.Closer
}

func (d *devices) Close() {
	for _, c := range d.closers {
		c.Close()
	}
}

func openDevices(conf *config.Config) (*devices, error) {
	if conf.Sim {
		return &devices{
			input:    &hw.SimInput{},
			output:   &hw.LogOutput{},
			keyboard: hw.LogKeyboard{},
		}, nil
	}
	if err := hw.Init(); err != nil {
		return nil, err
	}
	d := &devices{}
	in, err := hw.OpenI2CInput(conf.I2CBus, conf.I2CAddr)
	if err != nil {
		return nil, err
	}
	d.input, d.closers = in, append(d.closers, in)
	out, err := hw.OpenSPIOutput(conf.SPIPort, physic.Frequency(conf.SPISpeedMHz)*physic.MegaHertz)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.output, d.closers = out, append(d.closers, out)
	d.keyboard = hw.LogKeyboard{}
	if conf.HIDPath != "" {
		kbd, err := hw.OpenHIDKeyboard(conf.HIDPath)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.keyboard, d.closers = kbd, append(d.closers, kbd)
	}
	return d, nil
}

func run(conf *config.Config) error {
	devs, err := openDevices(conf)
	if err != nil {
		return err
	}
	defer devs.Close()

	b := board.New(devs.input, led.NewStrip(devs.output))
	if conf.SelfTest {
		if err := b.SelfTest(); err != nil {
			return err
		}
	}
	if conf.Startup {
		b.Startup()
	} else {
		b.EnableKeyboardInput(true)
	}

	dev := keypad.New(conf.ID, b)
	dev.Keyboard = devs.keyboard
	dev.RefreshInterval, dev.PollInterval = conf.RefreshInterval, conf.PollInterval
	disp := dev.Dispatcher()
	poll := dev.PollLoop()

	if conf.Serial != "" {
		rw, err := stream.Open(conf.Serial)
		if err != nil {
			return err
		}
		poll.Add(comm.NewServer("serial", rw, disp))
	}
	if conf.WebsocketAddr != "" {
		poll.Add(websocket.NewListener(conf.WebsocketAddr, disp))
	}
	if conf.MQTTURL != "" {
		reg, err := mqtt.NewRegistrar(conf.MQTTURL, mqtt.Meta{
			ID:          conf.ID,
			Description: conf.Description,
			Buttons:     board.NumButtons,
			Version:     Version,
		})
		if err != nil {
			return err
		}
		dev.AddPublisher(reg)
		poll.Add(reg, comm.NewServer("mqtt", reg.ReadWriter(), disp))
	}

	glog.Infof("keypad %s started", conf.ID)
	return fx.NewRunner().HandleSignals().Go(
		fx.NamedRun("refresh", dev.RefreshLoop()),
		fx.NamedRun("poll", poll),
	).Wait()
}

// reexec replaces the process with a fresh instance of itself.
func reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	glog.Info("restarting")
	glog.Flush()
	return syscall.Exec(exe, os.Args, os.Environ())
}

func main() {
	conf, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	err = run(conf)
	if errors.Is(err, comm.ErrDeviceReset) {
		err = reexec()
	}
	if err != nil && !errors.Is(err, fx.ErrForcedExit) {
		glog.Exitf("keypad %s: %v", conf.ID, err)
	}
	glog.Flush()
}
