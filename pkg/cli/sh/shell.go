// Package sh provides the interactive shell of padctl.
package sh

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/google/shlex"

	"github.com/robotalks/keypad.go/pkg/comm"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *Config
	Conn   *Conn
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	scriptFile string

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&SourceCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&scriptFile, "f", scriptFile, "Run commands from the script file.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// replyJSON is the JSON form of a reply.
type replyJSON struct {
	Command string `json:"command"`
	Ack     bool   `json:"ack"`
	Reason  string `json:"reason,omitempty"`
	Frame   string `json:"frame"`
}

// DoRequest sends a request and prints the reply.
func DoRequest(c *ishell.Context, req *comm.Request) error {
	f, err := req.Encode()
	if err != nil {
		c.Err(err)
		return err
	}
	return SendFrame(c, f)
}

// SendFrame sends a raw frame and prints the reply.
func SendFrame(c *ishell.Context, f *comm.Frame) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	reply, err := s.Conn.Client.Send(s.Conn.Ctx, f)
	var nack *comm.NackError
	if err != nil && !errors.As(err, &nack) {
		c.Err(err)
		return err
	}
	if s.OutputJSON {
		out := replyJSON{Command: f.Command.String(), Ack: nack == nil, Frame: fmt.Sprintf("% x", reply.Bytes())}
		if nack != nil {
			out.Reason = nack.Reason.String()
		}
		data, _ := json.Marshal(&out)
		c.Println(string(data))
	} else if nack != nil {
		c.Println(nack.Error())
	} else {
		c.Println("OK")
	}
	return err
}

// ScriptLines splits a script into commands, lines are split like a
// shell would and # starts a comment.
func ScriptLines(r io.Reader) ([][]string, error) {
	var cmds [][]string
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(args) > 0 {
			cmds = append(cmds, args)
		}
	}
	return cmds, scanner.Err()
}

// RunScript runs the commands of a script, stops on the first error.
func (s *Shell) RunScript(r io.Reader) error {
	cmds, err := ScriptLines(r)
	if err != nil {
		return err
	}
	for _, args := range cmds {
		if err := s.Shell.Process(args...); err != nil {
			return fmt.Errorf("%s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}

// RunScriptFile runs a script file.
func (s *Shell) RunScriptFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.RunScript(f)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Config.Target != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Target)
		}
		if err := s.Connect(s.Config.Target); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Target, err)
		}
	}
	defer s.Disconnect()

	if scriptFile != "" {
		if err := s.RunScriptFile(scriptFile); err != nil {
			log.Fatalln(err)
		}
		if len(args) == 0 && !s.Interactive {
			return
		}
	}
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	if scriptFile == "" {
		log.Fatalln("command expected")
	}
}

var (
	// DiscoverCmd discovers keypads on MQTT.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			found, err := s.Discover(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, err := json.Marshal(found)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(found) == 0 {
				c.Println("No keypads found")
				return
			}
			for _, meta := range found {
				if meta.Description != "" {
					c.Printf("%s: %s\n", meta.ID, meta.Description)
				} else {
					c.Println(meta.ID)
				}
			}
		},
	}

	// ConnectCmd connects a keypad.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "/dev/TTY | ws://HOST:PORT/keypad | mqtt:ID",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			target := ""
			if len(c.Args) > 0 {
				target = c.Args[0]
			} else {
				found, err := s.Discover(context.Background())
				if err != nil {
					c.Err(err)
					return
				}
				switch len(found) {
				case 0:
					c.Err(fmt.Errorf("no keypad discovered"))
					return
				case 1:
					target = MQTTScheme + found[0].ID
				default:
					if !s.Interactive {
						c.Err(fmt.Errorf("more than 1 keypads discovered in non-interactive mode"))
						return
					}
					items := make([]string, len(found))
					for n, meta := range found {
						items[n] = meta.ID
					}
					target = MQTTScheme + found[s.Shell.MultiChoice(items, "Which one to connect?")].ID
				}
			}
			if err := s.Connect(target); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current keypad.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// SourceCmd runs a script file.
	SourceCmd = ishell.Cmd{
		Name:    "source",
		Aliases: []string{"."},
		Help:    "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			if err := ShellFrom(c).RunScriptFile(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).Run(flag.Args()...)
}
