package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/robotalks/keypad.go/pkg/comm/mqtt"
	"github.com/robotalks/keypad.go/pkg/framework"
	"github.com/robotalks/keypad.go/pkg/msgs"
)

var (
	mqttURL    = "mqtt://localhost:1883/"
	keypadID   = "+"
	outputJSON bool
)

func init() {
	if val := os.Getenv("KEYPAD_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&keypadID, "id", keypadID, "Keypad ID to watch, + for all.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

func formatStatus(st *msgs.KeypadStatus) string {
	if outputJSON {
		out, _ := json.Marshal(st)
		return string(out)
	}
	states := make([]string, len(st.States))
	for n := range st.States {
		states[n] = st.State(n).String()
		if st.IsLocked(n) {
			states[n] += "*"
		}
	}
	return fmt.Sprintf("%s pressed=%016b kbd=%v [%s]",
		st.ID, st.Pressed, st.KeyboardEnabled, strings.Join(states, " "))
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	connector, err := mqtt.NewConnector(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	runner := framework.NewRunner().HandleSignals()
	found, err := connector.Discover(runner.Context)
	if err != nil {
		log.Fatalln(err)
	}
	for _, meta := range found {
		log.Printf("keypad %s: %d buttons %s %s", meta.ID, meta.Buttons, meta.Version, meta.Description)
	}

	runner.Go(framework.RunnableFunc(func(ctx context.Context) error {
		return connector.WatchStatus(ctx, keypadID, func(st *msgs.KeypadStatus) {
			log.Println(formatStatus(st))
		})
	}))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
