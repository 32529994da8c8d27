//go:build ignore

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	// Import the protocol package
	"github.com/dalymople/avrsetup/internal/protocol"
)

func main() {
	addr := "127.0.0.1:8099"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	url := fmt.Sprintf("ws://%s/ws", addr)

	fmt.Printf("=== Avrsetup Event Tail ===\n")
	fmt.Printf("Stream: %s\n", url)
	fmt.Printf("Usage: tail-events [host:port]\n\n")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("Error connecting: %v\n", err)
		fmt.Println("Is 'avrsetup serve' running?")
		os.Exit(1)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				fmt.Printf("Read error: %v\n", err)
				return
			}
			printEvent(data)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		fmt.Println("\nClosing...")
		err := conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			return
		}
		// Give the server a moment to answer the close frame
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func printEvent(data []byte) {
	var event protocol.Event
	if err := json.Unmarshal(data, &event); err != nil {
		fmt.Printf("Unparseable event: %v\n  %s\n", err, data)
		return
	}

	ts := event.Timestamp.Format("15:04:05")

	switch event.Type {
	case protocol.EventDiscovery:
		fmt.Printf("[%s] discovery", ts)
		if event.Discovery != nil {
			fmt.Printf(": %s %s at %s",
				event.Discovery.Manufacturer, event.Discovery.ModelName, event.Discovery.Host)
		}
		fmt.Println()
		printResult(event.Flow)
	case protocol.EventFlowResult:
		fmt.Printf("[%s] flow result\n", ts)
		printResult(event.Flow)
	default:
		fmt.Printf("[%s] %s\n  %s\n", ts, event.Type, data)
	}
}

func printResult(r *protocol.StepResult) {
	if r == nil {
		return
	}

	switch r.Kind {
	case protocol.KindForm:
		fmt.Printf("  flow %s waiting at step %q\n", r.FlowID, r.Step)
		for field, code := range r.Errors {
			fmt.Printf("    error %s: %s\n", field, code)
		}
		for _, host := range r.Hosts {
			fmt.Printf("    candidate: %s\n", host)
		}
	case protocol.KindAbort:
		fmt.Printf("  flow %s aborted: %s\n", r.FlowID, r.Reason)
	case protocol.KindEntry:
		fmt.Printf("  flow %s finished", r.FlowID)
		if r.Entry != nil {
			fmt.Printf(": %s (%s) at %s", r.Entry.Title, r.Entry.UniqueID, r.Entry.Host)
		}
		fmt.Println()
	default:
		fmt.Printf("  flow %s: unknown result kind %q\n", r.FlowID, r.Kind)
	}
}
