// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aukletsystems/auklet/pkg/bmc"
	"github.com/aukletsystems/auklet/pkg/simboard"
	"github.com/aukletsystems/auklet/pkg/wire"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the BMC firmware core on a simulated board",
	Long: `Run the full firmware core against a simulated board.

The simulator exposes the management bus over WebSocket at /bus: clients
send stuffed frames as binary messages and get the responses back the same
way, so every other subcommand works against it:

  auklet sim --listen 127.0.0.1:8090
  auklet --url ws://127.0.0.1:8090/bus power on

With --panel an interactive front-panel TUI is attached: press buttons,
fail rails and watch the power sequencer react. Without it the simulator
runs headless until interrupted.

Rails ramp up over --ramp ticks after power enable, so power-on timeout
behaviour can be exercised by setting --ramp beyond the policy's
power_on_timeout_ticks.`,
	RunE: runSim,
}

var (
	simListen     string
	simConfigFile string
	simPanel      bool
	simRampTicks  int
)

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().StringVar(&simListen, "listen", "127.0.0.1:8090", "WebSocket listen address")
	simCmd.Flags().StringVar(&simConfigFile, "config", "", "Policy YAML file (defaults used if unset)")
	simCmd.Flags().BoolVar(&simPanel, "panel", false, "Attach the interactive front-panel TUI")
	simCmd.Flags().IntVar(&simRampTicks, "ramp", 20, "Rail ramp duration in ticks")
}

func runSim(cmd *cobra.Command, args []string) error {
	policy := bmc.DefaultPolicy()
	if simConfigFile != "" {
		var err error
		policy, err = bmc.LoadPolicy(simConfigFile)
		if err != nil {
			return err
		}
	}

	board := simboard.New(policy, simRampTicks)
	ctl, err := bmc.NewController(policy, board)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		_ = ctl.Run(ctx)
	}()

	bridge := &busBridge{adapter: ctl.Adapter()}
	mux := http.NewServeMux()
	mux.HandleFunc("/bus", bridge.handleWS)
	srv := &http.Server{Addr: simListen, Handler: mux}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	if simPanel {
		m := initialSimModel(ctl, board)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			_ = srv.Close()
			return fmt.Errorf("TUI error: %v", err)
		}
	} else {
		fmt.Printf("Auklet BMC simulator\n")
		fmt.Printf("Bus bridge: ws://%s/bus\n", simListen)
		fmt.Printf("Press Ctrl+C to exit\n")

		select {
		case <-ctx.Done():
		case err := <-serverErr:
			return fmt.Errorf("bus bridge server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// busBridge plays the bus master on behalf of WebSocket clients: each
// decoded frame becomes a write transaction, then the staged response is
// clocked back out and returned. One exchange at a time; the bus has a
// single select line.
type busBridge struct {
	mu       sync.Mutex
	adapter  *bmc.BusAdapter
	upgrader websocket.Upgrader
}

func (b *busBridge) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	decoder := wire.NewDecoder()
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		for _, by := range data {
			frame, err := decoder.DecodeByte(by)
			if err != nil || frame == nil {
				continue
			}
			raw, err := wire.EncodeFrame(frame)
			if err != nil {
				continue
			}
			rsp := b.exchange(raw)
			if rsp == nil {
				// Corrupt on the bus or dispatch produced nothing; the
				// client's retry handles it.
				continue
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, wire.Stuff(rsp)); err != nil {
				return
			}
		}
	}
}

// exchange clocks one request in and the response out, master side.
func (b *busBridge) exchange(raw []byte) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	a := b.adapter
	a.BeginTransaction()
	for _, by := range raw {
		a.TransferByte(by)
	}
	a.EndTransaction()

	// The dispatch loop stages the response; give it a moment.
	deadline := time.Now().Add(time.Second)
	for !a.Ready() {
		if time.Now().After(deadline) {
			return nil
		}
		time.Sleep(time.Millisecond)
	}

	// Clock the header first, then exactly the advertised remainder.
	a.BeginTransaction()
	out := make([]byte, 2, wire.MaxFrameSize)
	out[0] = a.TransferByte(0xFF)
	out[1] = a.TransferByte(0xFF)
	total := int(out[1]) + wire.FrameOverhead
	for len(out) < total {
		out = append(out, a.TransferByte(0xFF))
	}
	a.EndTransaction()
	return out
}
