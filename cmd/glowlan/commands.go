package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/glowlan/glowlan/internal/bridge"
	"github.com/glowlan/glowlan/internal/config"
	"github.com/glowlan/glowlan/internal/lan"
	"github.com/glowlan/glowlan/internal/logging"
	"github.com/glowlan/glowlan/internal/tui"
)

// Command flags
var (
	configPath      string
	scanTimeout     int
	discoverTimeout int
	serveAddr       string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: platform config dir)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(controlCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for devices on the local network",
	Long: `Scan for devices using UDP multicast discovery.

Broadcasts scan requests to the multicast group and collects device
replies for the scan window, then prints every discovered device with
its ID, model SKU, and address.`,
	Example: `  # Scan for 10 seconds (default)
  glowlan scan

  # Quick 3-second scan
  glowlan scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan window in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	cleanup, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	ctrl := lan.New(cfg)
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	defer ctrl.Stop()

	fmt.Printf("Scanning for devices (timeout: %ds)...\n\n", scanTimeout)
	time.Sleep(time.Duration(scanTimeout) * time.Second)

	devices, err := ctrl.Devices(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure devices are powered on and on the same network segment")
		fmt.Println("  - Enable LAN control in the vendor app (off by default on most models)")
		fmt.Println("  - Check that your network allows multicast (some APs filter it)")
		fmt.Println("  - Try increasing --timeout; devices answer scans lazily")
		return nil
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.ID)
		fmt.Printf("   Model: %s", d.SKU)
		if !d.LANCapable {
			fmt.Printf(" (not in LAN capability list)")
		}
		fmt.Println()
		fmt.Printf("   IP:    %s\n", d.IP)
		fmt.Println()
	}

	fmt.Println("Use 'glowlan control <device-id> <command> [params]' to send a command")
	fmt.Println("Use 'glowlan watch' for a live view")
	return nil
}

// controlCmd sends a control command to one device
var controlCmd = &cobra.Command{
	Use:   "control <device-id> <command> [params-json]",
	Short: "Send a control command to a device",
	Long: `Send a unicast control command to a specific device.

The command tag and parameter object are passed through as-is; their
shape depends on the device model. After a successful send the device is
given a moment to apply the change, then fresh status is pulled and
printed if the device answers.

Delivery is best-effort: UDP gives no guarantee and devices send no
acknowledgment. A failed send drops the device from the registry until
the next scan finds it again.`,
	Example: `  # Turn a light on
  glowlan control 7D:31:C5:0B:1E:AB:CD:EF turn '{"value":1}'

  # Set brightness
  glowlan control 7D:31:C5:0B:1E:AB:CD:EF brightness '{"value":75}'`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runControl,
}

func init() {
	controlCmd.Flags().IntVar(&discoverTimeout, "discover-timeout", 10, "Seconds to wait for the device to appear")
	statusCmd.Flags().IntVar(&discoverTimeout, "discover-timeout", 10, "Seconds to wait for the device to appear")
}

func runControl(cmd *cobra.Command, args []string) error {
	deviceID, command := args[0], args[1]

	var params interface{} = map[string]interface{}{}
	if len(args) == 3 {
		if err := json.Unmarshal([]byte(args[2]), &params); err != nil {
			return fmt.Errorf("invalid params JSON: %w", err)
		}
	}

	cleanup, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	updates := make(chan map[string]interface{}, 8)
	ctrl := lan.New(cfg, lan.WithOnUpdate(func(id string, payload map[string]interface{}) {
		if id != deviceID {
			return
		}
		select {
		case updates <- payload:
		default:
		}
	}))
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	defer ctrl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(discoverTimeout)*time.Second)
	defer cancel()

	if err := waitForDevice(ctx, ctrl, deviceID); err != nil {
		return err
	}

	if err := ctrl.Control(ctx, deviceID, command, params); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	printStatusOrTimeout(updates)
	return nil
}

// statusCmd pulls fresh status from one device
var statusCmd = &cobra.Command{
	Use:   "status <device-id>",
	Short: "Request current status from a device",
	Long: `Request a device's current operational state.

Sends a unicast status request and prints the reply. Absence of a reply
is not an error - the device may be busy, asleep, or gone; UDP offers no
way to tell.`,
	Example: `  glowlan status 7D:31:C5:0B:1E:AB:CD:EF`,
	Args:    cobra.ExactArgs(1),
	RunE:    runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	deviceID := args[0]

	cleanup, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	updates := make(chan map[string]interface{}, 8)
	ctrl := lan.New(cfg, lan.WithOnUpdate(func(id string, payload map[string]interface{}) {
		if id != deviceID {
			return
		}
		select {
		case updates <- payload:
		default:
		}
	}))
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	defer ctrl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(discoverTimeout)*time.Second)
	defer cancel()

	if err := waitForDevice(ctx, ctrl, deviceID); err != nil {
		return err
	}

	if err := ctrl.SendStatusRequest(ctx, deviceID); err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}

	printStatusOrTimeout(updates)
	return nil
}

// watchCmd shows a live view of the registry
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of discovered devices and status updates",
	Long: `Watch devices appear and report status in real time.

Runs the discovery transport and renders the registry as a live
terminal view: one line per device, with the latest correlated status
payload underneath as replies arrive.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires a terminal (try 'glowlan serve' for headless use)")
	}

	cleanup, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	updates := make(chan tui.Update, 32)
	ctrl := lan.New(cfg, lan.WithOnUpdate(func(id string, payload map[string]interface{}) {
		select {
		case updates <- tui.Update{DeviceID: id, Payload: payload}:
		default:
		}
	}))
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	defer ctrl.Stop()

	program := tea.NewProgram(tui.NewModel(ctrl, updates), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// serveCmd runs the transport with the HTTP/WebSocket bridge
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transport with the HTTP/WebSocket bridge",
	Long: `Run discovery continuously and expose it to host applications.

Serves the live registry on GET /api/devices and streams correlated
status updates on GET /ws until interrupted.`,
	Example: `  # Serve on the configured address (default 127.0.0.1:8093)
  glowlan serve

  # Serve on a specific address
  glowlan serve --listen 0.0.0.0:8093`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "listen", "", "Bridge listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cleanup, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	addr := cfg.Bridge.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	var srv *bridge.Server
	ctrl := lan.New(cfg, lan.WithOnUpdate(func(id string, payload map[string]interface{}) {
		srv.Publish(id, payload)
	}))

	srv, err = bridge.New(&bridge.Config{ListenAddr: addr, Source: ctrl})
	if err != nil {
		return err
	}

	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	defer ctrl.Stop()

	if err := srv.Start(); err != nil {
		return err
	}

	fmt.Printf("Serving on http://%s (Ctrl-C to stop)\n", srv.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setup initializes logging and loads config for every command
func setup() (func(), *config.Config, error) {
	if err := logging.InitializeFromEnv(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Sync()
		return nil, nil, err
	}

	return logging.Sync, cfg, nil
}

// waitForDevice polls the registry until the device shows up or ctx ends
func waitForDevice(ctx context.Context, ctrl *lan.Controller, deviceID string) error {
	for {
		devices, err := ctrl.Devices(ctx)
		if err != nil {
			return err
		}
		for _, d := range devices {
			if d.ID == deviceID {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("device %s not discovered within %ds (is LAN control enabled?)", deviceID, discoverTimeout)
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// printStatusOrTimeout prints the first status payload to arrive, or a
// note that the device stayed silent
func printStatusOrTimeout(updates <-chan map[string]interface{}) {
	select {
	case payload := <-updates:
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			fmt.Printf("Status: %v\n", payload)
			return
		}
		fmt.Printf("Status:\n%s\n", out)
	case <-time.After(2 * time.Second):
		fmt.Println("Command sent (no status reply received)")
	}
}
