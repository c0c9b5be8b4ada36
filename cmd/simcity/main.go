package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simulated-city/simcity/pkg/config"
	"github.com/simulated-city/simcity/pkg/logger"
	"github.com/simulated-city/simcity/pkg/mqtt"
)

var version = "0.1.0"

func main() {
	// Load .env if it exists; it supplements the environment and never
	// overrides already-set variables.
	_ = godotenv.Load()

	var configFile string
	var logLevel string

	root := &cobra.Command{
		Use:   "simcity",
		Short: "simcity - simulated city workshop template",
		Long: `simcity is the workshop template for the simulated city exercises.
It ships configuration loading, MQTT connection helpers, and the movement or
routing math that student agents are assembled from. The simulation loop
itself is yours to write.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel, Encoding: "console"})
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Path to the configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("simcity v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Load and print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			fmt.Printf("Active profiles (%d):\n", len(cfg.Profiles))
			for _, name := range cfg.Profiles {
				broker := cfg.Brokers[name]
				marker := " "
				if broker == cfg.Broker && name == cfg.Profiles[0] {
					marker = "*"
				}
				fmt.Printf("%s %s: %s\n", marker, name, broker)
			}

			if cfg.Simulation != nil {
				sim := cfg.Simulation
				fmt.Printf("\nSimulation: %d people, %d ticks of %s, map [%g..%g]x[%g..%g]\n",
					sim.PeopleCount, sim.Movement.TotalTicks, sim.Movement.Tick,
					sim.Map.MinX, sim.Map.MaxX, sim.Map.MinY, sim.Map.MaxY)
			} else {
				fmt.Println("\nSimulation: not configured")
			}
			return nil
		},
	})

	var checkTimeout time.Duration
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify connectivity to every active broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return checkBrokers(cfg, checkTimeout)
		},
	}
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Second, "Per-broker connection timeout")
	root.AddCommand(checkCmd)

	var profileName, topic, message string
	var qos int
	var retain bool
	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a one-shot message through a broker profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return publishOnce(cfg, profileName, topic, message, byte(qos), retain)
		},
	}
	publishCmd.Flags().StringVar(&profileName, "profile", "", "Broker profile to publish through (default: primary)")
	publishCmd.Flags().StringVar(&topic, "topic", "", "Topic to publish on (required)")
	publishCmd.Flags().StringVar(&message, "message", "", "Message text (required)")
	publishCmd.Flags().IntVar(&qos, "qos", 0, "Quality of service level (0, 1, or 2)")
	publishCmd.Flags().BoolVar(&retain, "retain", false, "Set the retain flag")
	_ = publishCmd.MarkFlagRequired("topic")
	_ = publishCmd.MarkFlagRequired("message")
	root.AddCommand(publishCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// checkBrokers connects to every active profile in turn and reports
// per-profile readiness. All profiles are attempted even when one fails.
func checkBrokers(cfg *config.AppConfig, timeout time.Duration) error {
	failed := 0

	for _, name := range cfg.Profiles {
		broker := cfg.Brokers[name]
		ctx := context.WithValue(context.Background(), logger.ProfileKey, name)
		ctx = context.WithValue(ctx, logger.BrokerKey, broker.Address())
		log := logger.WithContext(ctx)

		conn := mqtt.NewConnector(broker, "check-"+mqtt.RandomSuffix())

		if err := conn.Connect(); err != nil {
			log.Error("broker unreachable", zap.Error(err))
			fmt.Printf("FAIL %s (%s): %v\n", name, broker.Address(), err)
			failed++
			continue
		}
		if !conn.WaitForConnection(timeout) {
			fmt.Printf("FAIL %s (%s): not ready after %s\n", name, broker.Address(), timeout)
			failed++
		} else {
			fmt.Printf("OK   %s (%s)\n", name, broker.Address())
		}
		conn.Disconnect()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d brokers unreachable", failed, len(cfg.Profiles))
	}
	return nil
}

// publishOnce publishes one message through the named profile (or the
// primary broker when no profile is given) and disconnects.
func publishOnce(cfg *config.AppConfig, profileName, topic, message string, qos byte, retain bool) error {
	broker := cfg.Broker
	if profileName != "" {
		named, ok := cfg.BrokerFor(profileName)
		if !ok {
			return fmt.Errorf("unknown profile %q (active: %v)", profileName, cfg.Profiles)
		}
		broker = named
	}

	conn := mqtt.NewConnector(broker, "publish-"+mqtt.RandomSuffix())
	if err := conn.Connect(); err != nil {
		return err
	}
	defer conn.Disconnect()

	if !conn.WaitForConnection(5 * time.Second) {
		return fmt.Errorf("broker %s not ready", broker.Address())
	}

	publisher := mqtt.NewPublisher(conn)
	payload := map[string]string{"message": message}
	if _, err := publisher.PublishJSON(topic, payload, qos, retain); err != nil {
		return err
	}

	fmt.Printf("published to %s on %s (qos=%d retain=%t)\n", topic, broker.Address(), qos, retain)
	return nil
}
