package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/lightnode/cmd"
	"github.com/smazurov/lightnode/internal/api"
	"github.com/smazurov/lightnode/internal/config"
	"github.com/smazurov/lightnode/internal/device"
	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/lights"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/metrics/collectors"
	"github.com/smazurov/lightnode/internal/metrics/exporters"
	"github.com/smazurov/lightnode/internal/mqtt"
	"github.com/smazurov/lightnode/internal/sysfs"
	"github.com/smazurov/lightnode/internal/systemd"
	"github.com/smazurov/lightnode/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port       string `help:"Port to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`
	CorsOrigin string `help:"Allowed CORS origin" default:"*" toml:"server.cors_origin" env:"SERVER_CORS_ORIGIN"`

	// Device settings
	DeviceProfile string `help:"Device profile: auto, a built-in name, or a path to a .toml file" default:"auto" toml:"device.profile" env:"DEVICE_PROFILE"`
	DeviceRoot    string `help:"Prefix for every sysfs path" default:"" toml:"device.root" env:"DEVICE_ROOT"`

	// Battery settings (empty keeps the profile's paths)
	BatteryStatusPath   string `help:"power_supply status attribute" default:"" toml:"battery.status_path" env:"BATTERY_STATUS_PATH"`
	BatteryCapacityPath string `help:"power_supply capacity attribute" default:"" toml:"battery.capacity_path" env:"BATTERY_CAPACITY_PATH"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Metrics settings
	MetricsEnabled bool `help:"Expose Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// MQTT settings
	MqttBroker      string `help:"MQTT broker URL, empty disables MQTT" default:"" toml:"mqtt.broker" env:"MQTT_BROKER"`
	MqttTopicPrefix string `help:"MQTT topic prefix" default:"lightnode" toml:"mqtt.topic_prefix" env:"MQTT_TOPIC_PREFIX"`
	MqttClientId    string `help:"MQTT client identifier" default:"lightnode" toml:"mqtt.client_id" env:"MQTT_CLIENT_ID"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingLights  string `help:"Lights logging level" default:"info" toml:"logging.lights" env:"LOGGING_LIGHTS"`
	LoggingLed     string `help:"LED driver logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingBattery string `help:"Battery logging level" default:"info" toml:"logging.battery" env:"LOGGING_BATTERY"`
	LoggingSysfs   string `help:"Sysfs logging level" default:"info" toml:"logging.sysfs" env:"LOGGING_SYSFS"`
	LoggingApi     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHttp    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingMqtt    string `help:"MQTT logging level" default:"info" toml:"logging.mqtt" env:"LOGGING_MQTT"`
	LoggingConfig  string `help:"Config logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"lights":  opts.LoggingLights,
				"led":     opts.LoggingLed,
				"battery": opts.LoggingBattery,
				"sysfs":   opts.LoggingSysfs,
				"api":     opts.LoggingApi,
				"http":    opts.LoggingHttp,
				"mqtt":    opts.LoggingMqtt,
				"config":  opts.LoggingConfig,
			},
		})

		logger := logging.GetLogger("main")
		notifier := systemd.NewNotifier(logger)

		var (
			server    *api.Server
			bridge    *mqtt.Bridge
			client    *mqtt.Client
			watcher   *config.Watcher[logging.Config]
			collector *collectors.PowerSupplyCollector
		)

		// Everything touching hardware or the network starts here, so
		// subcommands never pay for it.
		hooks.OnStart(func() {
			profile, err := device.Resolve(opts.DeviceProfile, opts.DeviceRoot, logging.GetLogger("config"))
			if err != nil {
				logger.Error("Failed to resolve device profile", "profile", opts.DeviceProfile, "error", err)
				os.Exit(1)
			}
			if opts.BatteryStatusPath != "" {
				profile.Battery.Status = opts.BatteryStatusPath
			}
			if opts.BatteryCapacityPath != "" {
				profile.Battery.Capacity = opts.BatteryCapacityPath
			}

			// Create event bus for in-process event handling
			eventBus := events.New()

			lightService := lights.New(lights.ServiceOptions{
				Profile:  profile,
				EventBus: eventBus,
				Logger:   logging.GetLogger("lights"),
			})

			apiOpts := &api.Options{
				AuthUsername: opts.AuthUsername,
				AuthPassword: opts.AuthPassword,
				LightService: lightService,
				EventBus:     eventBus,
				ProfileName:  profile.Name,
				DriverName:   lightService.Driver().Name(),
				CorsOrigin:   opts.CorsOrigin,
			}
			if opts.MetricsEnabled {
				apiOpts.PrometheusHandler = exporters.HTTPHandler()
			}
			if opts.MetricsEnabled && profile.Battery.Status != "" {
				batteryLogger := logging.GetLogger("battery")
				collector = collectors.NewPowerSupplyCollector(
					sysfs.NewNode(profile.Root, profile.Battery.Status, batteryLogger),
					sysfs.NewNode(profile.Root, profile.Battery.Capacity, batteryLogger),
					collectors.DefaultInterval,
					batteryLogger,
				)
				if startErr := collector.Start(context.Background()); startErr != nil {
					logger.Warn("Failed to start power supply collector", "error", startErr)
				}
			}
			server = api.NewServer(apiOpts)

			if opts.MqttBroker != "" {
				mqttLogger := logging.GetLogger("mqtt")
				client, err = mqtt.Dial(mqtt.ClientOptions{
					Broker:    opts.MqttBroker,
					ClientID:  opts.MqttClientId,
					WillTopic: mqtt.StatusTopic(opts.MqttTopicPrefix),
				}, mqttLogger)
				if err != nil {
					// MQTT is optional; the HTTP API keeps working without it
					logger.Warn("Failed to connect to MQTT broker, MQTT disabled", "broker", opts.MqttBroker, "error", err)
				} else {
					bridge = mqtt.NewBridge(mqtt.BridgeOptions{
						Client:      client,
						EventBus:    eventBus,
						Lights:      lightService,
						TopicPrefix: opts.MqttTopicPrefix,
						Logger:      mqttLogger,
					})
					if startErr := bridge.Start(); startErr != nil {
						logger.Warn("Failed to start MQTT bridge", "error", startErr)
						bridge = nil
					}
				}
			}

			// Hot-reload log levels from the config file
			if _, statErr := os.Stat(opts.Config); statErr == nil {
				watcher = config.NewConfigWatcher(
					opts.Config,
					config.ReadLoggingConfig,
					logging.GetLogger("config"),
					config.WithDebounce[logging.Config](1500*time.Millisecond),
				)
				watcher.OnReload(func(cfg logging.Config) {
					notifier.Reloading()
					logging.SetLevels(cfg.Level, cfg.Modules)
					logger.Info("Log levels reloaded", "level", cfg.Level)
					notifier.Ready()
				})
				if startErr := watcher.Start(); startErr != nil {
					logger.Warn("Failed to start config watcher, hot-reload disabled", "error", startErr)
					watcher = nil
				}
			}

			ln, err := server.Listen(opts.Port)
			if err != nil {
				logger.Error("Failed to start HTTP server", "error", err)
				os.Exit(1)
			}
			notifier.Ready()

			if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logger.Error("HTTP server failed", "error", serveErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			notifier.Stopping()

			if server != nil {
				if stopErr := server.Stop(); stopErr != nil {
					logger.Error("Error stopping HTTP server", "error", stopErr)
				}
			}
			if bridge != nil {
				bridge.Stop()
			}
			if client != nil {
				client.Close()
			}
			if watcher != nil {
				_ = watcher.Stop()
			}
			if collector != nil {
				_ = collector.Stop()
			}
		})
	})

	cli.Root().Use = "lightnode"
	cli.Root().Short = "Backlight and notification LED service"
	cli.Root().Version = version.String()

	cli.Root().AddCommand(cmd.CreateLightsCmd())
	cli.Root().AddCommand(cmd.CreateSetCmd())
	cli.Root().AddCommand(cmd.CreateBatteryCmd())
	cli.Root().AddCommand(cmd.CreateProfilesCmd())

	// Run the CLI
	cli.Run()
}
