package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the assistant binaries read at startup.
// Channel credentials are optional: an absent credential disables the
// corresponding delivery channel instead of failing validation.
type Config struct {
	// Broker is the sensor bus connection block.
	Broker BrokerConfig `yaml:"broker"`
	// Telegram carries the caregiver bot credentials. Optional.
	Telegram TelegramConfig `yaml:"telegram"`
	// WhatsApp carries the instant-messaging gateway settings. Optional.
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	// Assistant carries the LLM chat collaborator settings. Optional.
	Assistant AssistantConfig `yaml:"assistant"`
	// Voice carries speech recognition settings and listen windows.
	Voice VoiceConfig `yaml:"voice"`
	// CustomCommands extends the built-in command table. Keys matching a
	// built-in category add phrase variants; new keys become new categories.
	CustomCommands map[string][]string `yaml:"custom_commands"`
	// DatabasePath is the sqlite file holding reminders.
	DatabasePath string `yaml:"database_path"`
	// ResponsesDir stores transient synthesized speech files.
	ResponsesDir string `yaml:"responses_dir"`
	// TempAudioDir stores recorded and transcoded voice messages.
	TempAudioDir string `yaml:"temp_audio_dir"`
	// PurgeInterval is the cadence of the responses-dir janitor.
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

// BrokerConfig describes the MQTT broker and its topics.
type BrokerConfig struct {
	// Address is the broker host or IP.
	Address string `yaml:"address"`
	// Port is the broker TCP port.
	Port int `yaml:"port"`
	// TemperatureTopic delivers UTF-8 decimal temperature samples.
	TemperatureTopic string `yaml:"temperature_topic"`
	// FallTopic delivers fall-detection events; any payload is a signal.
	FallTopic string `yaml:"fall_topic"`
	// LightsTopic receives "ON"/"OFF" lights-state publications.
	LightsTopic string `yaml:"lights_topic"`
	// StartupScript is an optional script that brings up the broker locally.
	StartupScript string `yaml:"startup_script"`
	// ProcessName is the broker executable name looked up in the process
	// list after running the startup script.
	ProcessName string `yaml:"process_name"`
}

// TelegramConfig carries the caregiver bot credentials.
type TelegramConfig struct {
	// BotToken authenticates against the bot API.
	BotToken string `yaml:"bot_token"`
	// ChatID is the caregiver chat receiving alerts.
	ChatID int64 `yaml:"chat_id"`
}

// WhatsAppConfig carries the instant-messaging gateway settings.
type WhatsAppConfig struct {
	// GatewayURL is the HTTP automation endpoint that relays the message.
	GatewayURL string `yaml:"gateway_url"`
	// PhoneNumber is the caregiver number in international format.
	PhoneNumber string `yaml:"phone_number"`
}

// VoiceConfig carries speech recognition settings and listen windows.
// Individual commands request longer windows than the default turn.
type VoiceConfig struct {
	// STTCommand is the transcriber binary; the captured WAV path is
	// appended as the last argument.
	STTCommand string `yaml:"stt_command"`
	// STTArgs are passed to the transcriber before the file path.
	STTArgs []string `yaml:"stt_args"`
	// CommandTimeout is the default listen window for one turn.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// DecisionTimeout is the window for yes/no style follow-ups.
	DecisionTimeout time.Duration `yaml:"decision_timeout"`
	// QuestionTimeout is the window for dictating an open question.
	QuestionTimeout time.Duration `yaml:"question_timeout"`
	// MessageTimeout is the window for dictating a caregiver message.
	MessageTimeout time.Duration `yaml:"message_timeout"`
	// RecordDuration is the emergency voice-message capture bound.
	RecordDuration time.Duration `yaml:"record_duration"`
}

// AssistantConfig carries the LLM chat collaborator settings.
type AssistantConfig struct {
	// APIKey authenticates against the generative endpoint.
	APIKey string `yaml:"api_key"`
	// Endpoint is the chat completion URL. Defaulted when empty.
	Endpoint string `yaml:"endpoint"`
}

const (
	// DefaultConfigFilename is the default filename for assistant settings.
	DefaultConfigFilename = "care-assistant-settings.yaml"

	// DefaultDatabaseFilename is the default sqlite file for reminders.
	DefaultDatabaseFilename = "reminders.db"

	// DefaultResponsesDir holds transient synthesized speech files.
	DefaultResponsesDir = "responses"

	// DefaultTempAudioDir holds recorded voice messages and transcodes.
	DefaultTempAudioDir = "temp-audio"

	// DefaultPurgeInterval is the cadence of the responses-dir janitor.
	DefaultPurgeInterval = 5 * time.Minute

	// DefaultBrokerPort is the standard MQTT port.
	DefaultBrokerPort = 1883

	// DefaultTemperatureTopic is the sensor topic for temperature samples.
	DefaultTemperatureTopic = "robot/temperatura"

	// DefaultFallTopic is the sensor topic for fall-detection events.
	DefaultFallTopic = "hogar/emergencia/caida/detectada"

	// DefaultLightsTopic is the actuator topic for lights state.
	DefaultLightsTopic = "robot/luces"

	// DefaultBrokerProcessName is the broker executable polled after startup.
	DefaultBrokerProcessName = "mosquitto"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// DefaultSTTCommand is the speech-to-text transcriber binary.
	DefaultSTTCommand = "vosk-transcriber"

	// DefaultCommandTimeout is the listen window for one ordinary turn.
	DefaultCommandTimeout = 5 * time.Second

	// DefaultDecisionTimeout is the listen window for yes/no follow-ups.
	DefaultDecisionTimeout = 7 * time.Second

	// DefaultQuestionTimeout is the listen window for open questions.
	DefaultQuestionTimeout = 12 * time.Second

	// DefaultMessageTimeout is the listen window for caregiver messages.
	DefaultMessageTimeout = 25 * time.Second

	// DefaultRecordDuration bounds the emergency voice-message capture.
	DefaultRecordDuration = 15 * time.Second
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBrokerAddressRequired is returned when the broker address is missing.
	errBrokerAddressRequired = errors.New("broker address must be provided")
	// errInvalidBrokerPort is returned when the broker port is out of range.
	errInvalidBrokerPort = errors.New("broker port must be between 1 and 65535")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file carries bot credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for the optional ones.
// Missing channel credentials are a configuration state, not an error.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Broker.Address == "" {
		return errBrokerAddressRequired
	}

	if cfg.Broker.Port == 0 {
		cfg.Broker.Port = DefaultBrokerPort
	}

	if cfg.Broker.Port < 1 || cfg.Broker.Port > 65535 {
		return fmt.Errorf("port %d: %w", cfg.Broker.Port, errInvalidBrokerPort)
	}

	if cfg.Broker.TemperatureTopic == "" {
		cfg.Broker.TemperatureTopic = DefaultTemperatureTopic
	}

	if cfg.Broker.FallTopic == "" {
		cfg.Broker.FallTopic = DefaultFallTopic
	}

	if cfg.Broker.LightsTopic == "" {
		cfg.Broker.LightsTopic = DefaultLightsTopic
	}

	if cfg.Broker.ProcessName == "" {
		cfg.Broker.ProcessName = DefaultBrokerProcessName
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabaseFilename
	}

	if cfg.ResponsesDir == "" {
		cfg.ResponsesDir = DefaultResponsesDir
	}

	if cfg.TempAudioDir == "" {
		cfg.TempAudioDir = DefaultTempAudioDir
	}

	if cfg.PurgeInterval <= 0 {
		cfg.PurgeInterval = DefaultPurgeInterval
	}

	if cfg.Voice.STTCommand == "" {
		cfg.Voice.STTCommand = DefaultSTTCommand
		if len(cfg.Voice.STTArgs) == 0 {
			cfg.Voice.STTArgs = []string{"-l", "es", "-i"}
		}
	}

	if cfg.Voice.CommandTimeout <= 0 {
		cfg.Voice.CommandTimeout = DefaultCommandTimeout
	}

	if cfg.Voice.DecisionTimeout <= 0 {
		cfg.Voice.DecisionTimeout = DefaultDecisionTimeout
	}

	if cfg.Voice.QuestionTimeout <= 0 {
		cfg.Voice.QuestionTimeout = DefaultQuestionTimeout
	}

	if cfg.Voice.MessageTimeout <= 0 {
		cfg.Voice.MessageTimeout = DefaultMessageTimeout
	}

	if cfg.Voice.RecordDuration <= 0 {
		cfg.Voice.RecordDuration = DefaultRecordDuration
	}

	return nil
}

// TelegramConfigured reports whether the Telegram channel can operate.
func (c *Config) TelegramConfigured() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}

// WhatsAppConfigured reports whether the WhatsApp channel can operate.
func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsApp.GatewayURL != "" && c.WhatsApp.PhoneNumber != ""
}

// AssistantConfigured reports whether the LLM chat collaborator can operate.
func (c *Config) AssistantConfigured() bool {
	return c.Assistant.APIKey != ""
}
