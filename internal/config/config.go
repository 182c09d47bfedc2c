// Package config loads service settings from mathcast.yml plus environment
// overrides. A .env file in the working directory is folded into the
// environment before overrides are read.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service settings loaded from mathcast.yml.
type Config struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
	VideoDir   string `yaml:"videoDir,omitempty"`
	TaskFile   string `yaml:"taskFile,omitempty"`

	Model       string   `yaml:"model,omitempty"`
	CacheSize   int      `yaml:"cacheSize,omitempty"`
	MaxWorkers  int      `yaml:"maxWorkers,omitempty"`
	TaskMaxAge  Duration `yaml:"taskMaxAge,omitempty"`
	SweepEvery  Duration `yaml:"sweepEvery,omitempty"`
	RenderLimit Duration `yaml:"renderLimit,omitempty"`

	OCRBaseURL string `yaml:"ocrBaseUrl,omitempty"`

	S3 S3 `yaml:"s3,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "48h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// S3 configures the optional S3-compatible video store. Leaving Endpoint
// empty keeps videos on local disk.
type S3 struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	UseSSL    bool   `yaml:"useSSL,omitempty"`
	// URLExpiry sets how long presigned video links stay valid. Zero
	// means the task retention age, so a link outlives its record.
	URLExpiry Duration `yaml:"urlExpiry,omitempty"`
}

// Defaults returns the built-in settings used when no file or environment
// override applies.
func Defaults() Config {
	return Config{
		ListenAddr:  ":8080",
		VideoDir:    "videos",
		TaskFile:    "tasks.json",
		Model:       "gemini-2.5-flash",
		CacheSize:   128,
		MaxWorkers:  2,
		TaskMaxAge:  Duration(24 * time.Hour),
		SweepEvery:  Duration(time.Hour),
		RenderLimit: Duration(5 * time.Minute),
	}
}

// Load reads mathcast.yml or mathcast.yaml from dir, falling back to
// defaults when no file exists, then applies environment overrides.
// A .env file in dir is loaded first when present.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := Defaults()
	for _, name := range []string{"mathcast.yml", "mathcast.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		break
	}
	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv folds MATHCAST_* environment variables over the file values.
func (c *Config) applyEnv() {
	setString(&c.ListenAddr, "MATHCAST_LISTEN_ADDR")
	setString(&c.VideoDir, "MATHCAST_VIDEO_DIR")
	setString(&c.TaskFile, "MATHCAST_TASK_FILE")
	setString(&c.Model, "MATHCAST_MODEL")
	setInt(&c.MaxWorkers, "MATHCAST_MAX_WORKERS")
	setString(&c.OCRBaseURL, "MATHCAST_OCR_URL")

	setString(&c.S3.Endpoint, "MATHCAST_S3_ENDPOINT")
	setString(&c.S3.Region, "MATHCAST_S3_REGION")
	setString(&c.S3.AccessKey, "MATHCAST_S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "MATHCAST_S3_SECRET_KEY")
	setString(&c.S3.Bucket, "MATHCAST_S3_BUCKET")
	if v := os.Getenv("MATHCAST_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.S3.UseSSL = b
		}
	}
	if v := os.Getenv("MATHCAST_S3_URL_EXPIRY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.S3.URLExpiry = Duration(d)
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
