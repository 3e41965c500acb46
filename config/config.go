package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
	// JwtExpireHours bounds token lifetime; tokens carry no secrets.
	JwtExpireHours int `yaml:"jwt_expire_hours" json:"jwt_expire_hours"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// OrdersConfig holds order-lifecycle policy switches.
type OrdersConfig struct {
	// StrictStatus enables the guarded status machine:
	// PENDING -> COMPLETED | CANCELED, CANCELED terminal.
	// When false any status may be set on update.
	StrictStatus bool `yaml:"strict_status" json:"strict_status"`
	// DefaultStatus is assigned when a checkout supplies no status.
	DefaultStatus string `yaml:"default_status" json:"default_status"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
	Orders   OrdersConfig `yaml:"orders" json:"orders"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "salesdesk",
		Location: "America/Mexico_City",
		Workdir:  "/var/salesdesk",
		Debug:    true,
	},
	Web: WebConfig{
		Host:           "0.0.0.0",
		Port:           1816,
		JwtSecret:      "9b6de5cc-salesdesk-0cc9f95b",
		JwtExpireHours: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "salesdesk",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/salesdesk/salesdesk.log",
	},
	Orders: OrdersConfig{
		StrictStatus:  false,
		DefaultStatus: "PENDING",
	},
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0755)
	_ = os.MkdirAll(c.GetLogDir(), 0755)
	_ = os.MkdirAll(c.GetDataDir(), 0755)
}

func setEnvValue(name string, f func(v string)) {
	if value := os.Getenv(name); value != "" {
		f(value)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	var p int64
	if _, err := fmt.Sscanf(value, "%d", &p); err == nil {
		f(p)
	}
}

// LoadConfig reads configuration from the given YAML file; missing file
// falls back to defaults. Environment variables override file values.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "WARN: parse %s: %v, using defaults\n", cfile, err)
				*cfg = *DefaultAppConfig
			}
		}
	}

	setEnvValue("SALESDESK_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("SALESDESK_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = v == "true" })
	setEnvValue("SALESDESK_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("SALESDESK_WEB_SECRET", func(v string) { cfg.Web.JwtSecret = v })
	setEnvInt64Value("SALESDESK_WEB_PORT", func(v int64) { cfg.Web.Port = int(v) })
	setEnvValue("SALESDESK_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvInt64Value("SALESDESK_DB_PORT", func(v int64) { cfg.Database.Port = int(v) })
	setEnvValue("SALESDESK_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("SALESDESK_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("SALESDESK_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	cfg.initDirs()
	return cfg
}
