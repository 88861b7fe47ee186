package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/ogurasousui/hr-sync/internal/core/role"
	"gopkg.in/yaml.v3"
)

const (
	defaultBcryptCost        = 12
	defaultSQLiteBusyTimeout = 5 * time.Second
	defaultLogLevel          = "info"
	defaultIdentityDatabase  = "identity.db"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server           ServerConfig   `yaml:"server"`
	HRDatabase       DatabaseConfig `yaml:"hr_database"`
	PayrollDatabase  DatabaseConfig `yaml:"payroll_database"`
	IdentityDatabase SQLiteConfig   `yaml:"identity_database"`
	Roles            RolesConfig    `yaml:"roles"`
	Log              LogConfig      `yaml:"log"`
	Security         SecurityConfig `yaml:"security"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// SQLiteConfig は ID ストア (SQLite) に関する設定です。
type SQLiteConfig struct {
	Path           string        `yaml:"path"`
	BusyTimeout    time.Duration `yaml:"-"`
	BusyTimeoutRaw string        `yaml:"busy_timeout"`
}

// RolesConfig はロール判定に使う部署・役職 ID の設定です。
type RolesConfig struct {
	AdminPositionIDs     []int64 `yaml:"admin_position_ids"`
	HRDepartmentIDs      []int64 `yaml:"hr_department_ids"`
	PayrollDepartmentIDs []int64 `yaml:"payroll_department_ids"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
	File   string `yaml:"file"`
}

// SecurityConfig は認証情報の保存に関する設定です。
type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
// カレントディレクトリに .env があれば先に読み込み、YAML 内の ${VAR} を環境変数で展開します。
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.HRDatabase.validateAndNormalize("hr_database"); err != nil {
		return err
	}
	if err := c.PayrollDatabase.validateAndNormalize("payroll_database"); err != nil {
		return err
	}
	if err := c.IdentityDatabase.validateAndNormalize(); err != nil {
		return err
	}

	c.Roles.normalize()

	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}

	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = defaultBcryptCost
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("config: security.bcrypt_cost must be between 4 and 31")
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize(section string) error {
	if d.Host == "" {
		return fmt.Errorf("config: %s.host must be set", section)
	}
	if d.Port == 0 {
		return fmt.Errorf("config: %s.port must be set", section)
	}
	if d.User == "" {
		return fmt.Errorf("config: %s.user must be set", section)
	}
	if d.Password == "" {
		return fmt.Errorf("config: %s.password must be set", section)
	}
	if d.Name == "" {
		return fmt.Errorf("config: %s.name must be set", section)
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: %s.conn_max_lifetime: %w", section, err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: %s.conn_max_idle_time: %w", section, err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (s *SQLiteConfig) validateAndNormalize() error {
	if s.Path == "" {
		s.Path = defaultIdentityDatabase
	}

	timeout, err := parseDurationAllowEmpty(s.BusyTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: identity_database.busy_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultSQLiteBusyTimeout
	}
	s.BusyTimeout = timeout

	return nil
}

func (r *RolesConfig) normalize() {
	defaults := role.DefaultRules()
	if len(r.AdminPositionIDs) == 0 {
		r.AdminPositionIDs = defaults.AdminPositionIDs
	}
	if len(r.HRDepartmentIDs) == 0 {
		r.HRDepartmentIDs = defaults.HRDepartmentIDs
	}
	if len(r.PayrollDepartmentIDs) == 0 {
		r.PayrollDepartmentIDs = defaults.PayrollDepartmentIDs
	}
}

// Rules はロール判定用の対応表を返します。
func (r RolesConfig) Rules() role.Rules {
	return role.Rules{
		AdminPositionIDs:     r.AdminPositionIDs,
		HRDepartmentIDs:      r.HRDepartmentIDs,
		PayrollDepartmentIDs: r.PayrollDepartmentIDs,
	}
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// DSN は go-sqlite3 用の接続文字列を返します。
// パスは URI として解釈されるため ? や # はエスケープします。
func (s SQLiteConfig) DSN() string {
	path := (&url.URL{Path: s.Path}).EscapedPath()
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d", path, s.BusyTimeout.Milliseconds())
}

// MigrateURL は golang-migrate の sqlite3 ドライバ用 URL を返します。
func (s SQLiteConfig) MigrateURL() string {
	return "sqlite3://" + s.Path
}
