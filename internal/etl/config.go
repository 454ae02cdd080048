package etl

import (
	"fmt"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/extract"
	"gdpetl/internal/load"
	"gdpetl/lib/configutil"
)

// ConfigFile is read from the working directory, along with its
// gdp-etl.local.json5 override. Both are optional.
const ConfigFile = "gdp-etl.json5"

const (
	DefaultSourceURL      = "https://web.archive.org/web/20230902185326/https://en.wikipedia.org/wiki/List_of_countries_by_GDP_%28nominal%29"
	DefaultJSONPath       = "./Countries_by_GDP.json"
	DefaultDatabaseFile   = "./World_Economies.db"
	DefaultTableName      = "Countries_by_GDP"
	DefaultLogPath        = "./log_file.txt"
	DefaultQueryThreshold = 100
)

type Config struct {
	SourceURL   string `json:"source_url"`
	TableMarker string `json:"table_marker"`

	JSONPath  string              `json:"json_path"`
	Database  load.DatabaseConfig `json:"database"`
	TableName string              `json:"table_name"`

	LogPath string `json:"log_path"`
	// QueryThreshold is the GDP in billions above which rows are reported.
	// A zero in a config file is treated as unset.
	QueryThreshold float64 `json:"query_threshold"`

	// HttpDumpDir, when set together with Verbose, receives a dump of every
	// HTTP exchange.
	HttpDumpDir string `json:"http_dump_dir"`
	Verbose     bool   `json:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		SourceURL:   DefaultSourceURL,
		TableMarker: extract.DefaultMarker,
		JSONPath:    DefaultJSONPath,
		Database: load.DatabaseConfig{
			File: DefaultDatabaseFile,
		},
		TableName:      DefaultTableName,
		LogPath:        DefaultLogPath,
		QueryThreshold: DefaultQueryThreshold,
	}
}

func (c Config) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("source_url is empty")
	}
	if c.TableMarker == "" {
		return fmt.Errorf("table_marker is empty")
	}
	if c.JSONPath == "" {
		return fmt.Errorf("json_path is empty")
	}
	if c.LogPath == "" {
		return fmt.Errorf("log_path is empty")
	}
	if c.Database.File == "" && c.Database.Url == "" {
		return fmt.Errorf("database needs either a file or a url")
	}
	return load.ValidateTableName(c.TableName)
}

// LoadConfig reads name (and its local override) on top of DefaultConfig.
func LoadConfig(name string) (Config, error) {
	config, err := configutil.ReadConfigWithDefaults(name, DefaultConfig())
	if err != nil {
		return Config{}, etlerr.New(etlerr.StageConfig, etlerr.KindConfig, err)
	}
	err = config.Validate()
	if err != nil {
		return Config{}, etlerr.New(etlerr.StageConfig, etlerr.KindConfig, err)
	}
	return config, nil
}
