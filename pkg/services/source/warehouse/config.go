package warehouse

import (
	"fmt"

	"github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"
)

type DatabricksConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Token    string `mapstructure:"token" validate:"required"`
	HTTPPath string `mapstructure:"http_path" validate:"required"`
	Catalog  string `mapstructure:"catalog"`
	Schema   string `mapstructure:"schema"`
	Query    string `mapstructure:"query"`
}

func readProfile(profilePath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return v, nil
}

// LoadSnowflakeConfig loads connection settings and the optional extraction
// query from the specified profile path
func LoadSnowflakeConfig(profilePath string) (*gosnowflake.Config, string, error) {
	v, err := readProfile(profilePath)
	if err != nil {
		return nil, "", err
	}

	var config gosnowflake.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, "", fmt.Errorf("failed to parse snowflake config: %w", err)
	}
	return &config, v.GetString("query"), nil
}

func LoadDatabricksConfig(profilePath string) (*DatabricksConfig, error) {
	v, err := readProfile(profilePath)
	if err != nil {
		return nil, err
	}

	var cfg DatabricksConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse databricks config: %w", err)
	}
	if cfg.Host == "" || cfg.Token == "" || cfg.HTTPPath == "" {
		return nil, fmt.Errorf("databricks config requires host, token and http_path")
	}
	return &cfg, nil
}
