package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/medreminder/internal/flagx"
	"github.com/dmitrijs2005/medreminder/internal/timex"
	"gopkg.in/yaml.v2"
)

// FileConfig is the on-disk shape of the configuration. Pointer fields let a
// file override only what it mentions.
type FileConfig struct {
	HTTPAddr       *string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr       *string         `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN    *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey      *string         `json:"secret_key" yaml:"secret_key"`
	TokenValidity  *timex.Duration `json:"token_validity" yaml:"token_validity"`
	BcryptCost     *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	DecreasePolicy *string         `json:"decrease_policy" yaml:"decrease_policy"`
	DeviceKey      *string         `json:"device_key" yaml:"device_key"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	S3AccessKey    *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket       *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile overlays values from the file given by -c/-config. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. No flag, no-op.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return err
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCAddr, fc.GRPCAddr)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	if fc.TokenValidity != nil {
		c.TokenValidity = fc.TokenValidity.Duration
	}
	if fc.BcryptCost != nil {
		c.BcryptCost = *fc.BcryptCost
	}
	setString(&c.DecreasePolicy, fc.DecreasePolicy)
	setString(&c.DeviceKey, fc.DeviceKey)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.S3AccessKey, fc.S3AccessKey)
	setString(&c.S3SecretKey, fc.S3SecretKey)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
