package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var lookupEnv = os.LookupEnv

// loadDotEnv exports the variables of a .env file into the process
// environment. Variables already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// parseEnv overlays values from environment variables.
//
//	PORT             REST port (the server binds ":"+PORT)
//	JWT_SECRET       token signing secret
//	DATABASE_URL     PostgreSQL DSN
//	GRPC_ADDR        gRPC health bind address
//	TOKEN_VALIDITY   token lifetime, e.g. "720h"; "0" issues tokens without expiry
//	BCRYPT_COST      password hashing cost
//	DECREASE_POLICY  allow-negative | floor-zero
//	DEVICE_KEY       dispenser shared secret
//	LOG_LEVEL        debug | info | warn | error
//	S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(c *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		c.HTTPAddr = ":" + v
	}

	vars := map[string]*string{
		"JWT_SECRET":       &c.SecretKey,
		"DATABASE_URL":     &c.DatabaseDSN,
		"GRPC_ADDR":        &c.GRPCAddr,
		"DECREASE_POLICY":  &c.DecreasePolicy,
		"DEVICE_KEY":       &c.DeviceKey,
		"LOG_LEVEL":        &c.LogLevel,
		"S3_ACCESS_KEY":    &c.S3AccessKey,
		"S3_SECRET_KEY":    &c.S3SecretKey,
		"S3_BUCKET":        &c.S3Bucket,
		"S3_REGION":        &c.S3Region,
		"S3_BASE_ENDPOINT": &c.S3BaseEndpoint,
	}
	for name, dst := range vars {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	if v, ok := lookup("TOKEN_VALIDITY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_VALIDITY: %w", err)
		}
		c.TokenValidity = d
	}

	if v, ok := lookup("BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = n
	}

	return nil
}
