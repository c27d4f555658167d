package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	want := &Config{
		HTTPAddr:       ":9000",
		GRPCAddr:       ":9001",
		DatabaseDSN:    "postgres://db",
		SecretKey:      "s3cr3t",
		TokenValidity:  2 * time.Hour,
		BcryptCost:     10,
		DecreasePolicy: PolicyFloorZero,
		DeviceKey:      "dispenser",
		LogLevel:       "warn",
		S3AccessKey:    "minio",
		S3SecretKey:    "minio123",
		S3Bucket:       "reminders",
		S3Region:       "eu-west-1",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}

	jsonPath := writeFile(t, "cfg.json", `{
		"http_addr": ":9000",
		"grpc_addr": ":9001",
		"database_dsn": "postgres://db",
		"secret_key": "s3cr3t",
		"token_validity": "2h",
		"bcrypt_cost": 10,
		"decrease_policy": "floor-zero",
		"device_key": "dispenser",
		"log_level": "warn",
		"s3_access_key": "minio",
		"s3_secret_key": "minio123",
		"s3_bucket": "reminders",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://127.0.0.1:9000/"
	}`)

	yamlPath := writeFile(t, "cfg.yaml", `
http_addr: ":9000"
grpc_addr: ":9001"
database_dsn: postgres://db
secret_key: s3cr3t
token_validity: 2h
bcrypt_cost: 10
decrease_policy: floor-zero
device_key: dispenser
log_level: warn
s3_access_key: minio
s3_secret_key: minio123
s3_bucket: reminders
s3_region: eu-west-1
s3_base_endpoint: http://127.0.0.1:9000/
`)

	for _, path := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			cfg := &Config{}
			require.NoError(t, parseFile(cfg, []string{"-config", path}))
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func Test_parseFile_PartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, "partial.yml", "secret_key: only-this\n")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseFile(cfg, []string{"-c", path}))

	assert.Equal(t, "only-this", cfg.SecretKey)
	assert.Equal(t, ":4000", cfg.HTTPAddr)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func Test_parseFile_NoFlag(t *testing.T) {
	cfg := &Config{HTTPAddr: ":1"}
	require.NoError(t, parseFile(cfg, []string{"-a", ":2"}))
	assert.Equal(t, ":1", cfg.HTTPAddr)
}

func Test_parseFile_Errors(t *testing.T) {
	bad := writeFile(t, "bad.json", `{ not json`)
	require.Error(t, parseFile(&Config{}, []string{"-c", bad}))

	require.Error(t, parseFile(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))
}
