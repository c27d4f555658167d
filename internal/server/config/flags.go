package config

import (
	"flag"

	"github.com/dmitrijs2005/medreminder/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     REST bind address (e.g. ":4000")
//	-g string     gRPC health bind address
//	-d string     PostgreSQL DSN
//	-s string     token signing secret
//	-t duration   token validity (e.g. "720h")
//	-b int        bcrypt cost
//	-p string     decrease policy
//	-k string     device key
//	-l string     log level
//
// Only these flags are considered; -c/-config is handled by parseFile.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-b", "-p", "-k", "-l"})

	fs := flag.NewFlagSet("medreminder", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "REST address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.TokenValidity, "t", config.TokenValidity, "token validity")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.DecreasePolicy, "p", config.DecreasePolicy, "decrease policy (allow-negative|floor-zero)")
	fs.StringVar(&config.DeviceKey, "k", config.DeviceKey, "dispenser device key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
