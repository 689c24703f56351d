package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envFileVar = "SIGTOOL_ENV_FILE"

var logger = zap.NewNop()

func main() {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadEnvFile reads SIGTOOL_* defaults from a .env file. Variables already
// set in the environment win. A missing default file is not an error.
func loadEnvFile() error {
	path, explicit := os.LookupEnv(envFileVar)
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sigtool",
		Usage: "sign, verify and recover secp256k1 recoverable signatures",
		Flags: []cli.Flag{
			logLevelFlag,
		},
		Before: setupLogger,
		After: func(*cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			signCommand,
			verifyCommand,
			recoverCommand,
			addressCommand,
			batchCommand,
			encodeCommand,
			decodeCommand,
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.String(logLevelFlag.Name))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l.Named("sigtool")
	return nil
}
