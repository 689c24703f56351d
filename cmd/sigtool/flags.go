package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mahdiidarabi/ecdsa-recoverable/pkg/ecdsasig"
)

var (
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (debug, info, warn, error)",
		Value:   "warn",
		EnvVars: []string{"SIGTOOL_LOG_LEVEL"},
	}

	keyFlag = &cli.StringFlag{
		Name:    "key",
		Usage:   "32-byte private key in hex",
		EnvVars: []string{"SIGTOOL_PRIVATE_KEY"},
	}
	digestFlag = &cli.StringFlag{
		Name:  "digest",
		Usage: "32-byte message digest in hex",
	}
	messageFlag = &cli.StringFlag{
		Name:  "message",
		Usage: "raw message, hashed with Keccak-256 (ignored when --digest is set)",
	}
	sigFlag = &cli.StringFlag{
		Name:     "sig",
		Usage:    "65-byte signature r || s || v in hex",
		Required: true,
	}
	pubkeyFlag = &cli.StringFlag{
		Name:  "pubkey",
		Usage: "64-byte public key x || y in hex (a leading 04 tag is accepted)",
	}
	addressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "20-byte signer address in hex",
	}
	codecFlag = &cli.StringFlag{
		Name:    "codec",
		Usage:   "encoding: " + codecNames(),
		Value:   "fixed",
		EnvVars: []string{"SIGTOOL_CODEC"},
	}

	fileFlag = &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "path to a JSON or CSV file of signature records",
		Required: true,
	}
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Usage:   "record file format (json or csv)",
		Value:   "json",
		EnvVars: []string{"SIGTOOL_FORMAT"},
	}
	workersFlag = &cli.IntFlag{
		Name:    "workers",
		Usage:   "number of parallel workers (0 = auto-detect based on CPU cores)",
		EnvVars: []string{"SIGTOOL_WORKERS"},
	}
	failFastFlag = &cli.BoolFlag{
		Name:  "fail-fast",
		Usage: "stop at the first record that cannot be evaluated",
	}
	allowHighSFlag = &cli.BoolFlag{
		Name:  "allow-high-s",
		Usage: "recover signatures whose s is above n/2",
	}
	strictFlag = &cli.BoolFlag{
		Name:  "strict",
		Usage: "reject signatures with r or s outside [1, n-1] before recovery",
	}
	normalizeVFlag = &cli.BoolFlag{
		Name:  "normalize-v",
		Usage: "map 27/28 recovery bytes to 0/1",
	}
	cacheFlag = &cli.IntFlag{
		Name:    "cache",
		Usage:   "size of the recovered key cache (0 disables it)",
		EnvVars: []string{"SIGTOOL_CACHE_SIZE"},
	}
	metricsFileFlag = &cli.StringFlag{
		Name:    "metrics-file",
		Usage:   "write Prometheus metrics in text format to this file",
		EnvVars: []string{"SIGTOOL_METRICS_FILE"},
	}
)

func codecNames() string {
	codecs := ecdsasig.Codecs()
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}

// messageFromFlags returns --digest, or the Keccak-256 of --message.
func messageFromFlags(c *cli.Context) (ecdsasig.Message, error) {
	switch {
	case c.IsSet(digestFlag.Name):
		return ecdsasig.MessageFromHex(c.String(digestFlag.Name))
	case c.IsSet(messageFlag.Name):
		return ecdsasig.HashMessage([]byte(c.String(messageFlag.Name))), nil
	default:
		return ecdsasig.Message{}, fmt.Errorf("one of --%s or --%s is required", digestFlag.Name, messageFlag.Name)
	}
}

func privKeyFromFlags(c *cli.Context) (ecdsasig.PrivKey, error) {
	s := c.String(keyFlag.Name)
	if s == "" {
		return ecdsasig.PrivKey{}, fmt.Errorf("--%s is required", keyFlag.Name)
	}
	return ecdsasig.PrivKeyFromHex(s)
}
