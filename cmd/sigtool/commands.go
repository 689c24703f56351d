package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/ecdsa-recoverable/pkg/ecdsasig"
)

var signCommand = &cli.Command{
	Name:  "sign",
	Usage: "sign a digest with a private key",
	Flags: []cli.Flag{keyFlag, digestFlag, messageFlag},
	Action: func(c *cli.Context) error {
		priv, err := privKeyFromFlags(c)
		if err != nil {
			return err
		}
		msg, err := messageFromFlags(c)
		if err != nil {
			return err
		}

		sig, err := ecdsasig.Sign(priv, msg)
		if err != nil {
			return err
		}
		logger.Debug("signed digest", zap.Stringer("digest", msg), zap.Stringer("signature", sig))

		fmt.Fprintln(c.App.Writer, sig.String())
		return nil
	},
}

var verifyCommand = &cli.Command{
	Name:  "verify",
	Usage: "verify a signature against a public key or an address",
	Flags: []cli.Flag{sigFlag, digestFlag, messageFlag, pubkeyFlag, addressFlag},
	Action: func(c *cli.Context) error {
		sig, err := ecdsasig.ParseHex(c.String(sigFlag.Name))
		if err != nil {
			return err
		}
		msg, err := messageFromFlags(c)
		if err != nil {
			return err
		}

		var ok bool
		switch {
		case c.IsSet(pubkeyFlag.Name):
			pub, err := ecdsasig.PubKeyFromHex(c.String(pubkeyFlag.Name))
			if err != nil {
				return err
			}
			ok, err = ecdsasig.VerifyPublic(pub, sig, msg)
			if err != nil {
				return err
			}
		case c.IsSet(addressFlag.Name):
			addr, err := parseAddress(c.String(addressFlag.Name))
			if err != nil {
				return err
			}
			ok, err = ecdsasig.VerifyAddress(addr, sig, msg)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("one of --%s or --%s is required", pubkeyFlag.Name, addressFlag.Name)
		}

		logger.Debug("verified signature", zap.Stringer("signature", sig), zap.Bool("valid", ok))
		if ok {
			fmt.Fprintln(c.App.Writer, "valid")
		} else {
			fmt.Fprintln(c.App.Writer, "invalid")
		}
		return nil
	},
}

var recoverCommand = &cli.Command{
	Name:  "recover",
	Usage: "recover the public key and address that produced a signature",
	Flags: []cli.Flag{sigFlag, digestFlag, messageFlag},
	Action: func(c *cli.Context) error {
		sig, err := ecdsasig.ParseHex(c.String(sigFlag.Name))
		if err != nil {
			return err
		}
		msg, err := messageFromFlags(c)
		if err != nil {
			return err
		}

		pub, err := ecdsasig.Recover(sig, msg)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.Writer, "public key: %s\n", pub)
		fmt.Fprintf(c.App.Writer, "address:    %s\n", pub.Address().Hex())
		return nil
	},
}

var addressCommand = &cli.Command{
	Name:  "address",
	Usage: "derive the address of a private or public key",
	Flags: []cli.Flag{keyFlag, pubkeyFlag},
	Action: func(c *cli.Context) error {
		var pub ecdsasig.PubKey
		if c.IsSet(pubkeyFlag.Name) {
			p, err := ecdsasig.PubKeyFromHex(c.String(pubkeyFlag.Name))
			if err != nil {
				return err
			}
			pub = p
		} else {
			priv, err := privKeyFromFlags(c)
			if err != nil {
				return err
			}
			pub, err = ecdsasig.PublicKeyOf(priv)
			if err != nil {
				return err
			}
		}

		fmt.Fprintln(c.App.Writer, pub.Address().Hex())
		return nil
	},
}

var batchCommand = &cli.Command{
	Name:  "batch",
	Usage: "verify a file of signature records",
	Flags: []cli.Flag{
		fileFlag, formatFlag, workersFlag, failFastFlag, allowHighSFlag,
		strictFlag, normalizeVFlag, cacheFlag, metricsFileFlag,
	},
	Action: func(c *cli.Context) error {
		fields := ecdsasig.DefaultFields()
		fields.NormalizeV = c.Bool(normalizeVFlag.Name)

		var parser ecdsasig.SignatureParser
		switch format := strings.ToLower(c.String(formatFlag.Name)); format {
		case "json":
			parser = &ecdsasig.JSONParser{Fields: fields}
		case "csv":
			parser = &ecdsasig.CSVParser{Fields: fields}
		default:
			return fmt.Errorf("unknown format %q (use json or csv)", format)
		}

		config := ecdsasig.DefaultBatchConfig()
		config.NumWorkers = c.Int(workersFlag.Name)
		config.FailFast = c.Bool(failFastFlag.Name)
		config.RequireLowS = !c.Bool(allowHighSFlag.Name)
		config.RequireValid = c.Bool(strictFlag.Name)

		client := ecdsasig.NewClient().
			WithParser(parser).
			WithBatchConfig(config).
			WithLogger(logger).
			WithRecoverCache(c.Int(cacheFlag.Name))

		metricsFile := c.String(metricsFileFlag.Name)
		reg := prometheus.NewRegistry()
		if metricsFile != "" {
			metrics, err := ecdsasig.NewMetrics("sigtool", reg)
			if err != nil {
				return err
			}
			client = client.WithMetrics(metrics)
		}

		report, verifyErr := client.VerifyFile(c.Context, c.String(fileFlag.Name))
		if report == nil {
			return verifyErr
		}

		for _, res := range report.Results {
			line := fmt.Sprintf("%d\t%s", res.Index, res.Status)
			if res.Status != ecdsasig.StatusFailed && res.Status != ecdsasig.StatusSkipped {
				line += "\t" + res.Address.Hex()
			}
			if res.Err != nil {
				line += "\t" + res.Err.Error()
			}
			fmt.Fprintln(c.App.Writer, line)
		}
		fmt.Fprintf(c.App.Writer, "valid=%d mismatched=%d recovered=%d failed=%d skipped=%d\n",
			report.Valid, report.Mismatched, report.Recovered, report.Failed, report.Skipped)

		if metricsFile != "" {
			if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
		}

		if verifyErr != nil {
			return verifyErr
		}
		if !report.OK() {
			return fmt.Errorf("%d of %d records did not verify", len(report.Results)-report.Valid-report.Recovered, len(report.Results))
		}
		return nil
	},
}

var encodeCommand = &cli.Command{
	Name:  "encode",
	Usage: "encode a signature with one of the supported codecs",
	Flags: []cli.Flag{sigFlag, codecFlag},
	Action: func(c *cli.Context) error {
		sig, err := ecdsasig.ParseHex(c.String(sigFlag.Name))
		if err != nil {
			return err
		}
		codec, err := ecdsasig.CodecByName(c.String(codecFlag.Name))
		if err != nil {
			return err
		}

		data, err := codec.Marshal(sig)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, formatEncoded(codec, data))
		return nil
	},
}

var decodeCommand = &cli.Command{
	Name:      "decode",
	Usage:     "decode a signature encoded with one of the supported codecs",
	ArgsUsage: "<data>",
	Flags:     []cli.Flag{codecFlag},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected exactly one argument, got %d", c.NArg())
		}
		codec, err := ecdsasig.CodecByName(c.String(codecFlag.Name))
		if err != nil {
			return err
		}

		data, err := parseEncoded(codec, c.Args().First())
		if err != nil {
			return err
		}
		sig, err := codec.Unmarshal(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, sig.String())
		return nil
	},
}

// JSON output is printed as text, binary formats as hex.
func formatEncoded(codec ecdsasig.Codec, data []byte) string {
	if codec.Name() == (ecdsasig.JSONSequenceCodec{}).Name() {
		return string(data)
	}
	return hex.EncodeToString(data)
}

func parseEncoded(codec ecdsasig.Codec, s string) ([]byte, error) {
	if codec.Name() == (ecdsasig.JSONSequenceCodec{}).Name() {
		return []byte(s), nil
	}
	return hexutil.Decode("0x" + strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
}

func parseAddress(s string) (ecdsasig.Address, error) {
	if !common.IsHexAddress(s) {
		return ecdsasig.Address{}, fmt.Errorf("invalid address: %s", s)
	}
	return common.HexToAddress(s), nil
}
