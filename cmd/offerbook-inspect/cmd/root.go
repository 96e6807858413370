// Package cmd implements offerbook-inspect, an operator tool that decodes and
// encodes the packed configuration and offer words kept by x/offerbook.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

const (
	envPrefix = "OFFERBOOK"

	flagConfig = "config"
	flagOutput = "output"
	flagIndent = "indent"

	outputJSON = "json"
	outputText = "text"
)

// Word kinds understood by decode and encode.
const (
	kindGlobal = "global"
	kindLocal  = "local"
	kindOffer  = "offer"
	kindDetail = "detail"
)

var kinds = []string{kindGlobal, kindLocal, kindOffer, kindDetail}

// NewRootCmd builds the command tree with its own viper instance, so tests
// can run several trees side by side.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "offerbook-inspect",
		Short:         "Decode and encode x/offerbook packed words",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd)
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (toml, yaml or json)")
	rootCmd.PersistentFlags().StringP(flagOutput, "o", outputJSON, "output format (json|text)")
	rootCmd.PersistentFlags().Bool(flagIndent, true, "indent json output")

	rootCmd.AddCommand(
		decodeCmd(v),
		encodeCmd(v),
		fitsCmd(v),
	)
	return rootCmd
}

// initConfig layers flags over OFFERBOOK_* env vars over the config file.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	switch out := v.GetString(flagOutput); out {
	case outputJSON, outputText:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", out)
	}
}

func decodeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [global|local|offer|detail] [hex-word]",
		Short: "Unpack a hex word into its fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, text, err := decodeWord(args[0], args[1])
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), v, info, text)
		},
	}
}

func encodeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [global|local|offer|detail] [json-fields]",
		Short: "Pack json fields into a hex word, rejecting values that do not fit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			word, err := encodeWord(args[0], []byte(args[1]))
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), v, map[string]string{"word": word}, word)
		},
	}
}

func fitsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "fits [bits] [value]",
		Short: "Report whether a decimal value fits a field of the given width",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := cast.ToIntE(args[0])
			if err != nil || bits <= 0 || bits > types.WordSize*8 {
				return fmt.Errorf("invalid bit width %q", args[0])
			}
			value, err := sdkmath.ParseUint(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}

			fits := types.FitsBits(value, bits)
			result := map[string]any{"bits": bits, "value": value.String(), "fits": fits}
			return write(cmd.OutOrStdout(), v, result, cast.ToString(fits))
		},
	}
}

func decodeWord(kind, hexWord string) (any, string, error) {
	switch kind {
	case kindGlobal:
		g, err := types.ParseGlobalPacked(hexWord)
		return g.Unpack(), g.String(), err
	case kindLocal:
		l, err := types.ParseLocalPacked(hexWord)
		return l.Unpack(), l.String(), err
	case kindOffer:
		o, err := types.ParseOfferPacked(hexWord)
		return o.Unpack(), o.String(), err
	case kindDetail:
		d, err := types.ParseOfferDetailPacked(hexWord)
		return d.Unpack(), d.String(), err
	default:
		return nil, "", unknownKind(kind)
	}
}

func encodeWord(kind string, fields []byte) (string, error) {
	switch kind {
	case kindGlobal:
		var info types.GlobalInfo
		if err := json.Unmarshal(fields, &info); err != nil {
			return "", err
		}
		g, err := types.PackGlobal(info)
		return g.Hex(), err
	case kindLocal:
		var info types.LocalInfo
		if err := json.Unmarshal(fields, &info); err != nil {
			return "", err
		}
		l, err := types.PackLocal(info)
		return l.Hex(), err
	case kindOffer:
		var info types.OfferInfo
		if err := json.Unmarshal(fields, &info); err != nil {
			return "", err
		}
		o, err := types.PackOffer(info)
		return o.Hex(), err
	case kindDetail:
		var info types.OfferDetailInfo
		if err := json.Unmarshal(fields, &info); err != nil {
			return "", err
		}
		d, err := types.PackOfferDetail(info)
		return d.Hex(), err
	default:
		return "", unknownKind(kind)
	}
}

func unknownKind(kind string) error {
	return fmt.Errorf("unknown word kind %q, expected one of %s", kind, strings.Join(kinds, ", "))
}

func write(w io.Writer, v *viper.Viper, value any, text string) error {
	if v.GetString(flagOutput) == outputText {
		_, err := fmt.Fprintln(w, text)
		return err
	}

	var (
		bz  []byte
		err error
	)
	if v.GetBool(flagIndent) {
		bz, err = json.MarshalIndent(value, "", "  ")
	} else {
		bz, err = json.Marshal(value)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bz))
	return err
}
