package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/signal-pool/pkg/solana/signalpool"
)

var poolAddressCmd = &cobra.Command{
	Use:   "pool-address <pool-seed>",
	Short: "Print the pool account for a pool seed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := parsePoolSeed(args[0])
		if err != nil {
			return err
		}

		program, err := config.programAddress()
		if err != nil {
			return err
		}

		address, err := signalpool.GetPoolAddress(program, seed)
		if err != nil {
			return errors.Wrap(err, "seed does not produce a valid pool address")
		}

		return printValue(cmd, poolResponse{
			PoolSeed: seed.String(),
			Address:  base58.Encode(address),
		})
	},
}

var poolSeedCmd = &cobra.Command{
	Use:   "pool-seed [prefix-hex|random]",
	Short: "Find a pool seed for a 31 byte hex prefix, or a random one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefix [signalpool.PoolSeedSize - 1]byte
		if len(args) > 0 && !strings.EqualFold(args[0], "random") {
			decoded, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid prefix")
			}
			if len(decoded) != len(prefix) {
				return errors.Errorf("invalid prefix length: %d (expected %d)", len(decoded), len(prefix))
			}
			copy(prefix[:], decoded)
		} else if _, err := rand.Read(prefix[:]); err != nil {
			return errors.Wrap(err, "failed to generate prefix")
		}

		program, err := config.programAddress()
		if err != nil {
			return err
		}

		seed, address, err := signalpool.FindPoolSeed(program, prefix)
		if err != nil {
			return err
		}

		logger.WithField("method", "pool-seed").WithField("bump", seed[signalpool.PoolSeedSize-1]).Debug("found pool seed")

		return printValue(cmd, poolResponse{
			PoolSeed: seed.String(),
			Address:  base58.Encode(address),
		})
	},
}

type poolResponse struct {
	PoolSeed string `json:"pool_seed"`
	Address  string `json:"address"`
}

func (r poolResponse) String() string {
	return fmt.Sprintf("pool_seed: %s\naddress: %s", r.PoolSeed, r.Address)
}

func init() {
	rootCmd.AddCommand(poolAddressCmd)
	rootCmd.AddCommand(poolSeedCmd)
}
