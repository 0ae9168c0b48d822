package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/signal-pool/pkg/solana/signalpool"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <payload>",
	Short: "Decode a signal pool instruction payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encoding, err := cmd.Flags().GetString("encoding")
		if err != nil {
			return err
		}

		data, err := decodePayload(args[0], encoding)
		if err != nil {
			return err
		}

		op, err := signalpool.Decode(data)
		if err != nil {
			return errors.Wrap(err, "failed to decode payload")
		}

		logger.WithField("instruction", op.Type().String()).Debug("decoded payload")

		return printValue(cmd, newOperationView(op))
	},
}

func init() {
	decodeCmd.Flags().StringP("encoding", "e", "base58", "Payload encoding (base58, base64 or hex)")
	rootCmd.AddCommand(decodeCmd)
}

func decodePayload(value, encoding string) ([]byte, error) {
	var data []byte
	var err error

	switch strings.ToLower(encoding) {
	case "base58":
		data, err = base58.Decode(value)
	case "base64":
		data, err = base64.StdEncoding.DecodeString(value)
	case "hex":
		data, err = hex.DecodeString(strings.TrimPrefix(value, "0x"))
	default:
		return nil, errors.Errorf("unsupported encoding %q", encoding)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s payload", encoding)
	}
	return data, nil
}

type field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type operationView struct {
	Type     string  `json:"type"`
	PoolSeed string  `json:"pool_seed"`
	Fields   []field `json:"fields"`
}

func newOperationView(op signalpool.Operation) *operationView {
	view := &operationView{
		Type:     op.Type().String(),
		PoolSeed: op.Seed().String(),
	}

	switch v := op.(type) {
	case *signalpool.InitInstructionArgs:
		view.add("max_asset_slots", v.MaxAssetSlots)
		view.add("market_slot_count", v.MarketSlotCount)
	case *signalpool.CreateInstructionArgs:
		view.add("fee_collection_period", v.FeeCollectionPeriod)
		view.add("fee_ratio", v.FeeRatio)
		for i, market := range v.Markets {
			view.add(fmt.Sprintf("markets[%d]", i), base58.Encode(market))
		}
		for i, amount := range v.DepositAmounts {
			view.add(fmt.Sprintf("deposit_amounts[%d]", i), amount)
		}
	case *signalpool.DepositInstructionArgs:
		view.add("pool_token_amount", v.PoolTokenAmount)
	case *signalpool.CreateOrderInstructionArgs:
		view.add("side", v.Side)
		view.add("limit_price", v.LimitPrice)
		view.add("trade_ratio", v.TradeRatio)
		view.add("order_type", v.OrderType)
		view.add("client_id", v.ClientID)
		view.add("self_trade_behavior", v.SelfTradeBehavior)
		view.add("source_slot_index", v.SourceSlotIndex)
		view.add("target_slot_index", v.TargetSlotIndex)
		view.add("market_index", v.MarketIndex)
		view.add("coin_lot_size", v.CoinLotSize)
		view.add("price_lot_size", v.PriceLotSize)
		view.add("target_asset", base58.Encode(v.TargetAsset))
		view.add("venue_request_limit", v.VenueRequestLimit)
	case *signalpool.CancelOrderInstructionArgs:
		view.add("side", v.Side)
		view.add("order_id", v.OrderID)
	case *signalpool.SettleFundsInstructionArgs:
		view.add("price_slot_index", v.PriceSlotIndex)
		view.add("coin_slot_index", v.CoinSlotIndex)
	case *signalpool.RedeemInstructionArgs:
		view.add("pool_token_amount", v.PoolTokenAmount)
	}

	return view
}

func (v *operationView) add(name string, value interface{}) {
	v.Fields = append(v.Fields, field{Name: name, Value: fmt.Sprint(value)})
}

func (v *operationView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "type: %s\n", v.Type)
	fmt.Fprintf(&sb, "pool_seed: %s", v.PoolSeed)
	for _, f := range v.Fields {
		fmt.Fprintf(&sb, "\n%s: %s", f.Name, f.Value)
	}
	return sb.String()
}
