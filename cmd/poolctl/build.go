package main

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/signalpool"
)

var buildCmd = &cobra.Command{
	Use:   "build <request-file>",
	Short: "Build an instruction from a YAML or JSON request file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithField("method", "build").WithField("request", args[0])

		req, err := readRequest(args[0])
		if err != nil {
			return err
		}

		env, err := newBuildEnv(config)
		if err != nil {
			return err
		}

		ix, err := env.build(req)
		if err != nil {
			return errors.Wrap(err, "failed to build instruction")
		}

		log.WithField("instruction", signalpool.InstructionType(ix.Data[0]).String()).
			WithField("accounts", len(ix.Accounts)).
			Debug("built instruction")

		view, err := newInstructionView(ix)
		if err != nil {
			return err
		}
		return printValue(cmd, view)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// readRequest loads a request file through its own viper instance so request
// keys never mix with the CLI configuration.
func readRequest(path string) (*viper.Viper, error) {
	req := viper.New()
	req.SetConfigFile(path)
	if err := req.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read request %s", path)
	}
	return req, nil
}

type buildEnv struct {
	program    ed25519.PublicKey
	dexProgram ed25519.PublicKey
	wellKnown  *signalpool.WellKnownAccounts
}

func newBuildEnv(config *Config) (*buildEnv, error) {
	program, err := config.programAddress()
	if err != nil {
		return nil, err
	}
	dexProgram, err := config.dexProgramAddress()
	if err != nil {
		return nil, err
	}
	wellKnown, err := config.wellKnownAccounts()
	if err != nil {
		return nil, err
	}

	return &buildEnv{
		program:    program,
		dexProgram: dexProgram,
		wellKnown:  wellKnown,
	}, nil
}

func (e *buildEnv) build(req *viper.Viper) (solana.Instruction, error) {
	var ix solana.Instruction
	var err error

	operation := strings.ToLower(req.GetString("operation"))
	switch operation {
	case signalpool.InstructionTypeInit.String():
		var r initRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildInit(&r)
	case signalpool.InstructionTypeCreate.String():
		var r createRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildCreate(&r)
	case signalpool.InstructionTypeDeposit.String():
		var r depositRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildDeposit(&r)
	case signalpool.InstructionTypeCreateOrder.String():
		var r createOrderRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildCreateOrder(&r)
	case signalpool.InstructionTypeCancelOrder.String():
		var r cancelOrderRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildCancelOrder(&r)
	case signalpool.InstructionTypeSettleFunds.String():
		var r settleFundsRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildSettleFunds(&r)
	case signalpool.InstructionTypeRedeem.String():
		var r redeemRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildRedeem(&r)
	case signalpool.InstructionTypeCollectFees.String():
		var r collectFeesRequest
		if err := req.Unmarshal(&r); err != nil {
			return ix, errors.Wrap(err, "failed to unmarshal request")
		}
		ix, err = e.buildCollectFees(&r)
	default:
		return ix, errors.Errorf("unsupported operation %q", operation)
	}
	if err != nil {
		return ix, err
	}

	ix.Program = e.program
	return ix, nil
}

func (e *buildEnv) parser() *requestParser {
	return &requestParser{program: e.program}
}

func (e *buildEnv) buildInit(r *initRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	accounts := &signalpool.InitInstructionAccounts{
		Pool:  p.pool(r.Pool, seed),
		Mint:  p.key("mint", r.Mint),
		Payer: p.key("payer", r.Payer),
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewInitInstruction(accounts, &signalpool.InitInstructionArgs{
		PoolSeed:        seed,
		MaxAssetSlots:   r.MaxAssetSlots,
		MarketSlotCount: r.MarketSlotCount,
	})
}

func (e *buildEnv) buildCreate(r *createRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	args := &signalpool.CreateInstructionArgs{
		PoolSeed:            seed,
		FeeCollectionPeriod: r.FeeCollectionPeriod,
		FeeRatio:            r.FeeRatio,
		DepositAmounts:      r.DepositAmounts,
		Markets:             p.keys("markets", r.Markets),
	}
	accounts := &signalpool.CreateInstructionAccounts{
		DexProgram:      e.dexProgram,
		SignalProvider:  p.key("signal_provider", r.SignalProvider),
		Mint:            p.key("mint", r.Mint),
		TargetPoolToken: p.key("target_pool_token", r.TargetPoolToken),
		Pool:            p.pool(r.Pool, seed),
		PoolAssets:      p.keys("pool_assets", r.PoolAssets),
		SourceOwner:     p.key("source_owner", r.SourceOwner),
		SourceAssets:    p.keys("source_assets", r.SourceAssets),
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewCreateInstruction(accounts, args)
}

func (e *buildEnv) buildDeposit(r *depositRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	accounts := &signalpool.DepositInstructionAccounts{
		Mint:                    p.key("mint", r.Mint),
		TargetPoolToken:         p.key("target_pool_token", r.TargetPoolToken),
		SignalProviderPoolToken: p.key("signal_provider_pool_token", r.SignalProviderPoolToken),
		FeeDestination:          p.optionalKey("fee_destination", r.FeeDestination),
		BuyAndBurnDestination:   p.optionalKey("buy_and_burn_destination", r.BuyAndBurnDestination),
		Pool:                    p.pool(r.Pool, seed),
		PoolAssets:              p.keys("pool_assets", r.PoolAssets),
		SourceOwner:             p.key("source_owner", r.SourceOwner),
		SourceAssets:            p.keys("source_assets", r.SourceAssets),
		WellKnown:               e.wellKnown,
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewDepositInstruction(accounts, &signalpool.DepositInstructionArgs{
		PoolSeed:        seed,
		PoolTokenAmount: r.PoolTokenAmount,
	})
}

func (e *buildEnv) buildCreateOrder(r *createOrderRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	args := &signalpool.CreateOrderInstructionArgs{
		PoolSeed:          seed,
		Side:              p.side(r.Side),
		LimitPrice:        r.LimitPrice,
		TradeRatio:        r.TradeRatio,
		OrderType:         p.orderType(r.OrderType),
		ClientID:          r.ClientID,
		SelfTradeBehavior: p.selfTradeBehavior(r.SelfTradeBehavior),
		SourceSlotIndex:   r.SourceSlotIndex,
		TargetSlotIndex:   r.TargetSlotIndex,
		MarketIndex:       r.MarketIndex,
		CoinLotSize:       r.CoinLotSize,
		PriceLotSize:      r.PriceLotSize,
		TargetAsset:       p.key("target_asset", r.TargetAsset),
		VenueRequestLimit: r.VenueRequestLimit,
	}
	accounts := &signalpool.CreateOrderInstructionAccounts{
		SignalProvider:  p.key("signal_provider", r.SignalProvider),
		Market:          p.key("market", r.Market),
		PayerPoolAsset:  p.key("payer_pool_asset", r.PayerPoolAsset),
		OpenOrders:      p.key("open_orders", r.OpenOrders),
		EventQueue:      p.key("event_queue", r.EventQueue),
		RequestQueue:    p.key("request_queue", r.RequestQueue),
		Bids:            p.key("bids", r.Bids),
		Asks:            p.key("asks", r.Asks),
		Pool:            p.pool(r.Pool, seed),
		CoinVault:       p.key("coin_vault", r.CoinVault),
		PriceVault:      p.key("price_vault", r.PriceVault),
		DexProgram:      e.dexProgram,
		DiscountAccount: p.optionalKey("discount_account", r.DiscountAccount),
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewCreateOrderInstruction(accounts, args)
}

func (e *buildEnv) buildCancelOrder(r *cancelOrderRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	args := &signalpool.CancelOrderInstructionArgs{
		PoolSeed: seed,
		Side:     p.side(r.Side),
		OrderID:  p.orderID(r.OrderID),
	}
	accounts := &signalpool.CancelOrderInstructionAccounts{
		SignalProvider: p.key("signal_provider", r.SignalProvider),
		Market:         p.key("market", r.Market),
		OpenOrders:     p.key("open_orders", r.OpenOrders),
		Bids:           p.key("bids", r.Bids),
		Asks:           p.key("asks", r.Asks),
		EventQueue:     p.key("event_queue", r.EventQueue),
		Pool:           p.pool(r.Pool, seed),
		DexProgram:     e.dexProgram,
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewCancelOrderInstruction(accounts, args)
}

func (e *buildEnv) buildSettleFunds(r *settleFundsRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	accounts := &signalpool.SettleFundsInstructionAccounts{
		Market:              p.key("market", r.Market),
		OpenOrders:          p.key("open_orders", r.OpenOrders),
		Pool:                p.pool(r.Pool, seed),
		PoolTokenMint:       p.key("pool_token_mint", r.PoolTokenMint),
		CoinVault:           p.key("coin_vault", r.CoinVault),
		PriceVault:          p.key("price_vault", r.PriceVault),
		PoolCoinWallet:      p.key("pool_coin_wallet", r.PoolCoinWallet),
		PoolPriceWallet:     p.key("pool_price_wallet", r.PoolPriceWallet),
		VaultSigner:         p.key("vault_signer", r.VaultSigner),
		DexProgram:          e.dexProgram,
		ReferrerPriceWallet: p.optionalKey("referrer_price_wallet", r.ReferrerPriceWallet),
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewSettleFundsInstruction(accounts, &signalpool.SettleFundsInstructionArgs{
		PoolSeed:       seed,
		PriceSlotIndex: r.PriceSlotIndex,
		CoinSlotIndex:  r.CoinSlotIndex,
	})
}

func (e *buildEnv) buildRedeem(r *redeemRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	accounts := &signalpool.RedeemInstructionAccounts{
		Mint:                 p.key("mint", r.Mint),
		SourcePoolTokenOwner: p.key("source_pool_token_owner", r.SourcePoolTokenOwner),
		SourcePoolToken:      p.key("source_pool_token", r.SourcePoolToken),
		Pool:                 p.pool(r.Pool, seed),
		PoolAssets:           p.keys("pool_assets", r.PoolAssets),
		TargetAssets:         p.keys("target_assets", r.TargetAssets),
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewRedeemInstruction(accounts, &signalpool.RedeemInstructionArgs{
		PoolSeed:        seed,
		PoolTokenAmount: r.PoolTokenAmount,
	})
}

func (e *buildEnv) buildCollectFees(r *collectFeesRequest) (solana.Instruction, error) {
	p := e.parser()
	seed := p.seed(r.PoolSeed)
	accounts := &signalpool.CollectFeesInstructionAccounts{
		Pool:                    p.pool(r.Pool, seed),
		Mint:                    p.key("mint", r.Mint),
		SignalProviderPoolToken: p.key("signal_provider_pool_token", r.SignalProviderPoolToken),
		FeeDestination:          p.optionalKey("fee_destination", r.FeeDestination),
		BuyAndBurnDestination:   p.optionalKey("buy_and_burn_destination", r.BuyAndBurnDestination),
		WellKnown:               e.wellKnown,
	}
	if p.err != nil {
		return solana.Instruction{}, p.err
	}

	return signalpool.NewCollectFeesInstruction(accounts, &signalpool.CollectFeesInstructionArgs{
		PoolSeed: seed,
	})
}

type accountView struct {
	Role     string `json:"role"`
	Address  string `json:"address"`
	Writable bool   `json:"writable"`
	Signer   bool   `json:"signer"`
}

type instructionView struct {
	Program  string        `json:"program"`
	Type     string        `json:"type"`
	Data     string        `json:"data"`
	Accounts []accountView `json:"accounts"`
}

func newInstructionView(ix solana.Instruction) (*instructionView, error) {
	if len(ix.Data) == 0 {
		return nil, errors.New("instruction has no data")
	}

	instructionType := signalpool.InstructionType(ix.Data[0])
	schedule, err := signalpool.Schedule(instructionType)
	if err != nil {
		return nil, err
	}
	roles, err := schedule.RolesFor(len(ix.Accounts))
	if err != nil {
		return nil, err
	}

	view := &instructionView{
		Program: base58.Encode(ix.Program),
		Type:    instructionType.String(),
		Data:    base58.Encode(ix.Data),
	}
	for i, account := range ix.Accounts {
		view.Accounts = append(view.Accounts, accountView{
			Role:     roles[i],
			Address:  base58.Encode(account.PublicKey),
			Writable: account.IsWritable,
			Signer:   account.IsSigner,
		})
	}
	return view, nil
}

func (v *instructionView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program: %s\n", v.Program)
	fmt.Fprintf(&sb, "type: %s\n", v.Type)
	fmt.Fprintf(&sb, "data: %s\n", v.Data)
	sb.WriteString("accounts:")
	for i, account := range v.Accounts {
		var flags []string
		if account.Writable {
			flags = append(flags, "writable")
		}
		if account.Signer {
			flags = append(flags, "signer")
		}
		fmt.Fprintf(&sb, "\n  %2d. %-28s %s [%s]", i, account.Role, account.Address, strings.Join(flags, ", "))
	}
	return sb.String()
}
