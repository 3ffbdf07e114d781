package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"relaychain/config"
	"relaychain/core"
	"relaychain/crypto"
	"relaychain/native/common"
	"relaychain/native/fees"
	"relaychain/observability"
	"relaychain/observability/logging"
	"relaychain/rpc"
	"relaychain/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var sink io.Writer
	if path := strings.TrimSpace(cfg.Log.Path); path != "" {
		sink = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		}
	}
	env := strings.TrimSpace(os.Getenv("RELAY_ENV"))
	logger := logging.Setup("relayd", env, sink)

	nodeCfg, err := buildNodeConfig(cfg)
	if err != nil {
		logger.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.String("dir", cfg.DataDir), slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	node, err := core.NewNode(db, nodeCfg)
	if err != nil {
		logger.Error("Failed to start node", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("relay node started",
		slog.String("network", cfg.NetworkName),
		slog.String("custody", string(node.Custody())),
		slog.String("rpc", cfg.RPCAddress))

	server := rpc.NewServer(node)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server terminated", slog.Any("error", err))
		os.Exit(1)
	}
}

func buildNodeConfig(cfg *config.Config) (core.NodeConfig, error) {
	out := core.NodeConfig{
		Custody:   core.CustodyModel(strings.ToLower(strings.TrimSpace(cfg.Custody))),
		EventTail: cfg.EventTail,
		Emitter:   observability.Metrics().Emitter(),
		Fees: fees.Config{
			BaseSendFee:   cfg.Fees.BaseSendFee,
			DelegationFee: cfg.Fees.DelegationFee,
		},
		Quota: common.Quota{
			MaxSendsPerEpoch:     cfg.Quota.MaxSendsPerEpoch,
			MaxPerRecipientEpoch: cfg.Quota.MaxPerRecipientEpoch,
			EpochSeconds:         cfg.Quota.EpochSeconds,
		},
	}

	pool, err := decodeAddr(cfg.PoolAddress)
	if err != nil {
		return out, fmt.Errorf("PoolAddress: %w", err)
	}
	out.Pool = pool

	owner, err := decodeAddr(cfg.OwnerAddress)
	if err != nil {
		return out, fmt.Errorf("OwnerAddress: %w", err)
	}
	out.Owner = owner

	if seed := strings.TrimSpace(cfg.AuthoritySeed); seed != "" {
		out.AuthoritySeed = []byte(seed)
	}

	for i, alloc := range cfg.Alloc {
		addr, err := decodeAddr(alloc.Address)
		if err != nil {
			return out, fmt.Errorf("alloc[%d]: %w", i, err)
		}
		balance := new(big.Int)
		if trimmed := strings.TrimSpace(alloc.Balance); trimmed != "" {
			if _, ok := balance.SetString(trimmed, 10); !ok {
				return out, fmt.Errorf("alloc[%d]: invalid balance %q", i, alloc.Balance)
			}
		}
		out.Alloc = append(out.Alloc, core.GenesisAccount{
			Address:      addr,
			Balance:      balance,
			ProgramOwned: alloc.ProgramOwned,
		})
	}
	return out, nil
}

func decodeAddr(s string) ([20]byte, error) {
	var out [20]byte
	addr, err := crypto.DecodeAddress(strings.TrimSpace(s))
	if err != nil {
		return out, err
	}
	copy(out[:], addr.Bytes())
	return out, nil
}
