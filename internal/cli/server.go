package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/geomarket/geomarketd/internal/config"
	"github.com/geomarket/geomarketd/internal/core/market"
	grpcserver "github.com/geomarket/geomarketd/internal/grpc"
	"github.com/geomarket/geomarketd/internal/registry"
	"github.com/geomarket/geomarketd/internal/rpc"
	"github.com/geomarket/geomarketd/internal/storage/archive"
	"github.com/geomarket/geomarketd/internal/storage/kv"
	kvbbolt "github.com/geomarket/geomarketd/internal/storage/kv/bbolt"
	kvmemory "github.com/geomarket/geomarketd/internal/storage/kv/memory"
	kvpebble "github.com/geomarket/geomarketd/internal/storage/kv/pebble"

	_ "github.com/geomarket/geomarketd/internal/core/market/admin"
	_ "github.com/geomarket/geomarketd/internal/core/market/listing"
	_ "github.com/geomarket/geomarketd/internal/core/market/offer"
	_ "github.com/geomarket/geomarketd/internal/core/market/settle"
)

var standalone bool

// serverCmd starts the daemon.
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the marketplace daemon",
	Long: `Start geomarketd, serving the HTTP JSON-RPC API and, when configured,
the gRPC API and the SQL event archive.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, args)
	}

	serverCmd.Flags().BoolVar(&standalone, "standalone", false, "run with open listing policy and store-backed registries")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if standalone {
		cfg.Standalone = true
	}

	manager, store, err := openStore(&cfg.Database)
	if err != nil {
		return err
	}
	defer manager.Close()

	royalty, err := market.NewCachingRoyaltySource(&registry.RoyaltyTable{}, 4096)
	if err != nil {
		return err
	}
	collab := market.Collaborators{
		Authorizer: &registry.Authorizer{Open: cfg.Standalone},
		Custody:    &registry.AssetRegistry{Operator: market.Address(cfg.Market.Operator)},
		Currency:   &registry.CurrencyLedger{},
		Royalty:    royalty,
	}
	engine := market.NewEngine(store, market.EngineConfig{
		Operator:            market.Address(cfg.Market.Operator),
		NativeWrapper:       market.Currency(cfg.Market.NativeWrapper),
		GraceSeconds:        cfg.Market.GraceSeconds,
		DefaultFeeRecipient: market.Address(cfg.Market.FeeRecipient),
		DefaultFeeBps:       cfg.Market.FeeBps,
	}, nil, collab, nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	rpcServer := rpc.NewServer(&rpc.Services{Engine: engine},
		time.Duration(cfg.Server.RequestTimeoutSeconds)*time.Second)
	rpcServer.AdminEnabled = cfg.Server.AdminEnabled

	mux := http.NewServeMux()
	mux.Handle("/", rpcServer)
	mux.Handle("/rpc", rpcServer)
	mux.Handle("/health", rpc.HealthHandler())

	httpServer := &http.Server{Addr: cfg.Server.RPCAddress, Handler: mux}
	group.Go(func() error {
		if !quiet {
			log.Printf("HTTP JSON-RPC listening on %s", cfg.Server.RPCAddress)
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Server.GRPCAddress != "" {
		gs, err := grpcserver.NewServer(&grpcserver.ServerConfig{
			Address:        cfg.Server.GRPCAddress,
			MaxRecvMsgSize: 4 * 1024 * 1024,
			MaxSendMsgSize: 4 * 1024 * 1024,
		}, engine)
		if err != nil {
			return err
		}
		if err := gs.StartAsync(); err != nil {
			return err
		}
		if !quiet {
			log.Printf("gRPC listening on %s", gs.Address())
		}
		group.Go(func() error {
			<-ctx.Done()
			gs.Stop()
			return nil
		})
	}

	if cfg.Archive.Enabled {
		arch, err := archive.Open(ctx, cfg.Archive.SQL())
		if err != nil {
			return err
		}
		events, cancelSub := engine.Bus().Subscribe(1024)
		group.Go(func() error {
			defer arch.Close()
			defer cancelSub()
			arch.Run(ctx, events)
			return nil
		})
		if !quiet {
			log.Printf("event archive enabled (%s)", cfg.Archive.Driver)
		}
	}

	return group.Wait()
}

func openStore(cfg *config.DatabaseConfig) (kv.Manager, kv.DB, error) {
	var manager kv.Manager
	switch cfg.Backend {
	case kv.BackendPebble:
		manager = kvpebble.NewManager(cfg.Path)
	case kv.BackendBBolt:
		manager = kvbbolt.NewManager(cfg.Path)
	case kv.BackendMemory:
		manager = kvmemory.NewManager()
	default:
		return nil, nil, fmt.Errorf("unknown database backend: %s", cfg.Backend)
	}

	store, err := manager.OpenDB("market")
	if err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("open market database: %w", err)
	}
	store, err = kv.WithCompression(store, cfg.Compression)
	if err != nil {
		manager.Close()
		return nil, nil, err
	}
	return manager, store, nil
}
