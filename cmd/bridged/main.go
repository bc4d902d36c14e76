package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/crosslock-io/bridge-go/bridge"
	"github.com/crosslock-io/bridge-go/common"
	"github.com/crosslock-io/bridge-go/custody"
	"github.com/crosslock-io/bridge-go/logconfig"
	"github.com/crosslock-io/bridge-go/reporter"
	"github.com/crosslock-io/bridge-go/state"
	logger "github.com/sirupsen/logrus"
)

const (
	ENV_CONFIG_FILE_PATH = "BRIDGE_CONFIG"
)

func main() {
	// Tool to read environment variables
	viper.AutomaticEnv()

	// Accessing an environment variable of configuration file location.
	configFile := viper.GetString(ENV_CONFIG_FILE_PATH)
	fmt.Printf("Bridge daemon configuration file = %s\n", configFile)

	if !fileExists(configFile) {
		fmt.Printf("Bridge daemon configuration file not found: %s\n", configFile)
		return
	}

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading configuration file, %s\n", err)
		return
	}

	switch viper.GetString("LOG_LEVEL") {
	case "debug":
		logconfig.ConfigDebugLogger()
	case "info":
		logconfig.ConfigInfoLogger()
	default:
		logconfig.ConfigProductionLogger()
	}

	if err := run(); err != nil {
		logger.Fatalf("bridge daemon exited: err=%v", err)
	}
}

func run() error {
	stateSQL, err := sql.Open("sqlite3", viper.GetString("STATE_DB_FILE_PATH"))
	if err != nil {
		return err
	}
	defer stateSQL.Close()

	custodySQL, err := sql.Open("sqlite3", viper.GetString("CUSTODY_DB_FILE_PATH"))
	if err != nil {
		return err
	}
	defer custodySQL.Close()

	statedb, err := state.NewStateDB(stateSQL)
	if err != nil {
		return err
	}
	defer statedb.Close()

	st, err := state.New(statedb, &state.StateConfig{
		PruneHorizon: viper.GetUint64("PRUNE_HORIZON"),
	})
	if err != nil {
		return err
	}

	backend, err := custody.NewLedgerSQLiteStorage(custodySQL)
	if err != nil {
		return err
	}
	ledger := custody.NewLedger(backend)

	cfg := &bridge.Config{
		ProgramID: common.HexStrToBytes32(viper.GetString("PROGRAM_ID")),
		AssetID:   common.HexStrToBytes32(viper.GetString("ASSET_ID")),
	}

	// the native asset pre-exists the bridge; register it on first boot so
	// the vault account can be created against it
	assetAuthority := common.HexStrToBytes32(viper.GetString("ASSET_AUTHORITY"))
	if err := ledger.EnsureMint(cfg.AssetID, assetAuthority); err != nil {
		return err
	}

	ctrl, err := bridge.NewController(
		cfg,
		st,
		ledger,
		ledger,
		bridge.NopEmitter{},
		bridge.AcceptAllVerifier{},
		bridge.WallClock{},
	)
	if err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"vault": ctrl.VaultAccount().String(),
		"nonce": st.Nonce(),
	}).Info("bridge controller ready")

	fmt.Println("Starting bridge reporter... press Ctrl+C to kill the daemon")
	h := reporter.NewHttpReporter(
		viper.GetString("REPORTER_IP"),
		viper.GetString("REPORTER_PORT"),
		st,
		ledger,
		ctrl.VaultAccount(),
	)
	h.Run() // blocks

	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
