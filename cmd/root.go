package cmd

import (
	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shouni/go-resort-importer/internal/config"
)

// --- グローバル定数 ---

const appName = "resort-importer"

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec int // --timeout タイムアウト
}

var Flags AppFlags

// appViper はフラグ・環境変数・デフォルト値をまとめる設定ストアです。
var appViper = config.NewViper()

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.Short = "日本のスキー場一覧を収集し、座標付きの CSV / SQL を生成するツール"
	rootCmd.Long = `スキー場一覧ページから都道府県ごとのスキー場名を抽出し、Nominatim で座標を解決して
CSV と SQL の INSERT 文を出力します（generate）。生成した CSV は PostgreSQL に投入できます（load）。
設定は RESORTS_ で始まる環境変数でも指定できます（例: RESORTS_DATABASE_URL）。`

	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		config.DefaultTimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）",
	)
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	if err := config.InitLogger(clibase.Flags.Verbose); err != nil {
		return err
	}
	if err := appViper.BindPFlag(config.KeyTimeoutSec, cmd.Root().PersistentFlags().Lookup("timeout")); err != nil {
		return err
	}
	zap.L().Debug("ロガーを初期化しました", zap.String("command", cmd.Name()))
	return nil
}

// loadConfig はコマンド固有のフラグを設定キーにバインドしてから設定を読み込みます。
// bindings のキーは設定キー、値はフラグ名です。
func loadConfig(cmd *cobra.Command, v *viper.Viper, bindings map[string]string) (*config.Config, error) {
	for key, flagName := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flagName)); err != nil {
			return nil, err
		}
	}
	return config.Load(v)
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		generateCmd,
		loadCmd,
	)
	// clibase.Execute() の中で os.Exit(1) が処理されるため、ここでは不要
}
