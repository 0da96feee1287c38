package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shouni/go-utils/retry"
	"go.uber.org/zap"
)

const (
	DefaultConnectRetries = 3
	InitialRetryInterval  = 500 * time.Millisecond
	MaxRetryInterval      = 5 * time.Second
)

// Pinger は接続確認ができるものを表します。*pgxpool.Pool と pgxmock が満たします。
type Pinger interface {
	Ping(ctx context.Context) error
}

// DefaultRetryConfig はデフォルトのリトライ設定を返します。
func DefaultRetryConfig() retry.Config {
	return retry.Config{
		MaxRetries:      DefaultConnectRetries,
		InitialInterval: InitialRetryInterval,
		MaxInterval:     MaxRetryInterval,
	}
}

// IsTransient は接続確認のエラーが再試行で回復しうるかを判定します。
// 認証エラー (SQLSTATE 28xxx) と存在しないデータベース (3D000)、コンテキストの終了は回復しません。
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		class := pgErr.Code[:2]
		return class != "28" && class != "3D"
	}
	return true
}

// WaitReady はデータベースが応答するまで指数バックオフで Ping を繰り返します。
// IsTransient が false を返すエラーでは即座に中止します。
func WaitReady(ctx context.Context, p Pinger, cfg retry.Config) error {
	attempt := 0
	return retry.Do(ctx, cfg, "データベースへの接続確認", func() error {
		attempt++
		err := p.Ping(ctx)
		if err != nil && IsTransient(err) {
			zap.L().Warn("データベースに接続できません。再試行します",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	}, IsTransient)
}

// Connect はプールを生成し、接続できることを確認してから返します。
func Connect(ctx context.Context, databaseURL string, cfg retry.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("接続文字列が不正です: %w", err)
	}
	if err := WaitReady(ctx, pool, cfg); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
