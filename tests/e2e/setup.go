//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"entitlement-service/cmd/bootstrap"
	"entitlement-service/cmd/bootstrap/components"
	"entitlement-service/internal/infra/db"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/worker/dispatcher"
	"entitlement-service/tests/common/dbtest"

	"github.com/alicebob/miniredis/v2"
	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgStartErr  error
)

// 耐久性を捨てて I/O を減らす
var pgServerFlags = map[string]string{
	"fsync":                  "off",
	"full_page_writes":       "off",
	"synchronous_commit":     "off",
	"shared_buffers":         "256MB",
	"max_connections":        "200",
	"log_statement":          "none",
	"autovacuum_max_workers": "2",
}

func pgDSN(host string, port nat.Port, dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), dbName)
}

// sharedPostgres はプロセス内で一度だけコンテナを起動する
func sharedPostgres(t *testing.T) (string, nat.Port) {
	t.Helper()

	pgOnce.Do(func() {
		cmd := []string{"postgres"}
		for k, v := range pgServerFlags {
			cmd = append(cmd, "-c", k+"="+v)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		pgContainer, pgStartErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				Cmd:   cmd,
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return pgDSN(host, port, "postgres")
				}).WithStartupTimeout(60 * time.Second),
				Labels: map[string]string{"purpose": "e2e-tests"},
			},
			Started: true,
		})
	})
	require.NoError(t, pgStartErr, "PostgreSQLコンテナの起動に失敗")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err, "コンテナのホスト取得に失敗")
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err, "コンテナのポート取得に失敗")
	return host, port
}

// createDatabase はテストプロセスごとに専用のDBを作り、終了時に削除する
func createDatabase(t *testing.T, host string, port nat.Port) string {
	t.Helper()

	dbName := "entitlement_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := pgDSN(host, port, "postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "管理者接続に失敗")
	defer admin.Close()

	// 起動直後は接続が不安定なことがあるので数回試す
	var lastErr error
	for attempt := range 5 {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
			slog.Warn("データベース作成を再試行中", "attempt", attempt+1, "error", lastErr.Error())
		}
		if _, lastErr = admin.Exec(ctx, "CREATE DATABASE "+dbName); lastErr == nil {
			break
		}
	}
	require.NoError(t, lastErr, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			slog.Warn("クリーンアップ用の接続に失敗しました", "database", dbName, "error", err.Error())
			return
		}
		defer p.Close()
		if _, err := p.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", dbName, "error", err.Error())
		}
	})
	return dbName
}

type e2eEnv struct {
	pool       *pgxpool.Pool
	router     *gin.Engine
	cfg        config.Config
	dispatcher *dispatcher.Dispatcher
}

// startApp はテスト用設定で fx アプリ全体を組み立てる。
// 配信ワーカーは起動せず、テストから RunOnce で一回ずつ回す
func startApp(t *testing.T, cfg config.Config, pool *pgxpool.Pool) e2eEnv {
	t.Helper()

	env := e2eEnv{pool: pool}
	app := fx.New(
		fx.Provide(
			func() config.Config { return cfg },
			func() *pgxpool.Pool { return pool },
			func() *gin.Engine { return gin.New() },
		),
		bootstrap.LoggerModule,
		bootstrap.TelemetryModule,
		bootstrap.RedisModule,
		bootstrap.AWSModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.LockModule,
		components.UseCaseModule,
		components.WorkerModule,
		components.HandlerModule,
		fx.Populate(&env.router, &env.dispatcher),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fxアプリケーションの起動に失敗")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})

	env.cfg = cfg
	return env
}

// SharedSuite は Postgres コンテナ・miniredis・アプリ本体をまとめて用意する
type SharedSuite struct {
	suite.Suite
	Router     *gin.Engine
	DB         *pgxpool.Pool
	Config     config.Config
	Redis      *miniredis.Miniredis
	Dispatcher *dispatcher.Dispatcher
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	host, port := sharedPostgres(t)
	dbName := createDatabase(t, host, port)

	// セッションロックは miniredis 上の本物の Redis クライアントで動かす
	s.Redis = miniredis.RunT(t)

	cfg := config.NewTestConfig()
	cfg.DB = config.DBConfig{
		Host:        host,
		Port:        port.Port(),
		User:        pgUser,
		Password:    pgPassword,
		DBName:      dbName,
		SSLMode:     "disable",
		TimeZone:    "UTC",
		MaxConns:    10,
		LockTimeout: 2 * time.Second,
	}
	cfg.Redis.Address = s.Redis.Addr()
	cfg.Notification.Enabled = false

	pool, _, err := db.Connect(cfg.DB)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(pool.Close)

	// オファーのカタログもマイグレーションで投入される
	require.NoError(t, db.MigrateUp(pool), "データベースマイグレーションに失敗")

	env := startApp(t, cfg, pool)
	s.DB = env.pool
	s.Router = env.router
	s.Config = env.cfg
	s.Dispatcher = env.dispatcher
	require.NotNil(t, s.Router, "Routerのセットアップに失敗")
	require.NotNil(t, s.Dispatcher, "Dispatcherのセットアップに失敗")
}

func (s *SharedSuite) reset() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
	s.Redis.FlushAll()
}

func (s *SharedSuite) SetupTest()    { s.reset() }
func (s *SharedSuite) SetupSubTest() { s.reset() }
