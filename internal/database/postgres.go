package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/config"
)

// NewPostgresPool creates and validates a PostgreSQL connection pool.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns

	if cfg.DatabaseCACertFile != "" {
		tlsCfg, err := caTLSConfig(cfg.DatabaseCACertFile, poolCfg.ConnConfig.Host, poolCfg.ConnConfig.TLSConfig)
		if err != nil {
			return nil, err
		}
		poolCfg.ConnConfig.TLSConfig = tlsCfg
		for _, fb := range poolCfg.ConnConfig.Fallbacks {
			if fb.TLSConfig != nil {
				fb.TLSConfig = tlsCfg
			}
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Bool("custom_ca", cfg.DatabaseCACertFile != "").
		Msg("PostgreSQL connected")

	return pool, nil
}

// caTLSConfig returns base (or a fresh config) trusting only the CAs in caFile.
func caTLSConfig(caFile, host string, base *tls.Config) (*tls.Config, error) {
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read database CA certificate: %w", err)
	}

	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}

	tlsCfg := &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	if base != nil {
		tlsCfg = base.Clone()
		tlsCfg.InsecureSkipVerify = false
		if tlsCfg.ServerName == "" {
			tlsCfg.ServerName = host
		}
	}
	tlsCfg.RootCAs = roots
	return tlsCfg, nil
}
