package redis

import (
	"context"
	"net"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"termin/config"
)

const pingTimeout = 5 * time.Second

// Options maps the primary endpoint onto client options.
func Options(endpoint config.RedisEndpoint) *goRedis.Options {
	return &goRedis.Options{
		Addr:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Password: endpoint.Password,
		DB:       endpoint.DB,
	}
}

func New(cfg *config.Config) *goRedis.Client {
	endpoint := cfg.Cache.Redis.Primary
	client := goRedis.NewClient(Options(endpoint))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", client.Options().Addr).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", client.Options().Addr).Int("db", endpoint.DB).Msg("Connected to Redis")

	return client
}
