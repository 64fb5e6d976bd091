// SMS/WhatsApp webhook relay: receives channel messages over HTTP, runs the
// dialog engine in-process and persists each user's session blob between
// messages.
package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	contractx "bookline/dialog/contract"
	enginex "bookline/dialog/engine"
	statex "bookline/dialog/state"
	configx "bookline/pkg/config"
	logx "bookline/pkg/logger"
	searchidxx "bookline/pkg/searchidx"
	relayx "bookline/transport/relay"
)

type appConfig struct {
	Addr          string         `split_words:"true" default:":8080"`
	Services      map[string]int `split_words:"true" default:"checkup:30,vaccination:30,physical exam:60"`
	JoinLink      string         `split_words:"true"`
	SearchEnabled bool           `split_words:"true" default:"false"`
	// StoreBackend selects session persistence: memory, redis or upstash.
	StoreBackend string `split_words:"true" default:"memory"`
}

func main() {
	logx.Init(*configx.MustLoad[logx.Config]("LOG"))
	cfg := configx.MustLoad[appConfig]("RELAY")

	var index contractx.AnswerIndex
	if cfg.SearchEnabled {
		index = searchidxx.MustNew(*configx.MustLoad[searchidxx.Config]("SEARCH"))
	}

	eng, err := enginex.New(index, enginex.Config{
		Services: cfg.Services,
		JoinLink: cfg.JoinLink,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build dialog engine")
	}

	store, err := newSessionStore(cfg.StoreBackend)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("build session store")
	}

	handler, err := relayx.NewHandler(eng, store)
	if err != nil {
		log.Fatal().Err(err).Msg("build relay handler")
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           relayx.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Str("store", cfg.StoreBackend).Msg("relay listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("relay server stopped")
	}
}

func newSessionStore(backend string) (statex.SessionStore, error) {
	switch backend {
	case "redis":
		return statex.NewRedisStore(*configx.MustLoad[statex.RedisConfig]("REDIS")), nil
	case "upstash":
		return statex.NewUpstashRedisStore(*configx.MustLoad[statex.UpstashRedisConfig]("UPSTASH"))
	}
	return statex.NewMemoryStore(), nil
}
