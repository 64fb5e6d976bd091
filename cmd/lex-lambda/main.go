// Lex V1 code-hook entry point: the bot's dialog and fulfillment hooks both
// land here.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	contractx "bookline/dialog/contract"
	directivex "bookline/dialog/directive"
	enginex "bookline/dialog/engine"
	configx "bookline/pkg/config"
	logx "bookline/pkg/logger"
	searchidxx "bookline/pkg/searchidx"
	lexiox "bookline/transport/lexio"
)

type appConfig struct {
	// Services maps service type to duration, e.g. "checkup:30,physical exam:60".
	Services      map[string]int `split_words:"true" default:"checkup:30,vaccination:30,physical exam:60"`
	JoinLink      string         `split_words:"true"`
	SearchEnabled bool           `split_words:"true" default:"false"`
}

func main() {
	logx.Init(*configx.MustLoad[logx.Config]("LOG"))
	cfg := configx.MustLoad[appConfig]("BOOKLINE")

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

	lambda.Start(func(ctx context.Context, evt lexiox.Event) (lexiox.Response, error) {
		return handleTurn(ctx, eng, evt)
	})
}

func handleTurn(ctx context.Context, eng *enginex.Engine, evt lexiox.Event) (lexiox.Response, error) {
	req, err := lexiox.DecodeEvent(evt)
	if err != nil {
		return lexiox.Response{}, err
	}

	res, err := eng.ProcessTurn(ctx, req)
	if err != nil {
		// The bot must answer the user even when a turn fails; the session
		// blob is passed back unchanged so nothing is lost.
		log.Error().Err(err).Str("user_id", req.UserID).Str("intent", req.Intent).Msg("turn failed")
		return lexiox.EncodeResult(contractx.TurnResult{
			Directive: directivex.Close(contractx.OutcomeFailed,
				"Sorry, something went wrong on our side. Please try again."),
			SessionAttributes: evt.SessionAttributes,
		}), nil
	}

	return lexiox.EncodeResult(res), nil
}
