package main

import (
	"context"
	"strings"
	"testing"

	enginex "bookline/dialog/engine"
	lexiox "bookline/transport/lexio"
)

func testEngine(t *testing.T) *enginex.Engine {
	t.Helper()

	eng, err := enginex.New(nil, enginex.Config{
		Services: map[string]int{"checkup": 30},
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return eng
}

func TestHandleTurnGreeting(t *testing.T) {
	t.Parallel()

	out, err := handleTurn(context.Background(), testEngine(t), lexiox.Event{
		InvocationSource: "DialogCodeHook",
		UserID:           "u1",
		CurrentIntent:    &lexiox.CurrentIntent{Name: "Greeting"},
	})
	if err != nil {
		t.Fatalf("handleTurn() error = %v", err)
	}
	if out.DialogAction.Type != "Close" || out.DialogAction.FulfillmentState != "Fulfilled" {
		t.Fatalf("dialogAction = %+v", out.DialogAction)
	}
	if !strings.HasPrefix(out.DialogAction.Message.Content, "Hi there!") {
		t.Fatalf("message = %q", out.DialogAction.Message.Content)
	}
}

func TestHandleTurnFailureClosesGracefully(t *testing.T) {
	t.Parallel()

	// An unsupported intent is an engine error; the user still gets a reply
	// and the session attributes survive untouched.
	out, err := handleTurn(context.Background(), testEngine(t), lexiox.Event{
		InvocationSource:  "DialogCodeHook",
		UserID:            "u1",
		SessionAttributes: map[string]string{"fallbackCount": "2"},
		CurrentIntent:     &lexiox.CurrentIntent{Name: "OrderPizza"},
	})
	if err != nil {
		t.Fatalf("handleTurn() error = %v", err)
	}
	if out.DialogAction.Type != "Close" || out.DialogAction.FulfillmentState != "Failed" {
		t.Fatalf("dialogAction = %+v", out.DialogAction)
	}
	if out.SessionAttributes["fallbackCount"] != "2" {
		t.Fatalf("session attributes = %v", out.SessionAttributes)
	}
}

func TestHandleTurnRejectsIntentlessEvent(t *testing.T) {
	t.Parallel()

	if _, err := handleTurn(context.Background(), testEngine(t), lexiox.Event{UserID: "u1"}); err == nil {
		t.Fatal("expected error for event without intent")
	}
}
