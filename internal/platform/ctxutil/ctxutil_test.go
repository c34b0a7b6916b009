package ctxutil

import (
	"context"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), &Identity{UserID: "auth0|abc"})
	id := GetIdentity(ctx)
	if id == nil || id.UserID != "auth0|abc" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestIdentityBlankSubjectIsAnonymous(t *testing.T) {
	ctx := WithIdentity(context.Background(), &Identity{UserID: "  "})
	if GetIdentity(ctx) != nil {
		t.Fatalf("blank subject should not resolve to an identity")
	}
	if GetIdentity(context.Background()) != nil {
		t.Fatalf("empty context should not carry an identity")
	}
}

func TestLogFields(t *testing.T) {
	if LogFields(context.Background()) != nil {
		t.Fatalf("expected no fields without trace data")
	}
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	got := LogFields(ctx)
	if len(got) != 4 || got[1] != "t1" || got[3] != "r1" {
		t.Fatalf("unexpected fields: %v", got)
	}
}
