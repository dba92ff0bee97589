package postgres

import (
	"strings"
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	if o.MaxOpenConns != 10 || o.MaxIdleConns != 5 {
		t.Fatalf("unexpected pool defaults: %+v", o)
	}
	if o.ConnMaxLifetime != 5*time.Minute || o.ConnMaxIdleTime != time.Minute {
		t.Fatalf("unexpected lifetime defaults: %+v", o)
	}
	if o.ConnectRetries != 5 || o.RetryDelay != 2*time.Second {
		t.Fatalf("unexpected retry defaults: %+v", o)
	}
}

func TestOptionsKeepExplicitValues(t *testing.T) {
	o := Options{
		MaxOpenConns:   3,
		MaxIdleConns:   2,
		ConnectRetries: 1,
		RetryDelay:     time.Millisecond,
	}.withDefaults()

	if o.MaxOpenConns != 3 || o.MaxIdleConns != 2 {
		t.Fatalf("explicit pool sizes overridden: %+v", o)
	}
	if o.ConnectRetries != 1 || o.RetryDelay != time.Millisecond {
		t.Fatalf("explicit retry policy overridden: %+v", o)
	}
}

func TestNewDBGivesUpAfterRetries(t *testing.T) {
	// Port 1 never hosts postgres; the short retry delay keeps the test fast.
	_, err := NewDB("postgres://127.0.0.1:1/sessions?sslmode=disable&connect_timeout=1",
		Options{ConnectRetries: 2, RetryDelay: time.Millisecond})
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if !strings.Contains(err.Error(), "2 attempts") {
		t.Fatalf("error should report the retry budget, got %v", err)
	}
}
