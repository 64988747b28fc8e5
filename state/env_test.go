package state

import (
	"context"
	"testing"
	"time"

	"emc/compat"
	"emc/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}

	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		env := EnvFromContext(ctx)

		if env == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()

		// Use plain context without env
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestResolveFramework(t *testing.T) {
	env := &LocalEnv{Cfg: &config.Config{}}
	env.Cfg.Analysis.Framework = "mjml"

	// command line value wins
	fw, err := ResolveFramework("jsx", env)
	if err != nil {
		t.Fatalf("ResolveFramework() error = %v", err)
	}
	if fw != compat.FrameworkJSX {
		t.Errorf("framework = %q, want jsx", fw)
	}

	// empty falls back to configuration
	fw, err = ResolveFramework("", env)
	if err != nil {
		t.Fatalf("ResolveFramework() error = %v", err)
	}
	if fw != compat.FrameworkMJML {
		t.Errorf("framework = %q, want mjml", fw)
	}

	if _, err = ResolveFramework("rails", env); err == nil {
		t.Error("Expected error for unknown framework")
	}
}

func TestRedirectStdLog_NilLog(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog() // must not panic
	env.RestoreStdLog()
}
