package netmsg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	def := DefaultConfig()
	if cfg.Addr != def.Addr || cfg.Heartbeat != def.Heartbeat || cfg.MaxBodyBytes != MaxMsgSize || !cfg.Signals {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := ParseConfig(`
addr = "0.0.0.0:9000"
workers = 4
heartbeat = "30s"
cps = 100
rate = 1048576.0
max_body_bytes = 65536
signals = false

[log]
mode = "file"
level = "debug"
path = "/tmp/netmsg"
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" || cfg.Workers != 4 || cfg.Heartbeat != 30*time.Second {
		t.Fatalf("unexpected transport config: %+v", cfg)
	}
	if cfg.CPS != 100 || cfg.Rate != 1048576 || cfg.MaxBodyBytes != 65536 || cfg.Signals {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.Log.Mode != "file" || cfg.Log.Level != "debug" || cfg.Log.Path != "/tmp/netmsg" || cfg.Log.Name != "" {
		t.Fatalf("unexpected log options: %+v", cfg.Log)
	}
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	for _, doc := range []string{
		`heartbeat = "soon"`,
		`workers = 0`,
		`max_body_bytes = 0`,
		`rate = -1.0`,
		`unknown = 1`,
	} {
		if _, err := ParseConfig(doc); err == nil {
			t.Fatalf("expected error for %q", doc)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netmsg.toml")
	if err := os.WriteFile(path, []byte("addr = \"127.0.0.1:7000\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestServerApplyConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.MaxBodyBytes = 1024
	cfg.Signals = false
	srv := NewServer[uint8]()
	srv.Apply(cfg)
	defer InitRate(0)
	if srv.workerNum != 3 || srv.limits.MaxBodyBytes != 1024 || srv.handleSignal {
		t.Fatalf("config not applied: workers=%d limits=%+v", srv.workerNum, srv.limits)
	}
}

func TestSetLimitsClampsToMaxMsgSize(t *testing.T) {
	cases := []struct {
		in, want uint32
	}{
		{0, MaxMsgSize},
		{512, 512},
		{MaxMsgSize, MaxMsgSize},
		{MaxMsgSize + 1, MaxMsgSize},
		{1 << 31, MaxMsgSize},
	}
	for _, c := range cases {
		srv := NewServer[uint8]()
		srv.SetLimits(Limits{MaxBodyBytes: c.in})
		if srv.limits.MaxBodyBytes != c.want {
			t.Fatalf("SetLimits(%d): got %d want %d", c.in, srv.limits.MaxBodyBytes, c.want)
		}
		cli := NewClient[uint8]()
		cli.SetLimits(Limits{MaxBodyBytes: c.in})
		if cli.limits.MaxBodyBytes != c.want {
			t.Fatalf("client SetLimits(%d): got %d want %d", c.in, cli.limits.MaxBodyBytes, c.want)
		}
	}
}
