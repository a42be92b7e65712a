package shared

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

var configEnvKeys = []string{
	"SOLANA_NETWORK",
	"NETWORK",
	"RPC_ENDPOINT",
	"DEVNET_RPC_ENDPOINT",
	"TESTNET_RPC_ENDPOINT",
	"MAINNET_RPC_ENDPOINT",
	"DAS_ENDPOINT",
	"SNS_PROXY_URL",
	"NFT_STORAGE_API_KEY",
	"NFT_STORAGE_ENDPOINT",
	"NFT_STORAGE_GATEWAY",
	"TREE_AUTHORITY_SECRET_KEY",
	"TREE_PUBLIC_KEY",
	"NEXT_PUBLIC_TREE_PUBLIC_KEY",
	"ETCHED_SITE_URL",
	"ETCHED_DEFAULT_IMAGE",
	"LISTEN_ADDR",
	"PORT_ADDR",
	"LOG_LEVEL",
}

func resetConfigEnv(t *testing.T) {
	t.Helper()
	dotenvLoadOnce = sync.Once{}
	dotenvLoadOnce.Do(func() {})
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	resetConfigEnv(t)

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkDevnet {
		t.Fatalf("expected devnet, got %q", config.Network)
	}
	if config.DASEndpoint != config.RPCEndpoint {
		t.Fatalf("expected DAS endpoint to default to RPC endpoint, got %q", config.DASEndpoint)
	}
	if config.DefaultImage != DefaultImageURI {
		t.Fatalf("unexpected default image %q", config.DefaultImage)
	}
	if config.ListenAddr != DefaultListenAddr {
		t.Fatalf("unexpected listen addr %q", config.ListenAddr)
	}
	if err := config.RequireMinting(); err == nil {
		t.Fatal("expected missing mint settings")
	}
}

func TestConfigFromEnvScopedRPC(t *testing.T) {
	resetConfigEnv(t)
	t.Setenv("SOLANA_NETWORK", "mainnet-beta")
	t.Setenv("RPC_ENDPOINT", "https://generic.example")
	t.Setenv("MAINNET_RPC_ENDPOINT", "https://mainnet.example")
	t.Setenv("NEXT_PUBLIC_TREE_PUBLIC_KEY", "tree")
	t.Setenv("TREE_AUTHORITY_SECRET_KEY", "[1,2]")
	t.Setenv("NFT_STORAGE_API_KEY", "key")

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.RPCEndpoint != "https://mainnet.example" {
		t.Fatalf("expected scoped endpoint, got %q", config.RPCEndpoint)
	}
	if config.TreePublicKey != "tree" {
		t.Fatalf("expected tree key fallback, got %q", config.TreePublicKey)
	}
	if err := config.RequireMinting(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigFromEnvInvalidNetwork(t *testing.T) {
	resetConfigEnv(t)
	t.Setenv("SOLANA_NETWORK", "localnet")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for invalid network")
	}
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	resetConfigEnv(t)
	path := filepath.Join(t.TempDir(), "etched.yaml")
	content := "network: testnet\nsns_proxy_url: https://sns.example\nlisten_addr: \":9000\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Setenv("LISTEN_ADDR", ":9100")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkTestnet {
		t.Fatalf("expected testnet, got %q", config.Network)
	}
	if config.SNSProxyURL != "https://sns.example" {
		t.Fatalf("unexpected proxy %q", config.SNSProxyURL)
	}
	if config.ListenAddr != ":9100" {
		t.Fatalf("expected env override, got %q", config.ListenAddr)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	resetConfigEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nexport SNS_PROXY_URL=\"https://quoted.example\"\nNOT VALID=1\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Setenv("LOG_LEVEL", "warn")
	os.Unsetenv("SNS_PROXY_URL")

	if !loadDotEnvFile(path) {
		t.Fatal("expected values to load")
	}
	if os.Getenv("SNS_PROXY_URL") != "https://quoted.example" {
		t.Fatalf("unexpected value %q", os.Getenv("SNS_PROXY_URL"))
	}
	if os.Getenv("LOG_LEVEL") != "warn" {
		t.Fatal("existing variables must not be overwritten")
	}
}

func TestLoadNearestDotEnvSkipsFilesThatSetNothing(t *testing.T) {
	resetConfigEnv(t)
	root := t.TempDir()
	child := filepath.Join(root, "child")
	if err := os.Mkdir(child, 0o700); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(child, ".env"), []byte("# nothing here\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parentEnv := filepath.Join(root, ".env")
	if err := os.WriteFile(parentEnv, []byte("SNS_PROXY_URL=https://parent.example\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	os.Unsetenv("SNS_PROXY_URL")

	if loaded := loadNearestDotEnv([]string{child}); loaded != parentEnv {
		t.Fatalf("expected %s to load, got %q", parentEnv, loaded)
	}
	if os.Getenv("SNS_PROXY_URL") != "https://parent.example" {
		t.Fatalf("unexpected value %q", os.Getenv("SNS_PROXY_URL"))
	}
}

func TestIsValidEnvKey(t *testing.T) {
	for _, key := range []string{"A", "RPC_ENDPOINT", "_LEADING", "A1"} {
		if !isValidEnvKey(key) {
			t.Fatalf("expected %q to be valid", key)
		}
	}
	for _, key := range []string{"", "1ABC", "A B", "A-B", "A=B"} {
		if isValidEnvKey(key) {
			t.Fatalf("expected %q to be invalid", key)
		}
	}
}
