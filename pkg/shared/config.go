package shared

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSNSProxyURL        = "https://sns-sdk-proxy.bonfida.workers.dev"
	DefaultNFTStorageEndpoint = "https://api.nft.storage"
	DefaultNFTStorageGateway  = "https://nftstorage.link"
	DefaultSiteURL            = "https://etched.id"
	DefaultImageURI           = "https://nftstorage.link/ipfs/bafybeigbhoe7436f2ieudxxw6a6ktg37xcrgf4b7iqol4uefnkaa42pdem"
	DefaultListenAddr         = ":8080"
)

// Config carries every setting the server and CLI read from the environment
// or an optional YAML file.
type Config struct {
	Network            string `yaml:"network"`
	RPCEndpoint        string `yaml:"rpc_endpoint"`
	DASEndpoint        string `yaml:"das_endpoint"`
	SNSProxyURL        string `yaml:"sns_proxy_url"`
	NFTStorageAPIKey   string `yaml:"nft_storage_api_key"`
	NFTStorageEndpoint string `yaml:"nft_storage_endpoint"`
	NFTStorageGateway  string `yaml:"nft_storage_gateway"`
	TreeAuthorityKey   string `yaml:"tree_authority_secret_key"`
	TreePublicKey      string `yaml:"tree_public_key"`
	SiteURL            string `yaml:"site_url"`
	DefaultImage       string `yaml:"default_image"`
	ListenAddr         string `yaml:"listen_addr"`
	LogLevel           string `yaml:"log_level"`
}

var dotenvLoadOnce sync.Once

// ConfigFromEnv builds a Config from environment variables, reading a .env
// file first when one exists in the working directory or above it.
func ConfigFromEnv() (Config, error) {
	return configFromEnv(Config{})
}

// LoadConfig reads a YAML config file and lets environment variables
// override its values.
func LoadConfig(path string) (Config, error) {
	var base Config
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &base); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	return configFromEnv(base)
}

func configFromEnv(base Config) (Config, error) {
	loadDotEnvIfPresent()

	config := base
	config.Network = firstNonEmpty(firstNonEmptyEnv("SOLANA_NETWORK", "NETWORK"), config.Network)
	network, err := NormalizeNetwork(config.Network)
	if err != nil {
		return Config{}, err
	}
	config.Network = network

	config.RPCEndpoint = firstNonEmpty(firstNonEmptyEnv("RPC_ENDPOINT"), config.RPCEndpoint)
	switch network {
	case NetworkMainnet:
		if scoped := firstNonEmptyEnv("MAINNET_RPC_ENDPOINT"); scoped != "" {
			config.RPCEndpoint = scoped
		}
	case NetworkTestnet:
		if scoped := firstNonEmptyEnv("TESTNET_RPC_ENDPOINT"); scoped != "" {
			config.RPCEndpoint = scoped
		}
	default:
		if scoped := firstNonEmptyEnv("DEVNET_RPC_ENDPOINT"); scoped != "" {
			config.RPCEndpoint = scoped
		}
	}
	if config.RPCEndpoint == "" {
		config.RPCEndpoint, _ = DefaultRPCEndpoint(network)
	}

	config.DASEndpoint = firstNonEmpty(firstNonEmptyEnv("DAS_ENDPOINT"), config.DASEndpoint, config.RPCEndpoint)
	config.SNSProxyURL = firstNonEmpty(firstNonEmptyEnv("SNS_PROXY_URL"), config.SNSProxyURL, DefaultSNSProxyURL)
	config.NFTStorageAPIKey = firstNonEmpty(firstNonEmptyEnv("NFT_STORAGE_API_KEY"), config.NFTStorageAPIKey)
	config.NFTStorageEndpoint = firstNonEmpty(
		firstNonEmptyEnv("NFT_STORAGE_ENDPOINT"),
		config.NFTStorageEndpoint,
		DefaultNFTStorageEndpoint,
	)
	config.NFTStorageGateway = firstNonEmpty(
		firstNonEmptyEnv("NFT_STORAGE_GATEWAY"),
		config.NFTStorageGateway,
		DefaultNFTStorageGateway,
	)
	config.TreeAuthorityKey = firstNonEmpty(firstNonEmptyEnv("TREE_AUTHORITY_SECRET_KEY"), config.TreeAuthorityKey)
	config.TreePublicKey = firstNonEmpty(
		firstNonEmptyEnv("TREE_PUBLIC_KEY", "NEXT_PUBLIC_TREE_PUBLIC_KEY"),
		config.TreePublicKey,
	)
	config.SiteURL = strings.TrimRight(
		firstNonEmpty(firstNonEmptyEnv("ETCHED_SITE_URL"), config.SiteURL, DefaultSiteURL),
		"/",
	)
	config.DefaultImage = firstNonEmpty(firstNonEmptyEnv("ETCHED_DEFAULT_IMAGE"), config.DefaultImage, DefaultImageURI)
	config.ListenAddr = firstNonEmpty(firstNonEmptyEnv("LISTEN_ADDR", "PORT_ADDR"), config.ListenAddr, DefaultListenAddr)
	config.LogLevel = firstNonEmpty(firstNonEmptyEnv("LOG_LEVEL"), config.LogLevel, "info")

	return config, nil
}

// RequireMinting reports which settings needed by the mint endpoint are missing.
func (c Config) RequireMinting() error {
	missing := make([]string, 0, 3)
	if c.NFTStorageAPIKey == "" {
		missing = append(missing, "NFT_STORAGE_API_KEY")
	}
	if c.TreeAuthorityKey == "" {
		missing = append(missing, "TREE_AUTHORITY_SECRET_KEY")
	}
	if c.TreePublicKey == "" {
		missing = append(missing, "TREE_PUBLIC_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	return nil
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		startPaths := make([]string, 0, 2)

		if cwd, err := os.Getwd(); err == nil {
			startPaths = append(startPaths, cwd)
		}
		if _, currentFile, _, ok := runtime.Caller(0); ok {
			startPaths = append(startPaths, filepath.Dir(currentFile))
		}

		loadNearestDotEnv(startPaths)
	})
}

// loadNearestDotEnv walks up from each start path and stops at the first
// .env file that sets at least one variable.
func loadNearestDotEnv(startPaths []string) string {
	seenCandidates := make(map[string]struct{})
	for _, start := range startPaths {
		current := start
		for {
			candidate := filepath.Join(current, ".env")
			if _, exists := seenCandidates[candidate]; !exists {
				seenCandidates[candidate] = struct{}{}
				if loadDotEnvFile(candidate) {
					return candidate
				}
			}

			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	return ""
}

func loadDotEnvFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		separator := strings.Index(line, "=")
		if separator <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:separator])
		if !isValidEnvKey(key) {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}

		value := strings.TrimSpace(line[separator+1:])
		if len(value) >= 2 {
			first := value[0]
			last := value[len(value)-1]
			if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if setErr := os.Setenv(key, value); setErr == nil {
			loadedAny = true
		}
	}

	return loadedAny
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		if (character >= 'A' && character <= 'Z') ||
			(character >= 'a' && character <= 'z') ||
			(index > 0 && character >= '0' && character <= '9') ||
			character == '_' {
			continue
		}
		return false
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
