package envvars

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"pfpMint/errs"
)

const (
	DiscordClientID     = "DISCORD_CLIENT_ID"
	DiscordClientSecret = "DISCORD_CLIENT_SECRET"
	DiscordRedirectURI  = "DISCORD_REDIRECT_URI"
	DiscordGuildID      = "DISCORD_GUILD_ID"
	DiscordBotToken     = "DISCORD_BOT_TOKEN"
	PinataAPIKey        = "PINATA_API_KEY"
	PinataSecretAPIKey  = "PINATA_SECRET_API_KEY"
	AlchemyAPIKey       = "ALCHEMY_API_KEY"
	EthRPCURL           = "ETH_RPC_URL"
	PrivateKey          = "PRIVATE_KEY"
	ContractAddress     = "CONTRACT_ADDRESS"
	Port                = "PORT"
	ImageDir            = "IMAGE_DIR"
	GCSBucket           = "GCS_BUCKET"
	GCPProject          = "GCP_PROJECT"
	Environment         = "ENVIRONMENT"
	LogLevel            = "LOG_LEVEL"
)

const (
	ProductionEnv = "production"
	DevEnv        = "dev"
)

const (
	defaultContractAddress = "0xFf35268905302Ecf90b175E7277c59cFD471bBc3"
	defaultPort            = "3000"
	defaultImageDir        = "nft-images"
	sepoliaAlchemyURL      = "https://eth-sepolia.g.alchemy.com/v2/"
)

type Env struct {
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordGuildID      string
	DiscordBotToken     string
	PinataAPIKey        string
	PinataSecretAPIKey  string
	AlchemyAPIKey       string
	EthRPCURL           string
	// PrivateKey is read for parity with deployments that set it; reads never sign.
	PrivateKey      string
	ContractAddress string
	Port            string
	ImageDir        string
	GCSBucket       string
	GCPProject      string
	Environment     string
	LogLevel        string
}

// Load reads the environment, after merging an optional .env file, into an Env.
// Only the Discord OAuth settings are required.
func Load() (Env, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}

	missing := make([]string, 0)
	required := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}
	env := Env{
		DiscordClientID:     required(DiscordClientID),
		DiscordClientSecret: required(DiscordClientSecret),
		DiscordRedirectURI:  required(DiscordRedirectURI),
		DiscordGuildID:      os.Getenv(DiscordGuildID),
		DiscordBotToken:     os.Getenv(DiscordBotToken),
		PinataAPIKey:        os.Getenv(PinataAPIKey),
		PinataSecretAPIKey:  os.Getenv(PinataSecretAPIKey),
		AlchemyAPIKey:       os.Getenv(AlchemyAPIKey),
		EthRPCURL:           os.Getenv(EthRPCURL),
		PrivateKey:          os.Getenv(PrivateKey),
		ContractAddress:     withDefault(ContractAddress, defaultContractAddress),
		Port:                withDefault(Port, defaultPort),
		ImageDir:            withDefault(ImageDir, defaultImageDir),
		GCSBucket:           os.Getenv(GCSBucket),
		GCPProject:          os.Getenv(GCPProject),
		Environment:         withDefault(Environment, DevEnv),
		LogLevel:            withDefault(LogLevel, "info"),
	}
	if env.EthRPCURL == "" {
		env.EthRPCURL = sepoliaAlchemyURL + env.AlchemyAPIKey
	}
	if len(missing) > 0 {
		return env, errs.New(errs.Configuration, "envvars.Load",
			fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", ")))
	}
	return env, nil
}

// GetEvn is Load for process start: a configuration error terminates the process.
func GetEvn() Env {
	env, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return env
}

func withDefault(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	return v
}

func IsProd(env Env) bool {
	return env.Environment == ProductionEnv
}

func IsDev(env Env) bool {
	return env.Environment == DevEnv
}
