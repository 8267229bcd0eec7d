package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Broker settings
	NatsURL     string
	VoteSubject string
	StreamName  string

	// Ingestion policy
	StrictCandidates bool // unknown candidate names are rejected
	RequireVoter     bool // vote events must carry a huella
	LegacyWire       bool // accept the colon-delimited "accion:dato" payloads
	StorageTimeout   time.Duration

	SeedCandidates bool
}

// DriverName maps the configured database type to its database/sql driver.
func (c Config) DriverName() string {
	if c.DatabaseType == "postgres" {
		return "postgres"
	}
	return "sqlite"
}

// ParseFlags validates flags, falling back to environment variables.
// A .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Optional .env, same as the legacy backend's dotenv setup
	_ = godotenv.Load()

	fs := flag.NewFlagSet("urna", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.NatsURL, "n", "", "NATS server URL")
	fs.StringVar(&cfg.VoteSubject, "s", "", "Inbound vote subject")

	strictSet := fs.Bool("strict-candidates", true, "Reject votes for unknown candidates")
	requireVoter := fs.Bool("require-voter", true, "Reject vote events without a huella")
	legacyWire := fs.Bool("legacy-wire", false, "Accept colon-delimited legacy payloads")
	seed := fs.Bool("seed-candidates", false, "Seed starter candidates when the table is empty")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.StrictCandidates = *strictSet
	cfg.RequireVoter = *requireVoter
	cfg.LegacyWire = *legacyWire
	cfg.SeedCandidates = *seed

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3001 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	if cfg.NatsURL == "" {
		cfg.NatsURL = os.Getenv("NATS_URL")
	}
	if cfg.NatsURL == "" {
		cfg.NatsURL = "nats://127.0.0.1:4222"
	}

	if cfg.VoteSubject == "" {
		cfg.VoteSubject = os.Getenv("VOTE_SUBJECT")
	}
	if cfg.VoteSubject == "" {
		cfg.VoteSubject = "votos.entrada"
	}

	cfg.StreamName = os.Getenv("VOTE_STREAM")
	if cfg.StreamName == "" {
		cfg.StreamName = "VOTOS"
	}

	// Env can only flip the flag defaults, never override an explicit flag
	if v, ok := boolEnv("STRICT_CANDIDATES"); ok && !flagWasSet(fs, "strict-candidates") {
		cfg.StrictCandidates = v
	}
	if v, ok := boolEnv("REQUIRE_VOTER"); ok && !flagWasSet(fs, "require-voter") {
		cfg.RequireVoter = v
	}
	if v, ok := boolEnv("LEGACY_WIRE"); ok && !flagWasSet(fs, "legacy-wire") {
		cfg.LegacyWire = v
	}
	if v, ok := boolEnv("SEED_CANDIDATES"); ok && !flagWasSet(fs, "seed-candidates") {
		cfg.SeedCandidates = v
	}

	cfg.StorageTimeout = 5 * time.Second
	if msStr := os.Getenv("STORAGE_TIMEOUT_MS"); msStr != "" {
		ms, err := strconv.Atoi(msStr)
		if err != nil || ms <= 0 {
			return Config{}, errors.New("invalid STORAGE_TIMEOUT_MS env variable")
		}
		cfg.StorageTimeout = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

func boolEnv(name string) (bool, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
