package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	AMQPURL string

	IdempTTLSecs int

	// Ledger parameters. Changing them only affects operations after the
	// change; existing loans keep the terms they were created with.
	InitialTrustScore   int64
	MinTrustScore       int64
	EndorseCreditBase   int64
	RepayScoreReward    int64
	DefaultScorePenalty int64
	InterestRateBps     int64
	CollateralFactorPct int64
	CommissionBps       int64
	LoanTermDays        int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt64(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "trustvault"),
		MySQLUser: getenv("MYSQL_USER", "trustvault"),
		MySQLPass: getenv("MYSQL_PASS", "trustvault"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		AMQPURL: os.Getenv("AMQP_URL"),

		IdempTTLSecs: 300,

		InitialTrustScore:   getenvInt64("VAULT_INITIAL_TRUST_SCORE", 50),
		MinTrustScore:       getenvInt64("VAULT_MIN_TRUST_SCORE", 60),
		EndorseCreditBase:   getenvInt64("VAULT_ENDORSE_CREDIT_BASE", 20),
		RepayScoreReward:    getenvInt64("VAULT_REPAY_SCORE_REWARD", 25),
		DefaultScorePenalty: getenvInt64("VAULT_DEFAULT_SCORE_PENALTY", 100),
		InterestRateBps:     getenvInt64("VAULT_INTEREST_RATE_BPS", 700),
		CollateralFactorPct: getenvInt64("VAULT_COLLATERAL_FACTOR_PCT", 130),
		CommissionBps:       getenvInt64("VAULT_COMMISSION_BPS", 600),
		LoanTermDays:        int(getenvInt64("VAULT_LOAN_TERM_DAYS", 30)),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.InitialTrustScore < 0 || c.InitialTrustScore > 1000 {
		return fmt.Errorf("VAULT_INITIAL_TRUST_SCORE %d out of range [0,1000]", c.InitialTrustScore)
	}
	// Defaulting must be strictly loss-making over repeated cycles.
	if c.DefaultScorePenalty <= c.RepayScoreReward {
		return errors.New("VAULT_DEFAULT_SCORE_PENALTY must exceed VAULT_REPAY_SCORE_REWARD")
	}
	if c.CommissionBps > c.InterestRateBps {
		return errors.New("VAULT_COMMISSION_BPS must not exceed VAULT_INTEREST_RATE_BPS")
	}
	if c.CollateralFactorPct < 100 {
		return errors.New("VAULT_COLLATERAL_FACTOR_PCT must cover at least the principal")
	}
	if c.LoanTermDays <= 0 {
		return errors.New("VAULT_LOAN_TERM_DAYS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// LoanTerm returns the fixed loan duration.
func (c *Config) LoanTerm() time.Duration {
	return time.Duration(c.LoanTermDays) * 24 * time.Hour
}
