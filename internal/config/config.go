package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	GeminiAPIKey string
	GeminiModel  string

	GradingPasses        int           // oracle passes per question (N)
	OracleTimeout        time.Duration // per oracle call
	MaxParallelCalls     int           // pass fan-out within one question
	MaxParallelQuestions int           // question fan-out within one batch
	ChecklistEqualSplit  bool          // divide question points evenly over unpriced checklist items

	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),

		GradingPasses:        envInt("GRADING_PASSES", 3),
		OracleTimeout:        time.Duration(envInt("ORACLE_TIMEOUT_SEC", 60)) * time.Second,
		MaxParallelCalls:     envInt("MAX_PARALLEL_CALLS", 3),
		MaxParallelQuestions: envInt("MAX_PARALLEL_QUESTIONS", 4),
		ChecklistEqualSplit:  envBool("CHECKLIST_EQUAL_SPLIT", true),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$hT9qkCQzKZ6oXn0eWJ1uFOxGm3dVb8sR5LpAyE2wNc4MiD7fgjUSK"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://grade.gradeflow.app"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3010"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
