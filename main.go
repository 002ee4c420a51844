package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"panion/internal/analytics"
	"panion/internal/config"
	"panion/internal/live"
	"panion/internal/model"
	"panion/internal/narrative"
	"panion/internal/parser"
	"panion/internal/server"
	"panion/internal/store"
)

func main() {
	analyze := flag.String("a", "", "")
	analyzeLong := flag.String("analyze", "", "analyze a chat export file and print the snapshot")
	participants := flag.String("l", "", "")
	participantsLong := flag.String("participants", "", "list participants found in a chat export file")
	serve := flag.Bool("s", false, "")
	serveLong := flag.Bool("serve", false, "run the HTTP API")
	user := flag.String("u", "", "")
	userLong := flag.String("user", "", "name of the export's owner (for -a)")
	addr := flag.String("addr", "", "listen address (overrides PANION_ADDR)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `panion - WhatsApp chat analytics

usage: panion [options]

options:
  -a, --analyze FILE       analyze a chat export and print the snapshot as JSON
  -l, --participants FILE  list participants found in a chat export
  -u, --user NAME          owner of the export (with -a; inferred when omitted)
  -s, --serve              run the HTTP API
  --addr ADDR              listen address (default :5000)

environment:
  PANION_ADDR          listen address for -s
  PANION_DATA_DIR      data directory (default ~/.panion)
  OLLAMA_CHAT_MODEL    local Ollama model for narratives (checked first)
  OLLAMA_HOST          Ollama address (usually http://localhost:11434)
  OPENAI_API_KEY       OpenAI API key for narratives
`)
	}

	flag.Parse()

	// Merge short and long forms.
	if *analyzeLong != "" {
		*analyze = *analyzeLong
	}
	if *participantsLong != "" {
		*participants = *participantsLong
	}
	if *serveLong {
		*serve = true
	}
	if *userLong != "" {
		*user = *userLong
	}

	mode := 0
	if *analyze != "" {
		mode++
	}
	if *participants != "" {
		mode++
	}
	if *serve {
		mode++
	}

	if mode == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if mode > 1 {
		fmt.Fprintln(os.Stderr, "panion: specify only one of -a, -l, -s")
		os.Exit(2)
	}

	godotenv.Load()

	var err error
	switch {
	case *analyze != "":
		err = runAnalyze(*analyze, *user)
	case *participants != "":
		err = runParticipants(*participants)
	case *serve:
		err = runServe(*addr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "panion: %v\n", err)
		os.Exit(1)
	}
}

// --- Analyze mode ---

func runAnalyze(path, userName string) error {
	messages, err := parseExport(path)
	if err != nil {
		return err
	}

	engine := analytics.New(messages, userName)
	snapshot := engine.Generate()

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	fmt.Println(string(out))

	if engine.Confidence() == analytics.ConfidenceLow {
		fmt.Fprintf(os.Stderr, "panion: owner inferred as %q (low confidence); rerun with -u to override\n",
			engine.CurrentUser())
	}
	return nil
}

// --- Participants mode ---

func runParticipants(path string) error {
	messages, err := parseExport(path)
	if err != nil {
		return err
	}

	for _, name := range analytics.New(messages, "").Participants() {
		fmt.Println(name)
	}
	return nil
}

func parseExport(path string) ([]model.Message, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	messages := parser.Parse(string(content))
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages found in %s", path)
	}
	return messages, nil
}

// --- Serve mode ---

func runServe(addrOverride string) error {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Default()
	if addrOverride != "" {
		cfg.Addr = addrOverride
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Init(); err != nil {
		return err
	}

	narrator, err := narrative.NewFromEnv()
	if err != nil {
		return err
	}
	if narrator == nil {
		log.Info().Msg("no narrative provider configured")
	} else {
		log.Info().Str("model", narrator.Model()).Msg("narrative provider ready")
	}

	manager := live.NewManager(cfg, st, log)

	srv := server.New(st, liveAdapter{manager}, narratorOrNil(narrator), log)
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve on %s: %w", cfg.Addr, err)
	}
	return nil
}

// narratorOrNil keeps a nil *narrative.Narrator from becoming a non-nil
// interface value.
func narratorOrNil(n *narrative.Narrator) server.Narrator {
	if n == nil {
		return nil
	}
	return n
}

// liveAdapter maps the concrete session manager onto the narrower interface
// the HTTP layer consumes.
type liveAdapter struct {
	m *live.Manager
}

func (a liveAdapter) Connect(ctx context.Context, sessionID, couponCode string) (server.LiveSession, error) {
	session, err := a.m.Connect(ctx, sessionID, couponCode)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (a liveAdapter) Session(sessionID string) (server.LiveSession, bool) {
	session := a.m.Session(sessionID)
	if session == nil {
		return nil, false
	}
	return session, true
}

func (a liveAdapter) SessionForCoupon(couponCode string) (string, server.LiveSession, bool) {
	sessionID, session := a.m.SessionForCoupon(couponCode)
	if session == nil {
		return "", nil, false
	}
	return sessionID, session, true
}

func (a liveAdapter) Disconnect(sessionID string) {
	a.m.Disconnect(sessionID)
}

func (a liveAdapter) GenerateNow(sessionID string) (string, error) {
	return a.m.GenerateNow(sessionID)
}
