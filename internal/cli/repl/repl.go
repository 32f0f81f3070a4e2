package repl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	httpclient "github.com/amylase/rime-judge/internal/cli/http"

	"github.com/google/shlex"
)

// Session holds REPL state.
type Session struct {
	client       *httpclient.Client
	prettyJSON   bool
	outputWriter *bufio.Writer
}

func New(client *httpclient.Client, prettyJSON bool) *Session {
	return &Session{
		client:       client,
		prettyJSON:   prettyJSON,
		outputWriter: bufio.NewWriter(os.Stdout),
	}
}

func (s *Session) Run(ctx context.Context) {
	reader := bufio.NewReader(os.Stdin)
	for {
		_, _ = s.outputWriter.WriteString("rime> ")
		_ = s.outputWriter.Flush()
		line, err := reader.ReadString('\n')
		if err != nil {
			s.printLine("read input failed: %v", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s.handleSystemCommand(line) {
			continue
		}

		if err := s.handleCommand(ctx, line); err != nil {
			s.printLine("error: %v", err)
		}
	}
}

func (s *Session) handleSystemCommand(line string) bool {
	switch line {
	case "exit", "quit":
		s.printLine("bye")
		os.Exit(0)
	case "help":
		s.printHelp()
		return true
	}
	if strings.HasPrefix(line, "set ") {
		s.handleSet(strings.TrimSpace(strings.TrimPrefix(line, "set ")))
		return true
	}
	if strings.HasPrefix(line, "show ") {
		s.handleShow(strings.TrimSpace(strings.TrimPrefix(line, "show ")))
		return true
	}
	return false
}

func (s *Session) handleSet(args string) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		s.printLine("usage: set base|timeout")
		return
	}
	switch parts[0] {
	case "base":
		if len(parts) < 2 {
			s.printLine("usage: set base http://127.0.0.1:8080")
			return
		}
		s.client.SetBaseURL(parts[1])
		s.printLine("base set to %s", parts[1])
	case "timeout":
		if len(parts) < 2 {
			s.printLine("usage: set timeout 10s")
			return
		}
		dur, err := time.ParseDuration(parts[1])
		if err != nil {
			s.printLine("invalid duration: %v", err)
			return
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	default:
		s.printLine("unknown set command")
	}
}

func (s *Session) handleShow(args string) {
	switch args {
	case "config":
		s.printLine("base: %s", s.client.BaseURL())
	default:
		s.printLine("usage: show config")
	}
}

func (s *Session) handleCommand(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case "standings":
		return s.get(ctx, "/api/standings")
	case "problems":
		return s.get(ctx, "/api/problems")
	case "languages":
		return s.get(ctx, "/api/languages")
	case "submissions":
		path := "/api/submissions"
		if len(tokens) > 1 {
			path += "?contestant_id=" + url.QueryEscape(tokens[1])
		}
		return s.get(ctx, path)
	case "submission":
		if len(tokens) < 2 {
			return fmt.Errorf("usage: submission <id>")
		}
		id, err := parseID(tokens[1])
		if err != nil {
			return err
		}
		return s.get(ctx, fmt.Sprintf("/api/submissions/%d", id))
	case "status":
		if len(tokens) < 2 {
			return fmt.Errorf("usage: status <id>")
		}
		id, err := parseID(tokens[1])
		if err != nil {
			return err
		}
		return s.get(ctx, fmt.Sprintf("/api/submissions/%d/status", id))
	case "submit":
		return s.handleSubmit(ctx, tokens[1:])
	default:
		return fmt.Errorf("unknown command: %s", tokens[0])
	}
}

func (s *Session) handleSubmit(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: submit <contestant> <problem> <language> <source_file>")
	}
	source, err := os.ReadFile(args[3])
	if err != nil {
		return fmt.Errorf("read source file failed: %w", err)
	}
	body, err := json.Marshal(map[string]string{
		"contestant_id": args[0],
		"problem_id":    args[1],
		"language":      args[2],
		"source":        string(source),
	})
	if err != nil {
		return fmt.Errorf("encode request failed: %w", err)
	}
	resp, err := s.client.Do(ctx, "POST", "/api/submissions", body)
	if err != nil {
		return err
	}
	s.renderResponse(resp)
	return nil
}

func (s *Session) get(ctx context.Context, path string) error {
	resp, err := s.client.Do(ctx, "GET", path, nil)
	if err != nil {
		return err
	}
	s.renderResponse(resp)
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid submission id: %s", raw)
	}
	return id, nil
}

func (s *Session) renderResponse(resp httpclient.ResponseInfo) {
	s.printLine("HTTP %d (%s)", resp.StatusCode, resp.Duration)
	if len(resp.Body) == 0 {
		return
	}
	if s.prettyJSON {
		var raw interface{}
		if err := json.Unmarshal(resp.Body, &raw); err == nil {
			formatted, _ := json.MarshalIndent(raw, "", "  ")
			s.printLine("%s", string(formatted))
			return
		}
	}
	s.printLine("%s", string(resp.Body))
}

func (s *Session) printHelp() {
	s.printLine("commands:")
	s.printLine("  standings")
	s.printLine("  submissions [contestant]")
	s.printLine("  submission <id>")
	s.printLine("  status <id>")
	s.printLine("  problems")
	s.printLine("  languages")
	s.printLine("  submit <contestant> <problem> <language> <source_file>")
	s.printLine("system: help | exit | set base|timeout | show config")
	s.printLine("examples:")
	s.printLine("  submit alice aplusb CPP17 ./main.cpp")
	s.printLine("  submissions alice")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.outputWriter, format+"\n", args...)
	_ = s.outputWriter.Flush()
}
