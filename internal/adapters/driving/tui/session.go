package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/loader"
	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driving"
)

type commandKind int

const (
	commandAsk commandKind = iota
	commandProcess
	commandSummary
	commandNode
	commandSummarize
	commandMode
	commandClear
	commandHelp
	commandQuit
)

type command struct {
	kind commandKind
	arg  string
}

type slashCommand struct {
	kind     commandKind
	usage    string
	needsArg bool
}

var slashCommands = map[string]slashCommand{
	"/process":   {commandProcess, "/process <file|url>", true},
	"/summary":   {commandSummary, "/summary <topic>", true},
	"/node":      {commandNode, "/node <node-id>", true},
	"/summarize": {commandSummarize, "/summarize <file>", true},
	"/mode":      {commandMode, "/mode [online|offline]", false},
	"/clear":     {commandClear, "/clear", false},
	"/help":      {commandHelp, "/help", false},
	"/quit":      {commandQuit, "/quit", false},
}

const helpText = `Type a question to chat about the processed document.

Commands:
  /process <file|url>     process a PDF (or a URL when online)
  /summary <topic>        summarise a topic
  /node <node-id>         summarise a graph node
  /summarize <file>       summarise a whole document
  /mode [online|offline]  show or switch the mode
  /clear                  clear the transcript
  /quit                   exit`

// parseCommand turns an input line into a command. Lines that do not
// start with a slash are questions.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, ErrEmptyInput
	}
	if !strings.HasPrefix(line, "/") {
		return command{kind: commandAsk, arg: line}, nil
	}

	name, arg, _ := strings.Cut(line, " ")
	sc, ok := slashCommands[strings.ToLower(name)]
	if !ok {
		return command{}, fmt.Errorf("unknown command %s, try /help", name)
	}
	arg = strings.TrimSpace(arg)
	if sc.needsArg && arg == "" {
		return command{}, errUsage(sc.usage)
	}
	return command{kind: sc.kind, arg: arg}, nil
}

// Session holds the state of one interactive chat: its conversation id
// and the most recently processed document.
type Session struct {
	explorer       driving.Explorer
	settings       driving.SettingsService
	conversationID string

	mu    sync.Mutex
	title string
	graph *domain.GraphDescription
}

// NewSession starts a session with a fresh conversation id.
func NewSession(ports *Ports) (*Session, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		explorer:       ports.Explorer,
		settings:       ports.Settings,
		conversationID: uuid.NewString(),
	}, nil
}

// ConversationID returns the id questions are asked under.
func (s *Session) ConversationID() string {
	return s.conversationID
}

// Title returns the title of the last processed document.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Graph returns the graph of the last processed document.
func (s *Session) Graph() *domain.GraphDescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Online reports the configured mode.
func (s *Session) Online() bool {
	return s.explorer.Mode().IsOnline()
}

// Route returns the backend the next call would use.
func (s *Session) Route(ctx context.Context) domain.Route {
	return s.explorer.Route(ctx)
}

// SetMode persists and applies a mode.
func (s *Session) SetMode(online bool) error {
	mode := domain.ModeOffline
	if online {
		mode = domain.ModeOnline
	}
	if s.settings != nil {
		if err := s.settings.SetMode(mode); err != nil {
			return err
		}
	}
	s.explorer.SetMode(online)
	return nil
}

// run executes cmd and returns markdown output.
func (s *Session) run(ctx context.Context, cmd command) (string, error) {
	switch cmd.kind {
	case commandAsk:
		result, err := s.explorer.AskQuestion(ctx, s.conversationID, cmd.arg)
		if err != nil {
			return "", err
		}
		return formatAnswer(result), nil

	case commandProcess:
		src, err := loader.Load(cmd.arg)
		if err != nil {
			return "", err
		}
		result, err := s.explorer.ProcessDocument(ctx, src)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.title = result.Title
		s.graph = result.GraphData
		s.mu.Unlock()
		return formatProcessed(result), nil

	case commandSummary:
		return s.summary(ctx, domain.SummaryRequest{Topic: cmd.arg})

	case commandNode:
		graph := s.Graph()
		if _, ok := graph.Node(cmd.arg); !ok {
			return "", fmt.Errorf("no node %q in the current graph", cmd.arg)
		}
		return s.summary(ctx, domain.SummaryRequest{ClickedNodeID: cmd.arg, Graph: graph})

	case commandSummarize:
		src, err := loader.Load(cmd.arg)
		if err != nil {
			return "", err
		}
		result, err := s.explorer.SummarizeWholeDocument(ctx, src)
		if err != nil {
			return "", err
		}
		return result.Summary, nil

	case commandMode:
		if cmd.arg != "" {
			mode, ok := domain.ParseMode(strings.ToLower(cmd.arg))
			if !ok {
				return "", errUsage(slashCommands["/mode"].usage)
			}
			if err := s.SetMode(mode.IsOnline()); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Mode: **%s** (next call: %s)", s.explorer.Mode(), s.Route(ctx)), nil

	case commandHelp:
		return "```\n" + helpText + "\n```", nil

	case commandClear, commandQuit:
		return "", nil
	}
	return "", fmt.Errorf("unhandled command %d", cmd.kind)
}

func (s *Session) summary(ctx context.Context, req domain.SummaryRequest) (string, error) {
	result, err := s.explorer.GetSummary(ctx, req)
	if err != nil {
		return "", err
	}
	return result.Summary, nil
}

func formatAnswer(result *domain.AskResult) string {
	if len(result.Sources) == 0 {
		return result.Answer
	}
	var b strings.Builder
	b.WriteString(result.Answer)
	b.WriteString("\n\nSources:\n")
	for _, src := range result.Sources {
		fmt.Fprintf(&b, "- %s\n", src)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatProcessed(result *domain.ProcessResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed **%s** (`%s`)", result.Title, result.DocumentID)
	if result.GraphData != nil && len(result.GraphData.Nodes) > 0 {
		b.WriteString("\n\nTopics:\n")
		for _, n := range result.GraphData.Nodes {
			fmt.Fprintf(&b, "- `%s` %s\n", n.ID, n.Label)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
