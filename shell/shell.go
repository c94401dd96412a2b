package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/blockfall/blockhint/ai"
	"github.com/blockfall/blockhint/config"
	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/move"
	"github.com/blockfall/blockhint/piece"
	"github.com/blockfall/blockhint/stats"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoField           = errors.New("please load a level first with the `load` command")
	errNoMoves           = errors.New("please generate moves first with the `gen` command")
	errNoBlueprint       = errors.New("the build objective needs a level with a blueprint")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// isOption is true for -name. Negative numbers are arguments.
func isOption(s string) bool {
	return len(s) > 1 && s[0] == '-' && !unicode.IsDigit(rune(s[1]))
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if !isOption(fields[i]) {
			args = append(args, fields[i])
			continue
		}
		if i+1 >= len(fields) || isOption(fields[i+1]) {
			return nil, errWrongOptionSyntax
		}
		options[fields[i][1:]] = fields[i+1]
		i++
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer
	cfg *config.Config

	levelName string
	field     *field.Field
	evaluator *ai.Evaluator
	objective ai.Objective
	piece     *piece.Piece
	rotation  piece.Rotation
	moves     []*move.Move
	preview   *field.Field

	// bestScores follows the best move of every `gen` in this session.
	bestScores stats.Statistic
	rng        *frand.RNG
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mblockhint>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{
		out:   out,
		cfg:   cfg,
		piece: piece.Get(piece.T),
		rng:   frand.New(),
	}
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "load":
		return sc.load(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "piece", "p":
		return sc.setPiece(cmd)
	case "objective", "obj":
		return sc.setObjective(cmd)
	case "garbage":
		return sc.garbage(cmd)
	case "gen", "g":
		return sc.gen(cmd)
	case "path":
		return sc.path(cmd)
	case "reach":
		return sc.reach(cmd)
	case "stats":
		return sc.stats(cmd)
	case "hist":
		return sc.hist(cmd)
	case "compare":
		return sc.compare(cmd)
	case "help":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single line, as given on the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return
	}
	if cmd.cmd == "exit" {
		sig <- syscall.SIGINT
		return
	}
	resp, err := sc.handle(cmd)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}
