package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/buildinfo"
	"github.com/dmitrijs2005/keeper/internal/client/client"
	"github.com/dmitrijs2005/keeper/internal/flagx"
	"github.com/dmitrijs2005/keeper/internal/server"
	"github.com/dmitrijs2005/keeper/internal/server/config"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const usage = `usage:
  keeperctl account add [-handle h] [-display-name n] [server flags]
  keeperctl token issue [-handle h] [server flags]
  keeperctl login [-server addr] [-handle h]
  keeperctl version
`

var errUsage = errors.New("bad usage")

type command struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
	args   []string
}

// Run executes one keeperctl command and returns the process exit code.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	c := &command{in: in, reader: bufio.NewReader(in), out: out, errOut: errOut}

	words, rest := splitCommand(args)
	c.args = rest

	var err error
	switch strings.Join(words, " ") {
	case "account add":
		err = c.accountAdd(ctx)
	case "token issue":
		err = c.tokenIssue(ctx)
	case "login":
		err = c.login(ctx)
	case "version":
		buildinfo.PrintBuildData(out)
	default:
		err = errUsage
	}

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage):
		fmt.Fprint(errOut, usage)
		return ExitUsage
	default:
		fmt.Fprintln(errOut, "error:", err)
		return ExitFailure
	}
}

// splitCommand separates the leading command words from the flags.
func splitCommand(args []string) (words, rest []string) {
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			return words, args[i:]
		}
		words = append(words, a)
	}
	return words, nil
}

// flags parses the command's own flags out of c.args, leaving the server
// config flags for config.LoadConfig.
func (c *command) flags(define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet("keeperctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	define(fs)

	var names []string
	fs.VisitAll(func(f *flag.Flag) { names = append(names, "-"+f.Name, "--"+f.Name) })

	if err := fs.Parse(flagx.FilterArgs(c.args, names)); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (c *command) handle(h string) (string, error) {
	if h != "" {
		return h, nil
	}
	return GetSimpleText(c.reader, "Enter handle", c.out)
}

func (c *command) openApp(ctx context.Context) (*server.App, error) {
	cfg, err := config.LoadConfig(c.args)
	if err != nil {
		return nil, err
	}
	return server.NewApp(ctx, cfg, server.WithConsole(c.errOut))
}

func (c *command) accountAdd(ctx context.Context) error {
	var handle, name string
	if err := c.flags(func(fs *flag.FlagSet) {
		fs.StringVar(&handle, "handle", "", "account handle")
		fs.StringVar(&name, "display-name", "", "display name")
	}); err != nil {
		return err
	}

	handle, err := c.handle(handle)
	if err != nil {
		return err
	}
	password, err := GetPassword(c.in, c.reader, c.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	app, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var display *string
	if name != "" {
		display = &name
	}
	acc, err := app.Accounts().Create(ctx, handle, display, string(password))
	if err != nil {
		return reported(ctx, app, err)
	}

	fmt.Fprintf(c.out, "created account %s (%s)\n", acc.ID, acc.Handle)
	return nil
}

func (c *command) tokenIssue(ctx context.Context) error {
	var handle string
	if err := c.flags(func(fs *flag.FlagSet) {
		fs.StringVar(&handle, "handle", "", "account handle")
	}); err != nil {
		return err
	}

	handle, err := c.handle(handle)
	if err != nil {
		return err
	}

	app, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	token, err := app.Accounts().IssueToken(ctx, handle)
	if err != nil {
		return reported(ctx, app, err)
	}

	fmt.Fprintln(c.out, token)
	return nil
}

func (c *command) login(ctx context.Context) error {
	var addr, handle string
	if err := c.flags(func(fs *flag.FlagSet) {
		fs.StringVar(&addr, "server", "127.0.0.1:50051", "gRPC endpoint")
		fs.StringVar(&handle, "handle", "", "account handle")
	}); err != nil {
		return err
	}

	handle, err := c.handle(handle)
	if err != nil {
		return err
	}
	password, err := GetPassword(c.in, c.reader, c.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	kc, err := client.NewKeeperClient(addr)
	if err != nil {
		return err
	}
	defer kc.Close()

	res, err := kc.Login(ctx, handle, string(password))
	if err != nil {
		return err
	}

	switch r := res.(type) {
	case api.LoginSuccess:
		name := "-"
		if r.Account.Name != nil {
			name = *r.Account.Name
		}
		fmt.Fprintf(c.out, "logged in: id=%s name=%s\n", r.Account.ID, name)
		return nil
	case api.LoginFailed:
		return apperr.ErrCredentialsInvalid
	}
	return fmt.Errorf("%w: %T", client.ErrUnexpectedReply, res)
}

// reported logs server-side failures the way the edges do and returns err
// for display. Only the public message is printed.
func reported(ctx context.Context, app *server.App, err error) error {
	e, _ := apperr.Classify(err)
	app.Renderer().LogIfNotable(ctx, e)
	return e
}
